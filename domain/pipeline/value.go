package pipeline

import (
	"bytes"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func docOf(v any) (bson.M, bool) {
	switch t := v.(type) {
	case bson.M:
		return t, true
	case map[string]any:
		return bson.M(t), true
	case bson.D:
		m := make(bson.M, len(t))
		for _, e := range t {
			m[e.Key] = e.Value
		}
		return m, true
	}
	return nil, false
}

func asArray(v any) ([]any, bool) {
	switch t := v.(type) {
	case bson.A:
		return t, true
	case []any:
		return t, true
	case []bson.M:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out, true
	case []bson.ObjectID:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out, true
	case []string:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out, true
	}
	return nil, false
}

// resolve walks a dotted path. Arrays of documents fan out, so "likes.likedBy"
// yields every liker, matching MongoDB field path semantics.
func resolve(v any, path string) (any, bool) {
	if path == "" {
		return v, true
	}
	return resolveParts(v, strings.Split(path, "."))
}

func resolveParts(v any, parts []string) (any, bool) {
	if len(parts) == 0 {
		return v, true
	}
	if doc, ok := docOf(v); ok {
		next, ok := doc[parts[0]]
		if !ok {
			return nil, false
		}
		return resolveParts(next, parts[1:])
	}
	if arr, ok := asArray(v); ok {
		out := bson.A{}
		for _, elem := range arr {
			if r, ok := resolveParts(elem, parts); ok {
				out = append(out, r)
			}
		}
		return out, true
	}
	return nil, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func isInteger(v any) bool {
	switch v.(type) {
	case int, int32, int64:
		return true
	}
	return false
}

// typeRank follows the BSON comparison order for the types views use.
func typeRank(v any) int {
	if v == nil {
		return 1
	}
	if _, ok := toFloat(v); ok {
		return 2
	}
	if _, ok := docOf(v); ok {
		return 4
	}
	if _, ok := asArray(v); ok {
		return 5
	}
	switch v.(type) {
	case string:
		return 3
	case bson.ObjectID:
		return 7
	case bool:
		return 8
	case time.Time, bson.DateTime:
		return 9
	}
	return 10
}

func compare(a, b any) int {
	ra, rb := typeRank(a), typeRank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	switch ra {
	case 2:
		fa, _ := toFloat(a)
		fb, _ := toFloat(b)
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	case 3:
		return strings.Compare(a.(string), b.(string))
	case 7:
		ia, ib := a.(bson.ObjectID), b.(bson.ObjectID)
		return bytes.Compare(ia[:], ib[:])
	case 8:
		ba, bb := a.(bool), b.(bool)
		switch {
		case ba == bb:
			return 0
		case !ba:
			return -1
		}
		return 1
	case 9:
		ta, tb := asTime(a), asTime(b)
		return ta.Compare(tb)
	}
	return 0
}

func asTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case bson.DateTime:
		return t.Time()
	}
	return time.Time{}
}

func equal(a, b any) bool {
	if typeRank(a) != typeRank(b) {
		return false
	}
	switch typeRank(a) {
	case 4, 5, 10:
		return false
	}
	return compare(a, b) == 0
}

// matchesAny applies pred to v and, when v is an array, to each element.
func matchesAny(v any, pred func(any) bool) bool {
	if pred(v) {
		return true
	}
	if arr, ok := asArray(v); ok {
		for _, elem := range arr {
			if pred(elem) {
				return true
			}
		}
	}
	return false
}

func cloneDoc(doc bson.M) bson.M {
	out := make(bson.M, len(doc)+1)
	for k, v := range doc {
		out[k] = v
	}
	return out
}
