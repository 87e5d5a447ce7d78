package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Source resolves the collections a Join reads from during in-memory evaluation.
type Source interface {
	Collection(name string) []bson.M
}

type Collections map[string][]bson.M

func (c Collections) Collection(name string) []bson.M {
	return c[name]
}

// Evaluate runs p over docs without a database. Input documents are never
// mutated.
func (p Pipeline) Evaluate(docs []bson.M, src Source) ([]bson.M, error) {
	if src == nil {
		src = Collections{}
	}
	out := docs
	for i, stage := range p {
		var err error
		out, err = stage.apply(out, src)
		if err != nil {
			return nil, fmt.Errorf("stage %d (%s): %w", i, stage.Kind(), err)
		}
	}
	if out == nil {
		out = []bson.M{}
	}
	return out, nil
}

func (f Filter) apply(docs []bson.M, _ Source) ([]bson.M, error) {
	out := make([]bson.M, 0, len(docs))
	for _, doc := range docs {
		ok, err := f.matches(doc)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (f Filter) matches(doc bson.M) (bool, error) {
	for _, c := range f.Conditions {
		ok, err := c.matches(doc)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func (c Condition) matches(doc bson.M) (bool, error) {
	value, found := resolve(doc, c.Field)
	switch c.Op {
	case OpEq:
		if !found {
			return c.Value == nil, nil
		}
		return matchesAny(value, func(v any) bool { return equal(v, c.Value) }), nil
	case OpNe:
		if !found {
			return c.Value != nil, nil
		}
		return !matchesAny(value, func(v any) bool { return equal(v, c.Value) }), nil
	case OpPresent:
		return found && value != nil, nil
	case OpIn:
		candidates, ok := asArray(c.Value)
		if !ok {
			return false, fmt.Errorf("$in on %q needs an array", c.Field)
		}
		if !found {
			return false, nil
		}
		return matchesAny(value, func(v any) bool {
			for _, candidate := range candidates {
				if equal(v, candidate) {
					return true
				}
			}
			return false
		}), nil
	case OpGt, OpGte, OpLt, OpLte:
		if !found {
			return false, nil
		}
		return matchesAny(value, func(v any) bool {
			if typeRank(v) != typeRank(c.Value) {
				return false
			}
			cmp := compare(v, c.Value)
			switch c.Op {
			case OpGt:
				return cmp > 0
			case OpGte:
				return cmp >= 0
			case OpLt:
				return cmp < 0
			}
			return cmp <= 0
		}), nil
	}
	return false, fmt.Errorf("unknown operator %d", c.Op)
}

func (j Join) apply(docs []bson.M, src Source) ([]bson.M, error) {
	foreign := src.Collection(j.From)
	out := make([]bson.M, 0, len(docs))
	for _, doc := range docs {
		local, found := resolve(doc, j.LocalField)
		if !found {
			local = nil
		}
		matched := make([]bson.M, 0)
		for _, candidate := range foreign {
			key, ok := resolve(candidate, j.ForeignField)
			if !ok {
				key = nil
			}
			if joinKeyMatches(local, key) {
				matched = append(matched, candidate)
			}
		}
		if len(j.Pipeline) > 0 {
			var err error
			matched, err = j.Pipeline.Evaluate(matched, src)
			if err != nil {
				return nil, err
			}
		}
		attached := make(bson.A, 0, len(matched))
		for _, m := range matched {
			attached = append(attached, m)
		}
		next := cloneDoc(doc)
		next[j.As] = attached
		out = append(out, next)
	}
	return out, nil
}

// joinKeyMatches mirrors $lookup equality: either side may be an array, in
// which case any element matching is enough.
func joinKeyMatches(local, foreign any) bool {
	return matchesAny(local, func(l any) bool {
		return matchesAny(foreign, func(f any) bool { return equal(l, f) })
	})
}

func (c Collapse) apply(docs []bson.M, _ Source) ([]bson.M, error) {
	out := make([]bson.M, 0, len(docs))
	for _, doc := range docs {
		next := cloneDoc(doc)
		if arr, ok := asArray(doc[c.Field]); ok {
			if len(arr) > 0 {
				next[c.Field] = arr[0]
			} else {
				delete(next, c.Field)
			}
		}
		out = append(out, next)
	}
	return out, nil
}

func (d Derive) apply(docs []bson.M, _ Source) ([]bson.M, error) {
	out := make([]bson.M, 0, len(docs))
	for _, doc := range docs {
		next := cloneDoc(doc)
		value, found := resolve(doc, strings.TrimPrefix(d.ref(), "$"))
		arr, isArray := asArray(value)
		switch d.Op {
		case DeriveCount:
			next[d.Field] = int32(0)
			if found && isArray {
				next[d.Field] = int32(len(arr))
			}
		case DeriveMembership:
			member := false
			if d.Viewer != nil && found && isArray {
				for _, elem := range arr {
					if equal(elem, *d.Viewer) {
						member = true
						break
					}
				}
			}
			next[d.Field] = member
		case DeriveSum:
			if !found {
				next[d.Field] = int32(0)
				break
			}
			if !isArray {
				arr = []any{value}
			}
			next[d.Field] = sum(arr)
		case DeriveFirst:
			switch {
			case !found:
				next[d.Field] = nil
			case isArray && len(arr) > 0:
				next[d.Field] = arr[0]
			case isArray:
				delete(next, d.Field)
			default:
				next[d.Field] = value
			}
		}
		out = append(out, next)
	}
	return out, nil
}

// sum adds the numeric values and ignores the rest, like $sum.
func sum(values []any) any {
	var total float64
	integral := true
	for _, v := range values {
		f, ok := toFloat(v)
		if !ok {
			continue
		}
		if !isInteger(v) {
			integral = false
		}
		total += f
	}
	if integral {
		return int64(total)
	}
	return total
}

func (s Sort) apply(docs []bson.M, _ Source) ([]bson.M, error) {
	out := append([]bson.M{}, docs...)
	keys := s.keys()
	sort.SliceStable(out, func(i, j int) bool {
		for _, k := range keys {
			a, _ := resolve(out[i], k.Field)
			b, _ := resolve(out[j], k.Field)
			cmp := compare(a, b)
			if cmp == 0 {
				continue
			}
			if k.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
	return out, nil
}

func (p Project) apply(docs []bson.M, _ Source) ([]bson.M, error) {
	fields := p.visible()
	out := make([]bson.M, 0, len(docs))
	for _, doc := range docs {
		next := bson.M{}
		if id, ok := doc["_id"]; ok && !p.ExcludeID && !p.replacesID() {
			next["_id"] = id
		}
		for _, f := range fields {
			if f.From != "" {
				if v, ok := resolve(doc, f.From); ok {
					next[f.Name] = v
				}
				continue
			}
			include(next, doc, strings.Split(f.Name, "."))
		}
		out = append(out, next)
	}
	return out, nil
}

// include copies one dotted path from src into dst, descending through
// embedded documents and arrays of documents.
func include(dst bson.M, src bson.M, parts []string) {
	v, ok := src[parts[0]]
	if !ok {
		return
	}
	if len(parts) == 1 {
		dst[parts[0]] = v
		return
	}
	if sub, ok := docOf(v); ok {
		child, _ := dst[parts[0]].(bson.M)
		if child == nil {
			child = bson.M{}
			dst[parts[0]] = child
		}
		include(child, sub, parts[1:])
		return
	}
	if arr, ok := asArray(v); ok {
		existing, _ := dst[parts[0]].(bson.A)
		if existing == nil {
			existing = bson.A{}
			for _, elem := range arr {
				if _, ok := docOf(elem); ok {
					existing = append(existing, bson.M{})
				}
			}
			dst[parts[0]] = existing
		}
		i := 0
		for _, elem := range arr {
			sub, ok := docOf(elem)
			if !ok {
				continue
			}
			include(existing[i].(bson.M), sub, parts[1:])
			i++
		}
	}
}

func (s Skip) apply(docs []bson.M, _ Source) ([]bson.M, error) {
	if s.N < 0 {
		return nil, fmt.Errorf("negative skip %d", s.N)
	}
	if s.N >= int64(len(docs)) {
		return []bson.M{}, nil
	}
	return docs[s.N:], nil
}

func (l Limit) apply(docs []bson.M, _ Source) ([]bson.M, error) {
	if l.N < 1 {
		return nil, fmt.Errorf("limit must be positive, got %d", l.N)
	}
	if l.N >= int64(len(docs)) {
		return docs, nil
	}
	return docs[:l.N], nil
}

func (g Group) apply(docs []bson.M, _ Source) ([]bson.M, error) {
	type bucket struct {
		key  any
		docs []bson.M
	}
	var buckets []*bucket
	for _, doc := range docs {
		var key any
		if g.Key != "" {
			key, _ = resolve(doc, g.Key)
		}
		var target *bucket
		for _, b := range buckets {
			if (b.key == nil && key == nil) || equal(b.key, key) {
				target = b
				break
			}
		}
		if target == nil {
			target = &bucket{key: key}
			buckets = append(buckets, target)
		}
		target.docs = append(target.docs, doc)
	}
	out := make([]bson.M, 0, len(buckets))
	for _, b := range buckets {
		next := bson.M{"_id": b.key}
		for _, acc := range g.Accumulators {
			if acc.Op == AccCount {
				next[acc.Field] = int32(len(b.docs))
				continue
			}
			values := make([]any, 0, len(b.docs))
			for _, doc := range b.docs {
				if v, ok := resolve(doc, acc.Path); ok {
					values = append(values, v)
				}
			}
			next[acc.Field] = sum(values)
		}
		out = append(out, next)
	}
	return out, nil
}

func (f Facet) apply(docs []bson.M, src Source) ([]bson.M, error) {
	result := bson.M{}
	for _, b := range f.Branches {
		branch, err := b.Pipeline.Evaluate(docs, src)
		if err != nil {
			return nil, err
		}
		attached := make(bson.A, 0, len(branch))
		for _, d := range branch {
			attached = append(attached, d)
		}
		result[b.Name] = attached
	}
	return []bson.M{result}, nil
}

func (c CountInto) apply(docs []bson.M, _ Source) ([]bson.M, error) {
	if len(docs) == 0 {
		return []bson.M{}, nil
	}
	return []bson.M{{c.Field: int32(len(docs))}}, nil
}
