// Package pipeline models read-side views as ordered lists of typed stages.
// A Pipeline compiles to a MongoDB aggregation and can also be evaluated in
// memory over plain documents, which is how views are unit tested.
package pipeline

import (
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Kind int

const (
	KindFilter Kind = iota
	KindJoin
	KindCollapse
	KindDerive
	KindSort
	KindProject
	KindSkip
	KindLimit
	KindGroup
	KindFacet
	KindCount
)

func (k Kind) String() string {
	return [...]string{"filter", "join", "collapse", "derive", "sort", "project", "skip", "limit", "group", "facet", "count"}[k]
}

type Stage interface {
	Kind() Kind
	Compile() bson.D
	apply(docs []bson.M, src Source) ([]bson.M, error)
}

// Pipeline is an ordered, immutable list of stages.
type Pipeline []Stage

func New(stages ...Stage) Pipeline {
	return Pipeline(stages)
}

// Then returns a new pipeline with stages appended; p is left untouched.
func (p Pipeline) Then(stages ...Stage) Pipeline {
	out := make(Pipeline, 0, len(p)+len(stages))
	out = append(out, p...)
	return append(out, stages...)
}

func (p Pipeline) Compile() []bson.D {
	out := make([]bson.D, 0, len(p))
	for _, stage := range p {
		out = append(out, stage.Compile())
	}
	return out
}

func (p Pipeline) Kinds() []Kind {
	kinds := make([]Kind, 0, len(p))
	for _, stage := range p {
		kinds = append(kinds, stage.Kind())
	}
	return kinds
}

// Filter

type Op int

const (
	OpEq Op = iota
	OpNe
	OpIn
	OpGt
	OpGte
	OpLt
	OpLte
	OpPresent
)

type Condition struct {
	Field string
	Op    Op
	Value any
}

func Eq(field string, value any) Condition  { return Condition{Field: field, Op: OpEq, Value: value} }
func Ne(field string, value any) Condition  { return Condition{Field: field, Op: OpNe, Value: value} }
func Gt(field string, value any) Condition  { return Condition{Field: field, Op: OpGt, Value: value} }
func Gte(field string, value any) Condition { return Condition{Field: field, Op: OpGte, Value: value} }
func Lt(field string, value any) Condition  { return Condition{Field: field, Op: OpLt, Value: value} }
func Lte(field string, value any) Condition { return Condition{Field: field, Op: OpLte, Value: value} }

// Present matches documents where field exists and is not null.
func Present(field string) Condition { return Condition{Field: field, Op: OpPresent} }

func In(field string, values ...any) Condition {
	return Condition{Field: field, Op: OpIn, Value: bson.A(values)}
}

func InIDs(field string, ids []bson.ObjectID) Condition {
	values := make(bson.A, 0, len(ids))
	for _, id := range ids {
		values = append(values, id)
	}
	return Condition{Field: field, Op: OpIn, Value: values}
}

func (c Condition) expr() any {
	switch c.Op {
	case OpNe:
		return bson.D{{Key: "$ne", Value: c.Value}}
	case OpIn:
		return bson.D{{Key: "$in", Value: c.Value}}
	case OpGt:
		return bson.D{{Key: "$gt", Value: c.Value}}
	case OpGte:
		return bson.D{{Key: "$gte", Value: c.Value}}
	case OpLt:
		return bson.D{{Key: "$lt", Value: c.Value}}
	case OpLte:
		return bson.D{{Key: "$lte", Value: c.Value}}
	case OpPresent:
		return bson.D{{Key: "$ne", Value: nil}}
	default:
		return c.Value
	}
}

type Filter struct {
	Conditions []Condition
}

func Match(conditions ...Condition) Filter {
	return Filter{Conditions: conditions}
}

func (Filter) Kind() Kind { return KindFilter }

func (f Filter) Compile() bson.D {
	return bson.D{{Key: "$match", Value: f.Query()}}
}

// Query renders the conditions as a find filter. Repeated fields are
// combined with $and so no condition is silently overwritten.
func (f Filter) Query() bson.D {
	seen := make(map[string]bool, len(f.Conditions))
	repeated := false
	for _, c := range f.Conditions {
		if seen[c.Field] {
			repeated = true
		}
		seen[c.Field] = true
	}
	if !repeated {
		query := bson.D{}
		for _, c := range f.Conditions {
			query = append(query, bson.E{Key: c.Field, Value: c.expr()})
		}
		return query
	}
	and := bson.A{}
	for _, c := range f.Conditions {
		and = append(and, bson.D{{Key: c.Field, Value: c.expr()}})
	}
	return bson.D{{Key: "$and", Value: and}}
}

// Join attaches the rows of From whose ForeignField equals LocalField as the
// sub-sequence As, after running Pipeline over them.
type Join struct {
	From         string
	LocalField   string
	ForeignField string
	As           string
	Pipeline     Pipeline
}

func (Join) Kind() Kind { return KindJoin }

func (j Join) Compile() bson.D {
	lookup := bson.D{
		{Key: "from", Value: j.From},
		{Key: "localField", Value: j.LocalField},
		{Key: "foreignField", Value: j.ForeignField},
	}
	if len(j.Pipeline) > 0 {
		lookup = append(lookup, bson.E{Key: "pipeline", Value: j.Pipeline.Compile()})
	}
	lookup = append(lookup, bson.E{Key: "as", Value: j.As})
	return bson.D{{Key: "$lookup", Value: lookup}}
}

// Collapse replaces the sub-sequence at Field with its first element. An
// empty sub-sequence leaves the field absent.
type Collapse struct {
	Field string
}

func (Collapse) Kind() Kind { return KindCollapse }

func (c Collapse) Compile() bson.D {
	return addFields(c.Field, bson.D{{Key: "$first", Value: "$" + c.Field}})
}

type DeriveOp int

const (
	DeriveCount DeriveOp = iota
	DeriveMembership
	DeriveSum
	DeriveFirst
)

// Derive computes one scalar field from a sub-sequence.
type Derive struct {
	Field  string
	Op     DeriveOp
	Source string
	Path   string
	Viewer *bson.ObjectID
}

// Count derives the size of Source; missing or collapsed-away sources count as zero.
func Count(field, source string) Derive {
	return Derive{Field: field, Op: DeriveCount, Source: source}
}

// Membership derives whether viewer appears at Path inside Source. A nil
// viewer always yields false.
func Membership(field, source, path string, viewer *bson.ObjectID) Derive {
	return Derive{Field: field, Op: DeriveMembership, Source: source, Path: path, Viewer: viewer}
}

func Sum(field, source, path string) Derive {
	return Derive{Field: field, Op: DeriveSum, Source: source, Path: path}
}

func First(field, source, path string) Derive {
	return Derive{Field: field, Op: DeriveFirst, Source: source, Path: path}
}

func (Derive) Kind() Kind { return KindDerive }

func (d Derive) ref() string {
	if d.Path == "" {
		return "$" + d.Source
	}
	return "$" + d.Source + "." + d.Path
}

func (d Derive) Compile() bson.D {
	var expr any
	switch d.Op {
	case DeriveCount:
		expr = bson.D{{Key: "$cond", Value: bson.A{
			bson.D{{Key: "$isArray", Value: d.ref()}},
			bson.D{{Key: "$size", Value: d.ref()}},
			0,
		}}}
	case DeriveMembership:
		if d.Viewer == nil {
			expr = bson.D{{Key: "$literal", Value: false}}
			break
		}
		expr = bson.D{{Key: "$cond", Value: bson.A{
			bson.D{{Key: "$isArray", Value: d.ref()}},
			bson.D{{Key: "$in", Value: bson.A{*d.Viewer, d.ref()}}},
			false,
		}}}
	case DeriveSum:
		expr = bson.D{{Key: "$sum", Value: d.ref()}}
	case DeriveFirst:
		expr = bson.D{{Key: "$first", Value: d.ref()}}
	}
	return addFields(d.Field, expr)
}

func addFields(field string, expr any) bson.D {
	return bson.D{{Key: "$addFields", Value: bson.D{{Key: field, Value: expr}}}}
}

type SortKey struct {
	Field string
	Desc  bool
}

func Asc(field string) SortKey  { return SortKey{Field: field} }
func Desc(field string) SortKey { return SortKey{Field: field, Desc: true} }

// Sort orders documents by Keys. _id is appended as a final tie breaker so
// pagination over equal keys is stable.
type Sort struct {
	Keys []SortKey
}

func SortBy(keys ...SortKey) Sort {
	return Sort{Keys: keys}
}

func (Sort) Kind() Kind { return KindSort }

func (s Sort) keys() []SortKey {
	keys := append([]SortKey{}, s.Keys...)
	for _, k := range keys {
		if k.Field == "_id" {
			return keys
		}
	}
	desc := len(keys) > 0 && keys[len(keys)-1].Desc
	return append(keys, SortKey{Field: "_id", Desc: desc})
}

func (s Sort) Compile() bson.D {
	spec := bson.D{}
	for _, k := range s.keys() {
		dir := 1
		if k.Desc {
			dir = -1
		}
		spec = append(spec, bson.E{Key: k.Field, Value: dir})
	}
	return bson.D{{Key: "$sort", Value: spec}}
}

// Field is one projected output. An empty From keeps Name as is; otherwise
// Name is populated from the From path.
type Field struct {
	Name string
	From string
}

func Keep(names ...string) []Field {
	fields := make([]Field, 0, len(names))
	for _, name := range names {
		fields = append(fields, Field{Name: name})
	}
	return fields
}

func Alias(name, from string) Field {
	return Field{Name: name, From: from}
}

var sensitiveFields = map[string]bool{
	"password":     true,
	"refreshToken": true,
}

// Sensitive reports whether a path ends in a credential field. Such paths
// are dropped from every projection.
func Sensitive(path string) bool {
	if i := strings.LastIndex(path, "."); i >= 0 {
		path = path[i+1:]
	}
	return sensitiveFields[path]
}

// Project is a whitelist of output fields. The base _id is kept unless
// ExcludeID is set or a field named _id replaces it.
type Project struct {
	Fields    []Field
	ExcludeID bool
}

func Select(fields ...Field) Project {
	return Project{Fields: fields}
}

func SelectKeys(names ...string) Project {
	return Project{Fields: Keep(names...)}
}

func (Project) Kind() Kind { return KindProject }

func (p Project) visible() []Field {
	out := make([]Field, 0, len(p.Fields))
	for _, f := range p.Fields {
		if Sensitive(f.Name) || (f.From != "" && Sensitive(f.From)) {
			continue
		}
		out = append(out, f)
	}
	return out
}

func (p Project) replacesID() bool {
	for _, f := range p.Fields {
		if f.Name == "_id" {
			return true
		}
	}
	return false
}

func (p Project) Compile() bson.D {
	spec := bson.D{}
	if p.ExcludeID && !p.replacesID() {
		spec = append(spec, bson.E{Key: "_id", Value: 0})
	}
	for _, f := range p.visible() {
		if f.From == "" {
			spec = append(spec, bson.E{Key: f.Name, Value: 1})
			continue
		}
		spec = append(spec, bson.E{Key: f.Name, Value: "$" + f.From})
	}
	return bson.D{{Key: "$project", Value: spec}}
}

type Skip struct{ N int64 }

func (Skip) Kind() Kind        { return KindSkip }
func (s Skip) Compile() bson.D { return bson.D{{Key: "$skip", Value: s.N}} }

type Limit struct{ N int64 }

func (Limit) Kind() Kind        { return KindLimit }
func (l Limit) Compile() bson.D { return bson.D{{Key: "$limit", Value: l.N}} }

type AccumulatorOp int

const (
	AccSum AccumulatorOp = iota
	AccCount
)

type Accumulator struct {
	Field string
	Op    AccumulatorOp
	Path  string
}

func SumOf(field, path string) Accumulator { return Accumulator{Field: field, Op: AccSum, Path: path} }
func CountAll(field string) Accumulator    { return Accumulator{Field: field, Op: AccCount} }

// Group folds documents sharing Key into one. An empty Key folds everything.
type Group struct {
	Key          string
	Accumulators []Accumulator
}

func (Group) Kind() Kind { return KindGroup }

func (g Group) Compile() bson.D {
	var key any
	if g.Key != "" {
		key = "$" + g.Key
	}
	spec := bson.D{{Key: "_id", Value: key}}
	for _, acc := range g.Accumulators {
		switch acc.Op {
		case AccCount:
			spec = append(spec, bson.E{Key: acc.Field, Value: bson.D{{Key: "$sum", Value: 1}}})
		default:
			spec = append(spec, bson.E{Key: acc.Field, Value: bson.D{{Key: "$sum", Value: "$" + acc.Path}}})
		}
	}
	return bson.D{{Key: "$group", Value: spec}}
}

type Branch struct {
	Name     string
	Pipeline Pipeline
}

// Facet runs several sub-pipelines over the same input and emits a single
// document holding each branch's output under its name.
type Facet struct {
	Branches []Branch
}

func (Facet) Kind() Kind { return KindFacet }

func (f Facet) Compile() bson.D {
	spec := bson.D{}
	for _, b := range f.Branches {
		spec = append(spec, bson.E{Key: b.Name, Value: b.Pipeline.Compile()})
	}
	return bson.D{{Key: "$facet", Value: spec}}
}

// CountInto emits one document {Field: n}, or nothing for empty input.
type CountInto struct {
	Field string
}

func (CountInto) Kind() Kind        { return KindCount }
func (c CountInto) Compile() bson.D { return bson.D{{Key: "$count", Value: c.Field}} }
