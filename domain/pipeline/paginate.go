package pipeline

import (
	"go.mongodb.org/mongo-driver/v2/bson"

	"vidtube/domain/pagination"
)

const (
	ItemsFacet = "items"
	TotalFacet = "total"
	TotalField = "count"
)

// Paginate wraps p so one execution yields the requested slice and the
// total match count: {items: [...], total: [{count: n}]}.
func Paginate(p Pipeline, req pagination.Request) Pipeline {
	return p.Then(Facet{Branches: []Branch{
		{Name: ItemsFacet, Pipeline: New(Skip{N: req.Offset()}, Limit{N: req.Limit})},
		{Name: TotalFacet, Pipeline: New(CountInto{Field: TotalField})},
	}})
}

// FacetResult is the decoded shape of a paginated execution.
type FacetResult struct {
	Items []bson.Raw `bson:"items"`
	Total []struct {
		Count int64 `bson:"count"`
	} `bson:"total"`
}

func (r FacetResult) TotalItems() int64 {
	if len(r.Total) == 0 {
		return 0
	}
	return r.Total[0].Count
}

// DecodePage unmarshals a facet result into a typed page envelope.
func DecodePage[T any](r FacetResult, req pagination.Request) (pagination.Page[T], error) {
	items := make([]T, 0, len(r.Items))
	for _, raw := range r.Items {
		var item T
		if err := bson.Unmarshal(raw, &item); err != nil {
			return pagination.Page[T]{}, err
		}
		items = append(items, item)
	}
	return pagination.NewPage(items, r.TotalItems(), req), nil
}
