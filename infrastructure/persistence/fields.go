package persistence

import (
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type field struct {
	name  string
	value *string
}

// setFields builds a $set body from the non-nil fields and stamps updatedAt.
func setFields(fields ...field) bson.D {
	set := bson.D{}
	for _, f := range fields {
		if f.value != nil {
			set = append(set, bson.E{Key: f.name, Value: *f.value})
		}
	}
	return append(set, bson.E{Key: "updatedAt", Value: now()})
}

func lower(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.ToLower(*s)
	return &v
}
