package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"vidtube/domain/apperror"
	"vidtube/domain/repository"
)

// parseID validates an entity reference before any store access.
func parseID(raw, name string) (bson.ObjectID, error) {
	id, err := bson.ObjectIDFromHex(strings.TrimSpace(raw))
	if err != nil {
		return bson.NilObjectID, apperror.Input("invalid " + name).WithDetails(name + " must be a 24 character hex id")
	}
	return id, nil
}

// required trims value and rejects it when empty.
func required(value, name string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", apperror.Input(name + " is required")
	}
	return value, nil
}

// optional trims a patch field; a present but blank value is rejected.
func optional(value *string, name string) (*string, error) {
	if value == nil {
		return nil, nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil, apperror.Input(name + " cannot be empty")
	}
	return &v, nil
}

// storeErr classifies a repository failure. notFound names the missing
// entity for ErrNotFound; duplicates become conflicts.
func storeErr(notFound string, err error) error {
	var appErr *apperror.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, repository.ErrNotFound):
		return apperror.Wrap(apperror.KindNotFound, notFound+" not found", err)
	case errors.Is(err, repository.ErrDuplicate):
		return apperror.Wrap(apperror.KindConflict, notFound+" already exists", err)
	case errors.Is(err, context.DeadlineExceeded):
		return apperror.Wrap(apperror.KindUpstreamTimeout, "store timed out", err)
	}
	return apperror.Upstream("store operation failed", err)
}

func now() time.Time {
	return time.Now().UTC()
}

func owns(actor, owner bson.ObjectID) bool {
	return !actor.IsZero() && actor == owner
}
