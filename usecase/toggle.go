package usecase

import (
	"context"
	"errors"

	"vidtube/domain/apperror"
	"vidtube/domain/repository"
	"vidtube/infrastructure/lock"
)

// toggleMembership flips a membership row for one actor and target:
// delete if present, insert otherwise. It reports the resulting state.
// The locker serialises concurrent toggles on the same key and the unique
// index rejects any insert that still slips through.
func toggleMembership(ctx context.Context, locker lock.ILocker, key string,
	remove func(context.Context) (bool, error), insert func(context.Context) error,
) (bool, error) {
	if locker != nil {
		unlock, err := locker.Acquire(ctx, key)
		if err != nil {
			return false, apperror.Upstream("could not serialise toggle", err)
		}
		defer unlock()
	}

	removed, err := remove(ctx)
	if err != nil {
		return false, storeErr("membership", err)
	}
	if removed {
		return false, nil
	}
	if err := insert(ctx); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return false, apperror.Wrap(apperror.KindConflict, "toggle already in progress", err)
		}
		return false, storeErr("membership", err)
	}
	return true, nil
}
