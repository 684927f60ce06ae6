package flows

import (
	"context"
	"errors"
	"fmt"
)

// ProfileDeps captures profile lookup dependencies.
type ProfileDeps struct {
	GetUserByID      func(context.Context, string) (UserRecord, error)
	UserNotFound     error
	StoreUnavailable error
}

// RunProfile loads the user named by an authenticated claim.
func RunProfile(ctx context.Context, userID string, deps ProfileDeps) (UserRecord, error) {
	user, err := deps.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, deps.UserNotFound) {
			return UserRecord{}, deps.UserNotFound
		}
		return UserRecord{}, fmt.Errorf("%w: %w", deps.StoreUnavailable, err)
	}
	return user, nil
}
