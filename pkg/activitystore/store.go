package activitystore

import (
	"context"

	"github.com/forgelabs/forge/pkg/activity"
)

// Store defines the interface for activity feed persistence.
type Store interface {
	Record(ctx context.Context, act *activity.Activity) error
	// Feed returns the newest activities of the user and their accepted
	// friends.
	Feed(ctx context.Context, userID int64, limit int) ([]*activity.Activity, error)
}
