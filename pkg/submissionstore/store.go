package submissionstore

import (
	"context"
	"errors"
	"time"

	"github.com/forgelabs/forge/pkg/submission"
)

// ErrDuplicateSubmission is returned when the (challenge, user, day) slot is
// already taken.
var ErrDuplicateSubmission = errors.New("submission already exists for this day")

// Store defines the interface for submission persistence.
type Store interface {
	// CreateSubmission inserts the submission. The unique index on
	// (challenge_id, user_id, submitted_on) makes concurrent duplicates
	// lose cleanly with ErrDuplicateSubmission.
	CreateSubmission(ctx context.Context, sub *submission.Submission) error
	ListByChallenge(ctx context.Context, challengeID int64) ([]*submission.Submission, error)
	VerifiedCount(ctx context.Context, challengeID, userID int64) (int, error)
	// UsersMissingDailyProof returns the user IDs of participants in active
	// daily challenges who have no submission for the given day.
	UsersMissingDailyProof(ctx context.Context, day time.Time) ([]int64, error)
}
