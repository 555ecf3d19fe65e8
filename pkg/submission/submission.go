// Package submission holds the domain model for daily proof submissions.
package submission

import "time"

// Submission is one proof entry for a (challenge, user, day) slot.
type Submission struct {
	ID          int64
	ChallengeID int64
	UserID      int64
	Username    string
	SubmittedOn time.Time // date only
	// Verified is true once the proof counts toward the schedule.
	Verified bool
	// Pending is true when the oracle was unreachable and the proof awaits
	// a later verdict. A pending submission still occupies its day slot.
	Pending       bool
	AIMessage     string
	ExtractedData map[string]any
	CreatedAt     time.Time
}
