// Package challenge holds the domain model for challenges, participants and
// invites, plus the submission schedule calculator.
package challenge

import "time"

// Frequency controls how often proof is expected.
type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
	FrequencyCustom Frequency = "custom"
)

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyCustom:
		return true
	}
	return false
}

// Status is the challenge lifecycle state.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusSettled   Status = "settled"
)

// PolicingType controls how submissions are verified.
type PolicingType string

const (
	PolicingSelf PolicingType = "self"
	PolicingAI   PolicingType = "ai"
)

// Valid reports whether p is a known policing type.
func (p PolicingType) Valid() bool {
	return p == PolicingSelf || p == PolicingAI
}

// Challenge is the domain model for a time-boxed accountability challenge.
type Challenge struct {
	ID             int64
	Name           string
	Description    string
	Frequency      Frequency
	FrequencyCount int
	Duration       int // days
	Forfeit        string
	Wager          int64
	PolicingType   PolicingType
	ProofType      string
	CreatorID      int64
	Status         Status
	StartDate      time.Time
	EndDate        time.Time
	CreatedAt      time.Time
}

// Participant is a user enrolled in a challenge.
type Participant struct {
	ID            int64
	ChallengeID   int64
	UserID        int64
	Username      string
	AvatarURL     string
	IsCreator     bool
	CurrentStreak int
	LongestStreak int
	PointsWagered int64
	JoinedAt      time.Time
}

// InviteStatus is the state of a challenge invite.
type InviteStatus string

const (
	InvitePending  InviteStatus = "pending"
	InviteAccepted InviteStatus = "accepted"
	InviteDeclined InviteStatus = "declined"
)

// ParticipantProgress is a participant annotated with their schedule
// progress for detail and leaderboard views.
type ParticipantProgress struct {
	Participant
	VerifiedCount     int
	CompletionPercent int
	OnTrack           bool
}

// Detail is the full view of a challenge for its participants.
type Detail struct {
	Challenge
	Required     int
	Target       int
	TotalPot     int64
	Participants []*ParticipantProgress
}

// Invite is a pending request for a user to join a challenge.
type Invite struct {
	ID          int64
	ChallengeID int64
	InviterID   int64
	InviteeID   int64
	Status      InviteStatus
	CreatedAt   time.Time

	// Populated on list for display.
	ChallengeName   string
	InviterUsername string
	Wager           int64
	Duration        int
	Frequency       Frequency
}
