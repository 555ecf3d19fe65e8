package challengestore

import (
	"context"
	"errors"

	"github.com/forgelabs/forge/pkg/challenge"
)

var (
	// ErrChallengeNotFound is returned when a challenge lookup finds no record.
	ErrChallengeNotFound = errors.New("challenge not found")
	// ErrAlreadyJoined is returned when a user is already a participant.
	ErrAlreadyJoined = errors.New("already a participant")
	// ErrInviteNotFound is returned when an invite lookup finds no record.
	ErrInviteNotFound = errors.New("invite not found")
)

// Summary is a challenge with aggregates for list views.
type Summary struct {
	challenge.Challenge
	ParticipantCount int
	CompletedCount   int
	TotalPot         int64
}

// Store defines the interface for challenge data persistence.
type Store interface {
	// CreateChallenge inserts the challenge, enrolls the creator with their
	// stake debited through the ledger, and creates pending invites, all in
	// one transaction.
	CreateChallenge(ctx context.Context, ch *challenge.Challenge, inviteeIDs []int64) error
	GetChallenge(ctx context.Context, id int64) (*challenge.Challenge, error)
	ListUserChallenges(ctx context.Context, userID int64) ([]*Summary, error)

	// Join enrolls the user and debits their stake in one transaction.
	// Returns ErrAlreadyJoined if a participant row already exists.
	Join(ctx context.Context, challengeID, userID, wager int64) error
	GetParticipant(ctx context.Context, challengeID, userID int64) (*challenge.Participant, error)
	ListParticipants(ctx context.Context, challengeID int64) ([]*challenge.Participant, error)
	TotalPot(ctx context.Context, challengeID int64) (int64, error)
	// RecordVerified bumps the participant's current streak and refreshes
	// the longest streak high-water mark.
	RecordVerified(ctx context.Context, challengeID, userID int64) error

	CreateInvite(ctx context.Context, inv *challenge.Invite) error
	GetInvite(ctx context.Context, id int64) (*challenge.Invite, error)
	ListPendingInvites(ctx context.Context, inviteeID int64) ([]*challenge.Invite, error)
	SetInviteStatus(ctx context.Context, id int64, status challenge.InviteStatus) error
}
