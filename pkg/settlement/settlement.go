// Package settlement closes out a challenge and distributes the wager pool.
package settlement

import (
	"context"
	"errors"

	"github.com/forgelabs/forge/pkg/challenge"
	"github.com/forgelabs/forge/pkg/points"
)

var (
	// ErrAlreadySettled is returned when the challenge is no longer active.
	ErrAlreadySettled = errors.New("challenge already settled")
	// ErrNotCreator is returned when someone other than the creator settles.
	ErrNotCreator = errors.New("only the challenge creator can settle")
)

// Payout is one completer's share of the pot.
type Payout struct {
	UserID        int64  `json:"user_id"`
	Username      string `json:"username"`
	VerifiedCount int    `json:"verified_count"`
	Winnings      int64  `json:"winnings"`
}

// Forfeit is a participant who missed the completion target. Exactly one of
// Forfeited and Refunded is nonzero when the pot moved.
type Forfeit struct {
	UserID        int64  `json:"user_id"`
	Username      string `json:"username"`
	VerifiedCount int    `json:"verified_count"`
	Forfeited     int64  `json:"forfeited,omitempty"`
	Refunded      int64  `json:"refunded,omitempty"`
}

// Result is the settlement outcome returned to the caller.
type Result struct {
	ChallengeID   int64            `json:"challenge_id"`
	ChallengeName string           `json:"challenge_name"`
	Status        challenge.Status `json:"status"`
	Required      int              `json:"required"`
	Threshold     int              `json:"threshold"`
	TotalPot      int64            `json:"total_pot"`
	Completers    []Payout         `json:"completers"`
	Failed        []Forfeit        `json:"failed"`
}

// Store is the transactional data-access interface for settlement. InTx runs
// fn inside one database transaction; the Store passed to fn is scoped to it.
// ChallengeForUpdate must lock the challenge row for the duration of the
// transaction so concurrent settlements serialize.
type Store interface {
	InTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
	ChallengeForUpdate(ctx context.Context, id int64) (*challenge.Challenge, error)
	Participants(ctx context.Context, challengeID int64) ([]*challenge.Participant, error)
	VerifiedCounts(ctx context.Context, challengeID int64) (map[int64]int, error)
	SetChallengeStatus(ctx context.Context, id int64, status challenge.Status) error
	Credit(ctx context.Context, userID, amount int64, typ points.Type, description string, challengeID *int64) error
}
