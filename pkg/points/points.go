// Package points holds the domain model for the append-only point ledger.
package points

import (
	"errors"
	"time"
)

// ErrInsufficientPoints is returned when a debit exceeds the user's balance.
var ErrInsufficientPoints = errors.New("insufficient points")

// Type classifies a ledger entry.
type Type string

const (
	TypeSignupBonus Type = "signup_bonus"
	TypeWager       Type = "wager"
	TypeRefund      Type = "refund"
	TypeWinnings    Type = "winnings"
)

// Transaction is a single immutable ledger entry. Amount is positive for
// credits and negative for debits; the sum of a user's transactions equals
// their balance.
type Transaction struct {
	ID            int64
	UserID        int64
	Amount        int64
	Type          Type
	Description   string
	ChallengeID   *int64
	ChallengeName string
	CreatedAt     time.Time
}
