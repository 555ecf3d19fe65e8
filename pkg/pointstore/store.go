package pointstore

import (
	"context"

	"github.com/forgelabs/forge/pkg/points"
)

// Store defines the interface for the point ledger. Every balance change goes
// through Credit or Debit so the transaction history stays complete.
type Store interface {
	// Credit adds amount to the user's balance and appends a ledger entry.
	Credit(ctx context.Context, userID, amount int64, typ points.Type, description string, challengeID *int64) error
	// Debit subtracts amount from the user's balance and appends a negative
	// ledger entry. Returns points.ErrInsufficientPoints if amount exceeds
	// the current balance.
	Debit(ctx context.Context, userID, amount int64, typ points.Type, description string, challengeID *int64) error
	// Balance returns the user's current point balance.
	Balance(ctx context.Context, userID int64) (int64, error)
	// ListTransactions returns the user's ledger entries, newest first,
	// with challenge names resolved.
	ListTransactions(ctx context.Context, userID int64, limit int) ([]*points.Transaction, error)
}
