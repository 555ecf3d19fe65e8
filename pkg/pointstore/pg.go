package pointstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/forgelabs/forge/pkg/points"
	"github.com/forgelabs/forge/pkg/userstore"
)

type pgStore struct {
	db bun.IDB
}

// NewStore creates a new postgres implementation of the point ledger.
// Accepts bun.IDB so callers can scope the store to an open transaction.
func NewStore(db bun.IDB) *pgStore {
	return &pgStore{db: db}
}

func (s *pgStore) Credit(ctx context.Context, userID, amount int64, typ points.Type, description string, challengeID *int64) error {
	if amount < 0 {
		return fmt.Errorf("credit amount must not be negative, got %d", amount)
	}

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model((*userstore.UserDao)(nil)).
			Set("points = points + ?", amount).
			Where("id = ?", userID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to credit user %d: %w", userID, err)
		}
		if affected, _ := res.RowsAffected(); affected == 0 {
			return userstore.ErrUserNotFound
		}

		return s.appendEntry(ctx, tx, userID, amount, typ, description, challengeID)
	})
}

func (s *pgStore) Debit(ctx context.Context, userID, amount int64, typ points.Type, description string, challengeID *int64) error {
	if amount < 0 {
		return fmt.Errorf("debit amount must not be negative, got %d", amount)
	}

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		// The balance guard in the WHERE clause makes concurrent debits safe:
		// whichever one runs second sees the decremented balance.
		res, err := tx.NewUpdate().
			Model((*userstore.UserDao)(nil)).
			Set("points = points - ?", amount).
			Where("id = ? AND points >= ?", userID, amount).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to debit user %d: %w", userID, err)
		}
		if affected, _ := res.RowsAffected(); affected == 0 {
			exists, err := tx.NewSelect().
				Model((*userstore.UserDao)(nil)).
				Where("id = ?", userID).
				Exists(ctx)
			if err != nil {
				return fmt.Errorf("failed to check user %d: %w", userID, err)
			}
			if !exists {
				return userstore.ErrUserNotFound
			}
			return points.ErrInsufficientPoints
		}

		return s.appendEntry(ctx, tx, userID, -amount, typ, description, challengeID)
	})
}

func (s *pgStore) appendEntry(ctx context.Context, tx bun.Tx, userID, amount int64, typ points.Type, description string, challengeID *int64) error {
	entry := toTransactionDao(&points.Transaction{
		UserID:      userID,
		Amount:      amount,
		Type:        typ,
		Description: description,
		ChallengeID: challengeID,
	})
	if _, err := tx.NewInsert().Model(entry).Exec(ctx); err != nil {
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}
	return nil
}

func (s *pgStore) Balance(ctx context.Context, userID int64) (int64, error) {
	var balance int64
	err := s.db.NewSelect().
		Model((*userstore.UserDao)(nil)).
		Column("points").
		Where("id = ?", userID).
		Scan(ctx, &balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, userstore.ErrUserNotFound
		}
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

func (s *pgStore) ListTransactions(ctx context.Context, userID int64, limit int) ([]*points.Transaction, error) {
	var daos []*TransactionDao
	err := s.db.NewSelect().
		Model(&daos).
		ColumnExpr("pt.*").
		ColumnExpr("c.name AS challenge_name").
		Join("LEFT JOIN challenges AS c ON c.id = pt.challenge_id").
		Where("pt.user_id = ?", userID).
		Order("pt.created_at DESC", "pt.id DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	txs := make([]*points.Transaction, 0, len(daos))
	for _, dao := range daos {
		txs = append(txs, toTransaction(dao))
	}
	return txs, nil
}
