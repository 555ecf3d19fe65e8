// Package settlementstore implements settlement.Store on PostgreSQL.
package settlementstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/forgelabs/forge/pkg/challenge"
	"github.com/forgelabs/forge/pkg/challengestore"
	"github.com/forgelabs/forge/pkg/points"
	"github.com/forgelabs/forge/pkg/pointstore"
	"github.com/forgelabs/forge/pkg/settlement"
	"github.com/forgelabs/forge/pkg/submissionstore"
)

type pgStore struct {
	db bun.IDB
}

// NewStore creates a new postgres implementation of the settlement store
func NewStore(db bun.IDB) *pgStore {
	return &pgStore{db: db}
}

// InTx runs fn inside one transaction. The store passed to fn issues all its
// queries on that transaction, so the FOR UPDATE lock taken by
// ChallengeForUpdate holds until commit.
func (s *pgStore) InTx(ctx context.Context, fn func(ctx context.Context, tx settlement.Store) error) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, &pgStore{db: tx})
	})
}

func (s *pgStore) ChallengeForUpdate(ctx context.Context, id int64) (*challenge.Challenge, error) {
	dao := new(challengestore.ChallengeDao)
	err := s.db.NewSelect().
		Model(dao).
		Where("c.id = ?", id).
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, challengestore.ErrChallengeNotFound
		}
		return nil, fmt.Errorf("failed to lock challenge: %w", err)
	}
	return challengestore.ToChallenge(dao), nil
}

func (s *pgStore) Participants(ctx context.Context, challengeID int64) ([]*challenge.Participant, error) {
	return challengestore.NewStore(s.db).ListParticipants(ctx, challengeID)
}

func (s *pgStore) VerifiedCounts(ctx context.Context, challengeID int64) (map[int64]int, error) {
	var rows []struct {
		UserID int64 `bun:"user_id"`
		Count  int   `bun:"count"`
	}
	err := s.db.NewSelect().
		Model((*submissionstore.SubmissionDao)(nil)).
		ColumnExpr("user_id").
		ColumnExpr("COUNT(*) AS count").
		Where("challenge_id = ? AND verified", challengeID).
		Group("user_id").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to count verified submissions: %w", err)
	}

	counts := make(map[int64]int, len(rows))
	for _, row := range rows {
		counts[row.UserID] = row.Count
	}
	return counts, nil
}

func (s *pgStore) SetChallengeStatus(ctx context.Context, id int64, status challenge.Status) error {
	res, err := s.db.NewUpdate().
		Model((*challengestore.ChallengeDao)(nil)).
		Set("status = ?", string(status)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update challenge status: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return challengestore.ErrChallengeNotFound
	}
	return nil
}

func (s *pgStore) Credit(ctx context.Context, userID, amount int64, typ points.Type, description string, challengeID *int64) error {
	return pointstore.NewStore(s.db).Credit(ctx, userID, amount, typ, description, challengeID)
}
