package submissionstore

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/forgelabs/forge/pkg/submission"
)

type pgStore struct {
	db bun.IDB
}

// NewStore creates a new postgres implementation of the submission store
func NewStore(db bun.IDB) *pgStore {
	return &pgStore{db: db}
}

func (s *pgStore) CreateSubmission(ctx context.Context, sub *submission.Submission) error {
	dao := toSubmissionDao(sub)
	res, err := s.db.NewInsert().
		Model(dao).
		On("CONFLICT (challenge_id, user_id, submitted_on) DO NOTHING").
		Returning("id, created_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrDuplicateSubmission
	}

	sub.ID = dao.ID
	sub.CreatedAt = dao.CreatedAt
	return nil
}

func (s *pgStore) ListByChallenge(ctx context.Context, challengeID int64) ([]*submission.Submission, error) {
	var daos []*SubmissionDao
	err := s.db.NewSelect().
		Model(&daos).
		ColumnExpr("s.*").
		ColumnExpr("u.username AS username").
		Join("JOIN users AS u ON u.id = s.user_id").
		Where("s.challenge_id = ?", challengeID).
		Order("s.submitted_on DESC", "s.id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	subs := make([]*submission.Submission, 0, len(daos))
	for _, dao := range daos {
		subs = append(subs, toSubmission(dao))
	}
	return subs, nil
}

func (s *pgStore) VerifiedCount(ctx context.Context, challengeID, userID int64) (int, error) {
	count, err := s.db.NewSelect().
		Model((*SubmissionDao)(nil)).
		Where("challenge_id = ? AND user_id = ? AND verified", challengeID, userID).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count verified submissions: %w", err)
	}
	return count, nil
}

func (s *pgStore) UsersMissingDailyProof(ctx context.Context, day time.Time) ([]int64, error) {
	var userIDs []int64
	err := s.db.NewSelect().
		TableExpr("challenge_participants AS cp").
		ColumnExpr("DISTINCT cp.user_id").
		Join("JOIN challenges AS c ON c.id = cp.challenge_id").
		Where("c.status = 'active' AND c.frequency = 'daily'").
		Where("c.start_date <= ? AND c.end_date >= ?", day, day).
		Where(`NOT EXISTS (
			SELECT 1 FROM submissions s
			WHERE s.challenge_id = cp.challenge_id
			  AND s.user_id = cp.user_id
			  AND s.submitted_on = ?
		)`, day).
		Scan(ctx, &userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to find users missing daily proof: %w", err)
	}
	return userIDs, nil
}
