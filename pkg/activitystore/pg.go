package activitystore

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/forgelabs/forge/pkg/activity"
)

type pgStore struct {
	db bun.IDB
}

// NewStore creates a new postgres implementation of the activity store
func NewStore(db bun.IDB) *pgStore {
	return &pgStore{db: db}
}

func (s *pgStore) Record(ctx context.Context, act *activity.Activity) error {
	dao := toActivityDao(act)
	if _, err := s.db.NewInsert().Model(dao).Returning("id, created_at").Exec(ctx); err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	act.ID = dao.ID
	act.CreatedAt = dao.CreatedAt
	return nil
}

func (s *pgStore) Feed(ctx context.Context, userID int64, limit int) ([]*activity.Activity, error) {
	var daos []*ActivityDao
	err := s.db.NewSelect().
		Model(&daos).
		ColumnExpr("a.*").
		ColumnExpr("u.username AS username").
		ColumnExpr("u.avatar_url AS avatar_url").
		Join("JOIN users AS u ON u.id = a.user_id").
		Where(`a.user_id = ? OR a.user_id IN (
			SELECT CASE WHEN f.user_id = ? THEN f.friend_id ELSE f.user_id END
			FROM friendships f
			WHERE (f.user_id = ? OR f.friend_id = ?) AND f.status = 'accepted'
		)`, userID, userID, userID, userID).
		Order("a.created_at DESC", "a.id DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load feed: %w", err)
	}

	acts := make([]*activity.Activity, 0, len(daos))
	for _, dao := range daos {
		acts = append(acts, toActivity(dao))
	}
	return acts, nil
}
