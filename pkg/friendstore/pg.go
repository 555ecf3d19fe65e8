package friendstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/forgelabs/forge/pkg/friend"
)

type pgStore struct {
	db bun.IDB
}

// NewStore creates a new postgres implementation of the friendship store
func NewStore(db bun.IDB) *pgStore {
	return &pgStore{db: db}
}

func (s *pgStore) CreateRequest(ctx context.Context, userID, friendID int64) (*friend.Friendship, error) {
	dao := &FriendshipDao{
		UserID:   userID,
		FriendID: friendID,
		Status:   string(friend.StatusPending),
	}

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		// A request or friendship in either direction blocks a new one.
		exists, err := tx.NewSelect().
			Model((*FriendshipDao)(nil)).
			Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
				userID, friendID, friendID, userID).
			Exists(ctx)
		if err != nil {
			return fmt.Errorf("failed to check friendship: %w", err)
		}
		if exists {
			return ErrAlreadyExists
		}

		if _, err := tx.NewInsert().Model(dao).Returning("id, created_at").Exec(ctx); err != nil {
			return fmt.Errorf("failed to create friend request: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toFriendship(dao), nil
}

func (s *pgStore) Get(ctx context.Context, userID, otherID int64) (*friend.Friendship, error) {
	dao := new(FriendshipDao)
	err := s.db.NewSelect().
		Model(dao).
		Where("(f.user_id = ? AND f.friend_id = ?) OR (f.user_id = ? AND f.friend_id = ?)",
			userID, otherID, otherID, userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFriendshipNotFound
		}
		return nil, fmt.Errorf("failed to get friendship: %w", err)
	}
	return toFriendship(dao), nil
}

func (s *pgStore) GetByID(ctx context.Context, id int64) (*friend.Friendship, error) {
	dao := new(FriendshipDao)
	err := s.db.NewSelect().
		Model(dao).
		Where("f.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFriendshipNotFound
		}
		return nil, fmt.Errorf("failed to get friendship: %w", err)
	}
	return toFriendship(dao), nil
}

func (s *pgStore) Accept(ctx context.Context, id int64) error {
	res, err := s.db.NewUpdate().
		Model((*FriendshipDao)(nil)).
		Set("status = ?", string(friend.StatusAccepted)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to accept friendship: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrFriendshipNotFound
	}
	return nil
}

func (s *pgStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.NewDelete().
		Model((*FriendshipDao)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete friendship: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrFriendshipNotFound
	}
	return nil
}

func (s *pgStore) ListFriends(ctx context.Context, userID int64) ([]*friend.Friendship, error) {
	return s.list(ctx, userID,
		"(f.user_id = ? OR f.friend_id = ?) AND f.status = 'accepted'",
		userID, userID)
}

func (s *pgStore) ListPendingRequests(ctx context.Context, userID int64) ([]*friend.Friendship, error) {
	return s.list(ctx, userID,
		"f.friend_id = ? AND f.status = 'pending'",
		userID)
}

func (s *pgStore) list(ctx context.Context, userID int64, where string, args ...any) ([]*friend.Friendship, error) {
	var daos []*FriendshipDao
	err := s.db.NewSelect().
		Model(&daos).
		ColumnExpr("f.*").
		ColumnExpr("u.username AS friend_username").
		ColumnExpr("u.avatar_url AS friend_avatar_url").
		Join("JOIN users AS u ON u.id = CASE WHEN f.user_id = ? THEN f.friend_id ELSE f.user_id END", userID).
		Where(where, args...).
		Order("f.created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list friendships: %w", err)
	}

	friendships := make([]*friend.Friendship, 0, len(daos))
	for _, dao := range daos {
		friendships = append(friendships, toFriendship(dao))
	}
	return friendships, nil
}
