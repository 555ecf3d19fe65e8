package userstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/forgelabs/forge/pkg/user"
)

type pgStore struct {
	db *bun.DB
}

// NewStore creates a new postgres implementation of the user store
func NewStore(db *bun.DB) *pgStore {
	return &pgStore{db: db}
}

func (s *pgStore) CreateUser(ctx context.Context, usr *user.User) error {
	dao := toUserDao(usr)

	_, err := s.db.NewInsert().
		Model(dao).
		Returning("id, created_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	usr.ID = dao.ID
	usr.CreatedAt = dao.CreatedAt
	return nil
}

func (s *pgStore) GetUser(ctx context.Context, opts ...QueryOption) (*user.User, error) {
	options := &QueryOptions{}
	for _, opt := range opts {
		opt(options)
	}

	dao := new(UserDao)
	query := s.db.NewSelect().Model(dao)

	if options.ID != nil {
		query = query.Where("id = ?", *options.ID)
	}
	if options.Username != nil {
		query = query.Where("username = ?", *options.Username)
	}
	if options.Email != nil {
		query = query.Where("email = ?", *options.Email)
	}

	if err := query.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toUser(dao), nil
}

func (s *pgStore) GetUsers(ctx context.Context, ids []int64) ([]*user.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var daos []*UserDao
	err := s.db.NewSelect().
		Model(&daos).
		Where("id IN (?)", bun.In(ids)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	users := make([]*user.User, 0, len(daos))
	for _, dao := range daos {
		users = append(users, toUser(dao))
	}
	return users, nil
}

func (s *pgStore) UserExists(ctx context.Context, username, email string) (bool, error) {
	exists, err := s.db.NewSelect().
		Model((*UserDao)(nil)).
		Where("username = ? OR email = ?", username, email).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return exists, nil
}

func (s *pgStore) SearchUsers(ctx context.Context, query string, limit int) ([]*user.User, error) {
	var daos []*UserDao
	err := s.db.NewSelect().
		Model(&daos).
		Where("username ILIKE ?", "%"+query+"%").
		Order("username ASC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	users := make([]*user.User, 0, len(daos))
	for _, dao := range daos {
		users = append(users, toUser(dao))
	}
	return users, nil
}

func (s *pgStore) TopByPoints(ctx context.Context, limit int) ([]*user.User, error) {
	var daos []*UserDao
	err := s.db.NewSelect().
		Model(&daos).
		Order("points DESC", "id ASC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list top users: %w", err)
	}

	users := make([]*user.User, 0, len(daos))
	for _, dao := range daos {
		users = append(users, toUser(dao))
	}
	return users, nil
}
