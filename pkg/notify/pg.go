package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// SubscriptionDao is a data access object that maps directly to the
// 'push_subscriptions' table in PostgreSQL.
type SubscriptionDao struct {
	bun.BaseModel `bun:"table:push_subscriptions,alias:ps"`
	ID            int64     `bun:"id,pk,autoincrement"`
	UserID        int64     `bun:"user_id,notnull"`
	Endpoint      string    `bun:"endpoint,notnull,type:text"`
	P256DH        string    `bun:"p256dh,notnull,type:text"`
	Auth          string    `bun:"auth,notnull,type:text"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:current_timestamp"`
}

func toSubscription(dao *SubscriptionDao) *Subscription {
	return &Subscription{
		ID:        dao.ID,
		UserID:    dao.UserID,
		Endpoint:  dao.Endpoint,
		P256DH:    dao.P256DH,
		Auth:      dao.Auth,
		CreatedAt: dao.CreatedAt,
	}
}

type pgStore struct {
	db bun.IDB
}

// NewStore creates a new postgres implementation of the subscription store
func NewStore(db bun.IDB) *pgStore {
	return &pgStore{db: db}
}

func (s *pgStore) Upsert(ctx context.Context, sub *Subscription) error {
	dao := &SubscriptionDao{
		UserID:   sub.UserID,
		Endpoint: sub.Endpoint,
		P256DH:   sub.P256DH,
		Auth:     sub.Auth,
	}
	_, err := s.db.NewInsert().
		Model(dao).
		On("CONFLICT (user_id, endpoint) DO UPDATE").
		Set("p256dh = EXCLUDED.p256dh").
		Set("auth = EXCLUDED.auth").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save push subscription: %w", err)
	}
	return nil
}

func (s *pgStore) DeleteByEndpoint(ctx context.Context, userID int64, endpoint string) error {
	res, err := s.db.NewDelete().
		Model((*SubscriptionDao)(nil)).
		Where("user_id = ? AND endpoint = ?", userID, endpoint).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete push subscription: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

func (s *pgStore) ListByUser(ctx context.Context, userID int64) ([]*Subscription, error) {
	var daos []*SubscriptionDao
	err := s.db.NewSelect().
		Model(&daos).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list push subscriptions: %w", err)
	}

	subs := make([]*Subscription, 0, len(daos))
	for _, dao := range daos {
		subs = append(subs, toSubscription(dao))
	}
	return subs, nil
}

func (s *pgStore) DeleteExpired(ctx context.Context, endpoint string) error {
	_, err := s.db.NewDelete().
		Model((*SubscriptionDao)(nil)).
		Where("endpoint = ?", endpoint).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to drop expired subscription: %w", err)
	}
	return nil
}
