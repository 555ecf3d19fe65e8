// Package notify delivers best-effort web push notifications.
package notify

import (
	"context"
	"errors"
	"time"
)

// ErrSubscriptionNotFound is returned when a subscription lookup finds no record.
var ErrSubscriptionNotFound = errors.New("push subscription not found")

// Subscription is one browser push endpoint for a user.
type Subscription struct {
	ID        int64
	UserID    int64
	Endpoint  string
	P256DH    string
	Auth      string
	CreatedAt time.Time
}

// Message is the payload shown to the user.
type Message struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url,omitempty"`
}

// Store defines the interface for push subscription persistence.
type Store interface {
	// Upsert saves the subscription, replacing keys for an existing
	// (user, endpoint) pair.
	Upsert(ctx context.Context, sub *Subscription) error
	DeleteByEndpoint(ctx context.Context, userID int64, endpoint string) error
	ListByUser(ctx context.Context, userID int64) ([]*Subscription, error)
	// DeleteExpired removes a subscription the push service reported gone.
	DeleteExpired(ctx context.Context, endpoint string) error
}

// Sender pushes a message to all of a user's subscriptions. Delivery is
// best-effort; failures are logged, never returned.
type Sender interface {
	Send(ctx context.Context, userID int64, msg *Message)
}
