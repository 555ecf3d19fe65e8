// Package friend holds the domain model for friendships.
package friend

import "time"

// Status is the friendship lifecycle state. Declining a request deletes the
// row, so there is no declined status.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
)

// Friendship links two users. UserID is the requester; FriendID the
// recipient.
type Friendship struct {
	ID        int64
	UserID    int64
	FriendID  int64
	Status    Status
	CreatedAt time.Time

	// Populated on list for display: the other side of the friendship from
	// the querying user's perspective.
	FriendUsername  string
	FriendAvatarURL string
}
