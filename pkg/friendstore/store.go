package friendstore

import (
	"context"
	"errors"

	"github.com/forgelabs/forge/pkg/friend"
)

var (
	// ErrFriendshipNotFound is returned when a friendship lookup finds no record.
	ErrFriendshipNotFound = errors.New("friendship not found")
	// ErrAlreadyExists is returned when a friendship or request between the
	// two users already exists in either direction.
	ErrAlreadyExists = errors.New("friendship already exists")
)

// Store defines the interface for friendship persistence.
type Store interface {
	// CreateRequest inserts a pending friendship from userID to friendID.
	CreateRequest(ctx context.Context, userID, friendID int64) (*friend.Friendship, error)
	// Get returns the friendship between the two users in either direction.
	Get(ctx context.Context, userID, otherID int64) (*friend.Friendship, error)
	GetByID(ctx context.Context, id int64) (*friend.Friendship, error)
	Accept(ctx context.Context, id int64) error
	// Delete removes a friendship row; used for decline and unfriend.
	Delete(ctx context.Context, id int64) error
	// ListFriends returns accepted friendships for the user, with the other
	// side's profile fields populated.
	ListFriends(ctx context.Context, userID int64) ([]*friend.Friendship, error)
	// ListPendingRequests returns pending requests addressed to the user.
	ListPendingRequests(ctx context.Context, userID int64) ([]*friend.Friendship, error)
}
