package userstore

import (
	"context"
	"errors"

	"github.com/forgelabs/forge/pkg/user"
)

// ErrUserNotFound is returned when a user lookup finds no matching record.
var ErrUserNotFound = errors.New("user not found")

// Store defines the interface for user data persistence
type Store interface {
	CreateUser(ctx context.Context, user *user.User) error
	GetUser(ctx context.Context, opts ...QueryOption) (*user.User, error)
	GetUsers(ctx context.Context, ids []int64) ([]*user.User, error)
	UserExists(ctx context.Context, username, email string) (bool, error)
	SearchUsers(ctx context.Context, query string, limit int) ([]*user.User, error)
	TopByPoints(ctx context.Context, limit int) ([]*user.User, error)
}

// QueryOptions defines options for querying users
type QueryOptions struct {
	ID       *int64
	Username *string
	Email    *string
}

// QueryOption is a functional option for querying users
type QueryOption func(*QueryOptions)

// WithID sets the user ID filter
func WithID(id int64) QueryOption {
	return func(opts *QueryOptions) {
		opts.ID = &id
	}
}

// WithUsername sets the username filter
func WithUsername(username string) QueryOption {
	return func(opts *QueryOptions) {
		opts.Username = &username
	}
}

// WithEmail sets the email filter
func WithEmail(email string) QueryOption {
	return func(opts *QueryOptions) {
		opts.Email = &email
	}
}
