package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	apperrors "github.com/forgelabs/forge/pkg/app/errors"
	"github.com/forgelabs/forge/pkg/activity"
	"github.com/forgelabs/forge/pkg/friend"
	"github.com/forgelabs/forge/pkg/friendstore"
	"github.com/forgelabs/forge/pkg/notify"
	"github.com/forgelabs/forge/pkg/user"
	"github.com/forgelabs/forge/pkg/userstore"
)

var (
	ErrSelfFriend   = errors.New("cannot befriend yourself")
	ErrNotRecipient = errors.New("request addressed to another user")
	ErrNotMember    = errors.New("not part of this friendship")
)

// Store is the narrow data-access interface for the friend service.
type Store interface {
	CreateRequest(ctx context.Context, userID, friendID int64) (*friend.Friendship, error)
	GetByID(ctx context.Context, id int64) (*friend.Friendship, error)
	Accept(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	ListFriends(ctx context.Context, userID int64) ([]*friend.Friendship, error)
	ListPendingRequests(ctx context.Context, userID int64) ([]*friend.Friendship, error)
}

// UserLookup resolves usernames for friend requests.
type UserLookup interface {
	GetUser(ctx context.Context, opts ...userstore.QueryOption) (*user.User, error)
	SearchUsers(ctx context.Context, query string, limit int) ([]*user.User, error)
}

// ActivityRecorder records feed entries.
type ActivityRecorder interface {
	Record(ctx context.Context, act *activity.Activity) error
}

// Service defines the interface for friendship management
type Service interface {
	Request(ctx context.Context, userID int64, username string) (*friend.Friendship, error)
	Accept(ctx context.Context, userID, friendshipID int64) error
	Decline(ctx context.Context, userID, friendshipID int64) error
	Remove(ctx context.Context, userID, friendshipID int64) error
	ListFriends(ctx context.Context, userID int64) ([]*friend.Friendship, error)
	ListPending(ctx context.Context, userID int64) ([]*friend.Friendship, error)
	Search(ctx context.Context, query string) ([]user.Profile, error)
}

type friendService struct {
	store      Store
	users      UserLookup
	activities ActivityRecorder
	notifier   notify.Sender
	logger     *zap.Logger
}

// NewService creates a new friend service
func NewService(
	store Store,
	users UserLookup,
	activities ActivityRecorder,
	notifier notify.Sender,
	logger *zap.Logger,
) Service {
	return &friendService{
		store:      store,
		users:      users,
		activities: activities,
		notifier:   notifier,
		logger:     logger,
	}
}

// Request sends a friend request to the named user.
func (s *friendService) Request(ctx context.Context, userID int64, username string) (*friend.Friendship, error) {
	target, err := s.users.GetUser(ctx, userstore.WithUsername(username))
	if err != nil {
		if errors.Is(err, userstore.ErrUserNotFound) {
			return nil, apperrors.ResourceNotFoundError(err, "user not found")
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if target.ID == userID {
		return nil, apperrors.BadRequestError(ErrSelfFriend, "cannot befriend yourself")
	}

	f, err := s.store.CreateRequest(ctx, userID, target.ID)
	if err != nil {
		if errors.Is(err, friendstore.ErrAlreadyExists) {
			return nil, apperrors.ConflictError(err, "friendship or request already exists")
		}
		return nil, fmt.Errorf("failed to create friend request: %w", err)
	}

	if err := s.activities.Record(ctx, &activity.Activity{
		UserID: userID,
		Type:   activity.TypeFriendRequestSent,
		Data:   map[string]any{"to": target.Username},
	}); err != nil {
		s.logger.Warn("failed to record friend request activity", zap.Error(err))
	}

	s.notifier.Send(ctx, target.ID, &notify.Message{
		Title: "Friend request",
		Body:  "Someone wants to be your accountability partner",
	})

	return f, nil
}

// Accept confirms a pending request addressed to the user.
func (s *friendService) Accept(ctx context.Context, userID, friendshipID int64) error {
	f, err := s.loadPendingFor(ctx, userID, friendshipID)
	if err != nil {
		return err
	}

	if err := s.store.Accept(ctx, friendshipID); err != nil {
		return fmt.Errorf("failed to accept friend request: %w", err)
	}

	for _, uid := range []int64{f.UserID, f.FriendID} {
		if err := s.activities.Record(ctx, &activity.Activity{
			UserID: uid,
			Type:   activity.TypeBecameFriends,
		}); err != nil {
			s.logger.Warn("failed to record friendship activity", zap.Error(err))
		}
	}

	s.notifier.Send(ctx, f.UserID, &notify.Message{
		Title: "Friend request accepted",
		Body:  "Your friend request was accepted",
	})

	return nil
}

// Decline deletes a pending request addressed to the user.
func (s *friendService) Decline(ctx context.Context, userID, friendshipID int64) error {
	if _, err := s.loadPendingFor(ctx, userID, friendshipID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, friendshipID); err != nil {
		return fmt.Errorf("failed to decline friend request: %w", err)
	}
	return nil
}

// Remove deletes an accepted friendship either side belongs to.
func (s *friendService) Remove(ctx context.Context, userID, friendshipID int64) error {
	f, err := s.getFriendship(ctx, friendshipID)
	if err != nil {
		return err
	}
	if f.UserID != userID && f.FriendID != userID {
		return apperrors.ForbiddenError(ErrNotMember, "not part of this friendship")
	}
	if err := s.store.Delete(ctx, friendshipID); err != nil {
		return fmt.Errorf("failed to remove friend: %w", err)
	}
	return nil
}

func (s *friendService) ListFriends(ctx context.Context, userID int64) ([]*friend.Friendship, error) {
	friends, err := s.store.ListFriends(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	return friends, nil
}

func (s *friendService) ListPending(ctx context.Context, userID int64) ([]*friend.Friendship, error) {
	pending, err := s.store.ListPendingRequests(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", err)
	}
	return pending, nil
}

// Search finds users by username fragment for the add-friend flow.
func (s *friendService) Search(ctx context.Context, query string) ([]user.Profile, error) {
	if query == "" {
		return nil, apperrors.BadRequestError(nil, "query required")
	}

	users, err := s.users.SearchUsers(ctx, query, 20)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	profiles := make([]user.Profile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, u.Profile())
	}
	return profiles, nil
}

func (s *friendService) getFriendship(ctx context.Context, id int64) (*friend.Friendship, error) {
	f, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, friendstore.ErrFriendshipNotFound) {
			return nil, apperrors.ResourceNotFoundError(err, "friendship not found")
		}
		return nil, fmt.Errorf("failed to load friendship: %w", err)
	}
	return f, nil
}

func (s *friendService) loadPendingFor(ctx context.Context, userID, friendshipID int64) (*friend.Friendship, error) {
	f, err := s.getFriendship(ctx, friendshipID)
	if err != nil {
		return nil, err
	}
	if f.FriendID != userID {
		return nil, apperrors.ForbiddenError(ErrNotRecipient, "request addressed to another user")
	}
	if f.Status != friend.StatusPending {
		return nil, apperrors.ConflictError(nil, "request already resolved")
	}
	return f, nil
}
