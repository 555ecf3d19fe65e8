package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/forgelabs/forge/pkg/app/errors"
	"github.com/forgelabs/forge/pkg/activity"
	"github.com/forgelabs/forge/pkg/friend"
	"github.com/forgelabs/forge/pkg/friendstore"
	"github.com/forgelabs/forge/pkg/notify"
	"github.com/forgelabs/forge/pkg/user"
	"github.com/forgelabs/forge/pkg/userstore"
)

// MockStore is a func-field mock of Store.
type MockStore struct {
	CreateRequestFunc       func(ctx context.Context, userID, friendID int64) (*friend.Friendship, error)
	GetByIDFunc             func(ctx context.Context, id int64) (*friend.Friendship, error)
	AcceptFunc              func(ctx context.Context, id int64) error
	DeleteFunc              func(ctx context.Context, id int64) error
	ListFriendsFunc         func(ctx context.Context, userID int64) ([]*friend.Friendship, error)
	ListPendingRequestsFunc func(ctx context.Context, userID int64) ([]*friend.Friendship, error)

	Accepted []int64
	Deleted  []int64
}

func (m *MockStore) CreateRequest(ctx context.Context, userID, friendID int64) (*friend.Friendship, error) {
	if m.CreateRequestFunc != nil {
		return m.CreateRequestFunc(ctx, userID, friendID)
	}
	return &friend.Friendship{ID: 1, UserID: userID, FriendID: friendID, Status: friend.StatusPending}, nil
}

func (m *MockStore) GetByID(ctx context.Context, id int64) (*friend.Friendship, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, friendstore.ErrFriendshipNotFound
}

func (m *MockStore) Accept(ctx context.Context, id int64) error {
	m.Accepted = append(m.Accepted, id)
	if m.AcceptFunc != nil {
		return m.AcceptFunc(ctx, id)
	}
	return nil
}

func (m *MockStore) Delete(ctx context.Context, id int64) error {
	m.Deleted = append(m.Deleted, id)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockStore) ListFriends(ctx context.Context, userID int64) ([]*friend.Friendship, error) {
	if m.ListFriendsFunc != nil {
		return m.ListFriendsFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockStore) ListPendingRequests(ctx context.Context, userID int64) ([]*friend.Friendship, error) {
	if m.ListPendingRequestsFunc != nil {
		return m.ListPendingRequestsFunc(ctx, userID)
	}
	return nil, nil
}

// MockUsers is a func-field mock of UserLookup.
type MockUsers struct {
	GetUserFunc     func(ctx context.Context, opts ...userstore.QueryOption) (*user.User, error)
	SearchUsersFunc func(ctx context.Context, query string, limit int) ([]*user.User, error)
}

func (m *MockUsers) GetUser(ctx context.Context, opts ...userstore.QueryOption) (*user.User, error) {
	if m.GetUserFunc != nil {
		return m.GetUserFunc(ctx, opts...)
	}
	return nil, userstore.ErrUserNotFound
}

func (m *MockUsers) SearchUsers(ctx context.Context, query string, limit int) ([]*user.User, error) {
	if m.SearchUsersFunc != nil {
		return m.SearchUsersFunc(ctx, query, limit)
	}
	return nil, nil
}

// MockRecorder collects recorded activities.
type MockRecorder struct {
	Recorded []*activity.Activity
}

func (m *MockRecorder) Record(_ context.Context, act *activity.Activity) error {
	m.Recorded = append(m.Recorded, act)
	return nil
}

// MockSender collects notifications per user.
type MockSender struct {
	Sent map[int64][]*notify.Message
}

func (m *MockSender) Send(_ context.Context, userID int64, msg *notify.Message) {
	if m.Sent == nil {
		m.Sent = map[int64][]*notify.Message{}
	}
	m.Sent[userID] = append(m.Sent[userID], msg)
}

func newTestService(store *MockStore, users *MockUsers) (Service, *MockRecorder, *MockSender) {
	if users == nil {
		users = &MockUsers{}
	}
	recorder := &MockRecorder{}
	sender := &MockSender{}
	return NewService(store, users, recorder, sender, zap.NewNop()), recorder, sender
}

func usersWith(u *user.User) *MockUsers {
	return &MockUsers{
		GetUserFunc: func(_ context.Context, _ ...userstore.QueryOption) (*user.User, error) {
			return u, nil
		},
	}
}

func TestRequest_NotifiesRecipient(t *testing.T) {
	store := &MockStore{}
	svc, recorder, sender := newTestService(store, usersWith(&user.User{ID: 9, Username: "bob"}))

	f, err := svc.Request(context.Background(), 7, "bob")
	require.NoError(t, err)

	assert.Equal(t, int64(7), f.UserID)
	assert.Equal(t, int64(9), f.FriendID)
	assert.Equal(t, friend.StatusPending, f.Status)
	require.Len(t, recorder.Recorded, 1)
	assert.Equal(t, activity.TypeFriendRequestSent, recorder.Recorded[0].Type)
	assert.Len(t, sender.Sent[9], 1)
}

func TestRequest_Self_ReturnsBadRequest(t *testing.T) {
	svc, _, _ := newTestService(&MockStore{}, usersWith(&user.User{ID: 7, Username: "alice"}))

	_, err := svc.Request(context.Background(), 7, "alice")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CategoryDataError))
}

func TestRequest_UnknownUser_ReturnsNotFound(t *testing.T) {
	svc, _, _ := newTestService(&MockStore{}, nil)

	_, err := svc.Request(context.Background(), 7, "ghost")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CategoryResourceNotFound))
}

func TestRequest_Duplicate_ReturnsConflict(t *testing.T) {
	store := &MockStore{
		CreateRequestFunc: func(_ context.Context, _, _ int64) (*friend.Friendship, error) {
			return nil, friendstore.ErrAlreadyExists
		},
	}
	svc, _, _ := newTestService(store, usersWith(&user.User{ID: 9, Username: "bob"}))

	_, err := svc.Request(context.Background(), 7, "bob")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CategoryDataConflict))
}

func pendingRequest() *friend.Friendship {
	return &friend.Friendship{ID: 3, UserID: 7, FriendID: 9, Status: friend.StatusPending}
}

func storeWith(f *friend.Friendship) *MockStore {
	return &MockStore{
		GetByIDFunc: func(_ context.Context, _ int64) (*friend.Friendship, error) {
			return f, nil
		},
	}
}

func TestAccept_RecordsBothSides(t *testing.T) {
	store := storeWith(pendingRequest())
	svc, recorder, sender := newTestService(store, nil)

	require.NoError(t, svc.Accept(context.Background(), 9, 3))

	assert.Equal(t, []int64{3}, store.Accepted)
	require.Len(t, recorder.Recorded, 2)
	for _, act := range recorder.Recorded {
		assert.Equal(t, activity.TypeBecameFriends, act.Type)
	}
	// The original requester gets the push.
	assert.Len(t, sender.Sent[7], 1)
}

func TestAccept_NotRecipient_ReturnsForbidden(t *testing.T) {
	svc, _, _ := newTestService(storeWith(pendingRequest()), nil)

	err := svc.Accept(context.Background(), 7, 3)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CategoryForbidden))
	assert.True(t, errors.Is(err, ErrNotRecipient))
}

func TestAccept_AlreadyAccepted_ReturnsConflict(t *testing.T) {
	f := pendingRequest()
	f.Status = friend.StatusAccepted
	svc, _, _ := newTestService(storeWith(f), nil)

	err := svc.Accept(context.Background(), 9, 3)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CategoryDataConflict))
}

func TestDecline_DeletesRow(t *testing.T) {
	store := storeWith(pendingRequest())
	svc, _, _ := newTestService(store, nil)

	require.NoError(t, svc.Decline(context.Background(), 9, 3))
	assert.Equal(t, []int64{3}, store.Deleted)
}

func TestRemove_RequiresMembership(t *testing.T) {
	f := pendingRequest()
	f.Status = friend.StatusAccepted
	store := storeWith(f)
	svc, _, _ := newTestService(store, nil)

	err := svc.Remove(context.Background(), 99, 3)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CategoryForbidden))

	require.NoError(t, svc.Remove(context.Background(), 7, 3))
	assert.Equal(t, []int64{3}, store.Deleted)
}

func TestSearch_EmptyQuery_ReturnsBadRequest(t *testing.T) {
	svc, _, _ := newTestService(&MockStore{}, nil)

	_, err := svc.Search(context.Background(), "")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CategoryDataError))
}

func TestSearch_ReturnsProfiles(t *testing.T) {
	users := &MockUsers{
		SearchUsersFunc: func(_ context.Context, query string, limit int) ([]*user.User, error) {
			assert.Equal(t, "ali", query)
			assert.Equal(t, 20, limit)
			return []*user.User{{ID: 1, Username: "alice"}}, nil
		},
	}
	svc, _, _ := newTestService(&MockStore{}, users)

	profiles, err := svc.Search(context.Background(), "ali")
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "alice", profiles[0].Username)
}
