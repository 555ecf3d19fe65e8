package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/forgelabs/forge/pkg/app/errors"
	"github.com/forgelabs/forge/pkg/activity"
	"github.com/forgelabs/forge/pkg/auth"
	"github.com/forgelabs/forge/pkg/points"
	"github.com/forgelabs/forge/pkg/user"
	"github.com/forgelabs/forge/pkg/userstore"
)

const testBonus = 10000

// MockStore is a func-field mock of Store.
type MockStore struct {
	CreateUserFunc func(ctx context.Context, usr *user.User) error
	GetUserFunc    func(ctx context.Context, opts ...userstore.QueryOption) (*user.User, error)
	UserExistsFunc func(ctx context.Context, username, email string) (bool, error)
}

func (m *MockStore) CreateUser(ctx context.Context, usr *user.User) error {
	if m.CreateUserFunc != nil {
		return m.CreateUserFunc(ctx, usr)
	}
	usr.ID = 1
	return nil
}

func (m *MockStore) GetUser(ctx context.Context, opts ...userstore.QueryOption) (*user.User, error) {
	if m.GetUserFunc != nil {
		return m.GetUserFunc(ctx, opts...)
	}
	return nil, userstore.ErrUserNotFound
}

func (m *MockStore) UserExists(ctx context.Context, username, email string) (bool, error) {
	if m.UserExistsFunc != nil {
		return m.UserExistsFunc(ctx, username, email)
	}
	return false, nil
}

// MockLedger records credits in memory.
type MockLedger struct {
	CreditFunc func(ctx context.Context, userID, amount int64, typ points.Type, description string, challengeID *int64) error

	Credited int64
}

func (m *MockLedger) Credit(ctx context.Context, userID, amount int64, typ points.Type, description string, challengeID *int64) error {
	m.Credited += amount
	if m.CreditFunc != nil {
		return m.CreditFunc(ctx, userID, amount, typ, description, challengeID)
	}
	return nil
}

func (m *MockLedger) Balance(_ context.Context, _ int64) (int64, error) {
	return m.Credited, nil
}

// MockRecorder collects recorded activities.
type MockRecorder struct {
	Recorded []*activity.Activity
}

func (m *MockRecorder) Record(_ context.Context, act *activity.Activity) error {
	m.Recorded = append(m.Recorded, act)
	return nil
}

func newTestService(store *MockStore, ledger *MockLedger) (Service, *auth.TokenManager, *MockRecorder) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	recorder := &MockRecorder{}
	svc := NewService(store, ledger, recorder, tokens, zap.NewNop(), testBonus, 4, time.Hour)
	return svc, tokens, recorder
}

func TestSignup_CreatesUserWithBonus(t *testing.T) {
	ledger := &MockLedger{}
	svc, tokens, recorder := newTestService(&MockStore{}, ledger)

	resp, err := svc.Signup(context.Background(), &user.SignupRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(testBonus), resp.Points)
	assert.Equal(t, int64(testBonus), ledger.Credited)
	assert.Equal(t, "alice", resp.User.Username)

	claims, err := tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claims.UserID)
	assert.Equal(t, "alice", claims.Username)

	require.Len(t, recorder.Recorded, 1)
	assert.Equal(t, activity.TypeJoined, recorder.Recorded[0].Type)
}

func TestSignup_HashesPassword(t *testing.T) {
	var created *user.User
	store := &MockStore{
		CreateUserFunc: func(_ context.Context, usr *user.User) error {
			usr.ID = 1
			created = usr
			return nil
		},
	}
	svc, _, _ := newTestService(store, &MockLedger{})

	_, err := svc.Signup(context.Background(), &user.SignupRequest{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	require.NotNil(t, created)
	assert.NotEqual(t, "correct horse battery", created.PasswordHash)
	assert.True(t, auth.CheckPassword(created.PasswordHash, "correct horse battery"))
}

func TestSignup_DuplicateUser_ReturnsConflict(t *testing.T) {
	store := &MockStore{
		UserExistsFunc: func(_ context.Context, _, _ string) (bool, error) {
			return true, nil
		},
	}
	ledger := &MockLedger{}
	svc, _, _ := newTestService(store, ledger)

	_, err := svc.Signup(context.Background(), &user.SignupRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "hunter2hunter2",
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CategoryDataConflict))
	assert.Zero(t, ledger.Credited)
}

func TestLogin_ValidCredentials(t *testing.T) {
	hash, err := auth.HashPassword("hunter2hunter2", 4)
	require.NoError(t, err)

	store := &MockStore{
		GetUserFunc: func(_ context.Context, _ ...userstore.QueryOption) (*user.User, error) {
			return &user.User{ID: 5, Username: "alice", PasswordHash: hash, Points: 300}, nil
		},
	}
	svc, tokens, _ := newTestService(store, &MockLedger{})

	resp, err := svc.Login(context.Background(), &user.LoginRequest{
		Username: "alice",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(300), resp.Points)
	claims, err := tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(5), claims.UserID)
}

func TestLogin_WrongPassword_ReturnsUnauthorized(t *testing.T) {
	hash, err := auth.HashPassword("hunter2hunter2", 4)
	require.NoError(t, err)

	store := &MockStore{
		GetUserFunc: func(_ context.Context, _ ...userstore.QueryOption) (*user.User, error) {
			return &user.User{ID: 5, Username: "alice", PasswordHash: hash}, nil
		},
	}
	svc, _, _ := newTestService(store, &MockLedger{})

	_, err = svc.Login(context.Background(), &user.LoginRequest{
		Username: "alice",
		Password: "wrong",
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CategoryUnauthorized))
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
}

func TestLogin_UnknownUser_ReturnsUnauthorized(t *testing.T) {
	svc, _, _ := newTestService(&MockStore{}, &MockLedger{})

	_, err := svc.Login(context.Background(), &user.LoginRequest{
		Username: "nobody",
		Password: "whatever",
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CategoryUnauthorized))
}
