package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/forgelabs/forge/internal/metrics"
	apperrors "github.com/forgelabs/forge/pkg/app/errors"
	"github.com/forgelabs/forge/pkg/activity"
	"github.com/forgelabs/forge/pkg/auth"
	"github.com/forgelabs/forge/pkg/points"
	"github.com/forgelabs/forge/pkg/user"
	"github.com/forgelabs/forge/pkg/userstore"
)

var (
	ErrUserAlreadyExists  = errors.New("username or email already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// Store is the narrow data-access interface for the auth service.
type Store interface {
	CreateUser(ctx context.Context, usr *user.User) error
	GetUser(ctx context.Context, opts ...userstore.QueryOption) (*user.User, error)
	UserExists(ctx context.Context, username, email string) (bool, error)
}

// Ledger is the slice of the point ledger the auth service needs.
type Ledger interface {
	Credit(ctx context.Context, userID, amount int64, typ points.Type, description string, challengeID *int64) error
	Balance(ctx context.Context, userID int64) (int64, error)
}

// ActivityRecorder records feed entries.
type ActivityRecorder interface {
	Record(ctx context.Context, act *activity.Activity) error
}

// Service defines the interface for signup and login
type Service interface {
	Signup(ctx context.Context, req *user.SignupRequest) (*user.AuthResponse, error)
	Login(ctx context.Context, req *user.LoginRequest) (*user.AuthResponse, error)
}

type authService struct {
	store       Store
	ledger      Ledger
	activities  ActivityRecorder
	tokens      *auth.TokenManager
	logger      *zap.Logger
	signupBonus int64
	bcryptCost  int
	tokenTTL    time.Duration
}

// NewService creates a new auth service
func NewService(
	store Store,
	ledger Ledger,
	activities ActivityRecorder,
	tokens *auth.TokenManager,
	logger *zap.Logger,
	signupBonus int64,
	bcryptCost int,
	tokenTTL time.Duration,
) Service {
	return &authService{
		store:       store,
		ledger:      ledger,
		activities:  activities,
		tokens:      tokens,
		logger:      logger,
		signupBonus: signupBonus,
		bcryptCost:  bcryptCost,
		tokenTTL:    tokenTTL,
	}
}

// Signup creates an account, credits the signup bonus through the ledger and
// returns a session token.
func (s *authService) Signup(ctx context.Context, req *user.SignupRequest) (*user.AuthResponse, error) {
	exists, err := s.store.UserExists(ctx, req.Username, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check user existence: %w", err)
	}
	if exists {
		return nil, apperrors.ConflictError(ErrUserAlreadyExists, "username or email already taken")
	}

	hash, err := auth.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	usr := &user.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := s.store.CreateUser(ctx, usr); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if s.signupBonus > 0 {
		err := s.ledger.Credit(ctx, usr.ID, s.signupBonus, points.TypeSignupBonus, "Welcome bonus", nil)
		if err != nil {
			return nil, fmt.Errorf("failed to credit signup bonus: %w", err)
		}
		usr.Points = s.signupBonus
	}

	if err := s.activities.Record(ctx, &activity.Activity{
		UserID: usr.ID,
		Type:   activity.TypeJoined,
	}); err != nil {
		s.logger.Warn("failed to record signup activity", zap.Error(err))
	}

	metrics.SignupsTotal.Inc()
	metrics.PointsMoved.WithLabelValues(string(points.TypeSignupBonus)).Add(float64(s.signupBonus))

	return s.authResponse(usr)
}

// Login checks credentials and returns a session token.
func (s *authService) Login(ctx context.Context, req *user.LoginRequest) (*user.AuthResponse, error) {
	usr, err := s.store.GetUser(ctx, userstore.WithUsername(req.Username))
	if err != nil {
		if errors.Is(err, userstore.ErrUserNotFound) {
			return nil, apperrors.UnAuthorizedError(ErrInvalidCredentials, "invalid username or password")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !auth.CheckPassword(usr.PasswordHash, req.Password) {
		return nil, apperrors.UnAuthorizedError(ErrInvalidCredentials, "invalid username or password")
	}

	return s.authResponse(usr)
}

func (s *authService) authResponse(usr *user.User) (*user.AuthResponse, error) {
	token, err := s.tokens.Issue(usr.ID, usr.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &user.AuthResponse{
		Token:     token,
		User:      usr.Profile(),
		Points:    usr.Points,
		ExpiresAt: time.Now().Add(s.tokenTTL).Unix(),
	}, nil
}
