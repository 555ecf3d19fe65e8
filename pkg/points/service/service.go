package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/forgelabs/forge/pkg/points"
	"github.com/forgelabs/forge/pkg/user"
)

const (
	historyLimit     = 100
	leaderboardLimit = 20
)

// Ledger is the slice of the point ledger the service reads.
type Ledger interface {
	Balance(ctx context.Context, userID int64) (int64, error)
	ListTransactions(ctx context.Context, userID int64, limit int) ([]*points.Transaction, error)
}

// UserRanking exposes the global points leaderboard.
type UserRanking interface {
	TopByPoints(ctx context.Context, limit int) ([]*user.User, error)
}

// LeaderboardEntry is one row of the global points leaderboard.
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Points   int64  `json:"points"`
}

// Service defines the interface for point queries
type Service interface {
	Balance(ctx context.Context, userID int64) (int64, error)
	History(ctx context.Context, userID int64) ([]*points.Transaction, error)
	Leaderboard(ctx context.Context) ([]LeaderboardEntry, error)
}

type pointsService struct {
	ledger Ledger
	users  UserRanking
	logger *zap.Logger
}

// NewService creates a new points service
func NewService(ledger Ledger, users UserRanking, logger *zap.Logger) Service {
	return &pointsService{
		ledger: ledger,
		users:  users,
		logger: logger,
	}
}

func (s *pointsService) Balance(ctx context.Context, userID int64) (int64, error) {
	balance, err := s.ledger.Balance(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

func (s *pointsService) History(ctx context.Context, userID int64) ([]*points.Transaction, error) {
	txs, err := s.ledger.ListTransactions(ctx, userID, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return txs, nil
}

func (s *pointsService) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	users, err := s.users.TopByPoints(ctx, leaderboardLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}

	entries := make([]LeaderboardEntry, 0, len(users))
	for i, u := range users {
		entries = append(entries, LeaderboardEntry{
			Rank:     i + 1,
			UserID:   u.ID,
			Username: u.Username,
			Points:   u.Points,
		})
	}
	return entries, nil
}
