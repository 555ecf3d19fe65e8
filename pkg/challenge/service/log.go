package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/forgelabs/forge/pkg/challenge"
	"github.com/forgelabs/forge/pkg/challengestore"
)

const serviceName = "ChallengeService"

// logService wraps Service with automatic logging of all method calls
type logService struct {
	svc    Service
	logger *zap.Logger
}

// NewLog creates a logging decorator for the challenge Service.
func NewLog(svc Service, logger *zap.Logger) Service {
	return &logService{
		svc:    svc,
		logger: logger,
	}
}

func (ls *logService) log(method string, start time.Time, err error, fields ...zap.Field) {
	fields = append(fields,
		zap.String("service", serviceName),
		zap.String("method", method),
		zap.Duration("duration", time.Since(start)),
	)
	if err != nil {
		ls.logger.Error(method+" failed", append(fields, zap.Error(err))...)
		return
	}
	ls.logger.Info(method+" completed", fields...)
}

func (ls *logService) Create(ctx context.Context, userID int64, req *CreateRequest) (ch *challenge.Challenge, err error) {
	defer func(start time.Time) {
		ls.log("Create", start, err,
			zap.Int64("user_id", userID),
			zap.String("name", req.Name),
			zap.Int64("wager", req.Wager),
		)
	}(time.Now())
	return ls.svc.Create(ctx, userID, req)
}

func (ls *logService) ListMine(ctx context.Context, userID int64) ([]*challengestore.Summary, error) {
	return ls.svc.ListMine(ctx, userID)
}

func (ls *logService) Get(ctx context.Context, userID, challengeID int64) (*challenge.Detail, error) {
	return ls.svc.Get(ctx, userID, challengeID)
}

func (ls *logService) Leaderboard(ctx context.Context, userID, challengeID int64) ([]*challenge.ParticipantProgress, error) {
	return ls.svc.Leaderboard(ctx, userID, challengeID)
}

func (ls *logService) ListInvites(ctx context.Context, userID int64) ([]*challenge.Invite, error) {
	return ls.svc.ListInvites(ctx, userID)
}

func (ls *logService) AcceptInvite(ctx context.Context, userID, inviteID int64) (err error) {
	defer func(start time.Time) {
		ls.log("AcceptInvite", start, err,
			zap.Int64("user_id", userID),
			zap.Int64("invite_id", inviteID),
		)
	}(time.Now())
	return ls.svc.AcceptInvite(ctx, userID, inviteID)
}

func (ls *logService) DeclineInvite(ctx context.Context, userID, inviteID int64) (err error) {
	defer func(start time.Time) {
		ls.log("DeclineInvite", start, err,
			zap.Int64("user_id", userID),
			zap.Int64("invite_id", inviteID),
		)
	}(time.Now())
	return ls.svc.DeclineInvite(ctx, userID, inviteID)
}
