package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/forgelabs/forge/pkg/submission"
)

const serviceName = "SubmissionService"

// logService wraps Service with automatic logging of all method calls
type logService struct {
	svc    Service
	logger *zap.Logger
}

// NewLog creates a logging decorator for the submission Service.
func NewLog(svc Service, logger *zap.Logger) Service {
	return &logService{
		svc:    svc,
		logger: logger,
	}
}

func (ls *logService) Submit(ctx context.Context, userID, challengeID int64, req *SubmitRequest) (sub *submission.Submission, err error) {
	start := time.Now()

	defer func() {
		duration := time.Since(start)
		if err != nil {
			ls.logger.Error("Submit failed",
				zap.String("service", serviceName),
				zap.Int64("user_id", userID),
				zap.Int64("challenge_id", challengeID),
				zap.Duration("duration", duration),
				zap.Error(err),
			)
		} else {
			ls.logger.Info("Submit completed",
				zap.String("service", serviceName),
				zap.Int64("user_id", userID),
				zap.Int64("challenge_id", challengeID),
				zap.Bool("verified", sub.Verified),
				zap.Bool("pending", sub.Pending),
				zap.Duration("duration", duration),
			)
		}
	}()

	return ls.svc.Submit(ctx, userID, challengeID, req)
}

func (ls *logService) List(ctx context.Context, userID, challengeID int64) ([]*submission.Submission, error) {
	return ls.svc.List(ctx, userID, challengeID)
}
