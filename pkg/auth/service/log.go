package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/forgelabs/forge/pkg/user"
)

const serviceName = "AuthService"

// logService wraps Service with automatic logging of all method calls
type logService struct {
	svc    Service
	logger *zap.Logger
}

// NewLog creates a logging decorator for the auth Service.
func NewLog(svc Service, logger *zap.Logger) Service {
	return &logService{
		svc:    svc,
		logger: logger,
	}
}

func (ls *logService) Signup(ctx context.Context, req *user.SignupRequest) (resp *user.AuthResponse, err error) {
	start := time.Now()

	ls.logger.Info("Signup started",
		zap.String("service", serviceName),
		zap.String("username", req.Username),
	)

	defer func() {
		duration := time.Since(start)
		if err != nil {
			ls.logger.Error("Signup failed",
				zap.String("service", serviceName),
				zap.String("username", req.Username),
				zap.Duration("duration", duration),
				zap.Error(err),
			)
		} else {
			ls.logger.Info("Signup completed",
				zap.String("service", serviceName),
				zap.Int64("user_id", resp.User.ID),
				zap.String("username", resp.User.Username),
				zap.Duration("duration", duration),
			)
		}
	}()

	return ls.svc.Signup(ctx, req)
}

func (ls *logService) Login(ctx context.Context, req *user.LoginRequest) (resp *user.AuthResponse, err error) {
	start := time.Now()

	defer func() {
		duration := time.Since(start)
		if err != nil {
			ls.logger.Warn("Login failed",
				zap.String("service", serviceName),
				zap.String("username", req.Username),
				zap.Duration("duration", duration),
				zap.Error(err),
			)
		} else {
			ls.logger.Info("Login completed",
				zap.String("service", serviceName),
				zap.Int64("user_id", resp.User.ID),
				zap.Duration("duration", duration),
			)
		}
	}()

	return ls.svc.Login(ctx, req)
}
