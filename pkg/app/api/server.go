// Package api implements app.Runner for the Forge API server process.
package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/forgelabs/forge/pkg/activity"
	"github.com/forgelabs/forge/pkg/activitystore"
	apphttp "github.com/forgelabs/forge/pkg/app/http"
	"github.com/forgelabs/forge/pkg/auth"
	authsvc "github.com/forgelabs/forge/pkg/auth/service"
	challengesvc "github.com/forgelabs/forge/pkg/challenge/service"
	"github.com/forgelabs/forge/pkg/challengestore"
	"github.com/forgelabs/forge/pkg/config"
	friendsvc "github.com/forgelabs/forge/pkg/friend/service"
	"github.com/forgelabs/forge/pkg/friendstore"
	"github.com/forgelabs/forge/pkg/notify"
	"github.com/forgelabs/forge/pkg/pgutil"
	pointsvc "github.com/forgelabs/forge/pkg/points/service"
	"github.com/forgelabs/forge/pkg/pointstore"
	"github.com/forgelabs/forge/pkg/reminder"
	"github.com/forgelabs/forge/pkg/settlement"
	"github.com/forgelabs/forge/pkg/settlementstore"
	submissionsvc "github.com/forgelabs/forge/pkg/submission/service"
	"github.com/forgelabs/forge/pkg/submissionstore"
	"github.com/forgelabs/forge/pkg/userstore"
	"github.com/forgelabs/forge/pkg/verify"
)

const defaultHTTPMiddlewareTimeout = 60 * time.Second

// Server holds configuration for the API server process.
type Server struct {
	cfg *config.Config
}

// NewServer initializes a new API Server.
func NewServer(cfg *config.Config) *Server {
	return &Server{cfg: cfg}
}

// Run starts the API server and the reminder job.
// It blocks until an OS shutdown signal is received or a fatal server error occurs.
func (s *Server) Run() error {
	if s.cfg == nil {
		return fmt.Errorf("nil config")
	}
	cfg := s.cfg

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting Forge API server")

	db, err := pgutil.ConnectDB(&cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { _ = db.Close() }()
	logger.Info("Database connection established")

	// Stores
	users := userstore.NewStore(db)
	ledger := pointstore.NewStore(db)
	challenges := challengestore.NewStore(db)
	submissions := submissionstore.NewStore(db)
	friends := friendstore.NewStore(db)
	activities := activitystore.NewStore(db)
	pushStore := notify.NewStore(db)
	settlements := settlementstore.NewStore(db)

	// Push sender is a no-op without VAPID keys.
	pusher := notify.NewWebPushSender(pushStore, &cfg.Push, logger)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// The oracle constructor returns a typed nil pointer when no API key is
	// configured; assign through the interface only when it really exists.
	var oracle verify.Oracle
	if o := verify.NewOpenAIOracle(&cfg.Verifier, logger); o != nil {
		oracle = o
	}

	// Services
	authService := authsvc.NewLog(authsvc.NewService(
		users, ledger, activities, tokens, logger,
		cfg.Points.SignupBonus, cfg.Auth.BcryptCost, cfg.Auth.TokenTTL,
	), logger)
	challengeService := challengesvc.NewLog(challengesvc.NewService(
		challenges, submissions, activities, pusher, logger,
	), logger)
	submissionService := submissionsvc.NewLog(submissionsvc.NewService(
		submissions, challenges, activities, oracle, logger,
	), logger)
	friendService := friendsvc.NewService(friends, users, activities, pusher, logger)
	pointService := pointsvc.NewService(ledger, users, logger)
	settler := settlement.NewEngine(settlements, activities, pusher, logger)

	reminderJob := reminder.New(submissions, pusher, &cfg.Reminders, logger)
	if err := reminderJob.Start(ctx); err != nil {
		return fmt.Errorf("start reminder job: %w", err)
	}
	defer reminderJob.Stop()

	router := s.newRouter(tokens, authService, challengeService, submissionService,
		friendService, pointService, settler, pushStore, pusher, activities, reminderJob, logger)

	return apphttp.ServeAndWait(ctx, router, logger, &cfg.Server, cfg.Shutdown.Timeout)
}

func (s *Server) newRouter(
	tokens *auth.TokenManager,
	authService authsvc.Service,
	challengeService challengesvc.Service,
	submissionService submissionsvc.Service,
	friendService friendsvc.Service,
	pointService pointsvc.Service,
	settler *settlement.Engine,
	pushStore notify.Store,
	pusher *notify.WebPushSender,
	activities activity.Feeder,
	reminderJob *reminder.Reminder,
	logger *zap.Logger,
) http.Handler {
	cfg := s.cfg

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(defaultHTTPMiddlewareTimeout))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	if cfg.Monitoring.Enabled {
		r.Handle("/metrics", promhttp.Handler())
		logger.Info("Metrics enabled", zap.String("path", "/metrics"))
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints
		authsvc.RegisterRoutes(r, authService, logger)

		// Everything else requires a session token.
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(tokens))

			challengesvc.RegisterRoutes(r, challengeService, logger)
			submissionsvc.RegisterRoutes(r, submissionService, logger)
			settlement.RegisterRoutes(r, settler, logger)
			friendsvc.RegisterRoutes(r, friendService, logger)
			pointsvc.RegisterRoutes(r, pointService, logger)
			activity.RegisterRoutes(r, activities, logger)
			notify.RegisterRoutes(r, pushStore, pusher, logger)
			reminderJob.RegisterRoutes(r)
		})
	})

	return r
}
