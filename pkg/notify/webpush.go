package notify

import (
	"context"
	"encoding/json"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"
	"go.uber.org/zap"

	"github.com/forgelabs/forge/internal/metrics"
	"github.com/forgelabs/forge/pkg/config"
)

// WebPushSender delivers messages over the Web Push protocol with VAPID
// authentication.
type WebPushSender struct {
	store   Store
	cfg     *config.PushConfig
	logger  *zap.Logger
	enabled bool
}

// NewWebPushSender builds a sender. With no VAPID keys configured, Send
// becomes a no-op.
func NewWebPushSender(store Store, cfg *config.PushConfig, logger *zap.Logger) *WebPushSender {
	return &WebPushSender{
		store:   store,
		cfg:     cfg,
		logger:  logger,
		enabled: cfg.VAPIDPublicKey != "" && cfg.VAPIDPrivateKey != "",
	}
}

// Send pushes the message to every subscription the user has. Expired
// endpoints (HTTP 410) are dropped from the store. Errors are logged only.
func (s *WebPushSender) Send(ctx context.Context, userID int64, msg *Message) {
	if !s.enabled {
		return
	}

	subs, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to load push subscriptions",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		s.logger.Warn("failed to marshal push payload", zap.Error(err))
		return
	}

	for _, sub := range subs {
		resp, err := webpush.SendNotification(payload, &webpush.Subscription{
			Endpoint: sub.Endpoint,
			Keys: webpush.Keys{
				P256dh: sub.P256DH,
				Auth:   sub.Auth,
			},
		}, &webpush.Options{
			Subscriber:      s.cfg.Subject,
			VAPIDPublicKey:  s.cfg.VAPIDPublicKey,
			VAPIDPrivateKey: s.cfg.VAPIDPrivateKey,
			TTL:             3600,
		})
		if err != nil {
			metrics.PushesSent.WithLabelValues("error").Inc()
			s.logger.Warn("push delivery failed",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
			continue
		}
		metrics.PushesSent.WithLabelValues("ok").Inc()
		if resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound {
			if err := s.store.DeleteExpired(ctx, sub.Endpoint); err != nil {
				s.logger.Warn("failed to drop expired subscription", zap.Error(err))
			}
		}
		resp.Body.Close()
	}
}

// PublicKey returns the VAPID public key clients subscribe with, or "" when
// push is disabled.
func (s *WebPushSender) PublicKey() string {
	if !s.enabled {
		return ""
	}
	return s.cfg.VAPIDPublicKey
}
