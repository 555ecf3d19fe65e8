package notify

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/forgelabs/forge/pkg/app/errors"
	apphttp "github.com/forgelabs/forge/pkg/app/http"
	"github.com/forgelabs/forge/pkg/auth"
)

// HTTP serves push subscription endpoints
type HTTP struct {
	store  Store
	sender *WebPushSender
	logger *zap.Logger
}

// RegisterRoutes registers push endpoints on the given chi router.
// All routes assume the auth middleware already ran.
func RegisterRoutes(r chi.Router, store Store, sender *WebPushSender, logger *zap.Logger) {
	h := &HTTP{
		store:  store,
		sender: sender,
		logger: logger,
	}

	r.Get("/push/vapid-key", apphttp.HandleError(h.vapidKey))
	r.Post("/push/subscribe", apphttp.HandleError(h.subscribe))
	r.Post("/push/unsubscribe", apphttp.HandleError(h.unsubscribe))
}

type subscribeRequest struct {
	Endpoint string `json:"endpoint" validate:"required,url"`
	Keys     struct {
		P256DH string `json:"p256dh" validate:"required"`
		Auth   string `json:"auth" validate:"required"`
	} `json:"keys"`
}

type unsubscribeRequest struct {
	Endpoint string `json:"endpoint" validate:"required"`
}

func (h *HTTP) vapidKey(w http.ResponseWriter, r *http.Request) error {
	key := h.sender.PublicKey()
	if key == "" {
		return apperrors.ResourceNotFoundError(nil, "push notifications are not configured")
	}
	apphttp.WriteJSON(w, http.StatusOK, map[string]string{"public_key": key})
	return nil
}

func (h *HTTP) subscribe(w http.ResponseWriter, r *http.Request) error {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req subscribeRequest
	if err := apphttp.DecodeAndValidate(r, &req); err != nil {
		return err
	}

	err := h.store.Upsert(r.Context(), &Subscription{
		UserID:   userID,
		Endpoint: req.Endpoint,
		P256DH:   req.Keys.P256DH,
		Auth:     req.Keys.Auth,
	})
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusCreated, map[string]string{"status": "subscribed"})
	return nil
}

func (h *HTTP) unsubscribe(w http.ResponseWriter, r *http.Request) error {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req unsubscribeRequest
	if err := apphttp.DecodeAndValidate(r, &req); err != nil {
		return err
	}

	if err := h.store.DeleteByEndpoint(r.Context(), userID, req.Endpoint); err != nil {
		if errors.Is(err, ErrSubscriptionNotFound) {
			return apperrors.ResourceNotFoundError(err, "subscription not found")
		}
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, map[string]string{"status": "unsubscribed"})
	return nil
}
