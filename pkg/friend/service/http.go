package service

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/forgelabs/forge/pkg/app/errors"
	apphttp "github.com/forgelabs/forge/pkg/app/http"
	"github.com/forgelabs/forge/pkg/auth"
	"github.com/forgelabs/forge/pkg/friend"
)

// HTTP wraps the Service to provide HTTP endpoints
type HTTP struct {
	service Service
	logger  *zap.Logger
}

// RegisterRoutes registers friendship endpoints on the given chi router.
// All routes assume the auth middleware already ran.
func RegisterRoutes(r chi.Router, service Service, logger *zap.Logger) {
	h := &HTTP{
		service: service,
		logger:  logger,
	}

	r.Get("/friends", apphttp.HandleError(h.list))
	r.Post("/friends", apphttp.HandleError(h.request))
	r.Get("/friends/pending", apphttp.HandleError(h.pending))
	r.Get("/friends/search", apphttp.HandleError(h.search))
	r.Post("/friends/{id}/accept", apphttp.HandleError(h.accept))
	r.Post("/friends/{id}/decline", apphttp.HandleError(h.decline))
	r.Delete("/friends/{id}", apphttp.HandleError(h.remove))
}

type requestBody struct {
	Username string `json:"username" validate:"required"`
}

type friendshipJSON struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	FriendID  int64  `json:"friend_id"`
	Status    string `json:"status"`
	Username  string `json:"username,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

func toFriendshipJSON(f *friend.Friendship) friendshipJSON {
	return friendshipJSON{
		ID:        f.ID,
		UserID:    f.UserID,
		FriendID:  f.FriendID,
		Status:    string(f.Status),
		Username:  f.FriendUsername,
		AvatarURL: f.FriendAvatarURL,
	}
}

func (h *HTTP) request(w http.ResponseWriter, r *http.Request) error {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req requestBody
	if err := apphttp.DecodeAndValidate(r, &req); err != nil {
		return err
	}

	f, err := h.service.Request(r.Context(), userID, req.Username)
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusCreated, toFriendshipJSON(f))
	return nil
}

func (h *HTTP) list(w http.ResponseWriter, r *http.Request) error {
	userID, _ := auth.UserIDFromContext(r.Context())

	friends, err := h.service.ListFriends(r.Context(), userID)
	if err != nil {
		return err
	}

	out := make([]friendshipJSON, 0, len(friends))
	for _, f := range friends {
		out = append(out, toFriendshipJSON(f))
	}
	apphttp.WriteJSON(w, http.StatusOK, out)
	return nil
}

func (h *HTTP) pending(w http.ResponseWriter, r *http.Request) error {
	userID, _ := auth.UserIDFromContext(r.Context())

	pending, err := h.service.ListPending(r.Context(), userID)
	if err != nil {
		return err
	}

	out := make([]friendshipJSON, 0, len(pending))
	for _, f := range pending {
		out = append(out, toFriendshipJSON(f))
	}
	apphttp.WriteJSON(w, http.StatusOK, out)
	return nil
}

func (h *HTTP) search(w http.ResponseWriter, r *http.Request) error {
	profiles, err := h.service.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, profiles)
	return nil
}

func (h *HTTP) accept(w http.ResponseWriter, r *http.Request) error {
	return h.resolve(w, r, h.service.Accept, "accepted")
}

func (h *HTTP) decline(w http.ResponseWriter, r *http.Request) error {
	return h.resolve(w, r, h.service.Decline, "declined")
}

func (h *HTTP) remove(w http.ResponseWriter, r *http.Request) error {
	return h.resolve(w, r, h.service.Remove, "removed")
}

func (h *HTTP) resolve(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, userID, id int64) error, status string) error {
	userID, _ := auth.UserIDFromContext(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return apperrors.BadRequestError(err, "invalid id")
	}

	if err := fn(r.Context(), userID, id); err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, map[string]string{"status": status})
	return nil
}
