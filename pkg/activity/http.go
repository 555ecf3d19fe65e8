package activity

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apphttp "github.com/forgelabs/forge/pkg/app/http"
	"github.com/forgelabs/forge/pkg/auth"
)

const feedLimit = 50

// Feeder loads the social feed for a user.
type Feeder interface {
	Feed(ctx context.Context, userID int64, limit int) ([]*Activity, error)
}

// HTTP serves the social feed
type HTTP struct {
	store  Feeder
	logger *zap.Logger
}

// RegisterRoutes registers the feed endpoint on the given chi router.
// Assumes the auth middleware already ran.
func RegisterRoutes(r chi.Router, store Feeder, logger *zap.Logger) {
	h := &HTTP{
		store:  store,
		logger: logger,
	}

	r.Get("/feed", apphttp.HandleError(h.feed))
}

type activityJSON struct {
	ID          int64          `json:"id"`
	UserID      int64          `json:"user_id"`
	Username    string         `json:"username"`
	AvatarURL   string         `json:"avatar_url,omitempty"`
	Type        string         `json:"type"`
	Data        map[string]any `json:"data,omitempty"`
	ChallengeID *int64         `json:"challenge_id,omitempty"`
	CreatedAt   string         `json:"created_at"`
}

func (h *HTTP) feed(w http.ResponseWriter, r *http.Request) error {
	userID, _ := auth.UserIDFromContext(r.Context())

	acts, err := h.store.Feed(r.Context(), userID, feedLimit)
	if err != nil {
		return err
	}

	out := make([]activityJSON, 0, len(acts))
	for _, act := range acts {
		out = append(out, activityJSON{
			ID:          act.ID,
			UserID:      act.UserID,
			Username:    act.Username,
			AvatarURL:   act.AvatarURL,
			Type:        string(act.Type),
			Data:        act.Data,
			ChallengeID: act.ChallengeID,
			CreatedAt:   act.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	apphttp.WriteJSON(w, http.StatusOK, out)
	return nil
}
