package service

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apphttp "github.com/forgelabs/forge/pkg/app/http"
	"github.com/forgelabs/forge/pkg/auth"
	"github.com/forgelabs/forge/pkg/points"
)

// HTTP wraps the Service to provide HTTP endpoints
type HTTP struct {
	service Service
	logger  *zap.Logger
}

// RegisterRoutes registers point endpoints on the given chi router.
// All routes assume the auth middleware already ran.
func RegisterRoutes(r chi.Router, service Service, logger *zap.Logger) {
	h := &HTTP{
		service: service,
		logger:  logger,
	}

	r.Get("/points", apphttp.HandleError(h.balance))
	r.Get("/points/history", apphttp.HandleError(h.history))
	r.Get("/points/leaderboard", apphttp.HandleError(h.leaderboard))
}

type transactionJSON struct {
	ID            int64  `json:"id"`
	Amount        int64  `json:"amount"`
	Type          string `json:"type"`
	Description   string `json:"description,omitempty"`
	ChallengeID   *int64 `json:"challenge_id,omitempty"`
	ChallengeName string `json:"challenge_name,omitempty"`
	CreatedAt     string `json:"created_at"`
}

func toTransactionJSON(tx *points.Transaction) transactionJSON {
	return transactionJSON{
		ID:            tx.ID,
		Amount:        tx.Amount,
		Type:          string(tx.Type),
		Description:   tx.Description,
		ChallengeID:   tx.ChallengeID,
		ChallengeName: tx.ChallengeName,
		CreatedAt:     tx.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (h *HTTP) balance(w http.ResponseWriter, r *http.Request) error {
	userID, _ := auth.UserIDFromContext(r.Context())

	balance, err := h.service.Balance(r.Context(), userID)
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, map[string]int64{"points": balance})
	return nil
}

func (h *HTTP) history(w http.ResponseWriter, r *http.Request) error {
	userID, _ := auth.UserIDFromContext(r.Context())

	txs, err := h.service.History(r.Context(), userID)
	if err != nil {
		return err
	}

	out := make([]transactionJSON, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionJSON(tx))
	}
	apphttp.WriteJSON(w, http.StatusOK, out)
	return nil
}

func (h *HTTP) leaderboard(w http.ResponseWriter, r *http.Request) error {
	entries, err := h.service.Leaderboard(r.Context())
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, entries)
	return nil
}
