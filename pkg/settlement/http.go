package settlement

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/forgelabs/forge/pkg/app/errors"
	apphttp "github.com/forgelabs/forge/pkg/app/http"
	"github.com/forgelabs/forge/pkg/auth"
)

// HTTP wraps the Engine to provide the settle endpoint
type HTTP struct {
	engine *Engine
	logger *zap.Logger
}

// RegisterRoutes registers the settlement endpoint on the given chi router.
// Assumes the auth middleware already ran.
func RegisterRoutes(r chi.Router, engine *Engine, logger *zap.Logger) {
	h := &HTTP{
		engine: engine,
		logger: logger,
	}

	r.Post("/challenges/{id}/settle", apphttp.HandleError(h.settle))
}

func (h *HTTP) settle(w http.ResponseWriter, r *http.Request) error {
	userID, _ := auth.UserIDFromContext(r.Context())

	challengeID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || challengeID <= 0 {
		return apperrors.BadRequestError(err, "invalid id")
	}

	result, err := h.engine.Settle(r.Context(), userID, challengeID)
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, result)
	return nil
}
