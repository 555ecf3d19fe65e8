package service

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/forgelabs/forge/pkg/app/errors"
	apphttp "github.com/forgelabs/forge/pkg/app/http"
	"github.com/forgelabs/forge/pkg/auth"
	"github.com/forgelabs/forge/pkg/submission"
)

// HTTP wraps the Service to provide HTTP endpoints
type HTTP struct {
	service Service
	logger  *zap.Logger
}

// RegisterRoutes registers submission endpoints on the given chi router.
// All routes assume the auth middleware already ran.
func RegisterRoutes(r chi.Router, service Service, logger *zap.Logger) {
	h := &HTTP{
		service: service,
		logger:  logger,
	}

	r.Post("/challenges/{id}/submissions", apphttp.HandleError(h.submit))
	r.Get("/challenges/{id}/submissions", apphttp.HandleError(h.list))
}

type submissionJSON struct {
	ID            int64          `json:"id"`
	ChallengeID   int64          `json:"challenge_id"`
	UserID        int64          `json:"user_id"`
	Username      string         `json:"username,omitempty"`
	SubmittedOn   string         `json:"submitted_on"`
	Verified      bool           `json:"verified"`
	Pending       bool           `json:"pending"`
	Message       string         `json:"message,omitempty"`
	ExtractedData map[string]any `json:"extracted_data,omitempty"`
}

func toSubmissionJSON(sub *submission.Submission) submissionJSON {
	return submissionJSON{
		ID:            sub.ID,
		ChallengeID:   sub.ChallengeID,
		UserID:        sub.UserID,
		Username:      sub.Username,
		SubmittedOn:   sub.SubmittedOn.Format("2006-01-02"),
		Verified:      sub.Verified,
		Pending:       sub.Pending,
		Message:       sub.AIMessage,
		ExtractedData: sub.ExtractedData,
	}
}

func (h *HTTP) submit(w http.ResponseWriter, r *http.Request) error {
	userID, _ := auth.UserIDFromContext(r.Context())
	challengeID, err := pathID(r, "id")
	if err != nil {
		return err
	}

	var req SubmitRequest
	if err := apphttp.DecodeAndValidate(r, &req); err != nil {
		return err
	}

	sub, err := h.service.Submit(r.Context(), userID, challengeID, &req)
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusCreated, toSubmissionJSON(sub))
	return nil
}

func (h *HTTP) list(w http.ResponseWriter, r *http.Request) error {
	userID, _ := auth.UserIDFromContext(r.Context())
	challengeID, err := pathID(r, "id")
	if err != nil {
		return err
	}

	subs, err := h.service.List(r.Context(), userID, challengeID)
	if err != nil {
		return err
	}

	out := make([]submissionJSON, 0, len(subs))
	for _, sub := range subs {
		out = append(out, toSubmissionJSON(sub))
	}
	apphttp.WriteJSON(w, http.StatusOK, out)
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.BadRequestError(err, "invalid id")
	}
	return id, nil
}
