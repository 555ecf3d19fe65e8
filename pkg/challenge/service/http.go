package service

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/forgelabs/forge/pkg/app/errors"
	apphttp "github.com/forgelabs/forge/pkg/app/http"
	"github.com/forgelabs/forge/pkg/auth"
	"github.com/forgelabs/forge/pkg/challenge"
	"github.com/forgelabs/forge/pkg/challengestore"
)

// HTTP wraps the Service to provide HTTP endpoints
type HTTP struct {
	service Service
	logger  *zap.Logger
}

// RegisterRoutes registers challenge and invite endpoints on the given chi
// router. All routes assume the auth middleware already ran.
func RegisterRoutes(r chi.Router, service Service, logger *zap.Logger) {
	h := &HTTP{
		service: service,
		logger:  logger,
	}

	r.Post("/challenges", apphttp.HandleError(h.create))
	r.Get("/challenges", apphttp.HandleError(h.list))
	r.Get("/challenges/{id}", apphttp.HandleError(h.get))
	r.Get("/challenges/{id}/leaderboard", apphttp.HandleError(h.leaderboard))

	r.Get("/invites", apphttp.HandleError(h.listInvites))
	r.Post("/invites/{id}/accept", apphttp.HandleError(h.acceptInvite))
	r.Post("/invites/{id}/decline", apphttp.HandleError(h.declineInvite))
}

type challengeJSON struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	Frequency      string `json:"frequency"`
	FrequencyCount int    `json:"frequency_count"`
	Duration       int    `json:"duration"`
	Forfeit        string `json:"forfeit,omitempty"`
	Wager          int64  `json:"wager"`
	PolicingType   string `json:"policing_type"`
	ProofType      string `json:"proof_type"`
	CreatorID      int64  `json:"creator_id"`
	Status         string `json:"status"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
}

type summaryJSON struct {
	challengeJSON
	ParticipantCount int   `json:"participant_count"`
	CompletedCount   int   `json:"completed_count"`
	TotalPot         int64 `json:"total_pot"`
	TotalRequired    int   `json:"total_required"`
}

type participantJSON struct {
	UserID            int64  `json:"user_id"`
	Username          string `json:"username"`
	AvatarURL         string `json:"avatar_url,omitempty"`
	IsCreator         bool   `json:"is_creator"`
	CurrentStreak     int    `json:"current_streak"`
	LongestStreak     int    `json:"longest_streak"`
	PointsWagered     int64  `json:"points_wagered"`
	VerifiedCount     int    `json:"verified_count"`
	CompletionPercent int    `json:"completion_percent"`
	OnTrack           bool   `json:"on_track"`
}

type detailJSON struct {
	challengeJSON
	Required     int               `json:"required_submissions"`
	Target       int               `json:"completion_target"`
	TotalPot     int64             `json:"total_pot"`
	Participants []participantJSON `json:"participants"`
}

type inviteJSON struct {
	ID              int64  `json:"id"`
	ChallengeID     int64  `json:"challenge_id"`
	ChallengeName   string `json:"challenge_name"`
	InviterUsername string `json:"inviter_username"`
	Wager           int64  `json:"wager"`
	Duration        int    `json:"duration"`
	Frequency       string `json:"frequency"`
	CreatedAt       string `json:"created_at"`
}

const dateLayout = "2006-01-02"

func toChallengeJSON(ch *challenge.Challenge) challengeJSON {
	return challengeJSON{
		ID:             ch.ID,
		Name:           ch.Name,
		Description:    ch.Description,
		Frequency:      string(ch.Frequency),
		FrequencyCount: ch.FrequencyCount,
		Duration:       ch.Duration,
		Forfeit:        ch.Forfeit,
		Wager:          ch.Wager,
		PolicingType:   string(ch.PolicingType),
		ProofType:      ch.ProofType,
		CreatorID:      ch.CreatorID,
		Status:         string(ch.Status),
		StartDate:      ch.StartDate.Format(dateLayout),
		EndDate:        ch.EndDate.Format(dateLayout),
	}
}

func toParticipantJSON(p *challenge.ParticipantProgress) participantJSON {
	return participantJSON{
		UserID:            p.UserID,
		Username:          p.Username,
		AvatarURL:         p.AvatarURL,
		IsCreator:         p.IsCreator,
		CurrentStreak:     p.CurrentStreak,
		LongestStreak:     p.LongestStreak,
		PointsWagered:     p.PointsWagered,
		VerifiedCount:     p.VerifiedCount,
		CompletionPercent: p.CompletionPercent,
		OnTrack:           p.OnTrack,
	}
}

func toSummaryJSON(s *challengestore.Summary) summaryJSON {
	required, _ := s.Required()
	return summaryJSON{
		challengeJSON:    toChallengeJSON(&s.Challenge),
		ParticipantCount: s.ParticipantCount,
		CompletedCount:   s.CompletedCount,
		TotalPot:         s.TotalPot,
		TotalRequired:    required,
	}
}

func (h *HTTP) create(w http.ResponseWriter, r *http.Request) error {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req CreateRequest
	if err := apphttp.DecodeAndValidate(r, &req); err != nil {
		return err
	}

	ch, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusCreated, toChallengeJSON(ch))
	return nil
}

func (h *HTTP) list(w http.ResponseWriter, r *http.Request) error {
	userID, _ := auth.UserIDFromContext(r.Context())

	summaries, err := h.service.ListMine(r.Context(), userID)
	if err != nil {
		return err
	}

	out := make([]summaryJSON, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, toSummaryJSON(s))
	}
	apphttp.WriteJSON(w, http.StatusOK, out)
	return nil
}

func (h *HTTP) get(w http.ResponseWriter, r *http.Request) error {
	userID, _ := auth.UserIDFromContext(r.Context())
	challengeID, err := pathID(r, "id")
	if err != nil {
		return err
	}

	detail, err := h.service.Get(r.Context(), userID, challengeID)
	if err != nil {
		return err
	}

	out := detailJSON{
		challengeJSON: toChallengeJSON(&detail.Challenge),
		Required:      detail.Required,
		Target:        detail.Target,
		TotalPot:      detail.TotalPot,
		Participants:  make([]participantJSON, 0, len(detail.Participants)),
	}
	for _, p := range detail.Participants {
		out.Participants = append(out.Participants, toParticipantJSON(p))
	}
	apphttp.WriteJSON(w, http.StatusOK, out)
	return nil
}

func (h *HTTP) leaderboard(w http.ResponseWriter, r *http.Request) error {
	userID, _ := auth.UserIDFromContext(r.Context())
	challengeID, err := pathID(r, "id")
	if err != nil {
		return err
	}

	board, err := h.service.Leaderboard(r.Context(), userID, challengeID)
	if err != nil {
		return err
	}

	out := make([]participantJSON, 0, len(board))
	for _, p := range board {
		out = append(out, toParticipantJSON(p))
	}
	apphttp.WriteJSON(w, http.StatusOK, out)
	return nil
}

func (h *HTTP) listInvites(w http.ResponseWriter, r *http.Request) error {
	userID, _ := auth.UserIDFromContext(r.Context())

	invites, err := h.service.ListInvites(r.Context(), userID)
	if err != nil {
		return err
	}

	out := make([]inviteJSON, 0, len(invites))
	for _, inv := range invites {
		out = append(out, inviteJSON{
			ID:              inv.ID,
			ChallengeID:     inv.ChallengeID,
			ChallengeName:   inv.ChallengeName,
			InviterUsername: inv.InviterUsername,
			Wager:           inv.Wager,
			Duration:        inv.Duration,
			Frequency:       string(inv.Frequency),
			CreatedAt:       inv.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	apphttp.WriteJSON(w, http.StatusOK, out)
	return nil
}

func (h *HTTP) acceptInvite(w http.ResponseWriter, r *http.Request) error {
	userID, _ := auth.UserIDFromContext(r.Context())
	inviteID, err := pathID(r, "id")
	if err != nil {
		return err
	}

	if err := h.service.AcceptInvite(r.Context(), userID, inviteID); err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, map[string]string{"status": "accepted"})
	return nil
}

func (h *HTTP) declineInvite(w http.ResponseWriter, r *http.Request) error {
	userID, _ := auth.UserIDFromContext(r.Context())
	inviteID, err := pathID(r, "id")
	if err != nil {
		return err
	}

	if err := h.service.DeclineInvite(r.Context(), userID, inviteID); err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, map[string]string{"status": "declined"})
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.BadRequestError(err, "invalid id")
	}
	return id, nil
}
