package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/forgelabs/forge/pkg/app/errors"
	"github.com/forgelabs/forge/pkg/activity"
	"github.com/forgelabs/forge/pkg/challenge"
	"github.com/forgelabs/forge/pkg/challengestore"
	"github.com/forgelabs/forge/pkg/notify"
	"github.com/forgelabs/forge/pkg/points"
	"github.com/forgelabs/forge/pkg/proof"
)

var (
	ErrNotParticipant  = errors.New("not a participant of this challenge")
	ErrNotInvitee      = errors.New("invite addressed to another user")
	ErrInviteResolved  = errors.New("invite already resolved")
	ErrChallengeClosed = errors.New("challenge is no longer active")
)

// Store is the narrow data-access interface for the challenge service.
type Store interface {
	CreateChallenge(ctx context.Context, ch *challenge.Challenge, inviteeIDs []int64) error
	GetChallenge(ctx context.Context, id int64) (*challenge.Challenge, error)
	ListUserChallenges(ctx context.Context, userID int64) ([]*challengestore.Summary, error)
	Join(ctx context.Context, challengeID, userID, wager int64) error
	GetParticipant(ctx context.Context, challengeID, userID int64) (*challenge.Participant, error)
	ListParticipants(ctx context.Context, challengeID int64) ([]*challenge.Participant, error)
	TotalPot(ctx context.Context, challengeID int64) (int64, error)
	GetInvite(ctx context.Context, id int64) (*challenge.Invite, error)
	ListPendingInvites(ctx context.Context, inviteeID int64) ([]*challenge.Invite, error)
	SetInviteStatus(ctx context.Context, id int64, status challenge.InviteStatus) error
}

// SubmissionCounter exposes verified submission counts per participant.
type SubmissionCounter interface {
	VerifiedCount(ctx context.Context, challengeID, userID int64) (int, error)
}

// ActivityRecorder records feed entries.
type ActivityRecorder interface {
	Record(ctx context.Context, act *activity.Activity) error
}

// CreateRequest is the payload for creating a challenge.
type CreateRequest struct {
	Name           string  `json:"name" validate:"required,max=255"`
	Description    string  `json:"description" validate:"max=2000"`
	Frequency      string  `json:"frequency" validate:"required,oneof=daily weekly custom"`
	FrequencyCount int     `json:"frequency_count" validate:"min=0,max=7"`
	Duration       int     `json:"duration" validate:"required,min=1,max=365"`
	Forfeit        string  `json:"forfeit" validate:"max=500"`
	Wager          int64   `json:"wager" validate:"min=0"`
	PolicingType   string  `json:"policing_type" validate:"required,oneof=self ai"`
	ProofType      string  `json:"proof_type"`
	StartDate      string  `json:"start_date"` // YYYY-MM-DD, defaults to today
	InviteeIDs     []int64 `json:"invitee_ids"`
}

// Service defines the interface for challenge management
type Service interface {
	Create(ctx context.Context, userID int64, req *CreateRequest) (*challenge.Challenge, error)
	ListMine(ctx context.Context, userID int64) ([]*challengestore.Summary, error)
	Get(ctx context.Context, userID, challengeID int64) (*challenge.Detail, error)
	Leaderboard(ctx context.Context, userID, challengeID int64) ([]*challenge.ParticipantProgress, error)
	ListInvites(ctx context.Context, userID int64) ([]*challenge.Invite, error)
	AcceptInvite(ctx context.Context, userID, inviteID int64) error
	DeclineInvite(ctx context.Context, userID, inviteID int64) error
}

type challengeService struct {
	store       Store
	submissions SubmissionCounter
	activities  ActivityRecorder
	notifier    notify.Sender
	logger      *zap.Logger
}

// NewService creates a new challenge service
func NewService(
	store Store,
	submissions SubmissionCounter,
	activities ActivityRecorder,
	notifier notify.Sender,
	logger *zap.Logger,
) Service {
	return &challengeService{
		store:       store,
		submissions: submissions,
		activities:  activities,
		notifier:    notifier,
		logger:      logger,
	}
}

// Create validates the request and creates the challenge with the creator
// enrolled and staked, invites pending, all in one transaction.
func (s *challengeService) Create(ctx context.Context, userID int64, req *CreateRequest) (*challenge.Challenge, error) {
	freq := challenge.Frequency(req.Frequency)
	if freq != challenge.FrequencyDaily && req.FrequencyCount < 1 {
		return nil, apperrors.BadRequestError(nil, "frequency_count must be at least 1 for weekly and custom challenges")
	}

	startDate := time.Now().Truncate(24 * time.Hour)
	if req.StartDate != "" {
		parsed, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			return nil, apperrors.BadRequestError(err, "start_date must be YYYY-MM-DD")
		}
		startDate = parsed
	}

	ch := &challenge.Challenge{
		Name:           req.Name,
		Description:    req.Description,
		Frequency:      freq,
		FrequencyCount: req.FrequencyCount,
		Duration:       req.Duration,
		Forfeit:        req.Forfeit,
		Wager:          req.Wager,
		PolicingType:   challenge.PolicingType(req.PolicingType),
		ProofType:      string(proof.Normalize(req.ProofType)),
		CreatorID:      userID,
		Status:         challenge.StatusActive,
		StartDate:      startDate,
		EndDate:        startDate.AddDate(0, 0, req.Duration-1),
	}
	if freq == challenge.FrequencyDaily {
		ch.FrequencyCount = 1
	}

	if err := s.store.CreateChallenge(ctx, ch, req.InviteeIDs); err != nil {
		if errors.Is(err, points.ErrInsufficientPoints) {
			return nil, apperrors.BadRequestError(err, "not enough points for this wager")
		}
		return nil, fmt.Errorf("failed to create challenge: %w", err)
	}

	if err := s.activities.Record(ctx, &activity.Activity{
		UserID:      userID,
		Type:        activity.TypeCreatedChallenge,
		ChallengeID: &ch.ID,
		Data:        map[string]any{"challenge_name": ch.Name, "wager": ch.Wager},
	}); err != nil {
		s.logger.Warn("failed to record challenge activity", zap.Error(err))
	}

	for _, inviteeID := range req.InviteeIDs {
		s.notifier.Send(ctx, inviteeID, &notify.Message{
			Title: "Challenge invite",
			Body:  fmt.Sprintf("You've been invited to '%s'", ch.Name),
		})
	}

	return ch, nil
}

func (s *challengeService) ListMine(ctx context.Context, userID int64) ([]*challengestore.Summary, error) {
	summaries, err := s.store.ListUserChallenges(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}
	return summaries, nil
}

// Get returns the full challenge view. Only participants may see it.
func (s *challengeService) Get(ctx context.Context, userID, challengeID int64) (*challenge.Detail, error) {
	ch, participants, err := s.loadForParticipant(ctx, userID, challengeID)
	if err != nil {
		return nil, err
	}

	required, target := ch.Required()
	pot, err := s.store.TotalPot(ctx, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum pot: %w", err)
	}

	progress, err := s.progress(ctx, ch, participants)
	if err != nil {
		return nil, err
	}

	return &challenge.Detail{
		Challenge:    *ch,
		Required:     required,
		Target:       target,
		TotalPot:     pot,
		Participants: progress,
	}, nil
}

// Leaderboard returns participants ordered by verified count, longest streak
// and user ID.
func (s *challengeService) Leaderboard(ctx context.Context, userID, challengeID int64) ([]*challenge.ParticipantProgress, error) {
	ch, participants, err := s.loadForParticipant(ctx, userID, challengeID)
	if err != nil {
		return nil, err
	}

	progress, err := s.progress(ctx, ch, participants)
	if err != nil {
		return nil, err
	}

	sort.Slice(progress, func(i, j int) bool {
		if progress[i].VerifiedCount != progress[j].VerifiedCount {
			return progress[i].VerifiedCount > progress[j].VerifiedCount
		}
		if progress[i].LongestStreak != progress[j].LongestStreak {
			return progress[i].LongestStreak > progress[j].LongestStreak
		}
		return progress[i].UserID < progress[j].UserID
	})

	return progress, nil
}

func (s *challengeService) ListInvites(ctx context.Context, userID int64) ([]*challenge.Invite, error) {
	invites, err := s.store.ListPendingInvites(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invites: %w", err)
	}
	return invites, nil
}

// AcceptInvite enrolls the invitee, staking the challenge wager through the
// ledger.
func (s *challengeService) AcceptInvite(ctx context.Context, userID, inviteID int64) error {
	inv, ch, err := s.loadInvite(ctx, userID, inviteID)
	if err != nil {
		return err
	}
	if ch.Status != challenge.StatusActive {
		return apperrors.ConflictError(ErrChallengeClosed, "challenge is no longer active")
	}

	if err := s.store.Join(ctx, ch.ID, userID, ch.Wager); err != nil {
		switch {
		case errors.Is(err, challengestore.ErrAlreadyJoined):
			return apperrors.ConflictError(err, "already a participant")
		case errors.Is(err, points.ErrInsufficientPoints):
			return apperrors.BadRequestError(err, "not enough points for this wager")
		default:
			return fmt.Errorf("failed to join challenge: %w", err)
		}
	}

	if err := s.store.SetInviteStatus(ctx, inviteID, challenge.InviteAccepted); err != nil {
		s.logger.Warn("failed to mark invite accepted", zap.Int64("invite_id", inviteID), zap.Error(err))
	}

	if err := s.activities.Record(ctx, &activity.Activity{
		UserID:      userID,
		Type:        activity.TypeJoinedChallenge,
		ChallengeID: &ch.ID,
		Data:        map[string]any{"challenge_name": ch.Name},
	}); err != nil {
		s.logger.Warn("failed to record join activity", zap.Error(err))
	}

	s.notifier.Send(ctx, inv.InviterID, &notify.Message{
		Title: "Invite accepted",
		Body:  fmt.Sprintf("Your invite to '%s' was accepted", ch.Name),
	})

	return nil
}

func (s *challengeService) DeclineInvite(ctx context.Context, userID, inviteID int64) error {
	if _, _, err := s.loadInvite(ctx, userID, inviteID); err != nil {
		return err
	}
	if err := s.store.SetInviteStatus(ctx, inviteID, challenge.InviteDeclined); err != nil {
		return fmt.Errorf("failed to decline invite: %w", err)
	}
	return nil
}

func (s *challengeService) loadInvite(ctx context.Context, userID, inviteID int64) (*challenge.Invite, *challenge.Challenge, error) {
	inv, err := s.store.GetInvite(ctx, inviteID)
	if err != nil {
		if errors.Is(err, challengestore.ErrInviteNotFound) {
			return nil, nil, apperrors.ResourceNotFoundError(err, "invite not found")
		}
		return nil, nil, fmt.Errorf("failed to load invite: %w", err)
	}
	if inv.InviteeID != userID {
		return nil, nil, apperrors.ForbiddenError(ErrNotInvitee, "invite addressed to another user")
	}
	if inv.Status != challenge.InvitePending {
		return nil, nil, apperrors.ConflictError(ErrInviteResolved, "invite already resolved")
	}

	ch, err := s.store.GetChallenge(ctx, inv.ChallengeID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load challenge: %w", err)
	}
	return inv, ch, nil
}

func (s *challengeService) loadForParticipant(ctx context.Context, userID, challengeID int64) (*challenge.Challenge, []*challenge.Participant, error) {
	ch, err := s.store.GetChallenge(ctx, challengeID)
	if err != nil {
		if errors.Is(err, challengestore.ErrChallengeNotFound) {
			return nil, nil, apperrors.ResourceNotFoundError(err, "challenge not found")
		}
		return nil, nil, fmt.Errorf("failed to load challenge: %w", err)
	}

	participants, err := s.store.ListParticipants(ctx, challengeID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list participants: %w", err)
	}

	for _, p := range participants {
		if p.UserID == userID {
			return ch, participants, nil
		}
	}
	return nil, nil, apperrors.ForbiddenError(ErrNotParticipant, "not a participant of this challenge")
}

func (s *challengeService) progress(ctx context.Context, ch *challenge.Challenge, participants []*challenge.Participant) ([]*challenge.ParticipantProgress, error) {
	required, _ := ch.Required()
	expected := ch.ExpectedToDate(time.Now())

	progress := make([]*challenge.ParticipantProgress, 0, len(participants))
	for _, p := range participants {
		verified, err := s.submissions.VerifiedCount(ctx, ch.ID, p.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to count submissions: %w", err)
		}
		progress = append(progress, &challenge.ParticipantProgress{
			Participant:       *p,
			VerifiedCount:     verified,
			CompletionPercent: challenge.CompletionPercent(verified, required),
			OnTrack:           verified >= expected,
		})
	}
	return progress, nil
}
