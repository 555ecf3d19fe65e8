package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/forgelabs/forge/internal/metrics"
	apperrors "github.com/forgelabs/forge/pkg/app/errors"
	"github.com/forgelabs/forge/pkg/activity"
	"github.com/forgelabs/forge/pkg/challenge"
	"github.com/forgelabs/forge/pkg/challengestore"
	"github.com/forgelabs/forge/pkg/proof"
	"github.com/forgelabs/forge/pkg/submission"
	"github.com/forgelabs/forge/pkg/submissionstore"
	"github.com/forgelabs/forge/pkg/verify"
)

var (
	ErrNotParticipant   = errors.New("not a participant of this challenge")
	ErrChallengeClosed  = errors.New("challenge is no longer active")
	ErrOutsideWindow    = errors.New("outside the challenge window")
	ErrProofImageNeeded = errors.New("proof image required for AI-policed challenges")
)

// Store is the narrow data-access interface for the submission service.
type Store interface {
	CreateSubmission(ctx context.Context, sub *submission.Submission) error
	ListByChallenge(ctx context.Context, challengeID int64) ([]*submission.Submission, error)
}

// ChallengeStore is the slice of challenge persistence the service needs.
type ChallengeStore interface {
	GetChallenge(ctx context.Context, id int64) (*challenge.Challenge, error)
	GetParticipant(ctx context.Context, challengeID, userID int64) (*challenge.Participant, error)
	RecordVerified(ctx context.Context, challengeID, userID int64) error
}

// ActivityRecorder records feed entries.
type ActivityRecorder interface {
	Record(ctx context.Context, act *activity.Activity) error
}

// SubmitRequest is the payload for submitting proof.
type SubmitRequest struct {
	// Image is a data: URL of the proof image. Required when the challenge
	// is AI-policed.
	Image string `json:"image"`
	Note  string `json:"note" validate:"max=500"`
}

// Service defines the interface for proof submission
type Service interface {
	Submit(ctx context.Context, userID, challengeID int64, req *SubmitRequest) (*submission.Submission, error)
	List(ctx context.Context, userID, challengeID int64) ([]*submission.Submission, error)
}

type submissionService struct {
	store      Store
	challenges ChallengeStore
	activities ActivityRecorder
	oracle     verify.Oracle // nil means auto-verify
	logger     *zap.Logger
	now        func() time.Time
}

// NewService creates a new submission service. A nil oracle auto-verifies
// AI-policed submissions.
func NewService(
	store Store,
	challenges ChallengeStore,
	activities ActivityRecorder,
	oracle verify.Oracle,
	logger *zap.Logger,
) Service {
	return &submissionService{
		store:      store,
		challenges: challenges,
		activities: activities,
		oracle:     oracle,
		logger:     logger,
		now:        time.Now,
	}
}

// Submit records today's proof. Self-policed challenges verify immediately;
// AI-policed ones go through the oracle. A submission that cannot be judged
// because the oracle is unreachable is stored pending and unverified.
func (s *submissionService) Submit(ctx context.Context, userID, challengeID int64, req *SubmitRequest) (*submission.Submission, error) {
	ch, err := s.loadForParticipant(ctx, userID, challengeID)
	if err != nil {
		return nil, err
	}
	if ch.Status != challenge.StatusActive {
		return nil, apperrors.ConflictError(ErrChallengeClosed, "challenge is no longer active")
	}

	today := s.today()
	if today.Before(ch.StartDate) || today.After(ch.EndDate) {
		return nil, apperrors.BadRequestError(ErrOutsideWindow, "challenge is not running today")
	}

	sub := &submission.Submission{
		ChallengeID: challengeID,
		UserID:      userID,
		SubmittedOn: today,
	}

	switch ch.PolicingType {
	case challenge.PolicingAI:
		if req.Image == "" {
			return nil, apperrors.BadRequestError(ErrProofImageNeeded, "proof image required")
		}
		s.judge(ctx, ch, req, sub)
	default:
		sub.Verified = true
		sub.AIMessage = "Self-attested"
	}

	if err := s.store.CreateSubmission(ctx, sub); err != nil {
		if errors.Is(err, submissionstore.ErrDuplicateSubmission) {
			return nil, apperrors.ConflictError(err, "already submitted today")
		}
		return nil, fmt.Errorf("failed to save submission: %w", err)
	}

	outcome := "pending"
	if sub.Verified {
		outcome = "verified"
	} else if !sub.Pending {
		outcome = "rejected"
	}
	metrics.SubmissionsTotal.WithLabelValues(string(ch.PolicingType), outcome).Inc()

	if sub.Verified {
		if err := s.challenges.RecordVerified(ctx, challengeID, userID); err != nil {
			s.logger.Warn("failed to update streak",
				zap.Int64("challenge_id", challengeID),
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
		}
		if err := s.activities.Record(ctx, &activity.Activity{
			UserID:      userID,
			Type:        activity.TypeSubmissionVerified,
			ChallengeID: &challengeID,
			Data:        map[string]any{"challenge_name": ch.Name},
		}); err != nil {
			s.logger.Warn("failed to record submission activity", zap.Error(err))
		}
	}

	return sub, nil
}

// judge fills in the verification fields from the oracle's verdict.
func (s *submissionService) judge(ctx context.Context, ch *challenge.Challenge, req *SubmitRequest, sub *submission.Submission) {
	if s.oracle == nil {
		sub.Verified = true
		sub.AIMessage = "Auto-verified (verification not configured)"
		return
	}

	start := time.Now()
	result, err := s.oracle.Verify(ctx, &verify.Request{
		ImageDataURL:         req.Image,
		Prompt:               proof.Prompt(proof.Normalize(ch.ProofType)),
		ChallengeName:        ch.Name,
		ChallengeDescription: ch.Description,
	})
	metrics.VerificationDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		var transient *verify.TransientError
		if errors.As(err, &transient) {
			// Keep the day slot; a later re-check can still verify it.
			sub.Pending = true
			sub.AIMessage = "Verification is temporarily unavailable; your proof is saved"
			s.logger.Warn("oracle unavailable, parking submission as pending",
				zap.Int64("challenge_id", ch.ID),
				zap.Error(err),
			)
			return
		}
		sub.AIMessage = "Verification failed; your proof was not accepted"
		s.logger.Error("oracle rejected verification request",
			zap.Int64("challenge_id", ch.ID),
			zap.Error(err),
		)
		return
	}

	sub.Verified = result.Verified
	sub.AIMessage = result.Message
	sub.ExtractedData = result.Details
}

func (s *submissionService) List(ctx context.Context, userID, challengeID int64) ([]*submission.Submission, error) {
	if _, err := s.loadForParticipant(ctx, userID, challengeID); err != nil {
		return nil, err
	}

	subs, err := s.store.ListByChallenge(ctx, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return subs, nil
}

func (s *submissionService) loadForParticipant(ctx context.Context, userID, challengeID int64) (*challenge.Challenge, error) {
	ch, err := s.challenges.GetChallenge(ctx, challengeID)
	if err != nil {
		if errors.Is(err, challengestore.ErrChallengeNotFound) {
			return nil, apperrors.ResourceNotFoundError(err, "challenge not found")
		}
		return nil, fmt.Errorf("failed to load challenge: %w", err)
	}

	participant, err := s.challenges.GetParticipant(ctx, challengeID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load participant: %w", err)
	}
	if participant == nil {
		return nil, apperrors.ForbiddenError(ErrNotParticipant, "not a participant of this challenge")
	}
	return ch, nil
}

func (s *submissionService) today() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
