package settlement

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/forgelabs/forge/internal/metrics"
	apperrors "github.com/forgelabs/forge/pkg/app/errors"
	"github.com/forgelabs/forge/pkg/activity"
	"github.com/forgelabs/forge/pkg/challenge"
	"github.com/forgelabs/forge/pkg/challengestore"
	"github.com/forgelabs/forge/pkg/notify"
	"github.com/forgelabs/forge/pkg/points"
)

// ActivityRecorder records feed entries.
type ActivityRecorder interface {
	Record(ctx context.Context, act *activity.Activity) error
}

// Engine settles challenges. All pot movement happens in one database
// transaction; notifications and feed entries go out after commit.
type Engine struct {
	store      Store
	activities ActivityRecorder
	notifier   notify.Sender
	logger     *zap.Logger
}

// NewEngine creates a settlement engine
func NewEngine(store Store, activities ActivityRecorder, notifier notify.Sender, logger *zap.Logger) *Engine {
	return &Engine{
		store:      store,
		activities: activities,
		notifier:   notifier,
		logger:     logger,
	}
}

// Settle closes the challenge and splits the pot among completers. Only the
// challenge creator may settle.
//
// The challenge row is locked for the whole transaction, so a concurrent
// settlement of the same challenge waits and then fails on the status check.
// With an empty pot the challenge just moves to completed. With no
// completers every participant gets their stake back. Otherwise each
// completer receives floor(pot/n) and the remainder goes to the best-ranked
// completer (most verified submissions, then longest streak, then lowest
// user ID).
func (e *Engine) Settle(ctx context.Context, userID, challengeID int64) (*Result, error) {
	var result *Result

	err := e.store.InTx(ctx, func(ctx context.Context, tx Store) error {
		ch, err := tx.ChallengeForUpdate(ctx, challengeID)
		if err != nil {
			if errors.Is(err, challengestore.ErrChallengeNotFound) {
				return apperrors.ResourceNotFoundError(err, "challenge not found")
			}
			return fmt.Errorf("failed to lock challenge: %w", err)
		}
		if ch.Status != challenge.StatusActive {
			return apperrors.ConflictError(ErrAlreadySettled, "challenge already settled")
		}
		if ch.CreatorID != userID {
			return apperrors.ForbiddenError(ErrNotCreator, "only the challenge creator can settle")
		}

		participants, err := tx.Participants(ctx, challengeID)
		if err != nil {
			return fmt.Errorf("failed to list participants: %w", err)
		}

		counts, err := tx.VerifiedCounts(ctx, challengeID)
		if err != nil {
			return fmt.Errorf("failed to count submissions: %w", err)
		}

		result, err = e.settleLocked(ctx, tx, ch, participants, counts)
		return err
	})
	if err != nil {
		return nil, err
	}

	e.afterCommit(ctx, result)
	return result, nil
}

// settleLocked runs the payout math with the challenge row held.
func (e *Engine) settleLocked(
	ctx context.Context,
	tx Store,
	ch *challenge.Challenge,
	participants []*challenge.Participant,
	counts map[int64]int,
) (*Result, error) {
	required, target := ch.Required()

	var pot int64
	for _, p := range participants {
		pot += p.PointsWagered
	}

	var completers []*challenge.Participant
	var failed []*challenge.Participant
	for _, p := range participants {
		if counts[p.UserID] >= target {
			completers = append(completers, p)
		} else {
			failed = append(failed, p)
		}
	}

	result := &Result{
		ChallengeID:   ch.ID,
		ChallengeName: ch.Name,
		Required:      required,
		Threshold:     target,
		TotalPot:      pot,
		Completers:    make([]Payout, 0, len(completers)),
		Failed:        make([]Forfeit, 0, len(failed)),
	}

	switch {
	case pot == 0:
		// Nothing staked; the challenge just ends and no one is paid or
		// notified.
		result.Status = challenge.StatusCompleted

	case len(completers) == 0:
		// Nobody made it; stakes go back where they came from.
		result.Status = challenge.StatusSettled
		for _, p := range failed {
			if p.PointsWagered > 0 {
				err := tx.Credit(ctx, p.UserID, p.PointsWagered, points.TypeRefund,
					fmt.Sprintf("Refund from '%s'", ch.Name), &ch.ID)
				if err != nil {
					return nil, fmt.Errorf("failed to refund participant %d: %w", p.UserID, err)
				}
			}
			result.Failed = append(result.Failed, Forfeit{
				UserID:        p.UserID,
				Username:      p.Username,
				VerifiedCount: counts[p.UserID],
				Refunded:      p.PointsWagered,
			})
		}

	default:
		result.Status = challenge.StatusSettled
		rankCompleters(completers, counts)

		share := pot / int64(len(completers))
		remainder := pot % int64(len(completers))
		for i, p := range completers {
			winnings := share
			if i == 0 {
				winnings += remainder
			}
			err := tx.Credit(ctx, p.UserID, winnings, points.TypeWinnings,
				fmt.Sprintf("Winnings from '%s'", ch.Name), &ch.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to pay completer %d: %w", p.UserID, err)
			}
			result.Completers = append(result.Completers, Payout{
				UserID:        p.UserID,
				Username:      p.Username,
				VerifiedCount: counts[p.UserID],
				Winnings:      winnings,
			})
		}
		for _, p := range failed {
			result.Failed = append(result.Failed, Forfeit{
				UserID:        p.UserID,
				Username:      p.Username,
				VerifiedCount: counts[p.UserID],
				Forfeited:     p.PointsWagered,
			})
		}
	}

	if err := tx.SetChallengeStatus(ctx, ch.ID, result.Status); err != nil {
		return nil, fmt.Errorf("failed to update challenge status: %w", err)
	}
	return result, nil
}

// afterCommit emits feed entries, notifications and metrics. Best effort;
// the settlement already committed.
func (e *Engine) afterCommit(ctx context.Context, result *Result) {
	outcome := "settled"
	if result.Status == challenge.StatusCompleted {
		outcome = "completed"
	} else if len(result.Completers) == 0 {
		outcome = "refunded"
	}
	metrics.SettlementsTotal.WithLabelValues(outcome).Inc()

	for _, p := range result.Completers {
		metrics.PointsMoved.WithLabelValues(string(points.TypeWinnings)).Add(float64(p.Winnings))
		if err := e.activities.Record(ctx, &activity.Activity{
			UserID:      p.UserID,
			Type:        activity.TypeCompletedChallenge,
			ChallengeID: &result.ChallengeID,
			Data:        map[string]any{"winnings": p.Winnings},
		}); err != nil {
			e.logger.Warn("failed to record completion activity", zap.Error(err))
		}
		e.notifier.Send(ctx, p.UserID, &notify.Message{
			Title: "Challenge complete",
			Body:  fmt.Sprintf("You completed '%s' and won %d points!", result.ChallengeName, p.Winnings),
		})
	}
	for _, p := range result.Failed {
		if err := e.activities.Record(ctx, &activity.Activity{
			UserID:      p.UserID,
			Type:        activity.TypeFailedChallenge,
			ChallengeID: &result.ChallengeID,
			Data:        map[string]any{"forfeited": p.Forfeited, "refunded": p.Refunded},
		}); err != nil {
			e.logger.Warn("failed to record forfeit activity", zap.Error(err))
		}

		body := fmt.Sprintf("You didn't complete '%s' (%d/%d). Your wager was forfeited.",
			result.ChallengeName, p.VerifiedCount, result.Required)
		if p.Refunded > 0 {
			body = fmt.Sprintf("Nobody completed '%s'. Your %d point stake was refunded.",
				result.ChallengeName, p.Refunded)
		}
		e.notifier.Send(ctx, p.UserID, &notify.Message{
			Title: "Challenge failed",
			Body:  body,
		})
	}
}

// rankCompleters orders by verified count desc, longest streak desc, user ID
// asc. The order decides who receives the integer-division remainder.
func rankCompleters(completers []*challenge.Participant, counts map[int64]int) {
	sort.Slice(completers, func(i, j int) bool {
		ci, cj := counts[completers[i].UserID], counts[completers[j].UserID]
		if ci != cj {
			return ci > cj
		}
		if completers[i].LongestStreak != completers[j].LongestStreak {
			return completers[i].LongestStreak > completers[j].LongestStreak
		}
		return completers[i].UserID < completers[j].UserID
	})
}

