package challengestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/forgelabs/forge/pkg/challenge"
	"github.com/forgelabs/forge/pkg/points"
	"github.com/forgelabs/forge/pkg/pointstore"
)

// requiredSubmissionsExpr mirrors challenge.RequiredSubmissions in SQL so
// list aggregates can be computed in one query.
const requiredSubmissionsExpr = `CASE WHEN c.frequency = 'daily' THEN c.duration ELSE CEIL(c.duration / 7.0) * c.frequency_count END`

type pgStore struct {
	db bun.IDB
}

// NewStore creates a new postgres implementation of the challenge store
func NewStore(db bun.IDB) *pgStore {
	return &pgStore{db: db}
}

func (s *pgStore) CreateChallenge(ctx context.Context, ch *challenge.Challenge, inviteeIDs []int64) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		dao := toChallengeDao(ch)
		if _, err := tx.NewInsert().
			Model(dao).
			Returning("id, created_at").
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to create challenge: %w", err)
		}
		ch.ID = dao.ID
		ch.CreatedAt = dao.CreatedAt

		participant := &ParticipantDao{
			ChallengeID:   ch.ID,
			UserID:        ch.CreatorID,
			IsCreator:     true,
			PointsWagered: ch.Wager,
		}
		if _, err := tx.NewInsert().Model(participant).Exec(ctx); err != nil {
			return fmt.Errorf("failed to enroll creator: %w", err)
		}

		if ch.Wager > 0 {
			ledger := pointstore.NewStore(tx)
			err := ledger.Debit(ctx, ch.CreatorID, ch.Wager, points.TypeWager,
				fmt.Sprintf("Wagered on '%s'", ch.Name), &ch.ID)
			if err != nil {
				return err
			}
		}

		for _, inviteeID := range inviteeIDs {
			inv := &InviteDao{
				ChallengeID: ch.ID,
				InviterID:   ch.CreatorID,
				InviteeID:   inviteeID,
				Status:      string(challenge.InvitePending),
			}
			if _, err := tx.NewInsert().Model(inv).Exec(ctx); err != nil {
				return fmt.Errorf("failed to create invite: %w", err)
			}
		}

		return nil
	})
}

func (s *pgStore) GetChallenge(ctx context.Context, id int64) (*challenge.Challenge, error) {
	dao := new(ChallengeDao)
	err := s.db.NewSelect().
		Model(dao).
		Where("c.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrChallengeNotFound
		}
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	return ToChallenge(dao), nil
}

func (s *pgStore) ListUserChallenges(ctx context.Context, userID int64) ([]*Summary, error) {
	var daos []*ChallengeDao
	err := s.db.NewSelect().
		Model(&daos).
		ColumnExpr("c.*").
		ColumnExpr(`(SELECT COUNT(*) FROM challenge_participants cp WHERE cp.challenge_id = c.id) AS participant_count`).
		ColumnExpr(`(SELECT COALESCE(SUM(cp.points_wagered), 0) FROM challenge_participants cp WHERE cp.challenge_id = c.id) AS total_pot`).
		ColumnExpr(`(SELECT COUNT(*) FROM challenge_participants cp WHERE cp.challenge_id = c.id AND
			(SELECT COUNT(*) FROM submissions s WHERE s.challenge_id = c.id AND s.user_id = cp.user_id AND s.verified) >= `+requiredSubmissionsExpr+`) AS completed_count`).
		Where("c.id IN (SELECT challenge_id FROM challenge_participants WHERE user_id = ?)", userID).
		Order("c.created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}

	summaries := make([]*Summary, 0, len(daos))
	for _, dao := range daos {
		summaries = append(summaries, toSummary(dao))
	}
	return summaries, nil
}

func (s *pgStore) Join(ctx context.Context, challengeID, userID, wager int64) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		ch := new(ChallengeDao)
		if err := tx.NewSelect().Model(ch).Where("c.id = ?", challengeID).Scan(ctx); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrChallengeNotFound
			}
			return fmt.Errorf("failed to load challenge: %w", err)
		}

		participant := &ParticipantDao{
			ChallengeID:   challengeID,
			UserID:        userID,
			PointsWagered: wager,
		}
		res, err := tx.NewInsert().
			Model(participant).
			On("CONFLICT (challenge_id, user_id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to enroll participant: %w", err)
		}
		if affected, _ := res.RowsAffected(); affected == 0 {
			return ErrAlreadyJoined
		}

		if wager > 0 {
			ledger := pointstore.NewStore(tx)
			err := ledger.Debit(ctx, userID, wager, points.TypeWager,
				fmt.Sprintf("Wagered on '%s'", ch.Name), &challengeID)
			if err != nil {
				return err
			}
		}

		return nil
	})
}

func (s *pgStore) GetParticipant(ctx context.Context, challengeID, userID int64) (*challenge.Participant, error) {
	dao := new(ParticipantDao)
	err := s.db.NewSelect().
		Model(dao).
		Where("cp.challenge_id = ? AND cp.user_id = ?", challengeID, userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	return toParticipant(dao), nil
}

func (s *pgStore) ListParticipants(ctx context.Context, challengeID int64) ([]*challenge.Participant, error) {
	var daos []*ParticipantDao
	err := s.db.NewSelect().
		Model(&daos).
		ColumnExpr("cp.*").
		ColumnExpr("u.username AS username").
		ColumnExpr("u.avatar_url AS avatar_url").
		Join("JOIN users AS u ON u.id = cp.user_id").
		Where("cp.challenge_id = ?", challengeID).
		Order("cp.joined_at ASC", "cp.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}

	participants := make([]*challenge.Participant, 0, len(daos))
	for _, dao := range daos {
		participants = append(participants, toParticipant(dao))
	}
	return participants, nil
}

func (s *pgStore) TotalPot(ctx context.Context, challengeID int64) (int64, error) {
	var pot int64
	err := s.db.NewSelect().
		Model((*ParticipantDao)(nil)).
		ColumnExpr("COALESCE(SUM(points_wagered), 0)").
		Where("challenge_id = ?", challengeID).
		Scan(ctx, &pot)
	if err != nil {
		return 0, fmt.Errorf("failed to sum pot: %w", err)
	}
	return pot, nil
}

func (s *pgStore) RecordVerified(ctx context.Context, challengeID, userID int64) error {
	res, err := s.db.NewUpdate().
		Model((*ParticipantDao)(nil)).
		Set("current_streak = current_streak + 1").
		Set("longest_streak = GREATEST(longest_streak, current_streak + 1)").
		Where("challenge_id = ? AND user_id = ?", challengeID, userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update streak: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrChallengeNotFound
	}
	return nil
}

func (s *pgStore) CreateInvite(ctx context.Context, inv *challenge.Invite) error {
	dao := &InviteDao{
		ChallengeID: inv.ChallengeID,
		InviterID:   inv.InviterID,
		InviteeID:   inv.InviteeID,
		Status:      string(challenge.InvitePending),
	}
	if _, err := s.db.NewInsert().Model(dao).Returning("id, created_at").Exec(ctx); err != nil {
		return fmt.Errorf("failed to create invite: %w", err)
	}
	inv.ID = dao.ID
	inv.CreatedAt = dao.CreatedAt
	return nil
}

func (s *pgStore) GetInvite(ctx context.Context, id int64) (*challenge.Invite, error) {
	dao := new(InviteDao)
	err := s.db.NewSelect().
		Model(dao).
		Where("i.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInviteNotFound
		}
		return nil, fmt.Errorf("failed to get invite: %w", err)
	}
	return toInvite(dao), nil
}

func (s *pgStore) ListPendingInvites(ctx context.Context, inviteeID int64) ([]*challenge.Invite, error) {
	var daos []*InviteDao
	err := s.db.NewSelect().
		Model(&daos).
		ColumnExpr("i.*").
		ColumnExpr("c.name AS challenge_name").
		ColumnExpr("c.wager AS wager").
		ColumnExpr("c.duration AS duration").
		ColumnExpr("c.frequency AS frequency").
		ColumnExpr("u.username AS inviter_username").
		Join("JOIN challenges AS c ON c.id = i.challenge_id").
		Join("JOIN users AS u ON u.id = i.inviter_id").
		Where("i.invitee_id = ? AND i.status = ?", inviteeID, string(challenge.InvitePending)).
		Order("i.created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list invites: %w", err)
	}

	invites := make([]*challenge.Invite, 0, len(daos))
	for _, dao := range daos {
		invites = append(invites, toInvite(dao))
	}
	return invites, nil
}

func (s *pgStore) SetInviteStatus(ctx context.Context, id int64, status challenge.InviteStatus) error {
	res, err := s.db.NewUpdate().
		Model((*InviteDao)(nil)).
		Set("status = ?", string(status)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update invite: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrInviteNotFound
	}
	return nil
}
