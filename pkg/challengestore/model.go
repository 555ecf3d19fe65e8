package challengestore

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/forgelabs/forge/pkg/challenge"
)

// ChallengeDao is a data access object that maps directly to the 'challenges'
// table in PostgreSQL.
type ChallengeDao struct {
	bun.BaseModel  `bun:"table:challenges,alias:c"`
	ID             int64     `bun:"id,pk,autoincrement"`
	Name           string    `bun:"name,notnull,type:varchar(255)"`
	Description    *string   `bun:"description,type:text"`
	Frequency      string    `bun:"frequency,notnull,type:varchar(16)"`
	FrequencyCount int       `bun:"frequency_count,notnull,default:1"`
	Duration       int       `bun:"duration,notnull"`
	Forfeit        *string   `bun:"forfeit,type:text"`
	Wager          int64     `bun:"wager,notnull,default:0"`
	PolicingType   string    `bun:"policing_type,notnull,type:varchar(16)"`
	ProofType      string    `bun:"proof_type,notnull,type:varchar(32)"`
	CreatorID      int64     `bun:"creator_id,notnull"`
	Status         string    `bun:"status,notnull,type:varchar(16),default:'active'"`
	StartDate      time.Time `bun:"start_date,notnull,type:date"`
	EndDate        time.Time `bun:"end_date,notnull,type:date"`
	CreatedAt      time.Time `bun:"created_at,nullzero,default:current_timestamp"`

	// Populated via aggregate subqueries on list queries; not columns.
	ParticipantCount *int   `bun:"participant_count,scanonly"`
	CompletedCount   *int   `bun:"completed_count,scanonly"`
	TotalPot         *int64 `bun:"total_pot,scanonly"`
}

// ParticipantDao maps to the 'challenge_participants' table.
type ParticipantDao struct {
	bun.BaseModel `bun:"table:challenge_participants,alias:cp"`
	ID            int64     `bun:"id,pk,autoincrement"`
	ChallengeID   int64     `bun:"challenge_id,notnull"`
	UserID        int64     `bun:"user_id,notnull"`
	IsCreator     bool      `bun:"is_creator,notnull,default:false"`
	CurrentStreak int       `bun:"current_streak,notnull,default:0"`
	LongestStreak int       `bun:"longest_streak,notnull,default:0"`
	PointsWagered int64     `bun:"points_wagered,notnull,default:0"`
	JoinedAt      time.Time `bun:"joined_at,nullzero,default:current_timestamp"`

	// Populated via join on list queries; not columns.
	Username  *string `bun:"username,scanonly"`
	AvatarURL *string `bun:"avatar_url,scanonly"`
}

// InviteDao maps to the 'invites' table.
type InviteDao struct {
	bun.BaseModel `bun:"table:invites,alias:i"`
	ID            int64     `bun:"id,pk,autoincrement"`
	ChallengeID   int64     `bun:"challenge_id,notnull"`
	InviterID     int64     `bun:"inviter_id,notnull"`
	InviteeID     int64     `bun:"invitee_id,notnull"`
	Status        string    `bun:"status,notnull,type:varchar(16),default:'pending'"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:current_timestamp"`

	// Populated via join on list queries; not columns.
	ChallengeName   *string `bun:"challenge_name,scanonly"`
	InviterUsername *string `bun:"inviter_username,scanonly"`
	Wager           *int64  `bun:"wager,scanonly"`
	Duration        *int    `bun:"duration,scanonly"`
	Frequency       *string `bun:"frequency,scanonly"`
}

func toChallengeDao(ch *challenge.Challenge) *ChallengeDao {
	dao := &ChallengeDao{
		ID:             ch.ID,
		Name:           ch.Name,
		Frequency:      string(ch.Frequency),
		FrequencyCount: ch.FrequencyCount,
		Duration:       ch.Duration,
		Wager:          ch.Wager,
		PolicingType:   string(ch.PolicingType),
		ProofType:      ch.ProofType,
		CreatorID:      ch.CreatorID,
		Status:         string(ch.Status),
		StartDate:      ch.StartDate,
		EndDate:        ch.EndDate,
	}
	if ch.Description != "" {
		dao.Description = &ch.Description
	}
	if ch.Forfeit != "" {
		dao.Forfeit = &ch.Forfeit
	}
	return dao
}

// ToChallenge converts a ChallengeDao to the domain model.
func ToChallenge(dao *ChallengeDao) *challenge.Challenge {
	ch := &challenge.Challenge{
		ID:             dao.ID,
		Name:           dao.Name,
		Frequency:      challenge.Frequency(dao.Frequency),
		FrequencyCount: dao.FrequencyCount,
		Duration:       dao.Duration,
		Wager:          dao.Wager,
		PolicingType:   challenge.PolicingType(dao.PolicingType),
		ProofType:      dao.ProofType,
		CreatorID:      dao.CreatorID,
		Status:         challenge.Status(dao.Status),
		StartDate:      dao.StartDate,
		EndDate:        dao.EndDate,
		CreatedAt:      dao.CreatedAt,
	}
	if dao.Description != nil {
		ch.Description = *dao.Description
	}
	if dao.Forfeit != nil {
		ch.Forfeit = *dao.Forfeit
	}
	return ch
}

func toSummary(dao *ChallengeDao) *Summary {
	s := &Summary{Challenge: *ToChallenge(dao)}
	if dao.ParticipantCount != nil {
		s.ParticipantCount = *dao.ParticipantCount
	}
	if dao.CompletedCount != nil {
		s.CompletedCount = *dao.CompletedCount
	}
	if dao.TotalPot != nil {
		s.TotalPot = *dao.TotalPot
	}
	return s
}

func toParticipant(dao *ParticipantDao) *challenge.Participant {
	p := &challenge.Participant{
		ID:            dao.ID,
		ChallengeID:   dao.ChallengeID,
		UserID:        dao.UserID,
		IsCreator:     dao.IsCreator,
		CurrentStreak: dao.CurrentStreak,
		LongestStreak: dao.LongestStreak,
		PointsWagered: dao.PointsWagered,
		JoinedAt:      dao.JoinedAt,
	}
	if dao.Username != nil {
		p.Username = *dao.Username
	}
	if dao.AvatarURL != nil {
		p.AvatarURL = *dao.AvatarURL
	}
	return p
}

func toInvite(dao *InviteDao) *challenge.Invite {
	inv := &challenge.Invite{
		ID:          dao.ID,
		ChallengeID: dao.ChallengeID,
		InviterID:   dao.InviterID,
		InviteeID:   dao.InviteeID,
		Status:      challenge.InviteStatus(dao.Status),
		CreatedAt:   dao.CreatedAt,
	}
	if dao.ChallengeName != nil {
		inv.ChallengeName = *dao.ChallengeName
	}
	if dao.InviterUsername != nil {
		inv.InviterUsername = *dao.InviterUsername
	}
	if dao.Wager != nil {
		inv.Wager = *dao.Wager
	}
	if dao.Duration != nil {
		inv.Duration = *dao.Duration
	}
	if dao.Frequency != nil {
		inv.Frequency = challenge.Frequency(*dao.Frequency)
	}
	return inv
}
