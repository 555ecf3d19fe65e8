package activitystore

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/forgelabs/forge/pkg/activity"
)

// ActivityDao is a data access object that maps directly to the 'activities'
// table in PostgreSQL.
type ActivityDao struct {
	bun.BaseModel `bun:"table:activities,alias:a"`
	ID            int64          `bun:"id,pk,autoincrement"`
	UserID        int64          `bun:"user_id,notnull"`
	Type          string         `bun:"type,notnull,type:varchar(32)"`
	Data          map[string]any `bun:"data,type:jsonb,nullzero"`
	ChallengeID   *int64         `bun:"challenge_id"`
	CreatedAt     time.Time      `bun:"created_at,nullzero,default:current_timestamp"`

	// Populated via join on feed queries; not columns.
	Username  *string `bun:"username,scanonly"`
	AvatarURL *string `bun:"avatar_url,scanonly"`
}

func toActivityDao(act *activity.Activity) *ActivityDao {
	return &ActivityDao{
		UserID:      act.UserID,
		Type:        string(act.Type),
		Data:        act.Data,
		ChallengeID: act.ChallengeID,
	}
}

func toActivity(dao *ActivityDao) *activity.Activity {
	act := &activity.Activity{
		ID:          dao.ID,
		UserID:      dao.UserID,
		Type:        activity.Type(dao.Type),
		Data:        dao.Data,
		ChallengeID: dao.ChallengeID,
		CreatedAt:   dao.CreatedAt,
	}
	if dao.Username != nil {
		act.Username = *dao.Username
	}
	if dao.AvatarURL != nil {
		act.AvatarURL = *dao.AvatarURL
	}
	return act
}
