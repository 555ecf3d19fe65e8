package friendstore

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/forgelabs/forge/pkg/friend"
)

// FriendshipDao is a data access object that maps directly to the
// 'friendships' table in PostgreSQL.
type FriendshipDao struct {
	bun.BaseModel `bun:"table:friendships,alias:f"`
	ID            int64     `bun:"id,pk,autoincrement"`
	UserID        int64     `bun:"user_id,notnull"`
	FriendID      int64     `bun:"friend_id,notnull"`
	Status        string    `bun:"status,notnull,type:varchar(16),default:'pending'"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:current_timestamp"`

	// Populated via join on list queries; not columns.
	FriendUsername  *string `bun:"friend_username,scanonly"`
	FriendAvatarURL *string `bun:"friend_avatar_url,scanonly"`
}

func toFriendship(dao *FriendshipDao) *friend.Friendship {
	f := &friend.Friendship{
		ID:        dao.ID,
		UserID:    dao.UserID,
		FriendID:  dao.FriendID,
		Status:    friend.Status(dao.Status),
		CreatedAt: dao.CreatedAt,
	}
	if dao.FriendUsername != nil {
		f.FriendUsername = *dao.FriendUsername
	}
	if dao.FriendAvatarURL != nil {
		f.FriendAvatarURL = *dao.FriendAvatarURL
	}
	return f
}
