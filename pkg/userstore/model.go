package userstore

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/forgelabs/forge/pkg/user"
)

// UserDao is a data access object that maps directly to the 'users' table in PostgreSQL.
type UserDao struct {
	bun.BaseModel `bun:"table:users,alias:u"`
	ID            int64     `bun:"id,pk,autoincrement"`
	Username      string    `bun:"username,unique,notnull,type:varchar(64)"`
	Email         string    `bun:"email,unique,notnull,type:varchar(255)"`
	PasswordHash  string    `bun:"password_hash,notnull,type:varchar(128)"`
	Bio           *string   `bun:"bio,type:varchar(500)"`
	AvatarURL     *string   `bun:"avatar_url,type:varchar(500)"`
	Points        int64     `bun:"points,notnull,default:0"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:current_timestamp"`
}

// toUserDao converts a user.User to UserDao.
func toUserDao(usr *user.User) *UserDao {
	dao := &UserDao{
		ID:           usr.ID,
		Username:     usr.Username,
		Email:        usr.Email,
		PasswordHash: usr.PasswordHash,
		Points:       usr.Points,
	}

	if usr.Bio != "" {
		dao.Bio = &usr.Bio
	}
	if usr.AvatarURL != "" {
		dao.AvatarURL = &usr.AvatarURL
	}

	return dao
}

// toUser converts a UserDao to user.User.
func toUser(dao *UserDao) *user.User {
	usr := &user.User{
		ID:           dao.ID,
		Username:     dao.Username,
		Email:        dao.Email,
		PasswordHash: dao.PasswordHash,
		Points:       dao.Points,
		CreatedAt:    dao.CreatedAt,
	}

	if dao.Bio != nil {
		usr.Bio = *dao.Bio
	}
	if dao.AvatarURL != nil {
		usr.AvatarURL = *dao.AvatarURL
	}

	return usr
}
