package user

import "time"

// User represents the domain model for a registered user.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Bio          string
	AvatarURL    string
	Points       int64
	CreatedAt    time.Time
}

// Profile is the public view of a user, safe to return to other users.
type Profile struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Bio       string `json:"bio,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Profile returns the public view of the user.
func (u *User) Profile() Profile {
	return Profile{
		ID:        u.ID,
		Username:  u.Username,
		Bio:       u.Bio,
		AvatarURL: u.AvatarURL,
	}
}

// SignupRequest is the payload for creating an account.
type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32,alphanum"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest is the payload for logging in.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse carries a session token and the authenticated user.
type AuthResponse struct {
	Token     string  `json:"token"`
	User      Profile `json:"user"`
	Points    int64   `json:"points"`
	ExpiresAt int64   `json:"expires_at"`
}
