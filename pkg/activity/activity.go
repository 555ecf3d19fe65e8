// Package activity holds the domain model for the social feed.
package activity

import "time"

// Type classifies a feed entry.
type Type string

const (
	TypeJoined             Type = "joined"
	TypeCreatedChallenge   Type = "created_challenge"
	TypeJoinedChallenge    Type = "joined_challenge"
	TypeSubmissionVerified Type = "submission_verified"
	TypeCompletedChallenge Type = "completed_challenge"
	TypeFailedChallenge    Type = "failed_challenge"
	TypeFriendRequestSent  Type = "friend_request_sent"
	TypeBecameFriends      Type = "became_friends"
)

// Activity is one entry in the social feed.
type Activity struct {
	ID          int64
	UserID      int64
	Username    string
	AvatarURL   string
	Type        Type
	Data        map[string]any
	ChallengeID *int64
	CreatedAt   time.Time
}
