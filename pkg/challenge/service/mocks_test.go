package service

import (
	"context"

	"github.com/forgelabs/forge/pkg/activity"
	"github.com/forgelabs/forge/pkg/challenge"
	"github.com/forgelabs/forge/pkg/challengestore"
	"github.com/forgelabs/forge/pkg/notify"
)

// MockStore is a func-field mock of Store.
type MockStore struct {
	CreateChallengeFunc    func(ctx context.Context, ch *challenge.Challenge, inviteeIDs []int64) error
	GetChallengeFunc       func(ctx context.Context, id int64) (*challenge.Challenge, error)
	ListUserChallengesFunc func(ctx context.Context, userID int64) ([]*challengestore.Summary, error)
	JoinFunc               func(ctx context.Context, challengeID, userID, wager int64) error
	GetParticipantFunc     func(ctx context.Context, challengeID, userID int64) (*challenge.Participant, error)
	ListParticipantsFunc   func(ctx context.Context, challengeID int64) ([]*challenge.Participant, error)
	TotalPotFunc           func(ctx context.Context, challengeID int64) (int64, error)
	GetInviteFunc          func(ctx context.Context, id int64) (*challenge.Invite, error)
	ListPendingInvitesFunc func(ctx context.Context, inviteeID int64) ([]*challenge.Invite, error)
	SetInviteStatusFunc    func(ctx context.Context, id int64, status challenge.InviteStatus) error

	InviteStatuses map[int64]challenge.InviteStatus
}

func (m *MockStore) CreateChallenge(ctx context.Context, ch *challenge.Challenge, inviteeIDs []int64) error {
	if m.CreateChallengeFunc != nil {
		return m.CreateChallengeFunc(ctx, ch, inviteeIDs)
	}
	ch.ID = 1
	return nil
}

func (m *MockStore) GetChallenge(ctx context.Context, id int64) (*challenge.Challenge, error) {
	if m.GetChallengeFunc != nil {
		return m.GetChallengeFunc(ctx, id)
	}
	return nil, challengestore.ErrChallengeNotFound
}

func (m *MockStore) ListUserChallenges(ctx context.Context, userID int64) ([]*challengestore.Summary, error) {
	if m.ListUserChallengesFunc != nil {
		return m.ListUserChallengesFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockStore) Join(ctx context.Context, challengeID, userID, wager int64) error {
	if m.JoinFunc != nil {
		return m.JoinFunc(ctx, challengeID, userID, wager)
	}
	return nil
}

func (m *MockStore) GetParticipant(ctx context.Context, challengeID, userID int64) (*challenge.Participant, error) {
	if m.GetParticipantFunc != nil {
		return m.GetParticipantFunc(ctx, challengeID, userID)
	}
	return nil, nil
}

func (m *MockStore) ListParticipants(ctx context.Context, challengeID int64) ([]*challenge.Participant, error) {
	if m.ListParticipantsFunc != nil {
		return m.ListParticipantsFunc(ctx, challengeID)
	}
	return nil, nil
}

func (m *MockStore) TotalPot(ctx context.Context, challengeID int64) (int64, error) {
	if m.TotalPotFunc != nil {
		return m.TotalPotFunc(ctx, challengeID)
	}
	return 0, nil
}

func (m *MockStore) GetInvite(ctx context.Context, id int64) (*challenge.Invite, error) {
	if m.GetInviteFunc != nil {
		return m.GetInviteFunc(ctx, id)
	}
	return nil, challengestore.ErrInviteNotFound
}

func (m *MockStore) ListPendingInvites(ctx context.Context, inviteeID int64) ([]*challenge.Invite, error) {
	if m.ListPendingInvitesFunc != nil {
		return m.ListPendingInvitesFunc(ctx, inviteeID)
	}
	return nil, nil
}

func (m *MockStore) SetInviteStatus(ctx context.Context, id int64, status challenge.InviteStatus) error {
	if m.InviteStatuses == nil {
		m.InviteStatuses = map[int64]challenge.InviteStatus{}
	}
	m.InviteStatuses[id] = status
	if m.SetInviteStatusFunc != nil {
		return m.SetInviteStatusFunc(ctx, id, status)
	}
	return nil
}

// MockCounter is a func-field mock of SubmissionCounter.
type MockCounter struct {
	VerifiedCountFunc func(ctx context.Context, challengeID, userID int64) (int, error)
}

func (m *MockCounter) VerifiedCount(ctx context.Context, challengeID, userID int64) (int, error) {
	if m.VerifiedCountFunc != nil {
		return m.VerifiedCountFunc(ctx, challengeID, userID)
	}
	return 0, nil
}

// MockRecorder collects recorded activities.
type MockRecorder struct {
	Recorded []*activity.Activity
}

func (m *MockRecorder) Record(_ context.Context, act *activity.Activity) error {
	m.Recorded = append(m.Recorded, act)
	return nil
}

// MockSender collects notifications per user.
type MockSender struct {
	Sent map[int64][]*notify.Message
}

func (m *MockSender) Send(_ context.Context, userID int64, msg *notify.Message) {
	if m.Sent == nil {
		m.Sent = map[int64][]*notify.Message{}
	}
	m.Sent[userID] = append(m.Sent[userID], msg)
}
