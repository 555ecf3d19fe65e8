package settlement

import (
	"context"

	"github.com/forgelabs/forge/pkg/activity"
	"github.com/forgelabs/forge/pkg/challenge"
	"github.com/forgelabs/forge/pkg/challengestore"
	"github.com/forgelabs/forge/pkg/notify"
	"github.com/forgelabs/forge/pkg/points"
)

// creditCall records one Credit invocation against the fake store.
type creditCall struct {
	UserID      int64
	Amount      int64
	Type        points.Type
	Description string
	ChallengeID *int64
}

// fakeStore is an in-memory Store. InTx runs the callback against the same
// instance, which is close enough to a transaction for engine tests.
type fakeStore struct {
	challenge    *challenge.Challenge
	participants []*challenge.Participant
	counts       map[int64]int

	credits   []creditCall
	setStatus []challenge.Status
}

func (f *fakeStore) InTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	return fn(ctx, f)
}

func (f *fakeStore) ChallengeForUpdate(_ context.Context, id int64) (*challenge.Challenge, error) {
	if f.challenge == nil || f.challenge.ID != id {
		return nil, challengestore.ErrChallengeNotFound
	}
	return f.challenge, nil
}

func (f *fakeStore) Participants(_ context.Context, _ int64) ([]*challenge.Participant, error) {
	return f.participants, nil
}

func (f *fakeStore) VerifiedCounts(_ context.Context, _ int64) (map[int64]int, error) {
	return f.counts, nil
}

func (f *fakeStore) SetChallengeStatus(_ context.Context, _ int64, status challenge.Status) error {
	f.setStatus = append(f.setStatus, status)
	f.challenge.Status = status
	return nil
}

func (f *fakeStore) Credit(_ context.Context, userID, amount int64, typ points.Type, description string, challengeID *int64) error {
	f.credits = append(f.credits, creditCall{
		UserID:      userID,
		Amount:      amount,
		Type:        typ,
		Description: description,
		ChallengeID: challengeID,
	})
	return nil
}

// fakeRecorder collects recorded activities.
type fakeRecorder struct {
	acts []*activity.Activity
}

func (f *fakeRecorder) Record(_ context.Context, act *activity.Activity) error {
	f.acts = append(f.acts, act)
	return nil
}

// fakeSender collects sent notifications.
type fakeSender struct {
	sent map[int64][]*notify.Message
}

func (f *fakeSender) Send(_ context.Context, userID int64, msg *notify.Message) {
	if f.sent == nil {
		f.sent = map[int64][]*notify.Message{}
	}
	f.sent[userID] = append(f.sent[userID], msg)
}
