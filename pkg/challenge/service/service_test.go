package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/forgelabs/forge/pkg/app/errors"
	"github.com/forgelabs/forge/pkg/activity"
	"github.com/forgelabs/forge/pkg/challenge"
	"github.com/forgelabs/forge/pkg/points"
)

func newTestService(store *MockStore, counter *MockCounter) (Service, *MockRecorder, *MockSender) {
	if counter == nil {
		counter = &MockCounter{}
	}
	recorder := &MockRecorder{}
	sender := &MockSender{}
	return NewService(store, counter, recorder, sender, zap.NewNop()), recorder, sender
}

func validCreateRequest() *CreateRequest {
	return &CreateRequest{
		Name:         "Morning run",
		Frequency:    "daily",
		Duration:     30,
		Wager:        100,
		PolicingType: "self",
		StartDate:    "2026-04-01",
	}
}

func TestCreate_FillsDerivedFields(t *testing.T) {
	var created *challenge.Challenge
	store := &MockStore{
		CreateChallengeFunc: func(_ context.Context, ch *challenge.Challenge, inviteeIDs []int64) error {
			ch.ID = 1
			created = ch
			assert.Equal(t, []int64{8, 9}, inviteeIDs)
			return nil
		},
	}
	svc, recorder, sender := newTestService(store, nil)

	req := validCreateRequest()
	req.FrequencyCount = 5 // ignored for daily
	req.InviteeIDs = []int64{8, 9}

	ch, err := svc.Create(context.Background(), 7, req)
	require.NoError(t, err)

	require.NotNil(t, created)
	assert.Equal(t, int64(7), ch.CreatorID)
	assert.Equal(t, challenge.StatusActive, ch.Status)
	assert.Equal(t, 1, ch.FrequencyCount)
	assert.Equal(t, "any", ch.ProofType)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), ch.StartDate)
	assert.Equal(t, time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC), ch.EndDate)

	require.Len(t, recorder.Recorded, 1)
	assert.Equal(t, activity.TypeCreatedChallenge, recorder.Recorded[0].Type)
	assert.Len(t, sender.Sent, 2)
}

func TestCreate_WeeklyWithoutCount_ReturnsBadRequest(t *testing.T) {
	svc, _, _ := newTestService(&MockStore{}, nil)

	req := validCreateRequest()
	req.Frequency = "weekly"
	req.FrequencyCount = 0

	_, err := svc.Create(context.Background(), 7, req)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CategoryDataError))
}

func TestCreate_MalformedStartDate_ReturnsBadRequest(t *testing.T) {
	svc, _, _ := newTestService(&MockStore{}, nil)

	req := validCreateRequest()
	req.StartDate = "04/01/2026"

	_, err := svc.Create(context.Background(), 7, req)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CategoryDataError))
}

func TestCreate_InsufficientPoints_ReturnsBadRequest(t *testing.T) {
	store := &MockStore{
		CreateChallengeFunc: func(_ context.Context, _ *challenge.Challenge, _ []int64) error {
			return points.ErrInsufficientPoints
		},
	}
	svc, recorder, _ := newTestService(store, nil)

	_, err := svc.Create(context.Background(), 7, validCreateRequest())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CategoryDataError))
	assert.Empty(t, recorder.Recorded)
}

func testChallenge() *challenge.Challenge {
	return &challenge.Challenge{
		ID:             1,
		Name:           "Morning run",
		Frequency:      challenge.FrequencyDaily,
		FrequencyCount: 1,
		Duration:       10,
		Wager:          100,
		Status:         challenge.StatusActive,
		StartDate:      time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC),
	}
}

func storeWithParticipants(ch *challenge.Challenge, participants ...*challenge.Participant) *MockStore {
	return &MockStore{
		GetChallengeFunc: func(_ context.Context, _ int64) (*challenge.Challenge, error) {
			return ch, nil
		},
		ListParticipantsFunc: func(_ context.Context, _ int64) ([]*challenge.Participant, error) {
			return participants, nil
		},
		TotalPotFunc: func(_ context.Context, _ int64) (int64, error) {
			return 200, nil
		},
	}
}

func TestGet_NonParticipant_ReturnsForbidden(t *testing.T) {
	store := storeWithParticipants(testChallenge(), &challenge.Participant{UserID: 7})
	svc, _, _ := newTestService(store, nil)

	_, err := svc.Get(context.Background(), 99, 1)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CategoryForbidden))
}

func TestGet_ReturnsDetailWithProgress(t *testing.T) {
	store := storeWithParticipants(testChallenge(),
		&challenge.Participant{UserID: 7},
		&challenge.Participant{UserID: 8},
	)
	counter := &MockCounter{
		VerifiedCountFunc: func(_ context.Context, _, userID int64) (int, error) {
			if userID == 7 {
				return 5, nil
			}
			return 2, nil
		},
	}
	svc, _, _ := newTestService(store, counter)

	detail, err := svc.Get(context.Background(), 7, 1)
	require.NoError(t, err)

	assert.Equal(t, 10, detail.Required)
	assert.Equal(t, 10, detail.Target)
	assert.Equal(t, int64(200), detail.TotalPot)
	require.Len(t, detail.Participants, 2)
	assert.Equal(t, 5, detail.Participants[0].VerifiedCount)
	assert.Equal(t, 50, detail.Participants[0].CompletionPercent)
}

func TestLeaderboard_OrdersByCountThenStreak(t *testing.T) {
	store := storeWithParticipants(testChallenge(),
		&challenge.Participant{UserID: 7, LongestStreak: 2},
		&challenge.Participant{UserID: 8, LongestStreak: 6},
		&challenge.Participant{UserID: 9, LongestStreak: 4},
	)
	counter := &MockCounter{
		VerifiedCountFunc: func(_ context.Context, _, userID int64) (int, error) {
			counts := map[int64]int{7: 4, 8: 4, 9: 6}
			return counts[userID], nil
		},
	}
	svc, _, _ := newTestService(store, counter)

	progress, err := svc.Leaderboard(context.Background(), 7, 1)
	require.NoError(t, err)

	require.Len(t, progress, 3)
	assert.Equal(t, int64(9), progress[0].UserID)
	assert.Equal(t, int64(8), progress[1].UserID)
	assert.Equal(t, int64(7), progress[2].UserID)
}

func pendingInvite() *challenge.Invite {
	return &challenge.Invite{
		ID:          3,
		ChallengeID: 1,
		InviterID:   7,
		InviteeID:   8,
		Status:      challenge.InvitePending,
	}
}

func storeWithInvite(inv *challenge.Invite, ch *challenge.Challenge) *MockStore {
	return &MockStore{
		GetInviteFunc: func(_ context.Context, _ int64) (*challenge.Invite, error) {
			return inv, nil
		},
		GetChallengeFunc: func(_ context.Context, _ int64) (*challenge.Challenge, error) {
			return ch, nil
		},
	}
}

func TestAcceptInvite_JoinsWithChallengeWager(t *testing.T) {
	var joinedWager int64 = -1
	store := storeWithInvite(pendingInvite(), testChallenge())
	store.JoinFunc = func(_ context.Context, _, _, wager int64) error {
		joinedWager = wager
		return nil
	}
	svc, recorder, sender := newTestService(store, nil)

	require.NoError(t, svc.AcceptInvite(context.Background(), 8, 3))

	assert.Equal(t, int64(100), joinedWager)
	assert.Equal(t, challenge.InviteAccepted, store.InviteStatuses[3])
	require.Len(t, recorder.Recorded, 1)
	assert.Equal(t, activity.TypeJoinedChallenge, recorder.Recorded[0].Type)
	// The inviter hears about it.
	assert.Len(t, sender.Sent[7], 1)
}

func TestAcceptInvite_WrongUser_ReturnsForbidden(t *testing.T) {
	svc, _, _ := newTestService(storeWithInvite(pendingInvite(), testChallenge()), nil)

	err := svc.AcceptInvite(context.Background(), 99, 3)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CategoryForbidden))
}

func TestAcceptInvite_AlreadyResolved_ReturnsConflict(t *testing.T) {
	inv := pendingInvite()
	inv.Status = challenge.InviteDeclined
	svc, _, _ := newTestService(storeWithInvite(inv, testChallenge()), nil)

	err := svc.AcceptInvite(context.Background(), 8, 3)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CategoryDataConflict))
}

func TestAcceptInvite_ClosedChallenge_ReturnsConflict(t *testing.T) {
	ch := testChallenge()
	ch.Status = challenge.StatusSettled
	svc, _, _ := newTestService(storeWithInvite(pendingInvite(), ch), nil)

	err := svc.AcceptInvite(context.Background(), 8, 3)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CategoryDataConflict))
}

func TestDeclineInvite_MarksDeclined(t *testing.T) {
	store := storeWithInvite(pendingInvite(), testChallenge())
	svc, _, _ := newTestService(store, nil)

	require.NoError(t, svc.DeclineInvite(context.Background(), 8, 3))
	assert.Equal(t, challenge.InviteDeclined, store.InviteStatuses[3])
}
