package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/forgelabs/forge/pkg/app/errors"
	"github.com/forgelabs/forge/pkg/activity"
	"github.com/forgelabs/forge/pkg/challenge"
	"github.com/forgelabs/forge/pkg/submission"
	"github.com/forgelabs/forge/pkg/submissionstore"
	"github.com/forgelabs/forge/pkg/verify"
)

var testDay = time.Date(2026, 3, 10, 15, 4, 5, 0, time.UTC)

func activeChallenge(policing challenge.PolicingType) *challenge.Challenge {
	return &challenge.Challenge{
		ID:             1,
		Name:           "Read 20 pages",
		Frequency:      challenge.FrequencyDaily,
		FrequencyCount: 1,
		Duration:       30,
		PolicingType:   policing,
		ProofType:      "book",
		Status:         challenge.StatusActive,
		StartDate:      time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2026, 3, 30, 0, 0, 0, 0, time.UTC),
	}
}

func newTestService(ch *challenge.Challenge, store *MockStore, oracle verify.Oracle) (Service, *MockChallengeStore, *MockRecorder) {
	challenges := &MockChallengeStore{
		GetChallengeFunc: func(_ context.Context, _ int64) (*challenge.Challenge, error) {
			return ch, nil
		},
	}
	recorder := &MockRecorder{}
	svc := NewService(store, challenges, recorder, oracle, zap.NewNop())
	svc.(*submissionService).now = func() time.Time { return testDay }
	return svc, challenges, recorder
}

func TestSubmit_SelfPoliced_VerifiesImmediately(t *testing.T) {
	svc, challenges, recorder := newTestService(activeChallenge(challenge.PolicingSelf), &MockStore{}, nil)

	sub, err := svc.Submit(context.Background(), 7, 1, &SubmitRequest{})
	require.NoError(t, err)

	assert.True(t, sub.Verified)
	assert.False(t, sub.Pending)
	assert.Equal(t, "Self-attested", sub.AIMessage)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), sub.SubmittedOn)
	assert.Equal(t, 1, challenges.RecordVerifiedCalls)
	require.Len(t, recorder.Recorded, 1)
	assert.Equal(t, activity.TypeSubmissionVerified, recorder.Recorded[0].Type)
}

func TestSubmit_DuplicateDay_ReturnsConflict(t *testing.T) {
	store := &MockStore{
		CreateSubmissionFunc: func(_ context.Context, _ *submission.Submission) error {
			return submissionstore.ErrDuplicateSubmission
		},
	}
	svc, challenges, _ := newTestService(activeChallenge(challenge.PolicingSelf), store, nil)

	_, err := svc.Submit(context.Background(), 7, 1, &SubmitRequest{})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CategoryDataConflict))
	assert.Zero(t, challenges.RecordVerifiedCalls)
}

func TestSubmit_AIPoliced_NilOracle_AutoVerifies(t *testing.T) {
	svc, challenges, _ := newTestService(activeChallenge(challenge.PolicingAI), &MockStore{}, nil)

	sub, err := svc.Submit(context.Background(), 7, 1, &SubmitRequest{Image: "data:image/jpeg;base64,xyz"})
	require.NoError(t, err)

	assert.True(t, sub.Verified)
	assert.Contains(t, sub.AIMessage, "Auto-verified")
	assert.Equal(t, 1, challenges.RecordVerifiedCalls)
}

func TestSubmit_AIPoliced_MissingImage_ReturnsBadRequest(t *testing.T) {
	svc, _, _ := newTestService(activeChallenge(challenge.PolicingAI), &MockStore{}, &MockOracle{})

	_, err := svc.Submit(context.Background(), 7, 1, &SubmitRequest{})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CategoryDataError))
}

func TestSubmit_AIPoliced_OracleVerdict(t *testing.T) {
	oracle := &MockOracle{
		VerifyFunc: func(_ context.Context, req *verify.Request) (*verify.Result, error) {
			assert.Equal(t, "Read 20 pages", req.ChallengeName)
			assert.NotEmpty(t, req.Prompt)
			return &verify.Result{
				Verified: true,
				Message:  "Clearly a book",
				Details:  map[string]any{"pages": 20},
			}, nil
		},
	}
	svc, challenges, _ := newTestService(activeChallenge(challenge.PolicingAI), &MockStore{}, oracle)

	sub, err := svc.Submit(context.Background(), 7, 1, &SubmitRequest{Image: "data:image/jpeg;base64,xyz"})
	require.NoError(t, err)

	assert.True(t, sub.Verified)
	assert.Equal(t, "Clearly a book", sub.AIMessage)
	assert.Equal(t, map[string]any{"pages": 20}, sub.ExtractedData)
	assert.Equal(t, 1, challenges.RecordVerifiedCalls)
}

func TestSubmit_AIPoliced_Rejection_DoesNotAdvanceStreak(t *testing.T) {
	oracle := &MockOracle{
		VerifyFunc: func(_ context.Context, _ *verify.Request) (*verify.Result, error) {
			return &verify.Result{Verified: false, Message: "That is a sandwich"}, nil
		},
	}
	svc, challenges, recorder := newTestService(activeChallenge(challenge.PolicingAI), &MockStore{}, oracle)

	sub, err := svc.Submit(context.Background(), 7, 1, &SubmitRequest{Image: "data:image/jpeg;base64,xyz"})
	require.NoError(t, err)

	assert.False(t, sub.Verified)
	assert.False(t, sub.Pending)
	assert.Zero(t, challenges.RecordVerifiedCalls)
	assert.Empty(t, recorder.Recorded)
}

func TestSubmit_AIPoliced_TransientFailure_StoredPending(t *testing.T) {
	oracle := &MockOracle{
		VerifyFunc: func(_ context.Context, _ *verify.Request) (*verify.Result, error) {
			return nil, &verify.TransientError{Err: errors.New("rate limited")}
		},
	}
	var saved *submission.Submission
	store := &MockStore{
		CreateSubmissionFunc: func(_ context.Context, sub *submission.Submission) error {
			saved = sub
			return nil
		},
	}
	svc, challenges, _ := newTestService(activeChallenge(challenge.PolicingAI), store, oracle)

	sub, err := svc.Submit(context.Background(), 7, 1, &SubmitRequest{Image: "data:image/jpeg;base64,xyz"})
	require.NoError(t, err)

	// The day slot is kept even though no verdict arrived.
	assert.True(t, sub.Pending)
	assert.False(t, sub.Verified)
	require.NotNil(t, saved)
	assert.True(t, saved.Pending)
	assert.Zero(t, challenges.RecordVerifiedCalls)
}

func TestSubmit_ClosedChallenge_ReturnsConflict(t *testing.T) {
	ch := activeChallenge(challenge.PolicingSelf)
	ch.Status = challenge.StatusSettled
	svc, _, _ := newTestService(ch, &MockStore{}, nil)

	_, err := svc.Submit(context.Background(), 7, 1, &SubmitRequest{})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CategoryDataConflict))
}

func TestSubmit_OutsideWindow_ReturnsBadRequest(t *testing.T) {
	ch := activeChallenge(challenge.PolicingSelf)
	ch.StartDate = time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	ch.EndDate = time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)
	svc, _, _ := newTestService(ch, &MockStore{}, nil)

	_, err := svc.Submit(context.Background(), 7, 1, &SubmitRequest{})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CategoryDataError))
}

func TestSubmit_NonParticipant_ReturnsForbidden(t *testing.T) {
	svc, challenges, _ := newTestService(activeChallenge(challenge.PolicingSelf), &MockStore{}, nil)
	challenges.GetParticipantFunc = func(_ context.Context, _, _ int64) (*challenge.Participant, error) {
		return nil, nil
	}

	_, err := svc.Submit(context.Background(), 7, 1, &SubmitRequest{})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CategoryForbidden))
}

func TestList_ReturnsStoreRows(t *testing.T) {
	store := &MockStore{
		ListByChallengeFunc: func(_ context.Context, challengeID int64) ([]*submission.Submission, error) {
			return []*submission.Submission{{ID: 1, ChallengeID: challengeID}}, nil
		},
	}
	svc, _, _ := newTestService(activeChallenge(challenge.PolicingSelf), store, nil)

	subs, err := svc.List(context.Background(), 7, 1)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, int64(1), subs[0].ID)
}
