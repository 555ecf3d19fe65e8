package service

import (
	"context"

	"github.com/forgelabs/forge/pkg/activity"
	"github.com/forgelabs/forge/pkg/challenge"
	"github.com/forgelabs/forge/pkg/submission"
	"github.com/forgelabs/forge/pkg/verify"
)

// MockStore is a func-field mock of Store.
type MockStore struct {
	CreateSubmissionFunc func(ctx context.Context, sub *submission.Submission) error
	ListByChallengeFunc  func(ctx context.Context, challengeID int64) ([]*submission.Submission, error)
}

func (m *MockStore) CreateSubmission(ctx context.Context, sub *submission.Submission) error {
	if m.CreateSubmissionFunc != nil {
		return m.CreateSubmissionFunc(ctx, sub)
	}
	return nil
}

func (m *MockStore) ListByChallenge(ctx context.Context, challengeID int64) ([]*submission.Submission, error) {
	if m.ListByChallengeFunc != nil {
		return m.ListByChallengeFunc(ctx, challengeID)
	}
	return nil, nil
}

// MockChallengeStore is a func-field mock of ChallengeStore.
type MockChallengeStore struct {
	GetChallengeFunc   func(ctx context.Context, id int64) (*challenge.Challenge, error)
	GetParticipantFunc func(ctx context.Context, challengeID, userID int64) (*challenge.Participant, error)
	RecordVerifiedFunc func(ctx context.Context, challengeID, userID int64) error

	RecordVerifiedCalls int
}

func (m *MockChallengeStore) GetChallenge(ctx context.Context, id int64) (*challenge.Challenge, error) {
	if m.GetChallengeFunc != nil {
		return m.GetChallengeFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockChallengeStore) GetParticipant(ctx context.Context, challengeID, userID int64) (*challenge.Participant, error) {
	if m.GetParticipantFunc != nil {
		return m.GetParticipantFunc(ctx, challengeID, userID)
	}
	return &challenge.Participant{ChallengeID: challengeID, UserID: userID}, nil
}

func (m *MockChallengeStore) RecordVerified(ctx context.Context, challengeID, userID int64) error {
	m.RecordVerifiedCalls++
	if m.RecordVerifiedFunc != nil {
		return m.RecordVerifiedFunc(ctx, challengeID, userID)
	}
	return nil
}

// MockRecorder is a func-field mock of ActivityRecorder.
type MockRecorder struct {
	RecordFunc func(ctx context.Context, act *activity.Activity) error

	Recorded []*activity.Activity
}

func (m *MockRecorder) Record(ctx context.Context, act *activity.Activity) error {
	m.Recorded = append(m.Recorded, act)
	if m.RecordFunc != nil {
		return m.RecordFunc(ctx, act)
	}
	return nil
}

// MockOracle is a func-field mock of verify.Oracle.
type MockOracle struct {
	VerifyFunc func(ctx context.Context, req *verify.Request) (*verify.Result, error)
}

func (m *MockOracle) Verify(ctx context.Context, req *verify.Request) (*verify.Result, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, req)
	}
	return &verify.Result{Verified: true}, nil
}
