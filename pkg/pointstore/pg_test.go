package pointstore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgelabs/forge/pkg/challengestore"
	"github.com/forgelabs/forge/pkg/pgutil"
	mghelper "github.com/forgelabs/forge/pkg/pgutil/migrations"
	"github.com/forgelabs/forge/pkg/points"
	"github.com/forgelabs/forge/pkg/pointstore"
	"github.com/forgelabs/forge/pkg/user"
	"github.com/forgelabs/forge/pkg/userstore"
)

func setupStore(t *testing.T) (context.Context, pointstore.Store, int64) {
	t.Helper()

	ctx := context.Background()
	db, cleanup := pgutil.SetupTestDB(t)
	t.Cleanup(cleanup)

	err := mghelper.CreateSchema(ctx, db,
		&userstore.UserDao{},
		&challengestore.ChallengeDao{},
		&pointstore.TransactionDao{},
	)
	require.NoError(t, err)

	usr := &user.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, userstore.NewStore(db).CreateUser(ctx, usr))

	return ctx, pointstore.NewStore(db), usr.ID
}

func TestLedger_CreditAndBalance(t *testing.T) {
	ctx, s, userID := setupStore(t)

	require.NoError(t, s.Credit(ctx, userID, 10000, points.TypeSignupBonus, "Welcome bonus", nil))

	balance, err := s.Balance(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), balance)

	txs, err := s.ListTransactions(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, int64(10000), txs[0].Amount)
	assert.Equal(t, points.TypeSignupBonus, txs[0].Type)
}

func TestLedger_DebitGuardsBalance(t *testing.T) {
	ctx, s, userID := setupStore(t)

	require.NoError(t, s.Credit(ctx, userID, 100, points.TypeSignupBonus, "Welcome bonus", nil))
	require.NoError(t, s.Debit(ctx, userID, 60, points.TypeWager, "Stake", nil))

	// 40 left; over-debit must fail and leave the balance alone.
	err := s.Debit(ctx, userID, 41, points.TypeWager, "Stake", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, points.ErrInsufficientPoints))

	balance, err := s.Balance(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(40), balance)

	// The failed debit left no ledger entry either.
	txs, err := s.ListTransactions(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, int64(-60), txs[0].Amount)
}

func TestLedger_UnknownUser(t *testing.T) {
	ctx, s, _ := setupStore(t)

	err := s.Credit(ctx, 9999, 10, points.TypeRefund, "", nil)
	assert.True(t, errors.Is(err, userstore.ErrUserNotFound))

	err = s.Debit(ctx, 9999, 10, points.TypeWager, "", nil)
	assert.True(t, errors.Is(err, userstore.ErrUserNotFound))

	_, err = s.Balance(ctx, 9999)
	assert.True(t, errors.Is(err, userstore.ErrUserNotFound))
}
