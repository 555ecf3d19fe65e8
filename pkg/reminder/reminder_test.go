package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/forgelabs/forge/pkg/config"
	"github.com/forgelabs/forge/pkg/notify"
)

type stubFinder struct {
	userIDs []int64
	err     error
	gotDay  time.Time
}

func (s *stubFinder) UsersMissingDailyProof(_ context.Context, day time.Time) ([]int64, error) {
	s.gotDay = day
	return s.userIDs, s.err
}

type stubSender struct {
	sent map[int64]*notify.Message
}

func (s *stubSender) Send(_ context.Context, userID int64, msg *notify.Message) {
	if s.sent == nil {
		s.sent = map[int64]*notify.Message{}
	}
	s.sent[userID] = msg
}

func TestRun_NotifiesEverySlacker(t *testing.T) {
	finder := &stubFinder{userIDs: []int64{1, 2, 3}}
	sender := &stubSender{}
	r := New(finder, sender, &config.RemindersConfig{}, zap.NewNop())

	require.NoError(t, r.Run(context.Background()))

	assert.Len(t, sender.sent, 3)
	assert.Contains(t, sender.sent[1].Title, "streak")

	// The sweep queries a date, not a timestamp.
	assert.Equal(t, finder.gotDay, finder.gotDay.Truncate(24*time.Hour))
}

func TestRun_PropagatesFinderError(t *testing.T) {
	finder := &stubFinder{err: errors.New("db down")}
	sender := &stubSender{}
	r := New(finder, sender, &config.RemindersConfig{}, zap.NewNop())

	err := r.Run(context.Background())
	require.Error(t, err)
	assert.Empty(t, sender.sent)
}

func TestStart_Disabled_IsNoOp(t *testing.T) {
	r := New(&stubFinder{}, &stubSender{}, &config.RemindersConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, r.Start(context.Background()))
	r.Stop()
}

func TestStart_BadCronSpec(t *testing.T) {
	cfg := &config.RemindersConfig{Enabled: true, CronSpec: "not a cron spec"}
	r := New(&stubFinder{}, &stubSender{}, cfg, zap.NewNop())
	require.Error(t, r.Start(context.Background()))
}
