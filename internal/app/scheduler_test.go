package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/escape_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeSweeper struct {
	mu       sync.Mutex
	promotes []time.Time
	deletes  []time.Time
	promoted []*model.Reservation
	err      error
}

func (f *fakeSweeper) PromoteOrphaned(ctx context.Context, now time.Time) ([]*model.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.promotes = append(f.promotes, now)
	return f.promoted, f.err
}

func (f *fakeSweeper) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, now)
	return 0, f.err
}

type fakeNotifier struct {
	notified []int64
}

func (n *fakeNotifier) NotifyPromoted(ctx context.Context, reservation *model.Reservation) {
	n.notified = append(n.notified, reservation.ID)
}

func (f *fakeSweeper) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.promotes)
}

func TestScheduler_SweepsImmediatelyAndOnTick(t *testing.T) {
	sweeper := &fakeSweeper{}
	s := NewScheduler(sweeper, nil, 10*time.Millisecond, time.UTC, zaptest.NewLogger(t))

	s.Start(context.Background())
	require.Eventually(t, func() bool { return sweeper.calls() >= 3 }, time.Second, 5*time.Millisecond)
	s.Stop()

	sweeper.mu.Lock()
	defer sweeper.mu.Unlock()
	assert.Equal(t, len(sweeper.promotes), len(sweeper.deletes))
}

func TestScheduler_UsesConfiguredLocation(t *testing.T) {
	sweeper := &fakeSweeper{}
	loc := time.FixedZone("UTC+3", 3*60*60)
	s := NewScheduler(sweeper, nil, time.Hour, loc, zaptest.NewLogger(t))
	fixed := time.Date(2025, 6, 1, 7, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	s.sweep(context.Background())

	require.Len(t, sweeper.promotes, 1)
	assert.Equal(t, loc, sweeper.promotes[0].Location())
	assert.Equal(t, 10, sweeper.promotes[0].Hour())
}

func TestScheduler_ContinuesAfterErrors(t *testing.T) {
	sweeper := &fakeSweeper{err: errors.New("db down")}
	s := NewScheduler(sweeper, nil, 10*time.Millisecond, time.UTC, zaptest.NewLogger(t))
	ctx, cancel := context.WithCancel(context.Background())

	s.Start(ctx)
	require.Eventually(t, func() bool { return sweeper.calls() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	<-s.done
}

func TestScheduler_NotifiesPromotedMembers(t *testing.T) {
	sweeper := &fakeSweeper{
		promoted: []*model.Reservation{{ID: 7}, {ID: 9}},
		err:      errors.New("one slot failed"),
	}
	notifier := &fakeNotifier{}
	s := NewScheduler(sweeper, notifier, time.Hour, time.UTC, zaptest.NewLogger(t))

	s.sweep(context.Background())

	assert.Equal(t, []int64{7, 9}, notifier.notified)
}

func TestScheduler_NilNotifier(t *testing.T) {
	sweeper := &fakeSweeper{promoted: []*model.Reservation{{ID: 7}}}
	s := NewScheduler(sweeper, nil, time.Hour, time.UTC, zaptest.NewLogger(t))

	assert.NotPanics(t, func() { s.sweep(context.Background()) })
}
