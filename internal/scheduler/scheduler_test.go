package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"servicehub/internal/modules/subscription"
	"servicehub/internal/pkg/logger"

	"github.com/stretchr/testify/require"
)

type countingSweeper struct {
	calls atomic.Int32
	err   error
}

func (c *countingSweeper) Sweep(ctx context.Context) (subscription.SweepResult, error) {
	c.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return subscription.SweepResult{}, errors.New("sweep without deadline")
	}
	return subscription.SweepResult{Expired: 1}, c.err
}

func TestScheduler_RunsSweepOnStart(t *testing.T) {
	sw := &countingSweeper{}
	s, err := New(sw, time.Hour, time.Second, logger.Nop())
	require.NoError(t, err)

	s.Start()
	t.Cleanup(func() { _ = s.Stop() })

	require.Eventually(t, func() bool { return sw.calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestScheduler_SurvivesSweepErrors(t *testing.T) {
	sw := &countingSweeper{err: errors.New("db down")}
	s, err := New(sw, 50*time.Millisecond, time.Second, logger.Nop())
	require.NoError(t, err)

	s.Start()
	t.Cleanup(func() { _ = s.Stop() })

	require.Eventually(t, func() bool { return sw.calls.Load() >= 2 }, 3*time.Second, 10*time.Millisecond)
}
