package scheduler

import (
	"context"
	"fmt"
	"time"

	"servicehub/internal/modules/subscription"

	"github.com/go-co-op/gocron/v2"
)

// Sweeper is implemented by subscription.Service.
type Sweeper interface {
	Sweep(ctx context.Context) (subscription.SweepResult, error)
}

type Logger interface {
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// Scheduler runs the periodic subscription bookkeeping. Access decisions do
// not depend on it; a stopped scheduler only leaves listings stale.
type Scheduler struct {
	inner gocron.Scheduler
	log   Logger
}

// New registers the sweep job every interval. The first run happens right
// after Start.
func New(sweeper Sweeper, interval time.Duration, timeout time.Duration, log Logger) (*Scheduler, error) {
	inner, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("init scheduler: %w", err)
	}
	s := &Scheduler{inner: inner, log: log}

	j, err := inner.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { s.sweep(sweeper, timeout) }),
		gocron.WithName("subscription-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = inner.Shutdown()
		return nil, fmt.Errorf("register sweep job: %w", err)
	}
	log.Info("scheduler: job=%s id=%s every=%s", j.Name(), j.ID().String(), interval)
	return s, nil
}

func (s *Scheduler) sweep(sweeper Sweeper, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	res, err := sweeper.Sweep(ctx)
	if err != nil {
		s.log.Error("scheduler: sweep failed: %v", err)
		return
	}
	s.log.Info("scheduler: sweep done expired=%d trials_ended=%d", res.Expired, res.TrialsEnded)
}

func (s *Scheduler) Start() { s.inner.Start() }

func (s *Scheduler) Stop() error {
	return s.inner.Shutdown()
}
