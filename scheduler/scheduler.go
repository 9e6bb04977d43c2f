package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Task is one scheduled run. A returned error is logged and does not stop
// the schedule.
type Task func(ctx context.Context) error

// Stats describes the runs so far
type Stats struct {
	Runs     int64
	Failures int64
	LastRun  time.Time
	LastErr  error
}

// Scheduler runs a task at a fixed interval in the background. A run that
// outlasts the interval delays the next tick; runs never overlap.
type Scheduler struct {
	name     string
	interval time.Duration
	task     Task
	logger   *zap.Logger

	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc

	runs     atomic.Int64
	failures atomic.Int64
	statsMu  sync.Mutex
	lastRun  time.Time
	lastErr  error
}

// New creates a scheduler. name only labels log lines.
func New(name string, interval time.Duration, task Task, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		name:     name,
		interval: interval,
		task:     task,
		logger:   logger.Named("scheduler").With(zap.String("task", name)),
	}
}

// Start begins executing the task at the specified interval
func (s *Scheduler) Start(ctx context.Context, firstRunImmediately bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.running = true

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		if firstRunImmediately {
			s.run(ctx)
		}

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.run(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (s *Scheduler) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	start := time.Now()
	err := s.task(ctx)
	s.runs.Add(1)

	s.statsMu.Lock()
	s.lastRun = start
	s.lastErr = err
	s.statsMu.Unlock()

	if err != nil {
		s.failures.Add(1)
		s.logger.Warn("Scheduled run failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return
	}
	s.logger.Debug("Scheduled run completed", zap.Duration("duration", time.Since(start)))
}

// Stop cancels the schedule and waits for a run in progress
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.running = false
}

// IsRunning returns true if the schedule is active
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Stats returns the run counters
func (s *Scheduler) Stats() Stats {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	return Stats{
		Runs:     s.runs.Load(),
		Failures: s.failures.Load(),
		LastRun:  s.lastRun,
		LastErr:  s.lastErr,
	}
}
