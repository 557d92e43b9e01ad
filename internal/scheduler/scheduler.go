// Package scheduler runs the recurring "update all profiles" sweep.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ytget/tokkit/internal/model"
)

// ErrInvalidInterval is returned for intervals outside the menu options.
var ErrInvalidInterval = errors.New("invalid auto-update interval")

// Store persists the interval and lists the profiles to sweep.
type Store interface {
	GetAutoUpdateInterval(ctx context.Context) (int64, error)
	SetAutoUpdateInterval(ctx context.Context, millis int64) error
	ListProfileNames(ctx context.Context) ([]string, error)
}

// Enqueuer accepts profile updates.
type Enqueuer interface {
	EnqueueAll(ctx context.Context, profiles []string) error
}

// Scheduler owns the single auto-update ticker.
type Scheduler struct {
	store  Store
	queue  Enqueuer
	logger *slog.Logger

	// converts a menu interval to a ticker period
	durationOf func(millis int64) time.Duration

	// serializes SetInterval so the persisted and active values match
	applyMu sync.Mutex

	mu       sync.Mutex
	base     context.Context
	interval int64
	cancel   context.CancelFunc
	loops    sync.WaitGroup
	onChange func(millis int64)
}

// New creates a scheduler. No ticker runs until Start or SetInterval.
func New(store Store, queue Enqueuer, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		store:      store,
		queue:      queue,
		logger:     logger.With("component", "scheduler"),
		durationOf: func(ms int64) time.Duration { return time.Duration(ms) * time.Millisecond },
		base:       context.Background(),
	}
}

// SetOnIntervalChange sets the hook called after every applied interval change
func (s *Scheduler) SetOnIntervalChange(fn func(millis int64)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Start loads the persisted interval and applies it. Sweeps run until ctx is
// cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	s.base = ctx
	s.mu.Unlock()

	interval, err := s.store.GetAutoUpdateInterval(ctx)
	if err != nil {
		return fmt.Errorf("load auto-update interval: %w", err)
	}
	if !model.IsValidInterval(interval) {
		s.logger.Warn("persisted interval is not a menu option, turning auto-update off", "interval_ms", interval)
		interval = model.IntervalOff
	}
	return s.SetInterval(ctx, interval)
}

// SetInterval persists millis and restarts the ticker with it. Zero turns
// auto-update off.
func (s *Scheduler) SetInterval(ctx context.Context, millis int64) error {
	if !model.IsValidInterval(millis) {
		return fmt.Errorf("%w: %d", ErrInvalidInterval, millis)
	}

	s.applyMu.Lock()
	defer s.applyMu.Unlock()

	if err := s.store.SetAutoUpdateInterval(ctx, millis); err != nil {
		return fmt.Errorf("save auto-update interval: %w", err)
	}

	s.mu.Lock()
	s.stopLocked()
	s.interval = millis
	if millis > 0 {
		loopCtx, cancel := context.WithCancel(s.base)
		s.cancel = cancel
		s.loops.Add(1)
		go s.loop(loopCtx, s.durationOf(millis))
	}
	hook := s.onChange
	s.mu.Unlock()

	s.logger.Info("auto-update interval set", "interval", model.IntervalLabel(millis))
	if hook != nil {
		hook(millis)
	}
	return nil
}

// Interval returns the active interval in milliseconds
func (s *Scheduler) Interval() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// Stop cancels the ticker and waits for a running sweep to return
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopLocked()
	s.mu.Unlock()
	s.loops.Wait()
}

func (s *Scheduler) stopLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Sweep enqueues every known profile once
func (s *Scheduler) Sweep(ctx context.Context) error {
	names, err := s.store.ListProfileNames(ctx)
	if err != nil {
		return fmt.Errorf("list profiles: %w", err)
	}
	if len(names) == 0 {
		return nil
	}
	s.logger.Info("sweeping profiles", "count", len(names))
	return s.queue.EnqueueAll(ctx, names)
}

func (s *Scheduler) loop(ctx context.Context, period time.Duration) {
	defer s.loops.Done()

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil && ctx.Err() == nil {
				s.logger.Error("auto-update sweep failed", "error", err)
			}
		}
	}
}
