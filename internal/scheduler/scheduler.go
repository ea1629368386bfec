// Package scheduler runs the daily report job at a fixed wall-clock time.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Daily wakes once a day at a fixed wall-clock time in a fixed zone and
// invokes runFn for the previous calendar day.
type Daily struct {
	loc   *time.Location
	hour  int
	min   int
	runFn func(ctx context.Context, day time.Time)

	// now is swapped out in tests.
	now func() time.Time

	running atomic.Bool

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func New(loc *time.Location, hour, min int, runFn func(context.Context, time.Time)) (*Daily, error) {
	if loc == nil {
		return nil, errors.New("location must not be nil")
	}
	if hour < 0 || hour > 23 || min < 0 || min > 59 {
		return nil, fmt.Errorf("invalid trigger time %02d:%02d", hour, min)
	}
	if runFn == nil {
		return nil, errors.New("runFn must not be nil")
	}
	return &Daily{
		loc:   loc,
		hour:  hour,
		min:   min,
		runFn: runFn,
		now:   time.Now,
		done:  make(chan struct{}),
	}, nil
}

// NextTrigger returns the next trigger instant strictly after computing it
// from now: today's trigger time if now is still before it, otherwise the
// same wall-clock time tomorrow.
func (s *Daily) NextTrigger(now time.Time) time.Time {
	n := now.In(s.loc)
	target := time.Date(n.Year(), n.Month(), n.Day(), s.hour, s.min, 0, 0, s.loc)
	if !n.Before(target) {
		target = target.AddDate(0, 0, 1)
	}
	return target
}

func (s *Daily) Start() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running.Load() {
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running.Store(true)

	go func() {
		defer close(s.done)

		slog.Info("daily scheduler started",
			"trigger", fmt.Sprintf("%02d:%02d", s.hour, s.min),
			"zone", s.loc.String(),
		)

		for {
			now := s.now()
			next := s.NextTrigger(now)
			timer := time.NewTimer(next.Sub(now))

			select {
			case <-ctx.Done():
				timer.Stop()
				slog.Info("daily scheduler stopping")
				return
			case <-timer.C:
				wake := s.now().In(s.loc)
				day := wake.AddDate(0, 0, -1)
				s.safeRun(ctx, day)
			}
		}
	}()

	return true
}

func (s *Daily) Stop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running.Load() {
		return false
	}

	s.cancel()
	<-s.done
	s.running.Store(false)

	slog.Info("daily scheduler stopped")
	return true
}

func (s *Daily) IsRunning() bool {
	return s.running.Load()
}

// safeRun keeps one bad iteration from killing the loop; the next day's
// trigger is computed fresh regardless of what happened here.
func (s *Daily) safeRun(ctx context.Context, day time.Time) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("daily run panic recovered", "panic", r)
		}
	}()

	start := time.Now()
	s.runFn(ctx, day)
	slog.Info("daily run completed",
		"day", day.Format("2006-01-02"),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
