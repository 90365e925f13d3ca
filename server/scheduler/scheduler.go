// Package scheduler runs the background loops behind reminders: a daily
// wall-clock trigger for the morning report and fixed-interval sweeps for
// deadline and overdue checks.
//
// Every loop is cooperative: cancellation is checked at sleep boundaries,
// Stop is idempotent, and a failing callback is logged without terminating
// its loop.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Callback is one loop iteration's unit of work.
type Callback func(ctx context.Context) error

// errorRetryDelay is how long a loop waits after an internal failure before
// trying again.
const errorRetryDelay = time.Minute

// Scheduler owns a set of independently started loops and stops them
// together.
type Scheduler struct {
	mu      sync.Mutex
	stopped bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
	logger  *slog.Logger
}

// New creates a scheduler.
func New() *Scheduler {
	return &Scheduler{
		stopCh: make(chan struct{}),
		logger: slog.Default(),
	}
}

// SetLogger sets a custom logger.
func (s *Scheduler) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// StartDaily runs callback every day at the given wall-clock time ("HH:MM"
// or "HH"), starting with the next occurrence.
func (s *Scheduler) StartDaily(ctx context.Context, at string, name string, callback Callback) error {
	hour, minute, err := parseWallClock(at)
	if err != nil {
		return err
	}
	if !s.register() {
		return nil
	}

	go func() {
		defer s.wg.Done()
		for {
			now := time.Now()
			target := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
			if !target.After(now) {
				target = target.AddDate(0, 0, 1)
			}

			s.logger.Info("daily task scheduled", "name", name, "at", target.Format("2006-01-02 15:04"))
			if !s.sleep(ctx, time.Until(target)) {
				s.logger.Info("daily task cancelled", "name", name)
				return
			}

			if err := callback(ctx); err != nil {
				s.logger.Error("daily task failed", "name", name, "error", err)
			}
		}
	}()
	return nil
}

// StartInterval runs callback every interval, after an initial delay that
// gives the rest of the process time to come up.
func (s *Scheduler) StartInterval(ctx context.Context, interval time.Duration, initialDelay time.Duration, name string, callback Callback) {
	if !s.register() {
		return
	}

	go func() {
		defer s.wg.Done()
		if !s.sleep(ctx, initialDelay) {
			s.logger.Info("interval task cancelled", "name", name)
			return
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			if err := callback(ctx); err != nil {
				s.logger.Error("interval task failed", "name", name, "error", err)
				// 出错后等一分钟再回到正常节奏
				if !s.sleep(ctx, errorRetryDelay) {
					s.logger.Info("interval task cancelled", "name", name)
					return
				}
			}

			select {
			case <-ctx.Done():
				s.logger.Info("interval task cancelled", "name", name)
				return
			case <-s.stopCh:
				s.logger.Info("interval task cancelled", "name", name)
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop cancels all loops and waits for them to exit. Stopping twice, or
// stopping a scheduler whose loops have already finished, is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}

// register accounts for a new loop; a stopped scheduler refuses new loops.
func (s *Scheduler) register() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return false
	}
	s.wg.Add(1)
	return true
}

// sleep waits for d, returning false when the scheduler or context was
// cancelled first.
func (s *Scheduler) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-s.stopCh:
		return false
	case <-timer.C:
		return true
	}
}

// parseWallClock parses "HH:MM" (minutes optional) into hour and minute.
func parseWallClock(at string) (int, int, error) {
	parts := strings.SplitN(strings.TrimSpace(at), ":", 2)
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid wall-clock time %q", at)
	}
	minute := 0
	if len(parts) == 2 {
		minute, err = strconv.Atoi(parts[1])
		if err != nil || minute < 0 || minute > 59 {
			return 0, 0, fmt.Errorf("invalid wall-clock time %q", at)
		}
	}
	return hour, minute, nil
}
