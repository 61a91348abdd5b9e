// Package autosave periodically flushes pending inventory changes.
//
// A Saver ticks at a fixed interval and calls Flush on its target. Flushes
// are best effort: a failed flush is logged and retried on the next tick.
// Stop ends the loop and performs one last flush, so at most one interval
// of changes is at risk if the process dies without stopping the Saver.
package autosave

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultInterval is the flush period used when none is configured.
const DefaultInterval = 20 * time.Second

// Flusher writes pending changes. It reports whether anything was pending.
// *store.Store implements it.
type Flusher interface {
	Flush(ctx context.Context) (bool, error)
}

// Config holds configuration for a Saver.
type Config struct {
	// Interval between flushes.
	// Default: 20s
	Interval time.Duration

	// OnFlush, if set, is called after every flush that wrote pending changes.
	OnFlush func()
}

// Saver flushes a Flusher on a ticker.
type Saver struct {
	target Flusher
	config Config
	logger *zap.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	stopped bool
}

// New creates a Saver. It does nothing until Start is called.
func New(target Flusher, config Config, logger *zap.Logger) *Saver {
	if config.Interval <= 0 {
		config.Interval = DefaultInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Saver{target: target, config: config, logger: logger}
}

// Start launches the flush loop. It runs until ctx is cancelled or Stop is
// called. Starting a running or stopped Saver does nothing.
func (s *Saver) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != nil || s.stopped {
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	go s.run(ctx, s.done)
}

func (s *Saver) run(ctx context.Context, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.flush(ctx)
		}
	}
}

// Stop ends the flush loop, waits for it to exit and flushes once more
// using ctx. It returns the error of that final flush.
func (s *Saver) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	return s.flush(ctx)
}

func (s *Saver) flush(ctx context.Context) error {
	wrote, err := s.target.Flush(ctx)
	if err != nil {
		s.logger.Warn("autosave failed", zap.Error(err))
		return err
	}
	if wrote {
		s.logger.Debug("autosaved")
		if s.config.OnFlush != nil {
			s.config.OnFlush()
		}
	}
	return nil
}
