package session

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// DefaultFrameInterval is the drain cadence of a Loop.
const DefaultFrameInterval = 50 * time.Millisecond

// ErrLoopStopped is returned by Do once the loop has exited.
var ErrLoopStopped = errors.New("session: loop stopped")

type request struct {
	fn   func(*Session) error
	resp chan error
}

// Loop runs a Session on a single goroutine.
//
// Concurrency model: Run owns the session. Other goroutines reach it only
// through Do, which ships a closure to the loop and waits for its result, so
// the note body is never touched off the loop goroutine.
type Loop struct {
	session  *Session
	interval time.Duration
	logger   *slog.Logger
	onReload func(path string)

	reqCh   chan request
	stopped chan struct{}
}

// NewLoop creates a loop over s. onReload, if non-nil, runs on the loop
// goroutine after a frame applied an external change.
func NewLoop(s *Session, interval time.Duration, logger *slog.Logger, onReload func(path string)) *Loop {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &Loop{
		session:  s,
		interval: interval,
		logger:   logger,
		onReload: onReload,
		reqCh:    make(chan request),
		stopped:  make(chan struct{}),
	}
}

// Run drives frames and requests until ctx is cancelled, then drops the
// session's watch.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.stopped)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.logger.Info("session: loop started", slog.Duration("frame_interval", l.interval))

	for {
		select {
		case <-ctx.Done():
			if err := l.session.Close(); err != nil {
				l.logger.Warn("session: close", slog.String("error", err.Error()))
			}
			l.logger.Info("session: loop stopped")
			return nil

		case req := <-l.reqCh:
			req.resp <- req.fn(l.session)

		case <-ticker.C:
			l.frame()
		}
	}
}

func (l *Loop) frame() {
	if !l.session.Frame() {
		return
	}
	n := l.session.Current()
	l.logger.Info("session: external change applied", slog.String("path", n.Path))
	if l.onReload != nil {
		l.onReload(n.Path)
	}
}

// Do runs fn on the loop goroutine and returns its error.
func (l *Loop) Do(ctx context.Context, fn func(*Session) error) error {
	req := request{fn: fn, resp: make(chan error, 1)}

	select {
	case l.reqCh <- req:
	case <-ctx.Done():
		return ctx.Err()
	case <-l.stopped:
		return ErrLoopStopped
	}

	select {
	case err := <-req.resp:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
