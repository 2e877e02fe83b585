package control

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// user-initiated abort, ends the whole run
var ErrCancelled = errors.New("cancelled by user")

// user-initiated abort, ends only the current file
var ErrSkipped = errors.New("skipped by user")

// how often Guard checks the flags while a call is outstanding
const PollInterval = 300 * time.Millisecond

// Signals carries the two abort flags shared between the key listener and
// every in-flight backend call. Cancel persists for the whole run; skip is
// cleared at the start of each file.
type Signals struct {
	cancel atomic.Bool
	skip   atomic.Bool
}

func NewSignals() *Signals {
	return &Signals{}
}

func (s *Signals) Cancel() { s.cancel.Store(true) }

func (s *Signals) Skip() { s.skip.Store(true) }

func (s *Signals) Cancelled() bool { return s != nil && s.cancel.Load() }

func (s *Signals) Skipped() bool { return s != nil && s.skip.Load() }

func (s *Signals) ClearSkip() {
	if s != nil {
		s.skip.Store(false)
	}
}

// Err returns the pending abort error, cancel winning over skip, or nil.
func (s *Signals) Err() error {
	if s.Cancelled() {
		return ErrCancelled
	}
	if s.Skipped() {
		return ErrSkipped
	}
	return nil
}

// Guard runs one backend call in its own goroutine and polls the flags so a
// cancel or skip can abort it even when the call itself never checks them.
// The call receives a context that is cancelled on abort, which closes the
// underlying connection. With a nil Signals this is a plain synchronous call.
func (s *Signals) Guard(
	ctx context.Context,
	call func(ctx context.Context) (string, error),
) (string, error) {
	if s == nil {
		return call(ctx)
	}

	if err := s.Err(); err != nil {
		return "", err
	}

	callCtx, abort := context.WithCancel(ctx)
	defer abort()

	type outcome struct {
		text string
		err  error
	}
	done := make(chan outcome, 1)

	go func() {
		text, err := call(callCtx)
		done <- outcome{text: text, err: err}
	}()

	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()

	for {
		select {
		case o := <-done:
			return o.text, o.err
		case <-ticker.C:
			if err := s.Err(); err != nil {
				abort()
				<-done
				return "", err
			}
		}
	}
}
