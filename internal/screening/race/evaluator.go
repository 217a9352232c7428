// Package race implements the "first positive result or timeout" combinator
// used for the concurrent reputation lookup.
package race

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/acme/call-screening/internal/reputation"
	"github.com/acme/call-screening/pkg/logger"
)

// Outcome summarizes one evaluation run. Only the Spam flag feeds the
// decision pipeline; the rest exists for logging and the result cache.
type Outcome struct {
	Spam      bool
	Completed int
	TimedOut  bool
}

// Evaluator races a set of reputation checkers against a single number.
type Evaluator struct {
	log *logger.Logger
}

// New builds an evaluator.
func New(log *logger.Logger) *Evaluator {
	return &Evaluator{log: log.Named("race")}
}

// Evaluate runs every checker concurrently and returns true the instant any
// one of them reports spam. It returns false once all checkers finished
// negative, or once the timeout elapses, whichever comes first. In-flight
// checkers are cancelled on return; delivery of the result never waits on
// their termination.
func (e *Evaluator) Evaluate(ctx context.Context, checkers []reputation.Checker, number string, timeout time.Duration) bool {
	return e.Run(ctx, checkers, number, timeout).Spam
}

// Run is Evaluate with the full outcome, used by the result cache to avoid
// caching timed-out runs.
func (e *Evaluator) Run(ctx context.Context, checkers []reputation.Checker, number string, timeout time.Duration) Outcome {
	if len(checkers) == 0 {
		return Outcome{}
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	raceCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Buffered so stragglers never block after the race is decided.
	results := make(chan bool, len(checkers))
	for _, c := range checkers {
		go func(c reputation.Checker) {
			start := time.Now()
			spam, err := c.Check(raceCtx, number)
			elapsed := time.Since(start)
			if err != nil {
				e.log.Debug("reputation check failed",
					zap.String("provider", c.Name()),
					zap.Duration("elapsed", elapsed),
					zap.Error(err))
				results <- false
				return
			}
			e.log.Debug("reputation check finished",
				zap.String("provider", c.Name()),
				zap.Duration("elapsed", elapsed),
				zap.Bool("spam", spam))
			results <- spam
		}(c)
	}

	outcome := Outcome{}
	for {
		select {
		case spam := <-results:
			outcome.Completed++
			if spam {
				outcome.Spam = true
				return outcome
			}
			if outcome.Completed == len(checkers) {
				return outcome
			}
		case <-raceCtx.Done():
			outcome.TimedOut = true
			e.log.Debug("reputation race timed out",
				zap.Int("completed", outcome.Completed),
				zap.Int("total", len(checkers)))
			return outcome
		}
	}
}
