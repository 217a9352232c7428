package race

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/acme/call-screening/internal/reputation"
	"github.com/acme/call-screening/pkg/logger"
)

type fakeChecker struct {
	name string
	fn   func(ctx context.Context, number string) (bool, error)
}

func (c *fakeChecker) Name() string { return c.name }

func (c *fakeChecker) Check(ctx context.Context, number string) (bool, error) {
	return c.fn(ctx, number)
}

func fixed(name string, spam bool) reputation.Checker {
	return &fakeChecker{name: name, fn: func(context.Context, string) (bool, error) {
		return spam, nil
	}}
}

func TestEvaluateEmptySet(t *testing.T) {
	e := New(logger.Nop())
	if e.Evaluate(context.Background(), nil, "0612345678", time.Second) {
		t.Fatalf("expected empty checker set to evaluate false")
	}
}

func TestEvaluateAllFalse(t *testing.T) {
	e := New(logger.Nop())
	checkers := []reputation.Checker{fixed("a", false), fixed("b", false), fixed("c", false)}

	outcome := e.Run(context.Background(), checkers, "0612345678", time.Second)
	if outcome.Spam {
		t.Fatalf("expected all-false race to return false")
	}
	if outcome.Completed != len(checkers) {
		t.Fatalf("expected %d completions, got %d", len(checkers), outcome.Completed)
	}
	if outcome.TimedOut {
		t.Fatalf("did not expect a timeout")
	}
}

func TestEvaluateFirstTrueWins(t *testing.T) {
	slow := &fakeChecker{name: "slow", fn: func(ctx context.Context, _ string) (bool, error) {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(5 * time.Second):
			return false, nil
		}
	}}
	checkers := []reputation.Checker{slow, fixed("fast", true)}

	e := New(logger.Nop())
	start := time.Now()
	if !e.Evaluate(context.Background(), checkers, "0612345678", 10*time.Second) {
		t.Fatalf("expected race to return true")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("expected short-circuit before slow checker, took %v", elapsed)
	}
}

func TestEvaluateCheckerErrorCountsAsFalse(t *testing.T) {
	failing := &fakeChecker{name: "failing", fn: func(context.Context, string) (bool, error) {
		return true, errors.New("provider unavailable")
	}}
	checkers := []reputation.Checker{failing, fixed("clean", false)}

	e := New(logger.Nop())
	if e.Evaluate(context.Background(), checkers, "0612345678", time.Second) {
		t.Fatalf("expected failing checker to count as false")
	}
}

func TestEvaluateTimeout(t *testing.T) {
	hung := &fakeChecker{name: "hung", fn: func(ctx context.Context, _ string) (bool, error) {
		<-ctx.Done()
		return false, ctx.Err()
	}}

	e := New(logger.Nop())
	start := time.Now()
	outcome := e.Run(context.Background(), []reputation.Checker{hung}, "0612345678", 100*time.Millisecond)
	elapsed := time.Since(start)

	if outcome.Spam {
		t.Fatalf("expected timed-out race to return false")
	}
	if !outcome.TimedOut {
		t.Fatalf("expected outcome to report the timeout")
	}
	if elapsed < 100*time.Millisecond {
		t.Fatalf("returned before the timeout, after %v", elapsed)
	}
	if elapsed > 2*time.Second {
		t.Fatalf("returned far past the timeout, after %v", elapsed)
	}
}

func TestEvaluateCancelsStragglers(t *testing.T) {
	cancelled := make(chan struct{})
	straggler := &fakeChecker{name: "straggler", fn: func(ctx context.Context, _ string) (bool, error) {
		<-ctx.Done()
		close(cancelled)
		return false, ctx.Err()
	}}
	checkers := []reputation.Checker{straggler, fixed("fast", true)}

	e := New(logger.Nop())
	if !e.Evaluate(context.Background(), checkers, "0612345678", 10*time.Second) {
		t.Fatalf("expected race to return true")
	}

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatalf("straggler was not cancelled after the race was decided")
	}
}

func TestEvaluateConcurrentTruesCollapse(t *testing.T) {
	checkers := []reputation.Checker{fixed("a", true), fixed("b", true), fixed("c", true)}

	e := New(logger.Nop())
	if !e.Evaluate(context.Background(), checkers, "0612345678", time.Second) {
		t.Fatalf("expected race to return true")
	}
}
