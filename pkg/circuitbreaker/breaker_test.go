package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errBackend = errors.New("backend down")

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(c *clock) *CircuitBreaker {
	cb := NewCircuitBreaker("test", Config{
		FailureThreshold: 2,
		SuccessThreshold: 1,
		Timeout:          time.Second,
	})
	cb.now = c.now
	return cb
}

func fail() error    { return errBackend }
func succeed() error { return nil }

func TestOpensAfterConsecutiveFailures(t *testing.T) {
	c := &clock{t: time.Unix(0, 0)}
	cb := newTestBreaker(c)
	ctx := context.Background()

	_ = cb.Execute(ctx, fail)
	if cb.State() != StateClosed {
		t.Fatalf("state after 1 failure: got %s, want closed", cb.State())
	}
	_ = cb.Execute(ctx, fail)
	if cb.State() != StateOpen {
		t.Fatalf("state after 2 failures: got %s, want open", cb.State())
	}

	called := false
	err := cb.Execute(ctx, func() error { called = true; return nil })
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("got %v, want ErrCircuitOpen", err)
	}
	if called {
		t.Error("fn must not run while open")
	}
}

func TestHalfOpenRecovers(t *testing.T) {
	c := &clock{t: time.Unix(0, 0)}
	cb := newTestBreaker(c)
	ctx := context.Background()
	_ = cb.Execute(ctx, fail)
	_ = cb.Execute(ctx, fail)

	c.advance(2 * time.Second)
	if cb.State() != StateHalfOpen {
		t.Fatalf("got %s, want half-open", cb.State())
	}
	if err := cb.Execute(ctx, succeed); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cb.State() != StateClosed {
		t.Errorf("got %s, want closed", cb.State())
	}
}

func TestHalfOpenFailureReopens(t *testing.T) {
	c := &clock{t: time.Unix(0, 0)}
	cb := newTestBreaker(c)
	ctx := context.Background()
	_ = cb.Execute(ctx, fail)
	_ = cb.Execute(ctx, fail)
	c.advance(2 * time.Second)

	_ = cb.Execute(ctx, fail)
	if cb.State() != StateOpen {
		t.Errorf("got %s, want open", cb.State())
	}
}

func TestIsFailureFilter(t *testing.T) {
	ignored := errors.New("client error")
	cb := NewCircuitBreaker("filter", Config{
		FailureThreshold: 1,
		IsFailure:        func(err error) bool { return !errors.Is(err, ignored) },
	})
	_ = cb.Execute(context.Background(), func() error { return ignored })
	if cb.State() != StateClosed {
		t.Errorf("ignored error tripped breaker: %s", cb.State())
	}
	if got := cb.Counts().TotalSuccesses; got != 1 {
		t.Errorf("TotalSuccesses: got %d, want 1", got)
	}
}

func TestCancelledContextSkipsCall(t *testing.T) {
	cb := NewCircuitBreaker("ctx", Config{FailureThreshold: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := cb.Execute(ctx, fail); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
	if cb.State() != StateClosed {
		t.Errorf("got %s, want closed", cb.State())
	}
}

func TestStateString(t *testing.T) {
	cases := map[State]string{StateClosed: "closed", StateHalfOpen: "half-open", StateOpen: "open", State(9): "unknown"}
	for s, want := range cases {
		if s.String() != want {
			t.Errorf("State(%d): got %q, want %q", s, s.String(), want)
		}
	}
}
