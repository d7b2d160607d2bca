package gemini

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeAdapter struct {
	text  string
	err   error
	calls int
}

func (f *fakeAdapter) Complete(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.text, f.err
}

func TestInvokeRotatesOnQuotaFailure(t *testing.T) {
	dead := &fakeAdapter{err: errors.New("429 quota exceeded")}
	live := &fakeAdapter{text: "hello beta"}
	v := newInvoker([]Adapter{dead, live}, time.Second)

	text, ok := v.Invoke(context.Background(), "prompt")
	if !ok || text != "hello beta" {
		t.Fatalf("Invoke = (%q, %v), want rotated success", text, ok)
	}
	if dead.calls != 1 || live.calls != 1 {
		t.Fatalf("calls = (%d, %d), want one each", dead.calls, live.calls)
	}
}

func TestInvokeRotationStateIsShared(t *testing.T) {
	dead := &fakeAdapter{err: errors.New("403 api key invalid")}
	live := &fakeAdapter{text: "ok"}
	v := newInvoker([]Adapter{dead, live}, time.Second)

	if _, ok := v.Invoke(context.Background(), "p"); !ok {
		t.Fatalf("first invoke failed")
	}
	// Second invocation starts on the rotated credential; the dead one is
	// not retried.
	if _, ok := v.Invoke(context.Background(), "p"); !ok {
		t.Fatalf("second invoke failed")
	}
	if dead.calls != 1 {
		t.Fatalf("dead credential called %d times, want 1", dead.calls)
	}
	if live.calls != 2 {
		t.Fatalf("live credential called %d times, want 2", live.calls)
	}
}

func TestInvokeExhaustsAfterOneFullRotation(t *testing.T) {
	a := &fakeAdapter{err: errors.New("429 rate limit")}
	b := &fakeAdapter{err: errors.New("resource_exhausted")}
	v := newInvoker([]Adapter{a, b}, time.Second)

	text, ok := v.Invoke(context.Background(), "p")
	if ok || text != "" {
		t.Fatalf("Invoke = (%q, %v), want exhausted", text, ok)
	}
	if a.calls+b.calls != 2 {
		t.Fatalf("total attempts = %d, want pool size 2", a.calls+b.calls)
	}
}

func TestInvokeSingleCredentialFailsImmediately(t *testing.T) {
	a := &fakeAdapter{err: errors.New("401 unauthorized")}
	v := newInvoker([]Adapter{a}, time.Second)

	if _, ok := v.Invoke(context.Background(), "p"); ok {
		t.Fatalf("Invoke ok = true, want exhausted")
	}
	if a.calls != 1 {
		t.Fatalf("calls = %d, want exactly 1", a.calls)
	}
}

func TestInvokeTerminalErrorDoesNotRotate(t *testing.T) {
	a := &fakeAdapter{err: errors.New("invalid request payload")}
	b := &fakeAdapter{text: "never reached"}
	v := newInvoker([]Adapter{a, b}, time.Second)

	if _, ok := v.Invoke(context.Background(), "p"); ok {
		t.Fatalf("Invoke ok = true, want failure")
	}
	if b.calls != 0 {
		t.Fatalf("second credential called on terminal error")
	}
}

func TestInvokeRespectsDeadline(t *testing.T) {
	slow := adapterFunc(func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	v := newInvoker([]Adapter{slow, slow}, 20*time.Millisecond)

	start := time.Now()
	_, ok := v.Invoke(context.Background(), "p")
	if ok {
		t.Fatalf("Invoke ok = true, want deadline failure")
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("deadline not enforced, took %s", elapsed)
	}
}

func TestInvokeReportsAttemptOutcomes(t *testing.T) {
	dead := &fakeAdapter{err: errors.New("429 quota exceeded")}
	live := &fakeAdapter{text: "ok"}
	v := newInvoker([]Adapter{dead, live}, time.Second)

	var outcomes []string
	v.SetAttemptObserver(func(outcome string) { outcomes = append(outcomes, outcome) })

	if _, ok := v.Invoke(context.Background(), "p"); !ok {
		t.Fatalf("Invoke failed")
	}
	if len(outcomes) != 2 || outcomes[0] != "rotated" || outcomes[1] != "success" {
		t.Fatalf("outcomes = %v, want [rotated success]", outcomes)
	}

	outcomes = nil
	both := newInvoker([]Adapter{dead, dead}, time.Second)
	both.SetAttemptObserver(func(outcome string) { outcomes = append(outcomes, outcome) })
	if _, ok := both.Invoke(context.Background(), "p"); ok {
		t.Fatalf("Invoke ok = true, want exhaustion")
	}
	if len(outcomes) != 3 || outcomes[2] != "exhausted" {
		t.Fatalf("outcomes = %v, want two rotations then exhausted", outcomes)
	}
}

type adapterFunc func(ctx context.Context, prompt string) (string, error)

func (f adapterFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

func TestMockAdapterVariesWithPrompt(t *testing.T) {
	m := NewMockAdapter()
	a, _ := m.Complete(context.Background(), "first prompt")
	b, _ := m.Complete(context.Background(), "a different prompt entirely")
	if a == "" || b == "" {
		t.Fatalf("mock returned empty text")
	}
}
