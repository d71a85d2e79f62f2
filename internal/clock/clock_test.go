package clock

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRealSleepHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := Real{}.Sleep(ctx, time.Hour)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("Sleep should return immediately on a cancelled context")
	}
}

func TestRealSleepWaits(t *testing.T) {
	start := time.Now()
	if err := (Real{}).Sleep(context.Background(), 20*time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if time.Since(start) < 20*time.Millisecond {
		t.Error("Sleep returned early")
	}
}

func TestFakeSleepAdvances(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f := NewFake(start)

	f.Sleep(context.Background(), 200*time.Millisecond)
	f.Sleep(context.Background(), 50*time.Millisecond)

	if got := f.Now().Sub(start); got != 250*time.Millisecond {
		t.Errorf("expected 250ms elapsed, got %v", got)
	}
	if len(f.Slept) != 2 || f.Total() != 250*time.Millisecond {
		t.Errorf("unexpected sleeps: %v", f.Slept)
	}
}

func TestFakeAfterSleepCanCancel(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f := NewFake(start)
	ctx, cancel := context.WithCancel(context.Background())
	f.AfterSleep = func(now time.Time) {
		if now.Sub(start) >= time.Second {
			cancel()
		}
	}

	var err error
	n := 0
	for err == nil {
		err = f.Sleep(ctx, 100*time.Millisecond)
		n++
	}
	if n != 10 {
		t.Errorf("expected 10 sleeps before cancel, got %d", n)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}

	if err := f.Sleep(ctx, time.Second); err == nil {
		t.Error("expected error on a cancelled context")
	}
	if len(f.Slept) != 10 {
		t.Error("a cancelled Sleep must not advance the clock")
	}
}
