package backoff

import (
	"context"
	"testing"
	"time"
)

func TestNextGrowsExponentiallyUpToCap(t *testing.T) {
	b := New(100*time.Millisecond, 400*time.Millisecond)

	expected := []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
		400 * time.Millisecond,
	}
	for i, want := range expected {
		if got := b.Next(); got != want {
			t.Errorf("attempt %d: got %v, expected %v", i, got, want)
		}
	}
}

func TestResetRestartsSequence(t *testing.T) {
	b := New(time.Second, 8*time.Second)
	b.Next()
	b.Next()
	b.Reset()

	if got := b.Next(); got != time.Second {
		t.Errorf("after reset got %v, expected %v", got, time.Second)
	}
}

func TestSleepHonorsCancellation(t *testing.T) {
	b := New(time.Minute, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	if err := b.Sleep(ctx); err != context.Canceled {
		t.Errorf("got %v, expected context.Canceled", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Sleep blocked %v despite cancelled context", elapsed)
	}
}
