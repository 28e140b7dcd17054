package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type countingWarmer struct {
	calls atomic.Int32
}

func (c *countingWarmer) WarmLookups(ctx context.Context) error {
	c.calls.Add(1)
	return errors.New("db down")
}

func TestStartLookupCacheFiller(t *testing.T) {
	w := &countingWarmer{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		StartLookupCacheFiller(ctx, w, 10*time.Millisecond)
		close(done)
	}()

	deadline := time.Now().Add(5 * time.Second)
	for w.calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done

	if w.calls.Load() < 2 {
		t.Errorf("expected an immediate fill and at least one refill, got %d", w.calls.Load())
	}
}
