package cli

import (
	"context"
	"testing"
	"time"
)

func TestSpinnerStartStop(t *testing.T) {
	s := newSpinner("validating")
	s.Start()
	time.Sleep(2 * spinnerInterval)
	s.Stop()

	if s.Cancelled() {
		t.Error("explicit Stop should not count as cancellation")
	}
}

func TestSpinnerStopTwice(t *testing.T) {
	s := newSpinner("validating")
	s.Start()
	s.Stop()
	s.Stop()
}

func TestSpinnerParentCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinnerWithContext(ctx, "validating")
	s.Start()

	cancel()
	s.Stop()

	if !s.Cancelled() {
		t.Error("Cancelled = false after parent cancellation")
	}
}

func TestSpinnerParentTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	s := newSpinnerWithContext(ctx, "validating")
	s.Start()
	<-ctx.Done()
	s.Stop()

	if !s.Cancelled() {
		t.Error("Cancelled = false after parent timeout")
	}
}

func TestSpinnerStopMessages(t *testing.T) {
	s := newSpinner("standardizing")
	s.Start()
	s.StopWithSuccess("done")

	s = newSpinner("standardizing")
	s.Start()
	s.StopWithError("failed")
}
