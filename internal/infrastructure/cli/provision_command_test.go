package cli

import (
	"context"
	"testing"
	"time"
)

func TestReleaseSignalsOnCancelInvokesStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})

	releaseSignalsOnCancel(ctx, func() { close(stopped) })
	cancel()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("stop not called after cancellation")
	}
}
