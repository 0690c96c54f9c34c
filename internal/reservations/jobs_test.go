package reservations

import (
	"context"
	"testing"
	"time"

	"busbenin/pkg/logger"
)

// blockingSweeps holds the reconcile sweep open until released
type blockingSweeps struct {
	Service
	entered chan struct{}
	release chan struct{}
	ctxErr  chan error
}

func (b *blockingSweeps) RunReconcileSweep(ctx context.Context) (*SweepResult, error) {
	close(b.entered)
	<-b.release
	b.ctxErr <- ctx.Err()
	return &SweepResult{}, nil
}

func TestStopLetsRunningSweepFinish(t *testing.T) {
	sweeps := &blockingSweeps{
		entered: make(chan struct{}),
		release: make(chan struct{}),
		ctxErr:  make(chan error, 1),
	}
	jp := NewJobProcessor(sweeps, &JobConfig{
		ReconcileEnabled:  true,
		ReconcileSchedule: "@every 1s",
		Timeout:           time.Minute,
	}, logger.NewNop())

	jobCtx, jobCancel := context.WithCancel(context.Background())
	defer jobCancel()
	if err := jp.Start(jobCtx); err != nil {
		t.Fatal(err)
	}

	select {
	case <-sweeps.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("reconcile sweep never ran")
	}

	stopped := make(chan struct{})
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		jp.Stop(ctx)
		jobCancel()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while a sweep was still running")
	case <-time.After(100 * time.Millisecond):
	}

	close(sweeps.release)
	if err := <-sweeps.ctxErr; err != nil {
		t.Fatalf("running sweep saw its context cancelled: %v", err)
	}
	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return after the sweep finished")
	}
}
