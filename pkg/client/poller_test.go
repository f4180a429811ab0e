package client

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPollerRunsImmediately(t *testing.T) {
	var runs atomic.Int32
	p := NewPoller(time.Hour, func(ctx context.Context) { runs.Add(1) })

	p.Start(context.Background())
	defer p.Stop()

	assert.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, p.Running())
}

func TestPollerTicks(t *testing.T) {
	var runs atomic.Int32
	p := NewPoller(10*time.Millisecond, func(ctx context.Context) { runs.Add(1) })

	p.Start(context.Background())
	defer p.Stop()

	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
}

func TestPollerStop(t *testing.T) {
	var runs atomic.Int32
	p := NewPoller(10*time.Millisecond, func(ctx context.Context) { runs.Add(1) })

	p.Start(context.Background())
	assert.Eventually(t, func() bool { return runs.Load() >= 1 }, time.Second, 5*time.Millisecond)

	p.Stop()
	assert.False(t, p.Running())

	after := runs.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, runs.Load())
}

func TestPollerDoubleStartIsNoop(t *testing.T) {
	var runs atomic.Int32
	p := NewPoller(time.Hour, func(ctx context.Context) { runs.Add(1) })

	p.Start(context.Background())
	p.Start(context.Background())
	defer p.Stop()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())
}

func TestPollerDoubleStopIsNoop(t *testing.T) {
	p := NewPoller(time.Hour, func(ctx context.Context) {})
	p.Start(context.Background())
	p.Stop()
	p.Stop()
	assert.False(t, p.Running())
}

func TestPollerRestarts(t *testing.T) {
	var runs atomic.Int32
	p := NewPoller(time.Hour, func(ctx context.Context) { runs.Add(1) })

	p.Start(context.Background())
	p.Stop()
	p.Start(context.Background())
	defer p.Stop()

	assert.Eventually(t, func() bool { return runs.Load() == 2 }, time.Second, 5*time.Millisecond)
}

func TestPollerZeroIntervalUsesDefault(t *testing.T) {
	p := NewPoller(0, func(ctx context.Context) {})
	assert.Equal(t, DefaultPollInterval, p.interval)
}

func TestPollerStopWaitsForInflightTask(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool

	p := NewPoller(time.Hour, func(ctx context.Context) {
		close(entered)
		<-release
		finished.Store(true)
	})

	p.Start(context.Background())
	<-entered

	done := make(chan struct{})
	go func() {
		p.Stop()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Stop returned while the task was still running")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	<-done
	assert.True(t, finished.Load())
}
