package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRefreshSchedulerFloorsInterval(t *testing.T) {
	scheduler := NewRefreshScheduler(5*time.Second, func(context.Context) error { return nil }, bulkLogger())
	assert.Equal(t, 30*time.Second, scheduler.Interval())

	scheduler = NewRefreshScheduler(2*time.Minute, func(context.Context) error { return nil }, bulkLogger())
	assert.Equal(t, 2*time.Minute, scheduler.Interval())
}

func TestRefreshSchedulerStopsCleanly(t *testing.T) {
	var calls atomic.Int64
	scheduler := NewRefreshScheduler(time.Minute, func(context.Context) error {
		calls.Add(1)
		return nil
	}, bulkLogger())

	scheduler.Start()
	scheduler.Stop()
	scheduler.Stop() // idempotent

	time.Sleep(10 * time.Millisecond)
	assert.Zero(t, calls.Load(), "no tick fires before the interval elapses")
}
