package core

// upload_limiter.go bounds how many uploads are parsed at the same time.
//
// Each upload may fan out to several parse workers, so admission is decided
// per request before any workbook is decoded. Requests that cannot get a slot
// within maxWait fail with ErrTooManyUploads instead of queueing forever.

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
)

// ErrTooManyUploads is returned when all upload slots are occupied and the
// wait timeout expires. Clients should retry after a short delay.
var ErrTooManyUploads = errors.New("too many concurrent uploads, please try again later")

// DefaultMaxConcurrentUploads is the default limit for parallel uploads.
const DefaultMaxConcurrentUploads = 5

// DefaultMaxWaitTime is how long to wait for a slot before rejecting.
const DefaultMaxWaitTime = 30 * time.Second

const drainPollInterval = 50 * time.Millisecond

// UploadLimiter admits a bounded number of uploads at once.
type UploadLimiter struct {
	sem     *semaphore.Weighted
	max     int64
	maxWait time.Duration
	active  atomic.Int64
}

// NewUploadLimiter creates a limiter that allows at most maxConcurrent simultaneous uploads.
// Requests that cannot acquire a slot within maxWait will receive ErrTooManyUploads.
func NewUploadLimiter(maxConcurrent int, maxWait time.Duration) *UploadLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentUploads
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}

	return &UploadLimiter{
		sem:     semaphore.NewWeighted(int64(maxConcurrent)),
		max:     int64(maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire waits up to the limiter's maxWait for a slot.
// The caller must call Release once the upload is done.
func (l *UploadLimiter) Acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	if err := l.sem.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrTooManyUploads
	}
	l.active.Add(1)
	return nil
}

// TryAcquire takes a slot only if one is free right now.
func (l *UploadLimiter) TryAcquire() bool {
	if !l.sem.TryAcquire(1) {
		return false
	}
	l.active.Add(1)
	return true
}

// Release returns a slot taken by Acquire or TryAcquire.
func (l *UploadLimiter) Release() {
	l.active.Add(-1)
	l.sem.Release(1)
}

// ActiveCount returns the number of uploads holding a slot.
func (l *UploadLimiter) ActiveCount() int {
	return int(l.active.Load())
}

// MaxConcurrent returns the maximum allowed concurrent uploads.
func (l *UploadLimiter) MaxConcurrent() int {
	return int(l.max)
}

// Available returns the number of free slots.
func (l *UploadLimiter) Available() int {
	return int(l.max - l.active.Load())
}

// WaitForDrain blocks until no upload holds a slot or ctx is done.
// Used during shutdown so in-flight uploads are stored before exit.
func (l *UploadLimiter) WaitForDrain(ctx context.Context) error {
	if l.ActiveCount() == 0 {
		return nil
	}

	ticker := time.NewTicker(drainPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if l.ActiveCount() == 0 {
				return nil
			}
		}
	}
}

// UploadLimiterStatus is a snapshot of the limiter's state.
type UploadLimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status returns the current limiter state for the health endpoint.
func (l *UploadLimiter) Status() UploadLimiterStatus {
	active := l.ActiveCount()
	return UploadLimiterStatus{
		Active:        active,
		Available:     int(l.max) - active,
		MaxConcurrent: int(l.max),
	}
}
