package service

import (
	"errors"
	"sync"
)

// UploadState is the explicit lifecycle of one user's scan pipeline.
type UploadState int

const (
	StateIdle UploadState = iota
	StateUploading
	StateSucceeded
	StateFailed
)

func (s UploadState) String() string {
	switch s {
	case StateUploading:
		return "UPLOADING"
	case StateSucceeded:
		return "SUCCEEDED"
	case StateFailed:
		return "FAILED"
	default:
		return "IDLE"
	}
}

// ErrUploadInFlight is returned when a scan is started while the user's
// previous scan is still uploading. Re-entry is rejected, not queued.
var ErrUploadInFlight = errors.New("an upload is already in flight for this user")

// uploadTracker serializes scans per user. Transitions are
// Idle -> Uploading -> Succeeded|Failed -> Idle; the terminal states are
// recorded as the last outcome and the user returns to Idle immediately,
// so a follow-up scan is only blocked while Uploading.
type uploadTracker struct {
	mu        sync.Mutex
	uploading map[string]struct{}
	last      map[string]UploadState
}

func newUploadTracker() *uploadTracker {
	return &uploadTracker{
		uploading: make(map[string]struct{}),
		last:      make(map[string]UploadState),
	}
}

// begin moves the user to Uploading, or rejects if already there.
func (t *uploadTracker) begin(userID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, inFlight := t.uploading[userID]; inFlight {
		return ErrUploadInFlight
	}
	t.uploading[userID] = struct{}{}
	return nil
}

// finish records the terminal state and returns the user to Idle.
func (t *uploadTracker) finish(userID string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.uploading, userID)
	if err != nil {
		t.last[userID] = StateFailed
	} else {
		t.last[userID] = StateSucceeded
	}
}

// state reports the user's current state, falling back to the last
// recorded outcome when nothing is in flight.
func (t *uploadTracker) state(userID string) UploadState {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, inFlight := t.uploading[userID]; inFlight {
		return StateUploading
	}
	if last, ok := t.last[userID]; ok {
		return last
	}
	return StateIdle
}
