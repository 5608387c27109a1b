// Package tracker provides the busy/idle/error state machine attached to
// each asynchronous store operation.
package tracker

import "sync"

// Status is the lifecycle state of one tracked operation.
type Status int

const (
	// StatusIdle means no operation is in flight and the last one succeeded
	// or none ran yet.
	StatusIdle Status = iota
	// StatusBusy means an operation is in flight.
	StatusBusy
	// StatusError means the last operation failed; LastError carries the
	// message.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusBusy:
		return "busy"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// Tracker guards one operation kind on one store. Distinct trackers are
// fully independent and never serialize each other; callers that must not
// re-enter the same tracker use TryRun.
type Tracker struct {
	mu        sync.Mutex
	status    Status
	lastError string
}

// New returns an idle tracker.
func New() *Tracker {
	return &Tracker{}
}

// Run executes op, holding the tracker busy for the duration. The busy
// state is released on every exit path, including panics; starting a run
// clears any stale error from a previous attempt.
func (t *Tracker) Run(op func() error) error {
	t.begin()

	var err error
	defer func() { t.finish(err) }()

	err = op()
	return err
}

// TryRun behaves like Run but refuses to start while the tracker is already
// busy. It reports whether op ran.
func (t *Tracker) TryRun(op func() error) (bool, error) {
	if !t.tryBegin() {
		return false, nil
	}

	var err error
	defer func() { t.finish(err) }()

	err = op()
	return true, err
}

// Status returns the current lifecycle state.
func (t *Tracker) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Busy reports whether an operation is in flight.
func (t *Tracker) Busy() bool {
	return t.Status() == StatusBusy
}

// LastError returns the message from the most recent failure. It is empty
// while busy and after a successful run.
func (t *Tracker) LastError() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastError
}

func (t *Tracker) begin() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = StatusBusy
	t.lastError = ""
}

func (t *Tracker) tryBegin() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status == StatusBusy {
		return false
	}
	t.status = StatusBusy
	t.lastError = ""
	return true
}

func (t *Tracker) finish(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		t.status = StatusError
		t.lastError = err.Error()
		return
	}
	t.status = StatusIdle
}
