// Package notify surfaces operation outcomes to the user.
package notify

// Notifier receives the human-readable outcome of each store operation.
// Remote failures never reach the caller as raw errors without also passing
// through here.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Discard is a Notifier that drops everything. Useful as a default and in
// tests that assert on errors instead of messages.
type Discard struct{}

func (Discard) Success(string) {}
func (Discard) Error(string)   {}
