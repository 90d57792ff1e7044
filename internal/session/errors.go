package session

import (
	"errors"
	"fmt"
	"time"
)

// Caller-facing failures of the synchronous bridge. Sentinel values so
// callers can branch with errors.Is.
var (
	// ErrTimeout: no delivery within the bounded wait. Recoverable; the
	// caller may retry with a fresh id.
	ErrTimeout = errors.New("request timed out")

	// ErrDuplicateRegistration: the id is already in flight. A programming
	// error, rejected before anything is sent.
	ErrDuplicateRegistration = errors.New("request id already registered")

	// ErrTypeMismatch: a value of the wrong shape was delivered for an id.
	// A correlation bug; fatal to that request only.
	ErrTypeMismatch = errors.New("delivered value type mismatch")

	// ErrNotConnected: the session has no open transport.
	ErrNotConnected = errors.New("session not connected")

	// ErrClosed: the session was shut down while the request was waiting.
	ErrClosed = errors.New("session closed")
)

func timeoutError(id int, d time.Duration) error {
	return fmt.Errorf("%w: no response within %s for id %d", ErrTimeout, d, id)
}

func duplicateError(id int) error {
	return fmt.Errorf("%w: id %d", ErrDuplicateRegistration, id)
}

func mismatchError(id int, category string) error {
	return fmt.Errorf("%w: id %d category %s", ErrTypeMismatch, id, category)
}
