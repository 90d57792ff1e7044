package session

import (
	"fmt"
	"time"
)

// RequestSync is the synchronous bridge: it registers a completion record
// for id, invokes send, and blocks the calling goroutine until the reader
// delivers a value of type R or the bounded wait expires.
//
// Registration happens strictly before send, so a callback arriving
// immediately after the wire write always finds the record. A failed send
// and an expired wait both clean the registration up; a late callback after
// that is a harmless lookup miss on the reader side.
func RequestSync[R any](s *Session, id int, category string, send func() error) (R, error) {
	var zero R

	if !s.running.Load() {
		return zero, ErrNotConnected
	}

	rec := newPending[R](category)
	if err := s.table.register(id, rec); err != nil {
		return zero, err
	}
	s.metrics.RequestsStarted.WithLabelValues(category).Inc()

	if err := send(); err != nil {
		s.table.remove(id)
		return zero, fmt.Errorf("send request %d: %w", id, err)
	}

	timer := time.NewTimer(s.cfg.SyncTimeout)
	defer timer.Stop()

	select {
	case value := <-rec.ch:
		return value, nil
	case err := <-rec.errc:
		return zero, err
	case <-timer.C:
		if !s.table.remove(id) {
			// Delivery won the race against the timer. The table fulfills
			// the record before dropping the id, so the outcome is already
			// buffered; only an explicit cancellation leaves both empty.
			select {
			case value := <-rec.ch:
				return value, nil
			case err := <-rec.errc:
				return zero, err
			default:
			}
		}
		s.metrics.RequestTimeouts.WithLabelValues(category).Inc()
		return zero, timeoutError(id, s.cfg.SyncTimeout)
	case <-s.done:
		s.table.remove(id)
		return zero, ErrClosed
	}
}
