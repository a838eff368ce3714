// Package apperr centralizes the engine's error taxonomy so handlers and
// callers classify failures in one place instead of string-matching.
package apperr

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrAlreadyRevealed  = errors.New("crush already revealed")
	ErrGuessesExhausted = errors.New("no guesses left")
	ErrAlreadySwiped    = errors.New("already swiped on this profile")
	ErrMatchGone        = errors.New("match no longer exists")
)

// ValidationError means the request was rejected before any network or
// database call; nothing was mutated.
type ValidationError struct {
	Problems map[string][]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %d fields", len(e.Problems))
}

func Validation(problems map[string][]string) error {
	return &ValidationError{Problems: problems}
}

// QuotaExceededError covers every rate gate: daily swipe cap, daily
// nudge, lifetime crush cap, hourly reveal cooldown. Either Remaining
// (count-based gates) or Wait (time-based gates) is meaningful.
type QuotaExceededError struct {
	Kind      string
	Remaining int
	Wait      time.Duration
}

func (e *QuotaExceededError) Error() string {
	if e.Wait > 0 {
		return fmt.Sprintf("%s: try again in %s", e.Kind, e.Wait.Round(time.Minute))
	}
	return fmt.Sprintf("%s: none remaining", e.Kind)
}

func Quota(kind string) error {
	return &QuotaExceededError{Kind: kind}
}

func QuotaWait(kind string, wait time.Duration) error {
	return &QuotaExceededError{Kind: kind, Wait: wait}
}

// TransientWriteError wraps a failed insert/update. Local state is left
// exactly as before the attempt, so surfacing a notification is the
// only recovery; there is no automatic retry at this layer.
type TransientWriteError struct {
	Op  string
	Err error
}

func (e *TransientWriteError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *TransientWriteError) Unwrap() error { return e.Err }

func TransientWrite(op string, err error) error {
	return &TransientWriteError{Op: op, Err: err}
}

// BatchLoadError means one read inside the initial bulk load failed, so
// the entire load was aborted with no partial apply.
type BatchLoadError struct {
	Failed string
	Err    error
}

func (e *BatchLoadError) Error() string {
	return fmt.Sprintf("initial load aborted: %s: %v", e.Failed, e.Err)
}

func (e *BatchLoadError) Unwrap() error { return e.Err }

func BatchLoad(failed string, err error) error {
	return &BatchLoadError{Failed: failed, Err: err}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsQuota(err error) bool {
	var q *QuotaExceededError
	return errors.As(err, &q)
}
