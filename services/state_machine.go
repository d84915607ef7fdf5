package services

import (
	"errors"

	"payment-service/models"
)

// ErrIllegalTransition means the event tried to move a payment out of a
// terminal status into a different one. The record is left untouched.
var ErrIllegalTransition = errors.New("illegal payment state transition")

// kindTargets maps each canonical event kind to the status it drives toward.
var kindTargets = map[models.EventKind]string{
	models.KindSucceeded:      models.StatusCompleted,
	models.KindFailed:         models.StatusFailed,
	models.KindRequiresAction: models.StatusProcessing,
	models.KindCancelled:      models.StatusCancelled,
	models.KindPending:        models.StatusPending,
}

// NextStatus computes the transition for one event against the current
// status. Allowed graph: PENDING -> PROCESSING -> {COMPLETED, FAILED,
// CANCELLED}, plus PENDING -> {COMPLETED, FAILED, CANCELLED} directly. No
// edge leaves a terminal status.
//
// Returns the new status, whether the event is a no-op (idempotent replay or
// stale pending), or ErrIllegalTransition.
func NextStatus(current string, kind models.EventKind) (string, bool, error) {
	target, ok := kindTargets[kind]
	if !ok {
		// Ignorable kinds are filtered before the state machine; treat
		// anything unknown as a no-op rather than corrupting state.
		return current, true, nil
	}
	if current == target {
		return current, true, nil
	}
	if models.TerminalStatuses[current] {
		return current, false, ErrIllegalTransition
	}
	if kind == models.KindPending {
		// A late "pending" after PROCESSING is not a regression.
		return current, true, nil
	}
	return target, false, nil
}
