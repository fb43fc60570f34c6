package game

import (
	"errors"
	"fmt"
)

// ErrHandComplete is returned for actions submitted after a hand finished.
var ErrHandComplete = errors.New("hand is complete")

// ErrNoHand is returned by table operations that need a hand in progress.
var ErrNoHand = errors.New("no hand in progress")

// ErrHandInProgress is returned when starting a hand before the last one
// finished.
var ErrHandInProgress = errors.New("hand already in progress")

// ErrNotEnoughPlayers is returned when fewer than two seats can be dealt in.
var ErrNotEnoughPlayers = errors.New("not enough players to deal")

// IllegalActionError reports an action the betting state machine cannot
// accept: out of turn, wrong action kind, or a bad amount. The hand state is
// unchanged when it is returned.
type IllegalActionError struct {
	Seat   int
	Action Action
	Reason string
}

func (e *IllegalActionError) Error() string {
	return fmt.Sprintf("illegal %s from seat %d: %s", e.Action, e.Seat, e.Reason)
}

func illegalAction(seat int, action Action, format string, args ...any) error {
	return &IllegalActionError{Seat: seat, Action: action, Reason: fmt.Sprintf(format, args...)}
}

// InsufficientFundsError reports a wager that exceeds the player's stack.
type InsufficientFundsError struct {
	Seat int
	Need int
	Have int
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("seat %d has %d chips, needs %d", e.Seat, e.Have, e.Need)
}

// InvariantViolationError reports broken engine bookkeeping such as a chip
// conservation mismatch or an exhausted deck. It is fatal to the current
// hand, which is aborted with all contributions refunded; the table and any
// tournament around it keep running.
type InvariantViolationError struct {
	Detail string
}

func (e *InvariantViolationError) Error() string {
	return "invariant violation: " + e.Detail
}

func invariantf(format string, args ...any) error {
	return &InvariantViolationError{Detail: fmt.Sprintf(format, args...)}
}
