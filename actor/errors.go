package actor

import "errors"

// Sentinel errors returned by the runtime. Callers should use errors.Is
// rather than string comparison.
var (
	// ErrStopped is the rejection reason for any send to an actor that has
	// already stopped, is stopping, or never started.
	ErrStopped = errors.New("actor: stopped")

	// ErrMailboxFull is the rejection reason for a send to a bounded
	// mailbox at capacity under the REJECT overflow policy.
	ErrMailboxFull = errors.New("actor: mailbox full")

	// ErrDropped is the terminal-future reason for a message discarded by
	// DROP_OLDEST/DROP_NEWEST.
	ErrDropped = errors.New("actor: dropped")

	// ErrAlreadyRegistered is returned by Directory.Register when an
	// address is already live.
	ErrAlreadyRegistered = errors.New("actor: address already registered")

	// ErrUnknownActor is returned when a lookup finds no live cell.
	ErrUnknownActor = errors.New("actor: unknown address")
)
