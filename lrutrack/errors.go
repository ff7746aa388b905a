package lrutrack

import "errors"

var (
	// ErrNotFound is returned by Remove and RemoveLRU when there was
	// nothing to remove. It is an informational result, not a failure.
	ErrNotFound = errors.New("lrutrack: not found")

	// ErrOOM is returned when growing the item arena failed. The tracker
	// is left in the state it was in before the call.
	ErrOOM = errors.New("lrutrack: out of memory")

	// ErrInvalid wraps precondition violations caught at the API
	// boundary (bad options, empty key, re-inserting a present key,
	// inserting the configured invalid value).
	ErrInvalid = errors.New("lrutrack: invalid argument")
)
