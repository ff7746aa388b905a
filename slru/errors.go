package slru

import "errors"

var (
	// ErrNotFound is returned by Remove and RemoveLRU when there was
	// nothing to remove.
	ErrNotFound = errors.New("slru: not found")

	// ErrOOM is returned when growing the item arena failed.
	ErrOOM = errors.New("slru: out of memory")

	// ErrDoesNotFit is returned by Insert when, even after evicting
	// every entry, the budget still cannot accommodate the new entry's
	// consumption. The cache is empty when this is returned.
	ErrDoesNotFit = errors.New("slru: entry does not fit cache budget")

	// ErrInvalid wraps precondition violations caught at the API
	// boundary.
	ErrInvalid = errors.New("slru: invalid argument")
)
