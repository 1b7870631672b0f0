package models

import "errors"

// Business outcomes and infrastructure failures the service branches on.
// Callers are expected to test these with errors.Is.
var (
	// ErrItemNotFound means the item id is not in the catalog.
	ErrItemNotFound = errors.New("product not found")

	// ErrOutOfStock means the reservation was denied because every unit is
	// already reserved. A routine outcome, not a fault.
	ErrOutOfStock = errors.New("not enough stock available")

	// ErrStoreUnavailable means the counter store could not be reached. It
	// must never be collapsed into a zero count.
	ErrStoreUnavailable = errors.New("counter store unavailable")

	// ErrJobsNotSequence means bulk job input was not an ordered sequence.
	ErrJobsNotSequence = errors.New("jobs is not an array")

	// ErrBlacklisted means delivery was refused by the blacklist policy.
	ErrBlacklisted = errors.New("phone number is blacklisted")
)
