package domain

import "errors"

var (
	// Store errors
	ErrStoreUnavailable = errors.New("entry store unavailable")
	ErrEntryNotFound    = errors.New("entry not found")

	// Query errors
	ErrInvalidGrouping = errors.New("grouping must be day, month or year")
	ErrInvalidPeriod   = errors.New("invalid period bounds")
)
