package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these, optionally
// joined with the driver error, so callers can branch with errors.Is
// without knowing which backend answered.
//
// For bad input use pkg/domain-errors instead.
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
)
