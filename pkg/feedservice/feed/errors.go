package feed

import (
	"errors"
	"fmt"
)

var (
	// ErrNoRegions means the backend has no pricing regions at all, so
	// no feed can be priced
	ErrNoRegions = errors.New("no regions configured")
	// ErrRegionNotFound means the caller asked for a region, currency
	// or country the backend does not serve
	ErrRegionNotFound = errors.New("region not found")
)

// IsNotFound reports whether err should surface as a not-found to the
// caller rather than a server fault
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNoRegions) || errors.Is(err, ErrRegionNotFound)
}

// AvailabilityError wraps a failed per-channel availability lookup.
// One failing channel aborts the whole build, a partial feed is never
// returned.
type AvailabilityError struct {
	SalesChannelID string
	Err            error
}

func (e *AvailabilityError) Error() string {
	return fmt.Sprintf("Availability lookup failed for sales channel %s - %v", e.SalesChannelID, e.Err)
}

func (e *AvailabilityError) Unwrap() error {
	return e.Err
}

// HookError wraps a failing caller-supplied transform hook
type HookError struct {
	VariantID string
	Err       error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("Transform hook failed for variant %s - %v", e.VariantID, e.Err)
}

func (e *HookError) Unwrap() error {
	return e.Err
}
