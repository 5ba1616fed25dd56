package ranking

import (
	"errors"
	"fmt"
)

// ErrNoRoute is the cause of a lookup that returned no usable element.
var ErrNoRoute = errors.New("no route")

// LookupFailure is returned by a DistanceLookup that could not resolve a
// destination. The ranker excludes such records.
type LookupFailure struct {
	Destination string
	Status      string // provider status, e.g. NOT_FOUND, ZERO_RESULTS
	Err         error
}

func (e *LookupFailure) Error() string {
	msg := fmt.Sprintf("distance lookup for %q failed", e.Destination)
	if e.Status != "" {
		msg += " (" + e.Status + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LookupFailure) Unwrap() error { return e.Err }
