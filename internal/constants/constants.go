package constants

import "time"

// HTTP and retry defaults applied by the client when the corresponding Config
// field is zero.
const (
	// DefaultHTTPTimeout is the default per-attempt socket timeout.
	DefaultHTTPTimeout = 200 * time.Millisecond

	// DefaultRetryMax is the default retry budget beyond the first attempt.
	DefaultRetryMax = 10

	// DefaultBackoffInitial is the delay before the first retry.
	DefaultBackoffInitial = 500 * time.Millisecond

	// DefaultBackoffMax caps the delay between retries.
	DefaultBackoffMax = 1000 * time.Millisecond

	// DefaultBackoffMultiplier grows the delay between successive retries.
	DefaultBackoffMultiplier = 2.0
)
