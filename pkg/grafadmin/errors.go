package grafadmin

import "errors"

// Static errors that can be wrapped with context.
var (
	ErrConfigRequired      = errors.New("config is required")
	ErrAPIEndpointRequired = errors.New("API endpoint is required")
	ErrNoHostInURL         = errors.New("no host specified in URL")
)
