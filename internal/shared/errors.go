package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Session errors
	ErrNotAuthenticated = fmt.Errorf("not signed in")
	ErrCancelled        = fmt.Errorf("cancelled")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrMalformedResponse  = fmt.Errorf("malformed API response")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Input validation errors
	ErrValidation      = fmt.Errorf("validation failed")
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
