package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrAuthFailed   = fmt.Errorf("authentication failed")
	ErrUnauthorized = fmt.Errorf("unauthorized")

	// API and service errors
	ErrTransport          = fmt.Errorf("transport failure")
	ErrParse              = fmt.Errorf("response is not valid JSON")
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrURLNotFound        = fmt.Errorf("soundcloud url not found")

	// Storage errors
	ErrStorage = fmt.Errorf("storage failure")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
