package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Session errors
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrMissingToken     = fmt.Errorf("anti-forgery token not found")
	ErrSessionEnded     = fmt.Errorf("session ended")

	// API and service errors
	ErrAPIRequest            = fmt.Errorf("API request failed")
	ErrRejected              = fmt.Errorf("request rejected")
	ErrUnexpectedResponse    = fmt.Errorf("unexpected response")
	ErrServiceUnavailable    = fmt.Errorf("service unavailable")
	ErrRecipeNotFound        = fmt.Errorf("recipe not found")
	ErrEmptySelection        = fmt.Errorf("no recipes selected")
	ErrUnsupportedFormat     = fmt.Errorf("unsupported export format")
	ErrUnsupportedPlatform   = fmt.Errorf("unsupported platform")
	ErrNavigationUnavailable = fmt.Errorf("navigation unavailable")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
