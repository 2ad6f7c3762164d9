package generation

import "errors"

// Common errors returned by generators. Providers wrap these with %w so callers
// can classify a failure with errors.Is.
var (
	// ErrGenerationFailed is returned when script generation fails for any general reason
	ErrGenerationFailed = errors.New("failed to generate script")

	// ErrMissingCredential is returned when no API key is configured for the provider.
	// It is raised before any network call is made.
	ErrMissingCredential = errors.New("missing language model credential")

	// ErrTransportFailure is returned when the language model could not be reached
	// or the call itself failed
	ErrTransportFailure = errors.New("language model call failed")

	// ErrEmptyResponse is returned when the call succeeded but produced no text
	ErrEmptyResponse = errors.New("empty response from language model")

	// ErrMalformedResponse is returned when the response text is not valid JSON or
	// does not match the script package shape
	ErrMalformedResponse = errors.New("malformed response from language model")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")
)

// IsRetryable reports whether err is worth another attempt. Only transport
// failures qualify; everything else is deterministic for a given request.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransportFailure)
}
