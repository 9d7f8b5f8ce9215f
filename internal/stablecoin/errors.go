package stablecoin

// errors.go defines the error taxonomy used by the quote engine and the
// HTTP handlers built on top of it.

import "fmt"

// StablecoinError represents a structured error from the stablecoin package.
type StablecoinError struct {
	// code classifies the failure
	code ErrorCode

	// message is the stable, user-facing error message
	message string

	// wrapped is the optional underlying error
	wrapped error
}

func (e *StablecoinError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %v", e.message, e.wrapped)
	}
	return e.message
}

func (e *StablecoinError) Code() ErrorCode { return e.code }
func (e *StablecoinError) Unwrap() error   { return e.wrapped }

// Message returns the user-facing message without the wrapped cause.
// Responses use this so internal details never leak to clients.
func (e *StablecoinError) Message() string { return e.message }

// ErrorCode classifies errors returned by the API.
//
// Client errors (4xx): ErrCodeInvalidAmount, ErrCodeAssetNotFound,
// ErrCodeMissingField, ErrCodeInvalidRange, ErrCodeUnsupportedOperation,
// ErrCodeRequestTooLarge, ErrCodeRateLimitExceeded.
//
// Server errors (5xx): ErrCodeUpstreamUnavailable, ErrCodeInternal.
type ErrorCode int

const (
	// ErrCodeInvalidAmount is used when a deposit/operation amount is zero
	// or negative.
	ErrCodeInvalidAmount ErrorCode = iota + 1

	// ErrCodeAssetNotFound is used when a stablecoin index does not resolve
	// to a known, enabled asset.
	ErrCodeAssetNotFound

	// ErrCodeMissingField is used when a required operation parameter
	// (signer, minimumReceived, ...) is absent or empty.
	ErrCodeMissingField

	// ErrCodeInvalidRange is used when a query range parameter (days,
	// limit) is out of range.
	ErrCodeInvalidRange

	// ErrCodeUnsupportedOperation is used when an operation kind is outside
	// mint/redeem/burn. Maps to 404, not 400: an unknown operation names a
	// resource the API does not have. The descriptor builder checks this even
	// though the validation layer rejects unknown kinds first.
	ErrCodeUnsupportedOperation

	// ErrCodeMalformedRequest is used when the request body cannot be
	// decoded as JSON.
	ErrCodeMalformedRequest

	// ErrCodeRequestTooLarge is used when the request body exceeds the
	// configured size limit - only used in the middleware.
	ErrCodeRequestTooLarge

	// ErrCodeRateLimitExceeded is used when the rate limit is exceeded -
	// only used in the middleware.
	ErrCodeRateLimitExceeded

	// ErrCodeUpstreamUnavailable is used when a rate/APY/supply provider
	// times out or fails.
	ErrCodeUpstreamUnavailable

	// ErrCodeInternal is used for unexpected failures.
	ErrCodeInternal
)

// NewInvalidAmountError creates an error for non-positive amounts.
func NewInvalidAmountError(msg string) error {
	return &StablecoinError{code: ErrCodeInvalidAmount, message: msg}
}

// NewAssetNotFoundError creates an error for unknown stablecoin indices.
func NewAssetNotFoundError(msg string) error {
	return &StablecoinError{code: ErrCodeAssetNotFound, message: msg}
}

// NewMissingFieldError creates an error for absent required fields.
func NewMissingFieldError(msg string) error {
	return &StablecoinError{code: ErrCodeMissingField, message: msg}
}

// NewInvalidRangeError creates an error for out-of-range query parameters.
func NewInvalidRangeError(msg string) error {
	return &StablecoinError{code: ErrCodeInvalidRange, message: msg}
}

// NewUnsupportedOperationError creates an error for operation kinds outside
// mint/redeem/burn.
func NewUnsupportedOperationError(msg string) error {
	return &StablecoinError{code: ErrCodeUnsupportedOperation, message: msg}
}

// NewMalformedRequestError creates an error for undecodable request bodies.
func NewMalformedRequestError(msg string) error {
	return &StablecoinError{code: ErrCodeMalformedRequest, message: msg}
}

// WrapMalformedRequestError wraps an existing error as a malformed request
// error.
func WrapMalformedRequestError(err error, msg string) error {
	return &StablecoinError{code: ErrCodeMalformedRequest, message: msg, wrapped: err}
}

// NewRequestTooLargeError creates a request too large error.
func NewRequestTooLargeError(msg string) error {
	return &StablecoinError{code: ErrCodeRequestTooLarge, message: msg}
}

// NewRateLimitError creates a rate limit exceeded error.
func NewRateLimitError(msg string) error {
	return &StablecoinError{code: ErrCodeRateLimitExceeded, message: msg}
}

// WrapUpstreamError wraps a provider failure. The wrapped cause is logged
// server-side; clients see a generic message.
func WrapUpstreamError(err error, msg string) error {
	return &StablecoinError{code: ErrCodeUpstreamUnavailable, message: msg, wrapped: err}
}

// NewInternalError creates an internal error for unexpected failures.
func NewInternalError(msg string) error {
	return &StablecoinError{code: ErrCodeInternal, message: msg}
}

// WrapInternalError wraps an existing error as an internal error.
func WrapInternalError(err error, msg string) error {
	return &StablecoinError{code: ErrCodeInternal, message: msg, wrapped: err}
}
