package contract

import (
	"errors"
	"fmt"
)

// Error represents a validation or authorization failure detected during
// a contract call.
//
// Every Error aborts the current call with no partial write; there is no
// local recovery or retry inside the core. Underlying storage errors are
// NOT wrapped in Error - they pass through unchanged.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Details contains additional context.
	Details map[string]string
}

// ErrorCode categorizes contract errors.
type ErrorCode string

const (
	// ErrCodeUnauthorized indicates the caller is not the contract owner.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// ErrCodeMessageTooLarge indicates content or target length exceeds
	// the configured maximum.
	ErrCodeMessageTooLarge ErrorCode = "MESSAGE_TOO_LARGE"

	// ErrCodeInvalidMessageLength indicates the post-normalization length
	// does not match the requested target. This is an internal
	// consistency defect, not a user error.
	ErrCodeInvalidMessageLength ErrorCode = "INVALID_MESSAGE_LENGTH"

	// ErrCodeInvalidRunID indicates a run id that is empty after trimming.
	ErrCodeInvalidRunID ErrorCode = "INVALID_RUN_ID"

	// ErrCodeInvalidChainID indicates a chain id that is empty after trimming.
	ErrCodeInvalidChainID ErrorCode = "INVALID_CHAIN_ID"

	// ErrCodeInvalidGasValue indicates zero gas with a nonzero message count.
	ErrCodeInvalidGasValue ErrorCode = "INVALID_GAS_VALUE"

	// ErrCodeNotFound indicates a lookup by id with no matching record.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeNotConfigured indicates the certifying lookup was invoked
	// without a configured provider.
	ErrCodeNotConfigured ErrorCode = "NOT_CONFIGURED"
)

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// CodeOf returns the contract error code carried by err, or "" when err
// is not a contract Error. Uses errors.As to handle wrapped errors.
func CodeOf(err error) ErrorCode {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// IsUnauthorized returns true if the error is an authorization failure.
func IsUnauthorized(err error) bool {
	return CodeOf(err) == ErrCodeUnauthorized
}

// IsNotFound returns true if the error is a missing-record lookup.
func IsNotFound(err error) bool {
	return CodeOf(err) == ErrCodeNotFound
}

// NewUnauthorizedError creates an Error for a gated operation invoked by
// a non-owner identity.
func NewUnauthorizedError(sender string) *Error {
	return &Error{
		Code:    ErrCodeUnauthorized,
		Message: "caller is not the contract owner",
		Details: map[string]string{"sender": sender},
	}
}

// NewMessageTooLargeError creates an Error for content or target length
// above the configured maximum.
func NewMessageTooLargeError(length, max uint64) *Error {
	return &Error{
		Code:    ErrCodeMessageTooLarge,
		Message: fmt.Sprintf("message length %d exceeds maximum %d", length, max),
		Details: map[string]string{
			"length": fmt.Sprintf("%d", length),
			"max":    fmt.Sprintf("%d", max),
		},
	}
}

// NewInvalidMessageLengthError creates an Error for a normalization
// result whose length does not match the target.
func NewInvalidMessageLengthError(got, want uint64) *Error {
	return &Error{
		Code:    ErrCodeInvalidMessageLength,
		Message: fmt.Sprintf("normalized length %d does not match target %d", got, want),
		Details: map[string]string{
			"got":  fmt.Sprintf("%d", got),
			"want": fmt.Sprintf("%d", want),
		},
	}
}

// NewInvalidRunIDError creates an Error for a blank run id.
func NewInvalidRunIDError() *Error {
	return &Error{
		Code:    ErrCodeInvalidRunID,
		Message: "run id must not be empty",
	}
}

// NewInvalidChainIDError creates an Error for a blank chain id.
func NewInvalidChainIDError() *Error {
	return &Error{
		Code:    ErrCodeInvalidChainID,
		Message: "chain id must not be empty",
	}
}

// NewInvalidGasValueError creates an Error for zero gas with a nonzero
// message count.
func NewInvalidGasValueError(messageCount uint64) *Error {
	return &Error{
		Code:    ErrCodeInvalidGasValue,
		Message: "total gas must be nonzero when message count is nonzero",
		Details: map[string]string{
			"message_count": fmt.Sprintf("%d", messageCount),
		},
	}
}

// NewNotFoundError creates an Error for a missing record.
func NewNotFoundError(kind, id string) *Error {
	return &Error{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s %q not found", kind, id),
		Details: map[string]string{"id": id},
	}
}

// NewNotConfiguredError creates an Error for a missing certifying-lookup
// configuration.
func NewNotConfiguredError(what string) *Error {
	return &Error{
		Code:    ErrCodeNotConfigured,
		Message: fmt.Sprintf("%s is not configured", what),
	}
}
