package errors

import (
	"wipeforge/jsonx"
)

// ChainErrorCode represents standardized error codes for ledger operations
type ChainErrorCode string

const (
	// General errors
	ErrCodeInternal ChainErrorCode = "internal_error"

	// Request validation errors
	ErrCodeInvalidRequest ChainErrorCode = "invalid_request"

	// Ledger errors
	ErrCodeEmptyChain     ChainErrorCode = "empty_chain"
	ErrCodeSerialization  ChainErrorCode = "serialization_failed"
	ErrCodeRecordNotFound ChainErrorCode = "record_not_found"

	// Storage errors
	ErrCodeStorage ChainErrorCode = "storage_error"
)

// Error message constants - user-friendly and concise
const (
	ErrMsgInternal       = "Server error, please try again"
	ErrMsgInvalidRequest = "Request format is invalid"
	ErrMsgEmptyChain     = "Chain contains no records"
	ErrMsgSerialization  = "Payload cannot be canonically serialized"
	ErrMsgRecordNotFound = "Record could not be found"
	ErrMsgStorage        = "Record storage failed"
)

// ChainError represents a standardized ledger error
type ChainError struct {
	Code    ChainErrorCode `json:"code"`
	Message string         `json:"message"`
}

// Error implements the error interface
func (e *ChainError) Error() string {
	err, _ := jsonx.Marshal(ChainError{
		Code:    e.Code,
		Message: e.Message,
	})
	return string(err)
}

// Is reports whether target carries the same error code, so sentinels below
// work with the stdlib errors.Is even when messages differ.
func (e *ChainError) Is(target error) bool {
	t, ok := target.(*ChainError)
	return ok && t.Code == e.Code
}

// Sentinel errors for the ledger taxonomy
var (
	ErrEmptyChain     = NewError(ErrCodeEmptyChain, ErrMsgEmptyChain)
	ErrSerialization  = NewError(ErrCodeSerialization, ErrMsgSerialization)
	ErrRecordNotFound = NewError(ErrCodeRecordNotFound, ErrMsgRecordNotFound)
)

// NewError creates a new ChainError and returns it as error interface
func NewError(code ChainErrorCode, message string) error {
	return &ChainError{
		Code:    code,
		Message: message,
	}
}
