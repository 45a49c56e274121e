package flint

import (
	"errors"
	"fmt"
)

// Well-known error codes returned by the Flint service.
//
// The enumeration is open: the service is free to introduce new codes, and
// errors carry whatever code string the service supplied verbatim. These
// constants exist for the codes the SDK itself needs to recognize.
const (
	CodeIndexNotFound            = "index_not_found"
	CodeIndexAlreadyExists       = "index_already_exists"
	CodeInvalidIndexUID          = "invalid_index_uid"
	CodeMissingDocumentID        = "missing_document_id"
	CodeDocumentNotFound         = "document_not_found"
	CodePrimaryKeyAlreadyPresent = "index_primary_key_already_present"

	// CodeUnknown is used when the service returned a non-success status
	// without a parseable error body
	CodeUnknown = "unknown"
)

// Error is an error reported by the Flint service
type Error struct {
	// Code is the stable error code identifying the failure
	Code string `json:"code"`

	// Message is the human-readable description
	Message string `json:"message"`

	// Type is the coarse error category as reported by the service
	Type string `json:"type"`

	// StatusCode is the HTTP status the error arrived with
	StatusCode int `json:"-"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("flint: %s (%s)", e.Message, e.Code)
}

// TransportError means no response was obtained from the service at all, as
// opposed to Error which means the service responded with a failure.
// Callers may want to treat transport errors as retriable.
type TransportError struct {
	cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("flint: transport: %s", e.cause)
}

// Unwrap returns the underlying network-level error
func (e *TransportError) Unwrap() error {
	return e.cause
}

// ErrCode extracts the service error code from an error. Returns "" if the
// error did not originate from a service response.
func ErrCode(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsNotFound reports whether the error means the index does not exist
func IsNotFound(err error) bool {
	return ErrCode(err) == CodeIndexNotFound
}

// IsConflict reports whether the error means the index already exists
func IsConflict(err error) bool {
	return ErrCode(err) == CodeIndexAlreadyExists
}
