package booking

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes returned to clients. Every domain failure carries exactly one.
const (
	CodeValidation = "validation"
	CodeForbidden  = "forbidden"
	CodeNotFound   = "not_found"
	CodeConflict   = "conflict"
	CodeUpstream   = "upstream"
)

// Error is a domain error with a machine-readable code.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewValidationError reports malformed or missing input.
func NewValidationError(msg string) error {
	return &Error{Code: CodeValidation, Message: msg}
}

// NewForbiddenError reports a role or ownership mismatch.
func NewForbiddenError(msg string) error {
	return &Error{Code: CodeForbidden, Message: msg}
}

// NewNotFoundError reports an absent booking or technician.
func NewNotFoundError(msg string) error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// NewConflictError reports an illegal transition, a lost assignment race, or
// a technician that is no longer eligible.
func NewConflictError(msg string) error {
	return &Error{Code: CodeConflict, Message: msg}
}

// NewUpstreamError wraps a repository or collaborator failure. The underlying
// cause is logged, never returned to the caller.
func NewUpstreamError(cause error) error {
	return &Error{Code: CodeUpstream, Message: "a dependency failed, please try again later"}
}

// CodeOf extracts the machine-readable code, defaulting to upstream.
func CodeOf(err error) string {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return CodeUpstream
}

// HTTPStatus maps a domain error onto its HTTP status.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}
