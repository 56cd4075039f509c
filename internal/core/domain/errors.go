package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business domain error with a structured
// error code.
type DomainError struct {
	Code    string // Error code (e.g., "LG-GRNT-4100")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Grant Errors (GRNT)
// ============================================================================

var (
	// ErrGrantNotFound indicates the token resolves to no stored grant.
	// Covers never-issued, purged-by-TTL, and consumed tokens alike;
	// callers must not be able to tell these apart.
	ErrGrantNotFound = NewDomainError("LG-GRNT-4100", "token invalid or expired")

	// ErrGrantExpired indicates the grant record exists but its deadline
	// has passed. Surfaced identically to ErrGrantNotFound at the edge.
	ErrGrantExpired = NewDomainError("LG-GRNT-4101", "token expired")

	// ErrGrantValidation indicates grant data failed validation.
	ErrGrantValidation = NewDomainError("LG-GRNT-4001", "grant validation failed")
)

// ============================================================================
// Product Errors (PROD)
// ============================================================================

var (
	// ErrMissingSKU indicates the request carried no SKU.
	ErrMissingSKU = NewDomainError("LG-PROD-4001", "missing sku")

	// ErrUnknownProduct indicates no filename is mapped for the SKU.
	ErrUnknownProduct = NewDomainError("LG-PROD-4040", "no filename mapped for sku")
)

// ============================================================================
// File Errors (FILE)
// ============================================================================

var (
	// ErrObjectNotFound indicates the backing object is absent from the
	// blob store. Unlike grant errors this signals a data-integrity
	// problem, not a client mistake.
	ErrObjectNotFound = NewDomainError("LG-FILE-4040", "backing object not found")
)

// ============================================================================
// Checkout Errors (PAY)
// ============================================================================

var (
	// ErrMissingProductID indicates the checkout request carried no
	// provider product id.
	ErrMissingProductID = NewDomainError("LG-PAY-4001", "missing provider product id")

	// ErrUpstream indicates the payment provider returned a non-2xx
	// response. Details carry status and a body sample.
	ErrUpstream = NewDomainError("LG-PAY-5020", "payment provider error")
)

// ============================================================================
// Argument Errors (ARG)
// ============================================================================

var (
	// ErrMissingToken indicates the download request carried no token.
	ErrMissingToken = NewDomainError("LG-ARG-1001", "missing token")

	// ErrMissingSKUList indicates the thank-you request carried no skus.
	ErrMissingSKUList = NewDomainError("LG-ARG-1002", "missing skus")
)

// ============================================================================
// System Errors (SYS)
// ============================================================================

var (
	// ErrInternalServer indicates an internal server error.
	ErrInternalServer = NewDomainError("LG-SYS-5000", "internal server error")

	// ErrStorageError indicates a storage layer error.
	ErrStorageError = NewDomainError("LG-SYS-5001", "storage error")

	// ErrBadRequest indicates a malformed request.
	ErrBadRequest = NewDomainError("LG-SYS-4000", "bad request")

	// ErrRateLimited indicates too many requests.
	ErrRateLimited = NewDomainError("LG-SYS-4290", "too many requests")
)
