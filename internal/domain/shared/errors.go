package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrConsistency         = NewDomainError("CONSISTENCY", "Derived aggregate diverges from its authoritative sum")
	ErrTransientStorage    = NewDomainError("TRANSIENT_STORAGE", "Storage commit failed transiently")
)

// IsNotFound reports whether err is the not-found domain error.
func IsNotFound(err error) bool {
	de, ok := err.(*DomainError)
	return ok && de.Code == "NOT_FOUND"
}

// IsTransient reports whether err is a transient storage failure that the
// caller may retry with backoff. Validation and not-found errors are never
// transient.
func IsTransient(err error) bool {
	de, ok := err.(*DomainError)
	return ok && (de.Code == "TRANSIENT_STORAGE" || de.Code == "CONCURRENCY_CONFLICT")
}
