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
	ErrNotFound             = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists        = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput         = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict  = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized         = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden            = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState         = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrCatalogUnavailable   = NewDomainError("CATALOG_UNAVAILABLE", "Product catalog could not be queried")
	ErrConfigurationInvalid = NewDomainError("CONFIGURATION_INVALID", "Bundle configuration is malformed")
	ErrValidationViolation  = NewDomainError("VALIDATION_VIOLATION", "Bundle selection violates slot constraints")
	ErrRuleResolutionEmpty  = NewDomainError("RULE_RESOLUTION_EMPTY", "Slot eligibility rule resolved to an empty set")
)
