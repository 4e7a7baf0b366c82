package todoist

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error kinds reported in metrics and audit logs.
const (
	KindValidation     = "validation"
	KindAuthentication = "authentication"
	KindService        = "service"
	KindInternal       = "internal"
)

// ErrInvalidArgument marks local argument parsing failures. Errors wrapping it
// are normalized to ValidationError.
var ErrInvalidArgument = errors.New("invalid argument")

// BaseError is the common shape of every error surfaced to tool callers.
// Details carries structured context such as the failing operation.
type BaseError struct {
	Message string
	Details map[string]any
	Err     error
}

// Error returns the user facing message.
func (e *BaseError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *BaseError) Unwrap() error {
	return e.Err
}

// Detail returns a single details entry.
func (e *BaseError) Detail(key string) (any, bool) {
	if e.Details == nil {
		return nil, false
	}
	v, ok := e.Details[key]
	return v, ok
}

func (e *BaseError) setDetail(key string, value any) {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
}

// ValidationError reports malformed or missing input the caller can fix.
type ValidationError struct {
	BaseError
}

// AuthenticationError reports that Todoist rejected the API token.
type AuthenticationError struct {
	BaseError
}

// ServiceError reports any other failure of the Todoist service.
type ServiceError struct {
	BaseError
}

// NewError creates a generic error carrying the failing operation in its details.
func NewError(message, operation string, cause error) *BaseError {
	e := &BaseError{Message: message, Err: cause}
	if operation != "" {
		e.setDetail("function", operation)
	}
	return e
}

// NewValidationError creates a ValidationError with the given message.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{BaseError{Message: message}}
}

// NewAuthenticationError creates an AuthenticationError wrapping cause.
func NewAuthenticationError(message string, cause error) *AuthenticationError {
	return &AuthenticationError{BaseError{Message: message, Err: cause}}
}

// NewServiceError creates a ServiceError wrapping cause.
func NewServiceError(message string, cause error) *ServiceError {
	return &ServiceError{BaseError{Message: message, Err: cause}}
}

// WithOperation records the operation that failed.
func (e *ServiceError) WithOperation(operation string) *ServiceError {
	e.setDetail("operation", operation)
	return e
}

// Kind classifies err into one of the Kind* constants.
func Kind(err error) string {
	var (
		validationErr *ValidationError
		authErr       *AuthenticationError
		serviceErr    *ServiceError
	)
	switch {
	case errors.As(err, &validationErr):
		return KindValidation
	case errors.As(err, &authErr):
		return KindAuthentication
	case errors.As(err, &serviceErr):
		return KindService
	default:
		return KindInternal
	}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsAuthentication reports whether err is an AuthenticationError.
func IsAuthentication(err error) bool {
	var target *AuthenticationError
	return errors.As(err, &target)
}

// IsService reports whether err is a ServiceError.
func IsService(err error) bool {
	var target *ServiceError
	return errors.As(err, &target)
}

func isTaxonomy(err error) bool {
	var base *BaseError
	return IsValidation(err) || IsAuthentication(err) || IsService(err) || errors.As(err, &base)
}

// isUnauthorized reports whether a remote failure indicates a rejected token.
func isUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == 401 {
		return true
	}
	return strings.Contains(err.Error(), "Unauthorized")
}

// Normalize converts any error into the taxonomy. Errors that already belong
// to it pass through unchanged. operation names the failing tool or function.
func Normalize(operation string, err error) error {
	if err == nil {
		return nil
	}
	if isTaxonomy(err) {
		return err
	}

	var (
		numErr  *strconv.NumError
		invalid validator.ValidationErrors
	)
	if errors.Is(err, ErrInvalidArgument) || errors.As(err, &numErr) || errors.As(err, &invalid) {
		return &ValidationError{BaseError{Message: err.Error(), Err: err}}
	}

	if strings.Contains(strings.ToLower(err.Error()), "todoist") {
		e := &ServiceError{BaseError{
			Message: fmt.Sprintf("Todoist API error: %v", err),
			Err:     err,
		}}
		e.setDetail("function", operation)
		return e
	}

	return NewError(fmt.Sprintf("An unexpected error occurred: %v", err), operation, err)
}
