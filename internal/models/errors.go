package models

import (
	"errors"
	"fmt"
)

// AuthError reports an invalid or expired API token.
type AuthError struct {
	Status  int
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "invalid token"
	}
	return "invalid token: " + e.Message
}

// ServiceError reports a failed call to the remote service. Status is 0
// when the request never produced a response.
type ServiceError struct {
	Status  int
	Method  string
	Path    string
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Message)
	}
	return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.Status, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// ValidationError reports malformed user input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// IsAuth reports whether err is (or wraps) an *AuthError.
func IsAuth(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// IsService reports whether err is (or wraps) a *ServiceError.
func IsService(err error) bool {
	var serviceErr *ServiceError
	return errors.As(err, &serviceErr)
}

// IsValidation reports whether err is (or wraps) a *ValidationError.
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}
