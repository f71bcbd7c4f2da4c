// Package apierr contains the error taxonomy shared by the services and
// the HTTP layer, and the code that turns those errors into responses
package apierr

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAccountDisabled     = errors.New("account disabled")
	ErrTokenInvalid        = errors.New("token invalid")
	ErrTokenExpired        = errors.New("token expired")
	ErrUserNotFound        = errors.New("user not found")
	ErrUserAlreadyExists   = errors.New("user already exists")
	ErrInvalidOTP          = errors.New("invalid otp")
	ErrOTPExpired          = errors.New("otp expired")
	ErrNotificationFailure = errors.New("notification failure")

	// ErrVersionConflict is returned when a record was modified by another
	// request between read and write
	ErrVersionConflict = errors.New("version conflict")

	// ErrAuthenticationFailed hides why a presented token couldn't be tied
	// to an account
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrUnauthenticated is returned by handlers that need an identity
	// when the gate didn't attach one
	ErrUnauthenticated = errors.New("unauthenticated")
)

// FieldError is a validation error bound to a single request field
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Field wraps err as a validation error for field f. A nil err stays nil.
func Field(f string, err error) error {
	if err == nil {
		return nil
	}

	return &FieldError{Field: f, Err: err}
}
