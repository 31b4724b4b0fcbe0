package errors

import (
	"errors"
	"fmt"
)

// Common error types for the OAuth2 authorizer
var (
	// Key errors
	ErrInvalidKey     = errors.New("invalid key")
	ErrUnsupportedKey = errors.New("unsupported key type")

	// Response errors
	ErrInvalidResponse = errors.New("invalid response")

	// General errors
	ErrNotConfigured = errors.New("not configured")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
