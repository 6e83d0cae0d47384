// Package common provides shared constants, types, and utilities
// used across vpn-status.
package common

import "errors"

// Sentinel errors for vpn-status operations.
// These can be checked with errors.Is() for proper error handling.
var (
	// Interface errors.
	ErrNoLocalAddress   = errors.New("local IP address not found")
	ErrDefaultInterface = errors.New("failed getting default interface")
	ErrNotTunnel        = errors.New("default interface is not a tunnel")
	ErrTunnelNoAddress  = errors.New("tunnel has no address")

	// Styling errors.
	ErrStyle = errors.New("failed styling")

	// Lookup errors.
	ErrLookup          = errors.New("failed performing lookup")
	ErrUnknownProvider = errors.New("unknown lookup provider")

	// Credential errors.
	ErrCredentialsNotFound = errors.New("credentials not found")
	ErrCredentialStorage   = errors.New("failed to store credentials")

	// Configuration errors.
	ErrConfigLoad    = errors.New("failed to load configuration")
	ErrConfigSave    = errors.New("failed to save configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// WrapError wraps an error with additional context.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{
		msg: message,
		err: err,
	}
}

type wrappedError struct {
	msg string
	err error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.err.Error()
}

func (e *wrappedError) Unwrap() error {
	return e.err
}
