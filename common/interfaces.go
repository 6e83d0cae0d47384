// Package common provides shared constants, types, and utilities
// used across vpn-status.
package common

// CredentialStore defines the interface for secret storage.
// Lookup providers read their API keys through it.
type CredentialStore interface {
	// Store saves a secret under a key.
	Store(key, secret string) error
	// Get retrieves the secret for a key.
	Get(key string) (string, error)
	// Delete removes the secret for a key.
	Delete(key string) error
}

// Logger defines the interface for leveled logging.
type Logger interface {
	// Debug logs a debug message.
	Debug(msg string, args ...interface{})
	// Info logs an informational message.
	Info(msg string, args ...interface{})
	// Warn logs a warning message.
	Warn(msg string, args ...interface{})
	// Error logs an error message.
	Error(msg string, args ...interface{})
}

var _ Logger = (*AppLogger)(nil)
