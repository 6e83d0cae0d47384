// Package common provides shared constants, types, utilities, and interfaces
// used throughout vpn-status.
//
// This package serves as the foundation for cross-cutting concerns:
//
//   - Constants: application name, file names, timeouts and default formats
//   - Errors: sentinel errors for consistent error handling across packages
//   - Interfaces: abstractions for credential storage and logging
//   - Logger: leveled logging to stderr, optionally mirrored to a file
//   - Utils: config and cache directory helpers
//
// # Usage
//
//	// Use logger
//	common.LogDebug("default interface %s", iface.Name)
//
//	// Check errors
//	if errors.Is(err, common.ErrNoLocalAddress) {
//	    // Host is offline
//	}
package common
