// Package common provides shared constants, types, and utilities
// used across vpn-status.
package common

import "time"

// Application metadata.
const (
	// AppName is the command name and keyring service identifier.
	AppName = "vpn-status"
	// ConfigDirName is the name of the configuration and cache directory.
	ConfigDirName = "vpn-status"
)

// File names used by the application.
const (
	ConfigFileName      = "config.yaml"
	LookupCacheFileName = "lookup.json"
	CredentialsFileName = ".credentials"
	LogFileName         = "vpn-status.log"
)

// Default timeouts and intervals.
const (
	// LookupTimeout bounds a single geolocation lookup across all providers.
	LookupTimeout = 5 * time.Second
	// LookupCacheTTL is how long a lookup result is reused.
	LookupCacheTTL = 2 * time.Second
	// WatchInterval is the refresh period of the watch command.
	WatchInterval = 2 * time.Second
)

// Default output values.
const (
	DefaultFormat        = "{status}"
	DefaultLookupFormat  = "{status} - {city}, {country}"
	DefaultEnabledColor  = "green"
	DefaultDisabledColor = "red"
	DefaultSplitColor    = "yellow"
)
