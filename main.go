// Package main provides the entry point for vpn-status.
// vpn-status prints whether a VPN tunnel carries the default route,
// for use in status bars, shell prompts and scripts.
//
// Features:
//   - Enabled, split tunnel, disabled and offline detection from interface metadata
//   - Configurable output templates with colors and text styles
//   - Optional public IP location lookup with API keys kept in the system keyring
//   - Live view of the status and an interface listing
//
// Usage:
//
//	vpn-status [flags]
//	vpn-status [command]
package main

import (
	"github.com/yllada/vpn-status/cli"
)

// Build-time variables injected via ldflags (-X main.appVersion=x.y.z)
// Default values are used for local development builds
var (
	appVersion = "dev"
	buildTime  = "unknown"
	commitSHA  = "unknown"
)

func main() {
	cli.Execute(cli.BuildInfo{
		Version:   appVersion,
		BuildTime: buildTime,
		Commit:    commitSHA,
	})
}
