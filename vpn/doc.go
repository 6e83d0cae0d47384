// Package vpn determines whether a VPN is active and renders that status.
//
// Detection looks only at interface metadata provided by a netif.Source:
//
//   - Enabled: the default interface is a tunnel
//   - SplitTunnel: the default interface is not a tunnel, but another tunnel has an IPv4 address
//   - Disabled: no tunnel is present
//   - Offline: there is no default interface or local address
//
// # Rendering
//
// Reporter turns a Status into the user's output string. It picks the
// per-status label and style from config.Config, optionally asks a Locator
// for the public IP location, and fills the output_format template:
//
//	r := vpn.Reporter{Source: netif.System{}, Locator: lookup.NewClient(keys)}
//	out, err := r.StatusString(ctx, cfg, false)
//
// # Thread Safety
//
// Classify and Reporter hold no state of their own; every call works on a
// fresh interface snapshot.
package vpn
