package vpn

import (
	"errors"
	"fmt"
	"net/netip"

	"github.com/yllada/vpn-status/common"
	"github.com/yllada/vpn-status/netif"
)

// Status represents the state of the VPN as seen from the interfaces.
type Status int

const (
	StatusDisabled Status = iota
	StatusEnabled
	StatusSplitTunnel
	StatusOffline
)

// String returns the default label for the status.
func (s Status) String() string {
	switch s {
	case StatusDisabled:
		return "disabled"
	case StatusEnabled:
		return "enabled"
	case StatusSplitTunnel:
		return "split"
	case StatusOffline:
		return "offline"
	default:
		return "unknown"
	}
}

// Classify derives the VPN status from the interfaces reported by src.
//
// The default interface decides first: a tunnel there means Enabled, and a
// missing local address means Offline. Otherwise any other tunnel holding
// an IPv4 address means SplitTunnel. Both questions are answered from one
// snapshot of src.
func Classify(src netif.Source) (Status, error) {
	src = netif.Capture(src)
	def, err := src.DefaultInterface()
	if err != nil {
		if errors.Is(err, common.ErrNoLocalAddress) {
			common.LogDebug("no local address, reporting offline")
			return StatusOffline, nil
		}
		return StatusDisabled, fmt.Errorf("%w: %w", common.ErrDefaultInterface, err)
	}

	if def.Tunnel {
		return StatusEnabled, nil
	}

	ifaces, err := src.Interfaces()
	if err != nil {
		return StatusDisabled, fmt.Errorf("%w: %w", common.ErrDefaultInterface, err)
	}
	for _, iface := range ifaces {
		if iface.Name == def.Name || !iface.Tunnel {
			continue
		}
		if len(iface.IPv4) > 0 {
			common.LogDebug("split tunnel through %s", iface.Name)
			return StatusSplitTunnel, nil
		}
	}
	return StatusDisabled, nil
}

// Enabled reports whether traffic can reach a VPN, fully or split.
func Enabled(src netif.Source) (bool, error) {
	status, err := Classify(src)
	if err != nil {
		return false, err
	}
	return status == StatusEnabled || status == StatusSplitTunnel, nil
}

// defaultTunnel returns the default interface when it is a tunnel.
func defaultTunnel(src netif.Source) (netif.Interface, error) {
	def, err := src.DefaultInterface()
	if err != nil {
		return netif.Interface{}, fmt.Errorf("%w: %w", common.ErrDefaultInterface, err)
	}
	if !def.Tunnel {
		return netif.Interface{}, common.ErrNotTunnel
	}
	return def, nil
}

// TunnelName returns the name of the default interface if it is a tunnel.
func TunnelName(src netif.Source) (string, error) {
	def, err := defaultTunnel(src)
	if err != nil {
		return "", err
	}
	return def.Name, nil
}

// TunnelAddresses returns the IPv4 addresses of the default tunnel, or its
// IPv6 addresses when it has no IPv4 ones.
func TunnelAddresses(src netif.Source) ([]netip.Addr, error) {
	def, err := defaultTunnel(src)
	if err != nil {
		return nil, err
	}
	switch {
	case len(def.IPv4) > 0:
		return def.IPv4, nil
	case len(def.IPv6) > 0:
		return def.IPv6, nil
	default:
		return nil, common.ErrTunnelNoAddress
	}
}

// AllTunnelNames returns the names of every tunnel interface.
func AllTunnelNames(src netif.Source) ([]string, error) {
	ifaces, err := src.Interfaces()
	if err != nil {
		return nil, err
	}
	var names []string
	for _, iface := range ifaces {
		if iface.Tunnel {
			names = append(names, iface.Name)
		}
	}
	common.LogDebug("tunnels: %v", names)
	return names, nil
}

// AllTunnelAddresses maps tunnel names to their addresses. Tunnels without
// addresses are left out.
func AllTunnelAddresses(src netif.Source) (map[string][]netip.Addr, error) {
	ifaces, err := src.Interfaces()
	if err != nil {
		return nil, err
	}
	tunnels := make(map[string][]netip.Addr)
	for _, iface := range ifaces {
		if !iface.Tunnel {
			continue
		}
		if addrs := iface.Addrs(); len(addrs) > 0 {
			tunnels[iface.Name] = addrs
		}
	}
	return tunnels, nil
}
