// Package netif enumerates the host's network interfaces and identifies the
// one carrying the default route.
package netif

import (
	"fmt"
	"net/netip"
	"strings"

	"github.com/jackpal/gateway"

	"github.com/yllada/vpn-status/common"
)

// Interface is a snapshot of one network interface.
type Interface struct {
	Name    string
	Index   int
	Tunnel  bool
	Default bool
	IPv4    []netip.Addr
	IPv6    []netip.Addr
}

// Addrs returns IPv4 addresses followed by IPv6 addresses.
func (i Interface) Addrs() []netip.Addr {
	addrs := make([]netip.Addr, 0, len(i.IPv4)+len(i.IPv6))
	addrs = append(addrs, i.IPv4...)
	return append(addrs, i.IPv6...)
}

// HasAddr reports whether ip is assigned to the interface.
func (i Interface) HasAddr(ip netip.Addr) bool {
	for _, addr := range i.Addrs() {
		if addr == ip {
			return true
		}
	}
	return false
}

// Source provides interface snapshots.
type Source interface {
	// DefaultInterface returns the interface carrying the default route.
	// It fails with common.ErrNoLocalAddress when there is none.
	DefaultInterface() (Interface, error)
	// Interfaces returns every interface, the default one flagged.
	Interfaces() ([]Interface, error)
}

// System reads interfaces from the operating system.
type System struct{}

// route is the kernel's choice for traffic to the public internet.
// LinkIndex is zero when the platform only reports the source address.
type route struct {
	LinkIndex int
	Src       netip.Addr
}

// routeProbes are the destinations whose route decides the default
// interface. IPv4 is tried first.
var routeProbes = []netip.Addr{
	netip.MustParseAddr("1.1.1.1"),
	netip.MustParseAddr("2606:4700:4700::1111"),
}

// For mocking in tests
var (
	defaultRoute    = systemDefaultRoute
	discoverGateway = gateway.DiscoverGateway
	listInterfaces  = systemInterfaces
)

// DefaultInterface implements Source.
func (s System) DefaultInterface() (Interface, error) {
	return s.Snapshot().DefaultInterface()
}

// Interfaces implements Source.
func (s System) Interfaces() ([]Interface, error) {
	return s.Snapshot().Interfaces()
}

// Snapshot lists the interfaces and resolves the default route once.
func (System) Snapshot() Snapshot {
	ifaces, err := listInterfaces()
	if err != nil {
		err = fmt.Errorf("listing interfaces: %w", err)
		return Snapshot{listErr: err, defErr: err}
	}

	snap := Snapshot{ifaces: ifaces, defErr: common.ErrNoLocalAddress}
	r, err := defaultRoute()
	if err != nil {
		common.LogDebug("no default route: %v", err)
		snap.defErr = fmt.Errorf("%w: %w", common.ErrNoLocalAddress, err)
		return snap
	}

	if i := r.match(ifaces); i >= 0 {
		ifaces[i].Default = true
		snap.def, snap.defErr = ifaces[i], nil
		common.LogDebug("default interface %s (index %d, src %s), tunnel=%t",
			ifaces[i].Name, r.LinkIndex, r.Src, ifaces[i].Tunnel)
	}
	return snap
}

// match returns the position of the interface the route leaves through,
// or -1. The link index wins over the source address when both are known.
func (r route) match(ifaces []Interface) int {
	if r.LinkIndex > 0 {
		for i := range ifaces {
			if ifaces[i].Index == r.LinkIndex {
				return i
			}
		}
	}
	if r.Src.IsValid() {
		for i := range ifaces {
			if ifaces[i].HasAddr(r.Src) {
				return i
			}
		}
	}
	return -1
}

// Snapshot is one consistent listing of the interfaces. It implements
// Source, so every query against it agrees on which interface is default.
type Snapshot struct {
	ifaces  []Interface
	def     Interface
	defErr  error
	listErr error
}

// Capture returns a snapshot of src. Sources that can list themselves in
// one pass do so; others are queried once for each method.
func Capture(src Source) Source {
	switch s := src.(type) {
	case Snapshot:
		return s
	case interface{ Snapshot() Snapshot }:
		return s.Snapshot()
	}
	snap := Snapshot{}
	snap.def, snap.defErr = src.DefaultInterface()
	snap.ifaces, snap.listErr = src.Interfaces()
	return snap
}

// DefaultInterface implements Source.
func (s Snapshot) DefaultInterface() (Interface, error) {
	return s.def, s.defErr
}

// Interfaces implements Source.
func (s Snapshot) Interfaces() ([]Interface, error) {
	return s.ifaces, s.listErr
}

// DefaultGateway returns the gateway of the main table's 0.0.0.0/0 route.
// With policy routing or /1 routes it may differ from the interface
// DefaultInterface reports.
func DefaultGateway() (netip.Addr, error) {
	ip, err := discoverGateway()
	if err != nil {
		return netip.Addr{}, err
	}
	addr, ok := netip.AddrFromSlice(ip)
	if !ok {
		return netip.Addr{}, fmt.Errorf("invalid gateway address %v", ip)
	}
	return addr.Unmap(), nil
}

// tunnelPrefixes are interface names used by VPN software across platforms.
var tunnelPrefixes = []string{
	"tun", "tap", "utun", "wg", "ppp", "ipsec", "gif", "stf",
	"tailscale", "zt", "nordlynx", "proton", "mullvad",
}

// IsTunnelName reports whether an interface name looks like a VPN tunnel.
func IsTunnelName(name string) bool {
	lower := strings.ToLower(name)
	for _, prefix := range tunnelPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return strings.Contains(lower, "vpn")
}

// appendAddr sorts an address into the v4 or v6 list of iface.
func appendAddr(iface *Interface, addr netip.Addr) {
	addr = addr.Unmap()
	switch {
	case addr.Is4():
		iface.IPv4 = append(iface.IPv4, addr)
	case addr.Is6():
		iface.IPv6 = append(iface.IPv6, addr)
	}
}

// tunnelLinkTypes are netlink link kinds that carry VPN traffic.
var tunnelLinkTypes = map[string]bool{
	"tuntap":    true,
	"wireguard": true,
	"ipip":      true,
	"sit":       true,
	"gre":       true,
	"ip6tnl":    true,
	"ip6gre":    true,
	"vti":       true,
	"vti6":      true,
	"xfrm":      true,
}

// isTunnel decides from link metadata. kind and encap come from netlink on
// Linux and are empty elsewhere.
func isTunnel(name, kind, encap string, pointToPoint bool) bool {
	if tunnelLinkTypes[kind] {
		return true
	}
	switch encap {
	case "none", "tunnel", "tunnel6", "ipgre", "ip6gre":
		return true
	case "loopback":
		return false
	case "ether":
		return IsTunnelName(name)
	}
	return pointToPoint || IsTunnelName(name)
}
