//go:build linux

package netif

import (
	"errors"
	"net"
	"net/netip"

	"github.com/vishvananda/netlink"
)

// systemInterfaces lists links over netlink, which exposes the link kind
// and ARP hardware type needed to tell tunnels apart.
func systemInterfaces() ([]Interface, error) {
	links, err := netlink.LinkList()
	if err != nil {
		return nil, err
	}

	ifaces := make([]Interface, 0, len(links))
	for _, link := range links {
		attrs := link.Attrs()
		iface := Interface{
			Name:   attrs.Name,
			Index:  attrs.Index,
			Tunnel: isTunnel(attrs.Name, link.Type(), attrs.EncapType, attrs.Flags&net.FlagPointToPoint != 0),
		}

		addrs, err := netlink.AddrList(link, netlink.FAMILY_ALL)
		if err != nil {
			return nil, err
		}
		for _, a := range addrs {
			if a.IPNet == nil {
				continue
			}
			if addr, ok := netip.AddrFromSlice(a.IP); ok {
				appendAddr(&iface, addr)
			}
		}
		ifaces = append(ifaces, iface)
	}
	return ifaces, nil
}

// systemDefaultRoute asks the kernel which route it would pick for the
// probe destinations. The answer honours /1 routes and policy rules, which
// a scan of the main table's 0.0.0.0/0 entry misses.
func systemDefaultRoute() (route, error) {
	var errs []error
	for _, probe := range routeProbes {
		routes, err := netlink.RouteGet(net.IP(probe.AsSlice()))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if len(routes) == 0 {
			continue
		}
		r := route{LinkIndex: routes[0].LinkIndex}
		if src, ok := netip.AddrFromSlice(routes[0].Src); ok {
			r.Src = src.Unmap()
		}
		return r, nil
	}
	if len(errs) == 0 {
		return route{}, errors.New("no route to the internet")
	}
	return route{}, errors.Join(errs...)
}
