//go:build !linux

package netif

import (
	"errors"
	"net"
	"net/netip"
	"strings"

	psnet "github.com/shirou/gopsutil/v3/net"
)

// systemInterfaces lists interfaces through gopsutil. Without a link kind,
// tunnels are recognised by the point-to-point flag and their name.
func systemInterfaces() ([]Interface, error) {
	stats, err := psnet.Interfaces()
	if err != nil {
		return nil, err
	}

	ifaces := make([]Interface, 0, len(stats))
	for _, stat := range stats {
		pointToPoint := false
		for _, flag := range stat.Flags {
			if flag == "pointtopoint" {
				pointToPoint = true
			}
		}

		iface := Interface{
			Name:   stat.Name,
			Index:  stat.Index,
			Tunnel: isTunnel(stat.Name, "", "", pointToPoint),
		}
		for _, a := range stat.Addrs {
			raw, _, _ := strings.Cut(a.Addr, "/")
			if addr, err := netip.ParseAddr(raw); err == nil {
				appendAddr(&iface, addr)
			}
		}
		ifaces = append(ifaces, iface)
	}
	return ifaces, nil
}

// systemDefaultRoute connects a UDP socket to each probe destination and
// reads back the local address the OS bound it to. No packet is sent.
func systemDefaultRoute() (route, error) {
	var errs []error
	for _, probe := range routeProbes {
		conn, err := net.Dial("udp", netip.AddrPortFrom(probe, 53).String())
		if err != nil {
			errs = append(errs, err)
			continue
		}
		local, ok := conn.LocalAddr().(*net.UDPAddr)
		conn.Close()
		if !ok {
			continue
		}
		if src, ok := netip.AddrFromSlice(local.IP); ok && !src.IsUnspecified() {
			return route{Src: src.Unmap()}, nil
		}
	}
	if len(errs) == 0 {
		return route{}, errors.New("no route to the internet")
	}
	return route{}, errors.Join(errs...)
}
