package vpn

import (
	"errors"
	"fmt"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yllada/vpn-status/common"
	"github.com/yllada/vpn-status/netif"
)

// fakeSource serves a fixed interface snapshot.
type fakeSource struct {
	ifaces  []netif.Interface
	defErr  error
	listErr error
}

func (f fakeSource) DefaultInterface() (netif.Interface, error) {
	if f.defErr != nil {
		return netif.Interface{}, f.defErr
	}
	for _, iface := range f.ifaces {
		if iface.Default {
			return iface, nil
		}
	}
	return netif.Interface{}, common.ErrNoLocalAddress
}

func (f fakeSource) Interfaces() ([]netif.Interface, error) {
	return f.ifaces, f.listErr
}

func addrs(s ...string) []netip.Addr {
	out := make([]netip.Addr, len(s))
	for i, a := range s {
		out[i] = netip.MustParseAddr(a)
	}
	return out
}

var (
	eth0 = netif.Interface{Name: "eth0", Index: 2, IPv4: addrs("192.168.1.20"), IPv6: addrs("fe80::1")}
	tun0 = netif.Interface{Name: "tun0", Index: 5, Tunnel: true, IPv4: addrs("10.8.0.2")}
	wg6  = netif.Interface{Name: "wg0", Index: 6, Tunnel: true, IPv6: addrs("fd00::2")}
	tap  = netif.Interface{Name: "tap0", Index: 7, Tunnel: true}
)

func asDefault(iface netif.Interface) netif.Interface {
	iface.Default = true
	return iface
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		src  fakeSource
		want Status
	}{
		{
			name: "default interface is a tunnel",
			src:  fakeSource{ifaces: []netif.Interface{eth0, asDefault(tun0)}},
			want: StatusEnabled,
		},
		{
			name: "default tunnel wins over other tunnels",
			src:  fakeSource{ifaces: []netif.Interface{asDefault(tun0), wg6, tap}},
			want: StatusEnabled,
		},
		{
			name: "tunnel with ipv4 beside default",
			src:  fakeSource{ifaces: []netif.Interface{asDefault(eth0), tun0}},
			want: StatusSplitTunnel,
		},
		{
			name: "split tunnel after ipv6 only tunnels",
			src:  fakeSource{ifaces: []netif.Interface{wg6, tap, asDefault(eth0), tun0}},
			want: StatusSplitTunnel,
		},
		{
			name: "ipv6 only tunnel is not split",
			src:  fakeSource{ifaces: []netif.Interface{asDefault(eth0), wg6}},
			want: StatusDisabled,
		},
		{
			name: "tunnel without address",
			src:  fakeSource{ifaces: []netif.Interface{asDefault(eth0), tap}},
			want: StatusDisabled,
		},
		{
			name: "no tunnels",
			src:  fakeSource{ifaces: []netif.Interface{asDefault(eth0)}},
			want: StatusDisabled,
		},
		{
			name: "no default interface",
			src:  fakeSource{ifaces: []netif.Interface{eth0, tun0}},
			want: StatusOffline,
		},
		{
			name: "wrapped missing local address",
			src:  fakeSource{defErr: fmt.Errorf("discover: %w", common.ErrNoLocalAddress)},
			want: StatusOffline,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_OrderIndependent(t *testing.T) {
	forward := fakeSource{ifaces: []netif.Interface{asDefault(eth0), wg6, tun0}}
	reverse := fakeSource{ifaces: []netif.Interface{tun0, wg6, asDefault(eth0)}}

	a, err := Classify(forward)
	require.NoError(t, err)
	b, err := Classify(reverse)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestClassify_Errors(t *testing.T) {
	boom := errors.New("netlink: permission denied")

	_, err := Classify(fakeSource{defErr: boom})
	assert.ErrorIs(t, err, common.ErrDefaultInterface)
	assert.Contains(t, err.Error(), "permission denied")

	assert.ErrorIs(t, err, boom)

	_, err = Classify(fakeSource{ifaces: []netif.Interface{asDefault(eth0)}, listErr: boom})
	assert.ErrorIs(t, err, common.ErrDefaultInterface)
	assert.ErrorIs(t, err, boom)
}

// snapshotSource counts how often it is listed.
type snapshotSource struct {
	fakeSource
	listings *int
}

func (s snapshotSource) Snapshot() netif.Snapshot {
	*s.listings++
	return netif.Capture(s.fakeSource).(netif.Snapshot)
}

func TestClassify_SingleSnapshot(t *testing.T) {
	var listings int
	src := snapshotSource{fakeSource: fakeSource{ifaces: []netif.Interface{asDefault(eth0), tun0}}, listings: &listings}

	got, err := Classify(src)
	require.NoError(t, err)
	assert.Equal(t, StatusSplitTunnel, got)
	assert.Equal(t, 1, listings)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "disabled", StatusDisabled.String())
	assert.Equal(t, "enabled", StatusEnabled.String())
	assert.Equal(t, "split", StatusSplitTunnel.String())
	assert.Equal(t, "offline", StatusOffline.String())
	assert.Equal(t, "unknown", Status(42).String())
}

func TestEnabled(t *testing.T) {
	tests := []struct {
		name string
		src  fakeSource
		want bool
	}{
		{"enabled", fakeSource{ifaces: []netif.Interface{asDefault(tun0)}}, true},
		{"split", fakeSource{ifaces: []netif.Interface{asDefault(eth0), tun0}}, true},
		{"disabled", fakeSource{ifaces: []netif.Interface{asDefault(eth0)}}, false},
		{"offline", fakeSource{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Enabled(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTunnelName(t *testing.T) {
	name, err := TunnelName(fakeSource{ifaces: []netif.Interface{eth0, asDefault(tun0)}})
	require.NoError(t, err)
	assert.Equal(t, "tun0", name)

	_, err = TunnelName(fakeSource{ifaces: []netif.Interface{asDefault(eth0), tun0}})
	assert.ErrorIs(t, err, common.ErrNotTunnel)

	_, err = TunnelName(fakeSource{})
	assert.ErrorIs(t, err, common.ErrDefaultInterface)
	assert.ErrorIs(t, err, common.ErrNoLocalAddress)
}

func TestTunnelAddresses(t *testing.T) {
	dual := netif.Interface{Name: "utun3", Tunnel: true, IPv4: addrs("10.0.0.2", "10.0.0.3"), IPv6: addrs("fd00::3")}

	tests := []struct {
		name    string
		iface   netif.Interface
		want    []netip.Addr
		wantErr error
	}{
		{"ipv4 preferred", dual, addrs("10.0.0.2", "10.0.0.3"), nil},
		{"ipv6 fallback", wg6, addrs("fd00::2"), nil},
		{"no address", tap, nil, common.ErrTunnelNoAddress},
		{"not a tunnel", eth0, nil, common.ErrNotTunnel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TunnelAddresses(fakeSource{ifaces: []netif.Interface{asDefault(tt.iface)}})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAllTunnels(t *testing.T) {
	src := fakeSource{ifaces: []netif.Interface{asDefault(eth0), tun0, wg6, tap}}

	names, err := AllTunnelNames(src)
	require.NoError(t, err)
	assert.Equal(t, []string{"tun0", "wg0", "tap0"}, names)

	all, err := AllTunnelAddresses(src)
	require.NoError(t, err)
	assert.Equal(t, map[string][]netip.Addr{
		"tun0": addrs("10.8.0.2"),
		"wg0":  addrs("fd00::2"),
	}, all)

	_, err = AllTunnelNames(fakeSource{listErr: errors.New("boom")})
	assert.Error(t, err)
}
