package cli

import (
	"errors"
	"fmt"
	"io"
	"net/netip"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/yllada/vpn-status/common"
	"github.com/yllada/vpn-status/netif"
	"github.com/yllada/vpn-status/vpn"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	tunnelStyle = cellStyle.Foreground(lipgloss.Color("42"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	labelStyle  = lipgloss.NewStyle().Bold(true)
)

func newInterfacesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "interfaces",
		Aliases: []string{"ifaces"},
		Short:   "List network interfaces and the tunnels among them",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.printInterfaces(cmd.OutOrStdout())
		},
	}
}

func (a *app) printInterfaces(w io.Writer) error {
	src := netif.Capture(a.source)
	ifaces, err := src.Interfaces()
	if err != nil {
		return err
	}

	fmt.Fprintln(w, interfaceTable(ifaces))

	status, err := vpn.Classify(src)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Status:"), status)

	name, err := vpn.TunnelName(src)
	switch {
	case err == nil:
		addrs, addrErr := vpn.TunnelAddresses(src)
		if addrErr != nil && !errors.Is(addrErr, common.ErrTunnelNoAddress) {
			return addrErr
		}
		fmt.Fprintf(w, "%s %s %s\n", labelStyle.Render("Default tunnel:"), name, joinAddrs(addrs))
	case errors.Is(err, common.ErrNotTunnel), errors.Is(err, common.ErrNoLocalAddress):
		fmt.Fprintf(w, "%s none\n", labelStyle.Render("Default tunnel:"))
	default:
		return err
	}

	if a.gateway == nil {
		return nil
	}
	if gw, err := a.gateway(); err == nil {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Default gateway:"), gw)
	} else {
		common.LogDebug("no default gateway: %v", err)
	}
	return nil
}

// interfaceTable renders one row per interface.
func interfaceTable(ifaces []netif.Interface) *table.Table {
	rows := make([][]string, 0, len(ifaces))
	for _, iface := range ifaces {
		rows = append(rows, []string{
			iface.Name,
			strconv.Itoa(iface.Index),
			yesNo(iface.Tunnel),
			yesNo(iface.Default),
			joinAddrs(iface.IPv4),
			joinAddrs(iface.IPv6),
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row < len(ifaces) && ifaces[row].Tunnel:
				return tunnelStyle
			default:
				return cellStyle
			}
		}).
		Headers("NAME", "INDEX", "TUNNEL", "DEFAULT", "IPV4", "IPV6").
		Rows(rows...)
}

func joinAddrs(addrs []netip.Addr) string {
	if len(addrs) == 0 {
		return "-"
	}
	parts := make([]string, len(addrs))
	for i, addr := range addrs {
		parts[i] = addr.String()
	}
	return strings.Join(parts, ", ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
