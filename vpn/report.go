package vpn

import (
	"context"

	"github.com/yllada/vpn-status/common"
	"github.com/yllada/vpn-status/config"
	"github.com/yllada/vpn-status/format"
	"github.com/yllada/vpn-status/lookup"
	"github.com/yllada/vpn-status/netif"
	"github.com/yllada/vpn-status/style"
)

// Locator resolves the public IP address and its location.
type Locator interface {
	Lookup(ctx context.Context, providers []string) (*lookup.Result, error)
}

// Reporter renders the VPN status according to a configuration.
type Reporter struct {
	Source  netif.Source
	Locator Locator
}

// StatusString classifies the interfaces and renders the configured output.
// Only classification errors are returned; a failed lookup is logged and
// rendered without location data.
func (r Reporter) StatusString(ctx context.Context, cfg *config.Config, noStyle bool) (string, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	status, err := Classify(r.Source)
	if err != nil {
		return "", err
	}
	common.LogDebug("VPN status: %s", status)

	label, spec := statusDisplay(cfg, status)
	if !noStyle {
		label = spec.Apply(label)
	}

	var loc *format.Lookup
	if status != StatusOffline && cfg.Lookup {
		loc = r.lookup(ctx, cfg, noStyle)
	}

	tmpl := cfg.OutputFormat
	if tmpl == "" {
		tmpl = common.DefaultFormat
		if loc != nil {
			tmpl = common.DefaultLookupFormat
		}
	}

	tokens := format.Parse(tmpl)
	if noStyle {
		return format.Render(tokens, label, loc), nil
	}
	return format.RenderStyled(tokens, label, loc, cfg.OutputStyle), nil
}

// lookup asks the Locator for location data, styling every value.
func (r Reporter) lookup(ctx context.Context, cfg *config.Config, noStyle bool) *format.Lookup {
	if r.Locator == nil {
		common.LogWarn("Lookup enabled but no locator configured")
		return nil
	}

	if cfg.LookupTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.LookupTimeout)
		defer cancel()
	}

	res, err := r.Locator.Lookup(ctx, cfg.LookupProviders)
	if err != nil {
		common.LogWarn("Lookup failed, continuing without it: %v", err)
		return nil
	}

	loc := &format.Lookup{IP: res.IP, City: res.City, Country: res.Country}
	if !noStyle {
		loc.IP = cfg.LookupStyle.Apply(loc.IP)
		loc.City = cfg.LookupStyle.Apply(loc.City)
		loc.Country = cfg.LookupStyle.Apply(loc.Country)
	}
	return loc
}

// statusDisplay picks the label and style configured for status.
func statusDisplay(cfg *config.Config, status Status) (string, *style.Spec) {
	var (
		custom *string
		spec   *style.Spec
	)
	switch status {
	case StatusEnabled:
		custom, spec = cfg.EnabledString, cfg.EnabledStyle
	case StatusDisabled:
		custom, spec = cfg.DisabledString, cfg.DisabledStyle
	case StatusSplitTunnel:
		custom, spec = cfg.SplitTunnelString, cfg.SplitTunnelStyle
	case StatusOffline:
		custom, spec = cfg.OfflineString, cfg.OfflineStyle
	}

	if custom != nil {
		return *custom, spec
	}
	return status.String(), spec
}
