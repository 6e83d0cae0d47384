// Package config provides configuration management for vpn-status.
// It handles loading, saving, and merging command line overrides into the
// render settings.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yllada/vpn-status/common"
	"github.com/yllada/vpn-status/style"
)

// Config represents the render configuration.
// Every field is optional; unset fields keep their defaults.
type Config struct {
	// EnabledString is displayed when the VPN is enabled.
	EnabledString *string `yaml:"enabled_string,omitempty"`
	// EnabledStyle styles EnabledString.
	EnabledStyle *style.Spec `yaml:"enabled_style,omitempty"`
	// DisabledString is displayed when the VPN is disabled.
	DisabledString *string `yaml:"disabled_string,omitempty"`
	// DisabledStyle styles DisabledString.
	DisabledStyle *style.Spec `yaml:"disabled_style,omitempty"`
	// SplitTunnelString is displayed when only a split tunnel is up.
	SplitTunnelString *string `yaml:"split_tunnel_string,omitempty"`
	// SplitTunnelStyle styles SplitTunnelString.
	SplitTunnelStyle *style.Spec `yaml:"split_tunnel_style,omitempty"`
	// OfflineString is displayed when the network is offline.
	OfflineString *string `yaml:"offline_string,omitempty"`
	// OfflineStyle styles OfflineString.
	OfflineStyle *style.Spec `yaml:"offline_style,omitempty"`

	// OutputFormat is the template, e.g. "VPN is {status}".
	OutputFormat string `yaml:"output_format,omitempty"`
	// OutputStyle styles the literal text of OutputFormat.
	OutputStyle *style.Spec `yaml:"output_style,omitempty"`

	// Lookup enables the public IP location lookup.
	Lookup bool `yaml:"lookup"`
	// LookupProviders lists providers in the order they are tried.
	LookupProviders []string `yaml:"lookup_providers,omitempty"`
	// LookupStyle styles the ip, city and country values.
	LookupStyle *style.Spec `yaml:"lookup_style,omitempty"`
	// LookupCacheTTL is how long a lookup response is reused.
	LookupCacheTTL time.Duration `yaml:"lookup_cache_ttl,omitempty"`
	// LookupTimeout bounds a whole lookup, all providers included.
	LookupTimeout time.Duration `yaml:"lookup_timeout,omitempty"`
}

// String returns a pointer to s, for the optional string fields.
func String(s string) *string {
	return &s
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		EnabledString:     String("enabled"),
		EnabledStyle:      style.New(common.DefaultEnabledColor),
		DisabledString:    String("disabled"),
		DisabledStyle:     style.New(common.DefaultDisabledColor),
		SplitTunnelString: String("split"),
		SplitTunnelStyle:  style.New(common.DefaultSplitColor),
		OfflineString:     String("offline"),
		Lookup:            false,
		LookupCacheTTL:    common.LookupCacheTTL,
		LookupTimeout:     common.LookupTimeout,
	}
}

// Path returns the default configuration file path.
func Path() (string, error) {
	dir, err := common.ConfigDirPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, common.ConfigFileName), nil
}

// Load loads the configuration from path, or from Path when path is empty.
// If the file doesn't exist, it is created with default values.
// Values in the file are layered on top of the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := Path()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrConfigLoad, err)
		}
		path = p
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := cfg.Save(path); err != nil {
			common.LogWarn("Could not write default configuration: %v", err)
		} else {
			common.LogInfo("Wrote default configuration to %s", path)
		}
		return cfg, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrConfigLoad, err)
	}
	defer file.Close()

	cfg, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	common.LogDebug("Loaded configuration from %s", path)
	return cfg, nil
}

// Decode reads YAML from r on top of the defaults. Unknown fields are rejected.
func Decode(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true) // Strict validation: reject unknown fields

	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", common.ErrConfigLoad, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate normalizes values and rejects the ones that cannot be used.
func (c *Config) validate() error {
	if c.LookupCacheTTL < 0 {
		return fmt.Errorf("%w: lookup_cache_ttl must not be negative", common.ErrInvalidConfig)
	}
	if c.LookupTimeout < 0 {
		return fmt.Errorf("%w: lookup_timeout must not be negative", common.ErrInvalidConfig)
	}
	if c.LookupTimeout == 0 {
		c.LookupTimeout = common.LookupTimeout // Fallback to default
	}

	providers := c.LookupProviders[:0]
	for _, p := range c.LookupProviders {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			providers = append(providers, p)
		}
	}
	c.LookupProviders = providers
	return nil
}

// Save writes the configuration to path.
func (c *Config) Save(path string) error {
	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("%w: %v", common.ErrConfigSave, err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrConfigSave, err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("%w: %v", common.ErrConfigSave, err)
	}
	return nil
}

// Overrides holds values given on the command line. Nil fields are unset.
type Overrides struct {
	EnabledString  *string
	EnabledColor   *string
	DisabledString *string
	DisabledColor  *string
	SplitString    *string
	OfflineString  *string
	Lookup         bool
}

// Apply layers the overrides on top of c.
func (o Overrides) Apply(c *Config) {
	if o.EnabledString != nil {
		c.EnabledString = o.EnabledString
	}
	if o.EnabledColor != nil {
		c.EnabledStyle = withColor(c.EnabledStyle, *o.EnabledColor)
	}
	if o.DisabledString != nil {
		c.DisabledString = o.DisabledString
	}
	if o.DisabledColor != nil {
		c.DisabledStyle = withColor(c.DisabledStyle, *o.DisabledColor)
	}
	if o.SplitString != nil {
		c.SplitTunnelString = o.SplitString
	}
	if o.OfflineString != nil {
		c.OfflineString = o.OfflineString
	}
	if o.Lookup {
		c.Lookup = true
	}
}

// withColor returns a copy of spec with its color replaced, keeping the formats.
func withColor(spec *style.Spec, color string) *style.Spec {
	if spec == nil {
		return style.New(color)
	}
	cp := *spec
	cp.Color = color
	return &cp
}
