// Package cli provides the command-line interface of vpn-status.
// The root command prints the VPN status for status bars and prompts;
// subcommands inspect interfaces, watch the status, and manage the
// configuration and lookup API keys.
package cli

import (
	"fmt"
	"io"
	"net/netip"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yllada/vpn-status/common"
	"github.com/yllada/vpn-status/config"
	"github.com/yllada/vpn-status/keyring"
	"github.com/yllada/vpn-status/lookup"
	"github.com/yllada/vpn-status/netif"
	"github.com/yllada/vpn-status/style"
	"github.com/yllada/vpn-status/vpn"
)

// BuildInfo carries the build-time version variables.
type BuildInfo struct {
	Version   string
	BuildTime string
	Commit    string
}

// app holds the collaborators shared by all commands.
type app struct {
	build      BuildInfo
	source     netif.Source
	gateway    func() (netip.Addr, error)
	keys       common.CredentialStore
	newLocator func(cfg *config.Config) vpn.Locator
	openEditor func(path string) error

	// persistent flags
	configPath string
	colorMode  string
	verbose    bool
	logFile    bool
}

// newApp wires the system implementations.
func newApp(build BuildInfo) *app {
	a := &app{
		build:      build,
		source:     netif.System{},
		gateway:    netif.DefaultGateway,
		keys:       keyring.New(),
		openEditor: openInEditor,
	}
	a.newLocator = func(cfg *config.Config) vpn.Locator {
		client := lookup.NewClient(a.keys)
		client.UserAgent = common.AppName + "/" + build.Version
		if cache, err := lookup.NewCache(cfg.LookupCacheTTL); err == nil {
			client.Cache = cache
		} else {
			common.LogDebug("Lookup cache disabled: %v", err)
		}
		return client
	}
	return a
}

// Execute runs the root command. It is called by main.main().
func Execute(build BuildInfo) {
	root := newRootCmd(newApp(build))
	err := root.Execute()
	common.CloseLogger()
	if err != nil {
		// Cobra prints the error, we just exit non-zero
		os.Exit(1)
	}
}

// rootOptions are the flags of the status command.
type rootOptions struct {
	noStyle        bool
	enabledString  string
	enabledColor   string
	disabledString string
	disabledColor  string
	splitString    string
	offlineString  string
	lookup         bool
	boolean        bool
	openConfig     bool
}

func newRootCmd(a *app) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   common.AppName,
		Short: "Print whether a VPN is active",
		Long: `vpn-status inspects the network interfaces and prints whether traffic
goes through a VPN tunnel. The output is configurable, can be styled and
can include the location of the public IP address, which makes it suitable
for status bars and shell prompts.`,
		Version: a.build.Version,
		// SilenceUsage is set to true to prevent printing usage message on errors
		// handled by us (e.g. unreadable config, failed interface queries)
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runStatus(cmd, opts)
		},
	}
	cmd.SetVersionTemplate(`{{printf "vpn-status version %s\n" .Version}}`)

	pf := cmd.PersistentFlags()
	pf.StringVarP(&a.configPath, "config-path", "c", "", "configuration file (default ~/.config/vpn-status/config.yaml)")
	pf.StringVar(&a.colorMode, "color", "auto", "when to style output: auto, always or never")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging on stderr")
	pf.BoolVar(&a.logFile, "log-file", false, "also append logs to the log file in the config directory")

	f := cmd.Flags()
	f.BoolVarP(&opts.noStyle, "no-style", "n", false, "print without colors or styles")
	f.StringVarP(&opts.enabledString, "enabled-string", "e", "", "text shown when the VPN is enabled")
	f.StringVar(&opts.enabledColor, "enabled-color", "", "color of the enabled text")
	f.StringVarP(&opts.disabledString, "disabled-string", "d", "", "text shown when the VPN is disabled")
	f.StringVar(&opts.disabledColor, "disabled-color", "", "color of the disabled text")
	f.StringVar(&opts.splitString, "split-string", "", "text shown when only a split tunnel is active")
	f.StringVar(&opts.offlineString, "offline-string", "", "text shown when the network is offline")
	f.BoolVarP(&opts.lookup, "lookup", "l", false, "look up the location of the public IP address")
	f.BoolVarP(&opts.boolean, "boolean", "b", false, "print true or false instead of the status")
	f.BoolVar(&opts.openConfig, "open-config", false, "open the configuration file in an editor")

	cmd.AddCommand(newInterfacesCmd(a))
	cmd.AddCommand(newWatchCmd(a))
	cmd.AddCommand(newConfigCmd(a))
	cmd.AddCommand(newLookupCmd(a))
	cmd.AddCommand(newVersionCmd(a))
	return cmd
}

// setup applies the persistent flags: log level and color mode.
func (a *app) setup() error {
	level := common.LevelWarn
	if a.verbose {
		level = common.LevelDebug
	}
	if err := common.InitLogger(common.LogConfig{Level: level, EnableFile: a.logFile}); err != nil {
		common.LogWarn("Could not initialize file logging: %v", err)
	}

	switch a.colorMode {
	case "always":
		style.SetEnabled(true)
	case "never":
		style.SetEnabled(false)
	case "auto":
		style.SetEnabled(os.Getenv("NO_COLOR") == "" && term.IsTerminal(int(os.Stdout.Fd())))
	default:
		return fmt.Errorf("invalid --color value %q: must be auto, always or never", a.colorMode)
	}
	return nil
}

// loadConfig loads the configuration file named by --config-path.
func (a *app) loadConfig() (*config.Config, error) {
	return config.Load(a.configPath)
}

// resolvedConfigPath returns --config-path or the default location.
func (a *app) resolvedConfigPath() (string, error) {
	if a.configPath != "" {
		return a.configPath, nil
	}
	return config.Path()
}

func (a *app) reporter(cfg *config.Config) vpn.Reporter {
	r := vpn.Reporter{Source: a.source}
	if cfg.Lookup {
		r.Locator = a.newLocator(cfg)
	}
	return r
}

func (a *app) runStatus(cmd *cobra.Command, opts *rootOptions) error {
	if opts.openConfig {
		return a.editConfig(cmd)
	}

	out := cmd.OutOrStdout()
	if opts.boolean {
		enabled, err := vpn.Enabled(a.source)
		if err != nil {
			return err
		}
		_, err = io.WriteString(out, strconv.FormatBool(enabled))
		return err
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	opts.overrides(cmd).Apply(cfg)

	status, err := a.reporter(cfg).StatusString(cmd.Context(), cfg, opts.noStyle)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, status)
	return err
}

// overrides collects the flags that were set explicitly.
func (o *rootOptions) overrides(cmd *cobra.Command) config.Overrides {
	set := func(name, value string) *string {
		if !cmd.Flags().Changed(name) {
			return nil
		}
		return config.String(value)
	}
	return config.Overrides{
		EnabledString:  set("enabled-string", o.enabledString),
		EnabledColor:   set("enabled-color", o.enabledColor),
		DisabledString: set("disabled-string", o.disabledString),
		DisabledColor:  set("disabled-color", o.disabledColor),
		SplitString:    set("split-string", o.splitString),
		OfflineString:  set("offline-string", o.offlineString),
		Lookup:         o.lookup,
	}
}
