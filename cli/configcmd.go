package cli

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yllada/vpn-status/common"
	"github.com/yllada/vpn-status/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit the configuration file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.resolvedConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration, defaults included",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.resolvedConfigPath()
			if err != nil {
				return err
			}
			if common.FileExists(path) && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite it", path)
			}
			if err := config.DefaultConfig().Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	cmd.AddCommand(initCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "edit",
		Short: "Open the configuration file in an editor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.editConfig(cmd)
		},
	})

	return cmd
}

// editConfig makes sure the file exists and opens it.
func (a *app) editConfig(cmd *cobra.Command) error {
	path, err := a.resolvedConfigPath()
	if err != nil {
		return err
	}
	if !common.FileExists(path) {
		if err := config.DefaultConfig().Save(path); err != nil {
			return err
		}
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Opening configuration file: %s\n", path)
	return a.openEditor(path)
}

// openInEditor opens path with $VISUAL or $EDITOR, falling back to the
// desktop opener.
func openInEditor(path string) error {
	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		switch runtime.GOOS {
		case "darwin":
			editor = "open"
		case "windows":
			editor = "notepad"
		default:
			editor = "xdg-open"
		}
	}

	c := exec.Command(editor, path)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("failed to run %s: %w", editor, err)
	}
	return nil
}
