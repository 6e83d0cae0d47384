package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yllada/vpn-status/lookup"
)

func newLookupCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Manage public IP lookup providers",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "providers",
		Short: "List the lookup providers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.listProviders(cmd.OutOrStdout())
		},
	})

	key := &cobra.Command{
		Use:   "key",
		Short: "Manage provider API keys",
	}
	key.AddCommand(&cobra.Command{
		Use:   "set <provider> [key]",
		Short: "Store an API key, prompting for it when omitted",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := keyedProvider(args[0])
			if err != nil {
				return err
			}

			secret := ""
			if len(args) == 2 {
				secret = args[1]
			} else {
				secret, err = readSecret(cmd, fmt.Sprintf("API key for %s: ", p.Name))
				if err != nil {
					return err
				}
			}
			if secret == "" {
				return errors.New("API key cannot be empty")
			}

			if err := a.keys.Store(p.Name, secret); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Stored API key for %s\n", p.Name)
			return nil
		},
	})
	key.AddCommand(&cobra.Command{
		Use:   "delete <provider>",
		Short: "Remove a stored API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := keyedProvider(args[0])
			if err != nil {
				return err
			}
			if err := a.keys.Delete(p.Name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed API key for %s\n", p.Name)
			return nil
		},
	})
	cmd.AddCommand(key)

	return cmd
}

func (a *app) listProviders(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tURL\tAPI KEY\tDEFAULT")
	fmt.Fprintln(w, "----\t---\t-------\t-------")

	defaults := make(map[string]bool)
	for _, name := range lookup.DefaultProviders {
		defaults[name] = true
	}

	for _, p := range lookup.Providers() {
		apiKey := "-"
		if p.KeyParam != "" {
			apiKey = "not set"
			if _, err := a.keys.Get(p.Name); err == nil {
				apiKey = "set"
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Name, p.URL, apiKey, yesNo(defaults[p.Name]))
	}
	return w.Flush()
}

// keyedProvider resolves a provider that accepts an API key.
func keyedProvider(name string) (lookup.Provider, error) {
	p, err := lookup.ParseProvider(name)
	if err != nil {
		return lookup.Provider{}, err
	}
	if p.KeyParam == "" {
		return lookup.Provider{}, fmt.Errorf("provider %s does not take an API key", p.Name)
	}
	return p, nil
}

// readSecret prompts without echo on a terminal and reads one line otherwise.
func readSecret(cmd *cobra.Command, prompt string) (string, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), prompt)
		secret, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(secret)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
