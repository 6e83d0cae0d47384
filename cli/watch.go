package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yllada/vpn-status/common"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// renderFunc produces one status line.
type renderFunc func(ctx context.Context) (string, error)

// statusMsg carries the result of one render.
type statusMsg struct {
	output string
	err    error
	at     time.Time
}

// tickMsg schedules the next refresh. Ticks from an older generation are
// dropped so a manual refresh never leaves a second timer running.
type tickMsg struct {
	gen int
	at  time.Time
}

// watchModel is the bubbletea model of the watch command. At most one
// refresh is in flight at any time.
type watchModel struct {
	ctx      context.Context
	render   renderFunc
	interval time.Duration
	spinner  spinner.Model

	output   string
	err      error
	updated  time.Time
	loading  bool
	quitting bool
	gen      int
}

func newWatchModel(ctx context.Context, render renderFunc, interval time.Duration) watchModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return watchModel{
		ctx:      ctx,
		render:   render,
		interval: interval,
		spinner:  s,
		loading:  true,
	}
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.refresh())
}

// refresh renders the status in a command.
func (m watchModel) refresh() tea.Cmd {
	ctx, render := m.ctx, m.render
	return func() tea.Msg {
		out, err := render(ctx)
		return statusMsg{output: out, err: err, at: time.Now()}
	}
}

// tick schedules the next refresh for the current generation.
func (m watchModel) tick() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg{gen: gen, at: t} })
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "r":
			if m.loading {
				return m, nil
			}
			m.loading = true
			m.gen++
			return m, m.refresh()
		}

	case statusMsg:
		m.loading = false
		m.updated = msg.at
		m.err = msg.err
		if msg.err == nil {
			m.output = msg.output
		} else {
			common.LogDebug("watch refresh failed: %v", msg.err)
		}
		m.gen++
		return m, m.tick()

	case tickMsg:
		if m.loading || msg.gen != m.gen {
			return m, nil
		}
		m.loading = true
		return m, m.refresh()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m watchModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("VPN status"))
	if m.loading {
		b.WriteString(" " + m.spinner.View())
	}
	b.WriteString("\n\n  ")

	switch {
	case m.output != "":
		b.WriteString(m.output)
	case m.err == nil:
		b.WriteString(dimStyle.Render("checking..."))
	}
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString("  " + errStyle.Render("error: "+m.err.Error()) + "\n")
	}
	if !m.updated.IsZero() {
		b.WriteString(dimStyle.Render(fmt.Sprintf("\n  updated %s, every %s", m.updated.Format("15:04:05"), m.interval)))
	}
	b.WriteString(dimStyle.Render("\n  r refresh • q quit") + "\n")
	return b.String()
}

func newWatchCmd(a *app) *cobra.Command {
	var (
		interval time.Duration
		noStyle  bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Show the VPN status live",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval <= 0 {
				return fmt.Errorf("interval must be positive, got %s", interval)
			}
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			reporter := a.reporter(cfg)
			render := func(ctx context.Context) (string, error) {
				return reporter.StatusString(ctx, cfg, noStyle)
			}

			p := tea.NewProgram(
				newWatchModel(cmd.Context(), render, interval),
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			_, err = p.Run()
			return err
		},
	}
	cmd.Flags().DurationVarP(&interval, "interval", "i", common.WatchInterval, "refresh interval")
	cmd.Flags().BoolVarP(&noStyle, "no-style", "n", false, "show the status without colors or styles")
	return cmd
}
