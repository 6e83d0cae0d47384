package cli

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countingRender(calls *int, out string, err error) renderFunc {
	return func(context.Context) (string, error) {
		*calls++
		return out, err
	}
}

func TestWatchModel_RefreshCycle(t *testing.T) {
	var calls int
	m := newWatchModel(context.Background(), countingRender(&calls, "enabled", nil), time.Second)
	require.True(t, m.loading)
	assert.Contains(t, m.View(), "checking...")

	msg := m.refresh()()
	require.IsType(t, statusMsg{}, msg)
	assert.Equal(t, 1, calls)

	next, cmd := m.Update(msg)
	m = next.(watchModel)
	assert.False(t, m.loading)
	assert.Equal(t, "enabled", m.output)
	assert.NotNil(t, cmd, "a tick must be scheduled")
	assert.Contains(t, m.View(), "enabled")
	assert.Contains(t, m.View(), "updated")

	next, cmd = m.Update(tickMsg{gen: m.gen, at: time.Now()})
	m = next.(watchModel)
	assert.True(t, m.loading)
	require.NotNil(t, cmd)
}

func TestWatchModel_NoConcurrentRefresh(t *testing.T) {
	var calls int
	m := newWatchModel(context.Background(), countingRender(&calls, "enabled", nil), time.Second)

	next, cmd := m.Update(tickMsg{gen: m.gen, at: time.Now()})
	assert.Nil(t, cmd, "tick while loading must not start another refresh")
	m = next.(watchModel)

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	assert.Nil(t, cmd)
	assert.Zero(t, calls)
}

func TestWatchModel_ManualRefresh(t *testing.T) {
	var calls int
	m := newWatchModel(context.Background(), countingRender(&calls, "disabled", nil), time.Second)
	m.loading = false

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	m = next.(watchModel)
	assert.True(t, m.loading)
	require.NotNil(t, cmd)

	msg := cmd()
	assert.Equal(t, "disabled", msg.(statusMsg).output)
	assert.Equal(t, 1, calls)
}

func TestWatchModel_ManualRefreshDropsPendingTick(t *testing.T) {
	var calls int
	m := newWatchModel(context.Background(), countingRender(&calls, "enabled", nil), time.Second)

	next, _ := m.Update(m.refresh()())
	m = next.(watchModel)
	pending := tickMsg{gen: m.gen, at: time.Now()}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	m = next.(watchModel)
	require.NotNil(t, cmd)
	next, _ = m.Update(cmd())
	m = next.(watchModel)
	require.False(t, m.loading)
	assert.Equal(t, 2, calls)

	next, cmd = m.Update(pending)
	m = next.(watchModel)
	assert.Nil(t, cmd, "tick scheduled before the manual refresh must be dropped")
	assert.False(t, m.loading)

	next, cmd = m.Update(tickMsg{gen: m.gen, at: time.Now()})
	m = next.(watchModel)
	require.NotNil(t, cmd)
	assert.True(t, m.loading)
	cmd()
	assert.Equal(t, 3, calls)
}

func TestWatchModel_ErrorKeepsLastOutput(t *testing.T) {
	m := newWatchModel(context.Background(), nil, time.Second)
	next, _ := m.Update(statusMsg{output: "enabled", at: time.Now()})
	m = next.(watchModel)

	next, _ = m.Update(statusMsg{err: errors.New("netlink unavailable"), at: time.Now()})
	m = next.(watchModel)

	view := m.View()
	assert.Contains(t, view, "enabled")
	assert.Contains(t, view, "netlink unavailable")
}

func TestWatchModel_Quit(t *testing.T) {
	m := newWatchModel(context.Background(), nil, time.Second)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, "", next.View())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
