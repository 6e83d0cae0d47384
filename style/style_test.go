package style

import (
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yllada/vpn-status/common"
)

// forceColor turns escape sequences on for the duration of a test.
func forceColor(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	SetEnabled(true)
	t.Cleanup(func() { color.NoColor = prev })
}

func TestParseTag(t *testing.T) {
	tests := []struct {
		input string
		want  Tag
	}{
		{"clear", Clear},
		{"bold", Bold},
		{"dimmed", Dimmed},
		{"underline", Underline},
		{"reversed", Reversed},
		{"italic", Italic},
		{"blink", Blink},
		{"hidden", Hidden},
		{"strikethrough", Strikethrough},
		{"  BOLD ", Bold},
		{"Underline", Underline},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTag(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTag_Unknown(t *testing.T) {
	_, err := ParseTag("unknown")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrStyle)
}

func TestResolveTags(t *testing.T) {
	tags, err := ResolveTags([]string{"bold", "underline"})
	require.NoError(t, err)
	assert.Equal(t, []Tag{Bold, Underline}, tags)
}

func TestResolveTags_Empty(t *testing.T) {
	_, err := ResolveTags(nil)
	assert.ErrorIs(t, err, common.ErrStyle)

	_, err = ResolveTags([]string{})
	assert.ErrorIs(t, err, common.ErrStyle)
}

func TestResolveTags_DropsUnknown(t *testing.T) {
	tags, err := ResolveTags([]string{"unknown"})
	require.NoError(t, err)
	assert.Empty(t, tags)

	tags, err = ResolveTags([]string{"italic", "sparkly", "bold"})
	require.NoError(t, err)
	assert.Equal(t, []Tag{Italic, Bold}, tags)
}

func TestTag_String(t *testing.T) {
	assert.Equal(t, "strikethrough", Strikethrough.String())
	assert.Equal(t, "clear", Clear.String())
	assert.Equal(t, "unknown", Tag(42).String())
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		input string
		want  color.Attribute
		ok    bool
	}{
		{"red", color.FgRed, true},
		{"Green", color.FgGreen, true},
		{"purple", color.FgMagenta, true},
		{"bright red", color.FgHiRed, true},
		{"bright_blue", color.FgHiBlue, true},
		{"bright-cyan", color.FgHiCyan, true},
		{"  bright   white ", color.FgHiWhite, true},
		{"chartreuse", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseColor(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestApply(t *testing.T) {
	forceColor(t)

	out := Apply("on", []string{"bold", "underline"}, "red")
	assert.True(t, strings.HasPrefix(out, "\x1b[1;4;31m"), "got %q", out)
	assert.Contains(t, out, "on")
}

func TestApply_ClearIsNoop(t *testing.T) {
	forceColor(t)

	assert.Equal(t, "plain", Apply("plain", []string{"clear"}, ""))
}

func TestApply_UnknownColorLeavesTextUncolored(t *testing.T) {
	forceColor(t)

	assert.Equal(t, "text", Apply("text", nil, "chartreuse"))

	out := Apply("text", []string{"italic"}, "chartreuse")
	assert.True(t, strings.HasPrefix(out, "\x1b[3m"), "got %q", out)
}

func TestApply_Disabled(t *testing.T) {
	prev := color.NoColor
	SetEnabled(false)
	t.Cleanup(func() { color.NoColor = prev })

	assert.False(t, Enabled())
	assert.Equal(t, "off", Apply("off", []string{"bold"}, "green"))
}

func TestSpec_Apply(t *testing.T) {
	forceColor(t)

	var nilSpec *Spec
	assert.Equal(t, "x", nilSpec.Apply("x"))

	out := New("green").Apply("x")
	assert.True(t, strings.HasPrefix(out, "\x1b[32m"), "got %q", out)

	spec := &Spec{Color: "blue", Format: []string{"dimmed"}}
	out = spec.Apply("x")
	assert.True(t, strings.HasPrefix(out, "\x1b[2;34m"), "got %q", out)
}
