// Package style resolves user-supplied style and color names into ANSI
// decorations for the status output.
package style

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/yllada/vpn-status/common"
)

// Tag is a single text decoration.
type Tag int

const (
	Clear Tag = iota
	Bold
	Dimmed
	Underline
	Reversed
	Italic
	Blink
	Hidden
	Strikethrough
)

var tagNames = map[string]Tag{
	"clear":         Clear,
	"bold":          Bold,
	"dimmed":        Dimmed,
	"underline":     Underline,
	"reversed":      Reversed,
	"italic":        Italic,
	"blink":         Blink,
	"hidden":        Hidden,
	"strikethrough": Strikethrough,
}

// String returns the keyword for the tag.
func (t Tag) String() string {
	for name, tag := range tagNames {
		if tag == t {
			return name
		}
	}
	return "unknown"
}

// attribute maps a tag onto its SGR attribute. Clear has none.
func (t Tag) attribute() (color.Attribute, bool) {
	switch t {
	case Bold:
		return color.Bold, true
	case Dimmed:
		return color.Faint, true
	case Underline:
		return color.Underline, true
	case Reversed:
		return color.ReverseVideo, true
	case Italic:
		return color.Italic, true
	case Blink:
		return color.BlinkSlow, true
	case Hidden:
		return color.Concealed, true
	case Strikethrough:
		return color.CrossedOut, true
	default:
		return 0, false
	}
}

// ParseTag converts a single style keyword into a Tag.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParseTag(name string) (Tag, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if tag, ok := tagNames[key]; ok {
		return tag, nil
	}
	return Clear, fmt.Errorf("%w: unknown style: %s", common.ErrStyle, key)
}

// ResolveTags converts style names into tags in input order.
// An empty list is an error; unknown names are dropped.
func ResolveTags(names []string) ([]Tag, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: styles are empty", common.ErrStyle)
	}

	tags := make([]Tag, 0, len(names))
	for _, name := range names {
		tag, err := ParseTag(name)
		if err != nil {
			common.LogDebug("ignoring style %q: %v", name, err)
			continue
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

var colorNames = map[string]color.Attribute{
	"black":   color.FgBlack,
	"red":     color.FgRed,
	"green":   color.FgGreen,
	"yellow":  color.FgYellow,
	"blue":    color.FgBlue,
	"magenta": color.FgMagenta,
	"purple":  color.FgMagenta,
	"cyan":    color.FgCyan,
	"white":   color.FgWhite,

	"bright black":   color.FgHiBlack,
	"bright red":     color.FgHiRed,
	"bright green":   color.FgHiGreen,
	"bright yellow":  color.FgHiYellow,
	"bright blue":    color.FgHiBlue,
	"bright magenta": color.FgHiMagenta,
	"bright purple":  color.FgHiMagenta,
	"bright cyan":    color.FgHiCyan,
	"bright white":   color.FgHiWhite,
}

// ParseColor resolves a color name to a foreground attribute.
// "bright_red", "bright-red" and "Bright Red" are all accepted.
func ParseColor(name string) (color.Attribute, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer("_", " ", "-", " ").Replace(key)
	key = strings.Join(strings.Fields(key), " ")
	attr, ok := colorNames[key]
	return attr, ok
}

// Apply decorates text with the given styles and color.
// It never fails: unresolvable styles are skipped, and an unknown color
// is reported as a warning and left out.
func Apply(text string, names []string, colorName string) string {
	var attrs []color.Attribute

	tags, _ := ResolveTags(names)
	for _, tag := range tags {
		if attr, ok := tag.attribute(); ok {
			attrs = append(attrs, attr)
		}
	}

	if strings.TrimSpace(colorName) != "" {
		if attr, ok := ParseColor(colorName); ok {
			attrs = append(attrs, attr)
		} else {
			common.LogWarn("unknown color %q, leaving text uncolored", colorName)
		}
	}

	if len(attrs) == 0 || text == "" {
		return text
	}
	return color.New(attrs...).Sprint(text)
}

// SetEnabled switches ANSI output on or off for every subsequent Apply.
func SetEnabled(enabled bool) {
	color.NoColor = !enabled
}

// Enabled reports whether Apply currently emits escape sequences.
func Enabled() bool {
	return !color.NoColor
}
