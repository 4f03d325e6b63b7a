package export

import (
	"fmt"
	"strings"
	"threea/core"

	"github.com/gdamore/tcell/v2"
)

// ColorMapper turns a model color into a color literal of the output
// format. foreground tells which side of a pair is being mapped, since the
// default color differs between the two.
type ColorMapper interface {
	MapColor(c core.Color, foreground bool) (string, error)
}

// vgaColors are the CSS values of the 16 base colors, normal then bright.
var vgaColors = [16]string{
	"#000000", "#800000", "#008000", "#808000", "#000080", "#800080", "#008080", "#c0c0c0",
	"#4e4e4e", "#ff0000", "#00ff00", "#ffff00", "#0000ff", "#ff00ff", "#00ffff", "#ffffff",
}

type colorKey struct {
	color      core.Color
	foreground bool
}

// CSSColorMap maps colors to CSS hex literals. Colors without an override
// use a VGA-like table for the 16 base colors, the xterm palette for the
// remaining 256 colors and their own value for RGB colors.
type CSSColorMap struct {
	overrides map[colorKey]string
}

// NewCSSColorMap creates a color map without overrides.
func NewCSSColorMap() *CSSColorMap {
	return &CSSColorMap{overrides: make(map[colorKey]string)}
}

// Set overrides the literal used for c on one side. value is a color name
// known to tcell ("navy", "darkorange") or a "#rrggbb" literal.
func (m *CSSColorMap) Set(c core.Color, foreground bool, value string) error {
	name := sanitizeColor(value)
	tc := tcell.GetColor(name)
	if name == "" || tc == tcell.ColorDefault {
		return fmt.Errorf("%w: unknown color %q", core.ErrInvalidColor, value)
	}
	m.overrides[colorKey{c, foreground}] = fmt.Sprintf("#%06x", tc.Hex())
	return nil
}

// SetSpec applies an override written as "<color>/fg" or "<color>/bg",
// where <color> uses the 3a color syntax and "none" is the default color.
func (m *CSSColorMap) SetSpec(key, value string) error {
	c, foreground, err := ParseColorKey(key)
	if err != nil {
		return err
	}
	return m.Set(c, foreground, value)
}

// ParseColorKey parses the "<color>/fg|bg" form used by SetSpec.
func ParseColorKey(key string) (core.Color, bool, error) {
	name, side, ok := strings.Cut(key, "/")
	if !ok || (side != "fg" && side != "bg") {
		return core.Color{}, false, fmt.Errorf("%w: color key %q must end in /fg or /bg", core.ErrInvalidColor, key)
	}
	if strings.EqualFold(name, "none") {
		return core.Color{}, side == "fg", nil
	}
	c, err := core.ParseColor(name)
	if err != nil {
		return core.Color{}, false, err
	}
	return c, side == "fg", nil
}

// MapColor returns the CSS literal for c.
func (m *CSSColorMap) MapColor(c core.Color, foreground bool) (string, error) {
	if s, ok := m.overrides[colorKey{c, foreground}]; ok {
		return s, nil
	}

	switch c.Kind {
	case core.KindNone:
		if foreground {
			return "#ffffff", nil
		}
		return "#000000", nil
	case core.Kind4:
		i := int(c.Index & 7)
		if c.Bright {
			i += 8
		}
		return vgaColors[i], nil
	case core.Kind256:
		if c.Index < 16 {
			return vgaColors[c.Index], nil
		}
		hex := tcell.PaletteColor(int(c.Index)).Hex()
		if hex < 0 {
			return "", fmt.Errorf("%w: no value for color %d", core.ErrInvalidColor, c.Index)
		}
		return fmt.Sprintf("#%06x", hex), nil
	case core.KindRGB:
		return "#" + c.String(), nil
	}
	return "", fmt.Errorf("%w: kind %d", core.ErrInvalidColor, c.Kind)
}

// sanitizeColor keeps the characters that may appear in a color literal.
func sanitizeColor(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '#', r == '-', r == '_':
			return r
		}
		return -1
	}, strings.TrimSpace(s))
}
