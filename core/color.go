package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ColorKind selects which fields of a Color are meaningful.
type ColorKind uint8

const (
	// KindNone is the terminal default color.
	KindNone ColorKind = iota
	// Kind4 is one of the eight base ANSI colors, optionally bright.
	Kind4
	// Kind256 is an entry of the xterm 256 color palette.
	Kind256
	// KindRGB is a 24-bit color.
	KindRGB
)

// Base ANSI colors used by Color4.
const (
	Black uint8 = iota
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
)

var color4Names = [8]string{"black", "red", "green", "yellow", "blue", "magenta", "cyan", "white"}

// Color is a single foreground or background color. The zero value is the
// terminal default. Colors are comparable and compare structurally.
type Color struct {
	Kind    ColorKind
	Index   uint8 // base color for Kind4, palette entry for Kind256
	Bright  bool
	R, G, B uint8
}

// Color4 returns a base ANSI color.
func Color4(base uint8, bright bool) Color {
	return Color{Kind: Kind4, Index: base & 7, Bright: bright}
}

// Color256 returns an xterm palette color.
func Color256(n uint8) Color {
	return Color{Kind: Kind256, Index: n}
}

// RGB returns a 24-bit color.
func RGB(r, g, b uint8) Color {
	return Color{Kind: KindRGB, R: r, G: g, B: b}
}

// IsNone reports whether c is the terminal default.
func (c Color) IsNone() bool {
	return c.Kind == KindNone
}

// String returns the textual form used by the 3a format: a color name,
// a decimal 256-color index or six hex digits. The default color is "".
func (c Color) String() string {
	switch c.Kind {
	case Kind4:
		if c.Bright {
			return "bright-" + color4Names[c.Index&7]
		}
		return color4Names[c.Index&7]
	case Kind256:
		return strconv.Itoa(int(c.Index))
	case KindRGB:
		return strings.TrimPrefix(c.colorful().Hex(), "#")
	default:
		return ""
	}
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// ANSI returns the SGR escape sequence selecting c as foreground or background.
func (c Color) ANSI(foreground bool) string {
	switch c.Kind {
	case Kind4:
		code := 30
		if !foreground {
			code = 40
		}
		if c.Bright {
			code += 60
		}
		return fmt.Sprintf("\x1b[%dm", code+int(c.Index&7))
	case Kind256:
		if foreground {
			return fmt.Sprintf("\x1b[38;5;%dm", c.Index)
		}
		return fmt.Sprintf("\x1b[48;5;%dm", c.Index)
	case KindRGB:
		if foreground {
			return fmt.Sprintf("\x1b[38;2;%d;%d;%dm", c.R, c.G, c.B)
		}
		return fmt.Sprintf("\x1b[48;2;%d;%d;%dm", c.R, c.G, c.B)
	default:
		if foreground {
			return "\x1b[39m"
		}
		return "\x1b[49m"
	}
}

// ParseColor parses the textual form produced by Color.String. Names are
// case-insensitive; "gray" and "grey" are bright black. Up to three decimal
// digits select a 256-color entry, six hex digits an RGB color.
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "gray", "grey":
		return Color4(Black, true), nil
	}
	name, bright := strings.CutPrefix(s, "bright-")
	for i, n := range color4Names {
		if n == name {
			return Color4(uint8(i), bright), nil
		}
	}
	if len(s) > 0 && len(s) <= 3 {
		if n, err := strconv.ParseUint(s, 10, 8); err == nil {
			return Color256(uint8(n)), nil
		}
	}
	if len(s) == 6 && isHex(s) {
		col, err := colorful.Hex("#" + s)
		if err == nil {
			r, g, b := col.RGB255()
			return RGB(r, g, b), nil
		}
	}
	return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
}

func isHex(s string) bool {
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return false
		}
	}
	return true
}

// ColorPair is a foreground and background color. The zero value is the
// terminal default on both sides.
type ColorPair struct {
	Fg Color
	Bg Color
}

// DefaultPair is the terminal default on both sides.
var DefaultPair = ColorPair{}

// IsDefault reports whether both sides are the terminal default.
func (p ColorPair) IsDefault() bool {
	return p.Fg.IsNone() && p.Bg.IsNone()
}

// Invert swaps foreground and background.
func (p ColorPair) Invert() ColorPair {
	return ColorPair{Fg: p.Bg, Bg: p.Fg}
}

// ANSI returns the foreground sequence followed by the background sequence.
func (p ColorPair) ANSI() string {
	return p.Fg.ANSI(true) + p.Bg.ANSI(false)
}

// String formats the pair as "fg:<color> bg:<color>", leaving out sides
// that are the terminal default.
func (p ColorPair) String() string {
	switch {
	case p.IsDefault():
		return ""
	case p.Fg.IsNone():
		return "bg:" + p.Bg.String()
	case p.Bg.IsNone():
		return "fg:" + p.Fg.String()
	}
	return "fg:" + p.Fg.String() + " bg:" + p.Bg.String()
}

// ParseColorPair parses the form produced by ColorPair.String.
func ParseColorPair(s string) (ColorPair, error) {
	var pair ColorPair
	var haveFg, haveBg bool
	for _, field := range strings.Fields(s) {
		switch {
		case strings.HasPrefix(field, "fg:"):
			if haveFg {
				return ColorPair{}, fmt.Errorf("%w: duplicate fg in %q", ErrInvalidColor, s)
			}
			c, err := ParseColor(field[3:])
			if err != nil {
				return ColorPair{}, err
			}
			pair.Fg, haveFg = c, true
		case strings.HasPrefix(field, "bg:"):
			if haveBg {
				return ColorPair{}, fmt.Errorf("%w: duplicate bg in %q", ErrInvalidColor, s)
			}
			c, err := ParseColor(field[3:])
			if err != nil {
				return ColorPair{}, err
			}
			pair.Bg, haveBg = c, true
		default:
			return ColorPair{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
	}
	return pair, nil
}

const builtinChars = "0123456789abcdef"

// BuiltinPair returns the pair a built-in color char stands for:
// 0-7 are the base colors, 8-f their bright variants, on the default background.
func BuiltinPair(name rune) (ColorPair, bool) {
	i := strings.IndexRune(builtinChars, name)
	if i < 0 {
		return ColorPair{}, false
	}
	return ColorPair{Fg: Color4(uint8(i%8), i >= 8)}, true
}

// BuiltinChar is the inverse of BuiltinPair.
func BuiltinChar(p ColorPair) (rune, bool) {
	if p.Fg.Kind != Kind4 || !p.Bg.IsNone() {
		return 0, false
	}
	i := int(p.Fg.Index & 7)
	if p.Fg.Bright {
		i += 8
	}
	return rune(builtinChars[i]), true
}
