package canvas

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// CheckChar reports whether r may be stored in a cell. Space-like runes
// (tab, no-break and typographic spaces) are returned as a plain space.
// Control, zero-width, combining and bidi control runes are rejected.
func CheckChar(r rune) (rune, bool) {
	switch {
	case r == ' ', r == '\t', r == 0x00A0, r == 0x1680, r == 0x180E,
		r >= 0x2000 && r <= 0x200A, r == 0x202F, r == 0x205F, r == 0x3000:
		return ' ', true
	case r <= 0x1F:
		return 0, false
	case r == 0x7F, r == 0x81, r == 0x8D, r == 0x8F, r == 0x90, r == 0x9D:
		return 0, false
	case r >= 0x0300 && r <= 0x036F:
		return 0, false
	case r >= 0x200B && r <= 0x200F, r == 0xFEFF, r >= 0xFE00 && r <= 0xFE0F:
		return 0, false
	case r >= 0x202A && r <= 0x202E, r >= 0x2066 && r <= 0x2069:
		return 0, false
	case r >= 0xD800 && r <= 0xDFFF:
		return 0, false
	}
	return r, true
}

// NormalizeText drops every rune CheckChar rejects and maps space-like
// runes to a plain space.
func NormalizeText(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range text {
		if c, ok := CheckChar(r); ok {
			sb.WriteRune(c)
		}
	}
	return sb.String()
}

// MeasureText returns the display width of a string in terminal cells.
func MeasureText(text string) int {
	return runewidth.StringWidth(text)
}

// GlyphWidth returns the number of terminal cells r occupies when displayed.
func GlyphWidth(r rune) int {
	return runewidth.RuneWidth(r)
}
