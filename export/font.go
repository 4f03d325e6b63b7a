package export

import (
	"fmt"
	"strconv"
	"threea/core"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// FontMetrics describes the monospace font an SVG is laid out for.
type FontMetrics interface {
	// CellSize returns the size of one cell in pixels.
	CellSize() (width, height int)
	// Offset returns where a glyph starts inside its cell.
	Offset() (x, y int)
	// GlyphWidth returns the advance of r in pixels.
	GlyphWidth(r rune) (int, error)
	// Style returns the CSS rules for text elements.
	Style() string
}

// Font is a FontMetrics with fixed cell metrics.
type Font struct {
	Family  string
	Size    int
	Width   int
	Height  int
	OffsetX int
	OffsetY int
}

// DefaultFont returns 20px Courier New on a 12x20 cell.
func DefaultFont() Font {
	return Font{
		Family:  "Courier New",
		Size:    20,
		Width:   12,
		Height:  20,
		OffsetX: 0,
		OffsetY: 2,
	}
}

func (f Font) CellSize() (width, height int) {
	return f.Width, f.Height
}

func (f Font) Offset() (x, y int) {
	return f.OffsetX, f.OffsetY
}

// GlyphWidth returns the cell width times the number of terminal columns
// r occupies. Zero width runes are given one column.
func (f Font) GlyphWidth(r rune) (int, error) {
	if r == utf8.RuneError || !utf8.ValidRune(r) {
		return 0, fmt.Errorf("%w: no metrics for %U", core.ErrDisallowedChar, r)
	}
	return max(runewidth.RuneWidth(r), 1) * f.Width, nil
}

func (f Font) Style() string {
	return "text { font-family: " + strconv.Quote(escapeXML(f.Family)) + ", monospace; font-size:" + strconv.Itoa(f.Size) + "px; }"
}
