// Package core contains the fundamental types shared by the art model,
// the codec and the renderers.
package core

import "strconv"

// Point represents a cell coordinate inside a frame.
type Point struct {
	X, Y int
}

// ColorRef is an optional palette index. The zero value means "no color",
// i.e. the cell inherits the terminal default.
type ColorRef uint32

// NoColor is the empty ColorRef.
const NoColor ColorRef = 0

// Ref returns a reference to palette entry index.
func Ref(index int) ColorRef {
	if index < 0 {
		return NoColor
	}
	return ColorRef(index + 1)
}

// Index returns the referenced palette index and whether one is set.
func (r ColorRef) Index() (int, bool) {
	if r == NoColor {
		return 0, false
	}
	return int(r) - 1, true
}

// IsSet reports whether r references a palette entry.
func (r ColorRef) IsSet() bool {
	return r != NoColor
}

// String returns the index or "none".
func (r ColorRef) String() string {
	if i, ok := r.Index(); ok {
		return strconv.Itoa(i)
	}
	return "none"
}

// Cell is one character position of a frame. The zero value is a blank,
// uncolored cell.
type Cell struct {
	Glyph rune
	Color ColorRef
}

// Rune returns the glyph to display, mapping the zero glyph to a space.
func (c Cell) Rune() rune {
	if c.Glyph == 0 {
		return ' '
	}
	return c.Glyph
}

type overrideMode uint8

const (
	overrideKeep overrideMode = iota
	overrideClear
	overrideSet
)

// ColorOverride selects what an edit does to the color of the cells it
// touches: keep it, clear it, or set it to a palette index. The zero value
// keeps colors.
type ColorOverride struct {
	mode  overrideMode
	index int
}

// KeepColor leaves each touched cell's color as it is.
func KeepColor() ColorOverride {
	return ColorOverride{mode: overrideKeep}
}

// ClearColor removes the color of each touched cell.
func ClearColor() ColorOverride {
	return ColorOverride{mode: overrideClear}
}

// SetColor sets each touched cell to palette entry index.
func SetColor(index int) ColorOverride {
	return ColorOverride{mode: overrideSet, index: index}
}

// Index returns the palette index for a SetColor override.
func (o ColorOverride) Index() (int, bool) {
	return o.index, o.mode == overrideSet
}

// Apply returns the color a cell previously colored prev ends up with.
func (o ColorOverride) Apply(prev ColorRef) ColorRef {
	switch o.mode {
	case overrideClear:
		return NoColor
	case overrideSet:
		return Ref(o.index)
	default:
		return prev
	}
}

// String returns "keep", "clear" or "set(i)".
func (o ColorOverride) String() string {
	switch o.mode {
	case overrideClear:
		return "clear"
	case overrideSet:
		return "set(" + strconv.Itoa(o.index) + ")"
	default:
		return "keep"
	}
}
