package canvas

import (
	"fmt"
	"strings"
	"threea/core"
	"time"
)

// Frame is one still picture of an art: a fixed-size grid of cells plus a
// display delay.
//
// Coordinate System:
//   - Origin (0,0) is top-left
//   - X increases rightward
//   - Y increases downward
//   - All coordinates are in character cells
//
// Performance Characteristics:
//   - Get/Set: O(1)
//   - Print: O(len(text))
//   - String/Fill/Shift/Clone: O(width × height)
//
// A frame that belongs to an art checks every color reference it is given
// against the art's palette and refuses unknown indices. A detached frame,
// from NewFrame or Clone, accepts any index until it is added to an art.
//
// Frame is not safe for concurrent writes; callers serialize access.
type Frame struct {
	cells  [][]core.Cell
	width  int
	height int

	// palette is the owning art's palette, nil while detached.
	palette *Palette

	// Delay is how long the frame is shown. Zero means the art's global delay.
	Delay time.Duration
}

// NewFrame creates a blank frame with the given dimensions.
func NewFrame(width, height int) (*Frame, error) {
	if width <= 0 || height <= 0 {
		return nil, core.ErrInvalidSize
	}
	return &Frame{cells: blankCells(width, height), width: width, height: height}, nil
}

func blankCells(width, height int) [][]core.Cell {
	cells := make([][]core.Cell, height)
	for y := range cells {
		cells[y] = make([]core.Cell, width)
		for x := range cells[y] {
			cells[y][x].Glyph = ' '
		}
	}
	return cells
}

// Size returns the width and height of the frame.
func (f *Frame) Size() (width, height int) {
	return f.width, f.height
}

// Cells returns a copy of the cell rows.
func (f *Frame) Cells() [][]core.Cell {
	return f.Clone().cells
}

// Row returns a copy of row y, or nil if y is out of range.
func (f *Frame) Row(y int) []core.Cell {
	if y < 0 || y >= f.height {
		return nil
	}
	row := make([]core.Cell, f.width)
	copy(row, f.cells[y])
	return row
}

func (f *Frame) inBounds(p core.Point) bool {
	return p.X >= 0 && p.X < f.width && p.Y >= 0 && p.Y < f.height
}

// checkColor rejects a reference the owning palette does not hold.
func (f *Frame) checkColor(ref core.ColorRef) error {
	i, ok := ref.Index()
	if !ok || f.palette == nil {
		return nil
	}
	_, err := f.palette.Get(i)
	return err
}

// Get returns the cell at p. Out of range positions return a blank cell.
func (f *Frame) Get(p core.Point) core.Cell {
	if !f.inBounds(p) {
		return core.Cell{Glyph: ' '}
	}
	return f.cells[p.Y][p.X]
}

// Set stores cell at p. Returns ErrOutOfBounds if p is outside the frame
// and ErrIndexOutOfRange if the owning palette lacks the cell's color.
func (f *Frame) Set(p core.Point, cell core.Cell) error {
	if !f.inBounds(p) {
		return core.ErrOutOfBounds
	}
	if err := f.checkColor(cell.Color); err != nil {
		return err
	}
	f.cells[p.Y][p.X] = cell
	return nil
}

// Print writes text left to right starting at (x, y), one rune per cell,
// and applies override to the color of each written cell. Runes rejected
// by CheckChar are skipped without consuming a cell. Anything outside the
// frame is clipped. Print returns the number of cells written; an override
// naming an unknown color writes nothing.
func (f *Frame) Print(x, y int, text string, override core.ColorOverride) (int, error) {
	if i, ok := override.Index(); ok {
		if err := f.checkColor(core.Ref(i)); err != nil {
			return 0, err
		}
	}
	if y < 0 || y >= f.height {
		return 0, nil
	}

	written := 0
	col := x
	for _, r := range text {
		if col >= f.width {
			break
		}
		glyph, ok := CheckChar(r)
		if !ok {
			continue
		}
		if col >= 0 {
			cell := &f.cells[y][col]
			cell.Glyph = glyph
			cell.Color = override.Apply(cell.Color)
			written++
		}
		col++
	}

	return written, nil
}

// Fill sets every cell to cell.
func (f *Frame) Fill(cell core.Cell) error {
	return f.FillArea(0, 0, f.width, f.height, cell)
}

// FillArea sets the cells of the width×height rectangle at (x, y) to
// cell. The rectangle is clipped to the frame.
func (f *Frame) FillArea(x, y, width, height int, cell core.Cell) error {
	if err := f.checkColor(cell.Color); err != nil {
		return err
	}
	for row := max(y, 0); row < min(y+height, f.height); row++ {
		for col := max(x, 0); col < min(x+width, f.width); col++ {
			f.cells[row][col] = cell
		}
	}
	return nil
}

// FillText replaces every glyph with glyph and keeps the colors.
func (f *Frame) FillText(glyph rune) error {
	g, ok := CheckChar(glyph)
	if !ok {
		return fmt.Errorf("%w: %U", core.ErrDisallowedChar, glyph)
	}
	for y := range f.cells {
		for x := range f.cells[y] {
			f.cells[y][x].Glyph = g
		}
	}
	return nil
}

// FillColor replaces every color with ref and keeps the glyphs.
func (f *Frame) FillColor(ref core.ColorRef) error {
	if err := f.checkColor(ref); err != nil {
		return err
	}
	for y := range f.cells {
		for x := range f.cells[y] {
			f.cells[y][x].Color = ref
		}
	}
	return nil
}

// Clear resets the frame to uncolored spaces.
func (f *Frame) Clear() {
	f.Fill(core.Cell{Glyph: ' '})
}

// Shift moves the content dx cells right and dy cells down. Negative
// offsets move left and up. Content pushed past an edge is lost and the
// uncovered cells are set to fill.
func (f *Frame) Shift(dx, dy int, fill core.Cell) error {
	if err := f.checkColor(fill.Color); err != nil {
		return err
	}
	cells := make([][]core.Cell, f.height)
	for y := range cells {
		cells[y] = make([]core.Cell, f.width)
		for x := range cells[y] {
			src := core.Point{X: x - dx, Y: y - dy}
			if f.inBounds(src) {
				cells[y][x] = f.cells[src.Y][src.X]
			} else {
				cells[y][x] = fill
			}
		}
	}
	f.cells = cells
	return nil
}

// Crop keeps the part of the frame inside the width×height rectangle at
// (x, y). Returns ErrInvalidSize if nothing of the frame would remain.
func (f *Frame) Crop(x, y, width, height int) error {
	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+width, f.width), min(y+height, f.height)
	if x1 <= x0 || y1 <= y0 {
		return fmt.Errorf("%w: crop %dx%d at (%d,%d) of a %dx%d frame",
			core.ErrInvalidSize, width, height, x, y, f.width, f.height)
	}
	cells := make([][]core.Cell, y1-y0)
	for row := range cells {
		cells[row] = make([]core.Cell, x1-x0)
		copy(cells[row], f.cells[y0+row][x0:x1])
	}
	f.cells, f.width, f.height = cells, x1-x0, y1-y0
	return nil
}

// CopyText replaces the glyphs of f with those of src, which must have
// the same size.
func (f *Frame) CopyText(src *Frame) error {
	if err := f.sameSize(src); err != nil {
		return err
	}
	for y := range f.cells {
		for x := range f.cells[y] {
			f.cells[y][x].Glyph = src.cells[y][x].Glyph
		}
	}
	return nil
}

// CopyColors replaces the colors of f with those of src, which must have
// the same size. Nothing changes if src uses a color f cannot hold.
func (f *Frame) CopyColors(src *Frame) error {
	if err := f.sameSize(src); err != nil {
		return err
	}
	for _, row := range src.cells {
		for _, cell := range row {
			if err := f.checkColor(cell.Color); err != nil {
				return err
			}
		}
	}
	for y := range f.cells {
		for x := range f.cells[y] {
			f.cells[y][x].Color = src.cells[y][x].Color
		}
	}
	return nil
}

func (f *Frame) sameSize(g *Frame) error {
	if f.width != g.width || f.height != g.height {
		return fmt.Errorf("%w: %dx%d and %dx%d", core.ErrDimensionMismatch, g.width, g.height, f.width, f.height)
	}
	return nil
}

// Equal reports whether f and g have the same size and cells. Delays are
// not compared.
func (f *Frame) Equal(g *Frame) bool {
	return f.sameText(g) && f.sameColors(g)
}

func (f *Frame) sameText(g *Frame) bool {
	if f.sameSize(g) != nil {
		return false
	}
	for y, row := range f.cells {
		for x, cell := range row {
			if cell.Glyph != g.cells[y][x].Glyph {
				return false
			}
		}
	}
	return true
}

func (f *Frame) sameColors(g *Frame) bool {
	if f.sameSize(g) != nil {
		return false
	}
	for y, row := range f.cells {
		for x, cell := range row {
			if cell.Color != g.cells[y][x].Color {
				return false
			}
		}
	}
	return true
}

// Colored reports whether any cell has a color reference.
func (f *Frame) Colored() bool {
	for _, row := range f.cells {
		for _, cell := range row {
			if cell.Color.IsSet() {
				return true
			}
		}
	}
	return false
}

// Clone returns a detached deep copy of the frame.
func (f *Frame) Clone() *Frame {
	cells := make([][]core.Cell, f.height)
	for y := range f.cells {
		cells[y] = make([]core.Cell, f.width)
		copy(cells[y], f.cells[y])
	}
	return &Frame{cells: cells, width: f.width, height: f.height, Delay: f.Delay}
}

// String returns the glyphs of the frame, rows separated by newlines.
func (f *Frame) String() string {
	var sb strings.Builder
	sb.Grow(f.height * (f.width + 1))

	for y, row := range f.cells {
		for _, cell := range row {
			sb.WriteRune(cell.Rune())
		}
		if y < f.height-1 {
			sb.WriteRune('\n')
		}
	}

	return sb.String()
}
