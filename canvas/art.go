package canvas

import (
	"fmt"
	"threea/core"
	"time"
)

// DefaultDelay is the frame delay used when neither the frame nor the art
// sets one.
const DefaultDelay = 50 * time.Millisecond

// Block is a named block of free text kept verbatim from a 3a file.
type Block struct {
	Name    string
	Content string
}

// Art is an animation: an ordered sequence of frames sharing one palette.
//
// Every color reference of every cell is a valid index into the palette.
// The frames of an art check the references they are given, so the frames
// returned by Frame and Frames can be edited directly. Art is not safe for
// concurrent mutation.
type Art struct {
	Header

	palette *Palette

	// Delay is the global frame delay. Zero means DefaultDelay.
	Delay time.Duration

	// Attach is the content of the @attach block, if any.
	Attach string

	// Extra holds unrecognized blocks in file order.
	Extra []Block

	frames []*Frame
}

// New creates an art of count blank frames of the given size with an
// empty palette. count may be zero.
func New(count, width, height int) (*Art, error) {
	a := Empty()
	for i := 0; i < count; i++ {
		f, err := NewFrame(width, height)
		if err != nil {
			return nil, err
		}
		a.frames = append(a.frames, a.attach(f))
	}
	return a, nil
}

// Empty returns an art without frames.
func Empty() *Art {
	return &Art{
		Header:  Header{Preview: NoPreview},
		palette: NewPalette(),
	}
}

// Palette returns the color palette shared by all frames. Entries can be
// added but never removed.
func (a *Art) Palette() *Palette {
	if a.palette == nil {
		a.palette = NewPalette()
	}
	return a.palette
}

// attach makes f check its colors against the palette of a.
func (a *Art) attach(f *Frame) *Frame {
	f.palette = a.Palette()
	return f
}

// FrameCount returns the number of frames.
func (a *Art) FrameCount() int {
	return len(a.frames)
}

// Frame returns frame i for reading or editing.
func (a *Art) Frame(i int) (*Frame, error) {
	if i < 0 || i >= len(a.frames) {
		return nil, fmt.Errorf("%w: %d (art has %d frames)", core.ErrFrameOutOfRange, i, len(a.frames))
	}
	return a.frames[i], nil
}

// Frames returns the frames in order. The slice is a copy; the frames are not.
func (a *Art) Frames() []*Frame {
	out := make([]*Frame, len(a.frames))
	copy(out, a.frames)
	return out
}

// AddFrame appends f and returns its index. f must only reference colors
// the palette holds. A frame that already belongs to an art is copied.
func (a *Art) AddFrame(f *Frame) (int, error) {
	if f == nil {
		return 0, fmt.Errorf("%w: nil frame", core.ErrInvalidSize)
	}
	if err := a.checkFrameColors(f); err != nil {
		return 0, err
	}
	if f.palette != nil {
		f = f.Clone()
	}
	a.frames = append(a.frames, a.attach(f))
	return len(a.frames) - 1, nil
}

// DupFrame inserts a copy of frame i right after it.
func (a *Art) DupFrame(i int) error {
	f, err := a.Frame(i)
	if err != nil {
		return err
	}
	a.frames = append(a.frames, nil)
	copy(a.frames[i+2:], a.frames[i+1:])
	a.frames[i+1] = a.attach(f.Clone())
	return nil
}

// RemoveFrame deletes frame i. The removed frame becomes detached.
func (a *Art) RemoveFrame(i int) error {
	f, err := a.Frame(i)
	if err != nil {
		return err
	}
	f.palette = nil
	a.frames = append(a.frames[:i], a.frames[i+1:]...)
	return nil
}

// Print writes text into frame at (x, y), clipping at the frame edges.
// override decides the color of every written cell. A failed call leaves
// the art unchanged.
func (a *Art) Print(frame, x, y int, text string, override core.ColorOverride) error {
	f, err := a.Frame(frame)
	if err != nil {
		return err
	}
	_, err = f.Print(x, y, text, override)
	return err
}

// SetCell stores cell at p in frame. Unlike Frame.Set it also normalizes
// the glyph and rejects glyphs CheckChar refuses.
func (a *Art) SetCell(frame int, p core.Point, cell core.Cell) error {
	f, err := a.Frame(frame)
	if err != nil {
		return err
	}
	if cell.Glyph == 0 {
		cell.Glyph = ' '
	}
	g, ok := CheckChar(cell.Glyph)
	if !ok {
		return fmt.Errorf("%w: %U", core.ErrDisallowedChar, cell.Glyph)
	}
	cell.Glyph = g
	return f.Set(p, cell)
}

// GlobalDelay returns the effective global delay.
func (a *Art) GlobalDelay() time.Duration {
	if a.Delay <= 0 {
		return DefaultDelay
	}
	return a.Delay
}

// FrameDelay returns how long frame i is shown.
func (a *Art) FrameDelay(i int) time.Duration {
	if i >= 0 && i < len(a.frames) && a.frames[i].Delay > 0 {
		return a.frames[i].Delay
	}
	return a.GlobalDelay()
}

// Duration returns the total length of one loop of the animation.
func (a *Art) Duration() time.Duration {
	var total time.Duration
	for i := range a.frames {
		total += a.FrameDelay(i)
	}
	return total
}

// Colored reports whether the art carries color data: the explicit colors
// flag if set, otherwise whether any cell is colored.
func (a *Art) Colored() bool {
	if a.Colors.IsSet() {
		return a.Colors.Value(false)
	}
	for _, f := range a.frames {
		if f.Colored() {
			return true
		}
	}
	return false
}

// Size returns the dimensions of the first frame, or zero without frames.
func (a *Art) Size() (width, height int) {
	if len(a.frames) == 0 {
		return 0, 0
	}
	return a.frames[0].Size()
}

// MaxSize returns the largest width and height over all frames.
func (a *Art) MaxSize() (width, height int) {
	for _, f := range a.frames {
		w, h := f.Size()
		width = max(width, w)
		height = max(height, h)
	}
	return width, height
}

// CheckColors verifies that every cell references an existing palette
// entry. It returns an error wrapping ErrInvalidColorIndex otherwise.
func (a *Art) CheckColors() error {
	for i, f := range a.frames {
		if err := a.checkFrameColors(f); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}
	return nil
}

func (a *Art) checkFrameColors(f *Frame) error {
	for y, row := range f.cells {
		for x, cell := range row {
			if i, ok := cell.Color.Index(); ok && i >= a.Palette().Len() {
				return fmt.Errorf("%w: %d at (%d,%d)", core.ErrInvalidColorIndex, i, x, y)
			}
		}
	}
	return nil
}

// Clone returns a deep copy of the art.
func (a *Art) Clone() *Art {
	c := &Art{
		Header:  a.Header.clone(),
		palette: a.Palette().Clone(),
		Delay:   a.Delay,
		Attach:  a.Attach,
		Extra:   append([]Block(nil), a.Extra...),
		frames:  make([]*Frame, len(a.frames)),
	}
	for i, f := range a.frames {
		c.frames[i] = c.attach(f.Clone())
	}
	return c
}
