package canvas

import (
	"fmt"
	"threea/core"
	"time"
)

// Slice keeps frames from through to-1 and drops the rest.
func (a *Art) Slice(from, to int) error {
	if from < 0 || to > len(a.frames) || from >= to {
		return fmt.Errorf("%w: slice [%d:%d] of %d frames", core.ErrFrameOutOfRange, from, to, len(a.frames))
	}
	for i, f := range a.frames {
		if i < from || i >= to {
			f.palette = nil
		}
	}
	a.frames = append([]*Frame(nil), a.frames[from:to]...)
	return nil
}

// Swap exchanges frames i and j.
func (a *Art) Swap(i, j int) error {
	if _, err := a.Frame(i); err != nil {
		return err
	}
	if _, err := a.Frame(j); err != nil {
		return err
	}
	a.frames[i], a.frames[j] = a.frames[j], a.frames[i]
	return nil
}

// Reverse puts the frames in reverse order.
func (a *Art) Reverse() {
	for i, j := 0, len(a.frames)-1; i < j; i, j = i+1, j-1 {
		a.frames[i], a.frames[j] = a.frames[j], a.frames[i]
	}
}

// Rotate moves every frame n places forward, wrapping around: the last n
// frames become the first ones. A negative n rotates backward.
func (a *Art) Rotate(n int) {
	count := len(a.frames)
	if count == 0 {
		return
	}
	n = ((n % count) + count) % count
	if n == 0 {
		return
	}
	rotated := make([]*Frame, 0, count)
	rotated = append(rotated, a.frames[count-n:]...)
	rotated = append(rotated, a.frames[:count-n]...)
	a.frames = rotated
}

// Dedup merges runs of consecutive frames with equal cells into the first
// frame of each run, which is then shown for the whole run. The duration
// of the animation does not change. Dedup returns the number of frames
// removed.
func (a *Art) Dedup() int {
	if len(a.frames) == 0 {
		return 0
	}
	kept := []*Frame{a.frames[0]}
	delays := []time.Duration{a.FrameDelay(0)}
	merged := []bool{false}
	for i, f := range a.frames[1:] {
		last := len(kept) - 1
		if f.Equal(kept[last]) {
			delays[last] += a.FrameDelay(i + 1)
			merged[last] = true
			f.palette = nil
			continue
		}
		kept = append(kept, f)
		delays = append(delays, a.FrameDelay(i+1))
		merged = append(merged, false)
	}
	for i, f := range kept {
		if merged[i] {
			f.Delay = delays[i]
		}
	}
	removed := len(a.frames) - len(kept)
	a.frames = kept
	return removed
}

// Crop cuts every frame down to the width×height rectangle at (x, y).
// Nothing changes if the rectangle misses any frame entirely.
func (a *Art) Crop(x, y, width, height int) error {
	for i, f := range a.frames {
		if err := f.Clone().Crop(x, y, width, height); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}
	for _, f := range a.frames {
		f.Crop(x, y, width, height)
	}
	return nil
}

// Shift moves the content of every frame dx cells right and dy cells
// down, filling the uncovered cells with fill. See Frame.Shift.
func (a *Art) Shift(dx, dy int, fill core.Cell) error {
	return a.eachFrame(fill.Color, func(f *Frame) error {
		return f.Shift(dx, dy, fill)
	})
}

// Fill sets every cell of every frame to cell.
func (a *Art) Fill(cell core.Cell) error {
	return a.eachFrame(cell.Color, func(f *Frame) error {
		return f.Fill(cell)
	})
}

// FillArea sets the cells of the width×height rectangle at (x, y) to cell
// in every frame.
func (a *Art) FillArea(x, y, width, height int, cell core.Cell) error {
	return a.eachFrame(cell.Color, func(f *Frame) error {
		return f.FillArea(x, y, width, height, cell)
	})
}

// FillText replaces every glyph of every frame with glyph.
func (a *Art) FillText(glyph rune) error {
	if _, ok := CheckChar(glyph); !ok {
		return fmt.Errorf("%w: %U", core.ErrDisallowedChar, glyph)
	}
	return a.eachFrame(core.NoColor, func(f *Frame) error {
		return f.FillText(glyph)
	})
}

// FillColor replaces every color of every frame with ref.
func (a *Art) FillColor(ref core.ColorRef) error {
	return a.eachFrame(ref, func(f *Frame) error {
		return f.FillColor(ref)
	})
}

// eachFrame checks ref once and then applies fn to every frame, so a
// rejected color leaves all frames untouched.
func (a *Art) eachFrame(ref core.ColorRef, fn func(f *Frame) error) error {
	if i, ok := ref.Index(); ok {
		if _, err := a.Palette().Get(i); err != nil {
			return err
		}
	}
	for i, f := range a.frames {
		if err := fn(f); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}
	return nil
}

// PinText copies the glyphs of frame i to every other frame. All frames
// must have the same size.
func (a *Art) PinText(i int) error {
	src, err := a.pinSource(i)
	if err != nil {
		return err
	}
	for _, f := range a.frames {
		f.CopyText(src)
	}
	return nil
}

// PinColor copies the colors of frame i to every other frame. All frames
// must have the same size.
func (a *Art) PinColor(i int) error {
	src, err := a.pinSource(i)
	if err != nil {
		return err
	}
	for _, f := range a.frames {
		f.CopyColors(src)
	}
	return nil
}

func (a *Art) pinSource(i int) (*Frame, error) {
	src, err := a.Frame(i)
	if err != nil {
		return nil, err
	}
	for j, f := range a.frames {
		if err := f.sameSize(src); err != nil {
			return nil, fmt.Errorf("frame %d: %w", j, err)
		}
	}
	return src.Clone(), nil
}

// Pinned reports whether every frame shares the glyphs (text) or the
// colors of the first one. It needs at least two frames of one size.
func (a *Art) Pinned() (text, color bool) {
	if len(a.frames) < 2 {
		return false, false
	}
	first := a.frames[0]
	text, color = true, true
	for _, f := range a.frames[1:] {
		if f.sameSize(first) != nil {
			return false, false
		}
		text = text && f.sameText(first)
		color = color && f.sameColors(first)
		if !text && !color {
			return false, false
		}
	}
	return text, color
}
