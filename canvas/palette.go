package canvas

import (
	"fmt"
	"threea/core"
)

// Palette is an append-only table of distinct color pairs. Cells refer to
// entries by index, so an index stays valid for the palette's lifetime.
type Palette struct {
	entries []core.ColorPair
}

// NewPalette returns a palette holding pairs, deduplicated in order.
func NewPalette(pairs ...core.ColorPair) *Palette {
	p := &Palette{}
	for _, pair := range pairs {
		p.SearchOrCreate(pair)
	}
	return p
}

// Len returns the number of entries.
func (p *Palette) Len() int {
	return len(p.entries)
}

// Search returns the index of an entry equal to pair.
func (p *Palette) Search(pair core.ColorPair) (int, bool) {
	for i, e := range p.entries {
		if e == pair {
			return i, true
		}
	}
	return 0, false
}

// SearchOrCreate returns the index of an entry equal to pair, appending
// one if none exists.
func (p *Palette) SearchOrCreate(pair core.ColorPair) int {
	if i, ok := p.Search(pair); ok {
		return i
	}
	p.entries = append(p.entries, pair)
	return len(p.entries) - 1
}

// Get returns the entry at index.
func (p *Palette) Get(index int) (core.ColorPair, error) {
	if index < 0 || index >= len(p.entries) {
		return core.ColorPair{}, fmt.Errorf("%w: %d (palette has %d entries)", core.ErrIndexOutOfRange, index, len(p.entries))
	}
	return p.entries[index], nil
}

// Resolve returns the pair a cell color reference stands for; an unset
// reference resolves to the default pair.
func (p *Palette) Resolve(ref core.ColorRef) (core.ColorPair, error) {
	i, ok := ref.Index()
	if !ok {
		return core.DefaultPair, nil
	}
	return p.Get(i)
}

// Entries returns a copy of the entries in index order.
func (p *Palette) Entries() []core.ColorPair {
	out := make([]core.ColorPair, len(p.entries))
	copy(out, p.entries)
	return out
}

// Clone returns an independent copy.
func (p *Palette) Clone() *Palette {
	return &Palette{entries: p.Entries()}
}
