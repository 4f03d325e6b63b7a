package canvas

import (
	"strconv"
	"strings"
	"threea/core"
)

// PrintANSI writes a line of terminal output into frame at (x, y). SGR
// escape sequences in line update the current foreground and background;
// every printed rune is stored with the matching palette entry, created
// on first use. Other CSI and OSC sequences are skipped. Cells outside
// the frame are clipped.
func (a *Art) PrintANSI(frame, x, y int, line string) error {
	f, err := a.Frame(frame)
	if err != nil {
		return err
	}

	var pair core.ColorPair
	col := x
	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == 0x1b {
			i = skipEscape(runes, i, &pair)
			continue
		}
		glyph, ok := CheckChar(r)
		if !ok {
			continue
		}
		p := core.Point{X: col, Y: y}
		col++
		if !f.inBounds(p) {
			continue
		}
		ref := core.NoColor
		if !pair.IsDefault() {
			ref = core.Ref(a.Palette().SearchOrCreate(pair))
		}
		f.cells[p.Y][p.X] = core.Cell{Glyph: glyph, Color: ref}
	}
	return nil
}

// skipEscape consumes the escape sequence starting at runes[i] and returns
// the index of its last rune. SGR sequences are applied to pair.
func skipEscape(runes []rune, i int, pair *core.ColorPair) int {
	if i+1 >= len(runes) {
		return i
	}
	switch runes[i+1] {
	case '[':
		j := i + 2
		for j < len(runes) && (runes[j] < 0x40 || runes[j] > 0x7e) {
			j++
		}
		if j < len(runes) && runes[j] == 'm' {
			applySGR(string(runes[i+2:j]), pair)
		}
		return min(j, len(runes)-1)
	case ']':
		for j := i + 2; j < len(runes); j++ {
			if runes[j] == 0x07 {
				return j
			}
			if runes[j] == 0x1b && j+1 < len(runes) && runes[j+1] == '\\' {
				return j + 1
			}
		}
		return len(runes) - 1
	}
	return i
}

func applySGR(params string, pair *core.ColorPair) {
	if params == "" {
		*pair = core.DefaultPair
		return
	}
	fields := strings.Split(params, ";")
	codes := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			n = -1
		}
		codes[i] = n
	}

	for i := 0; i < len(codes); i++ {
		c := codes[i]
		switch {
		case c == 0:
			*pair = core.DefaultPair
		case c >= 30 && c <= 37:
			pair.Fg = core.Color4(uint8(c-30), false)
		case c >= 90 && c <= 97:
			pair.Fg = core.Color4(uint8(c-90), true)
		case c == 39:
			pair.Fg = core.Color{}
		case c >= 40 && c <= 47:
			pair.Bg = core.Color4(uint8(c-40), false)
		case c >= 100 && c <= 107:
			pair.Bg = core.Color4(uint8(c-100), true)
		case c == 49:
			pair.Bg = core.Color{}
		case c == 38 || c == 48:
			color, used := extendedColor(codes[i+1:])
			i += used
			if used == 0 {
				continue
			}
			if c == 38 {
				pair.Fg = color
			} else {
				pair.Bg = color
			}
		}
	}
}

// extendedColor parses the arguments following 38 or 48 and returns how
// many codes it consumed.
func extendedColor(args []int) (core.Color, int) {
	byteOK := func(n int) bool { return n >= 0 && n <= 255 }
	switch {
	case len(args) >= 2 && args[0] == 5 && byteOK(args[1]):
		return core.Color256(uint8(args[1])), 2
	case len(args) >= 4 && args[0] == 2 && byteOK(args[1]) && byteOK(args[2]) && byteOK(args[3]):
		return core.RGB(uint8(args[1]), uint8(args[2]), uint8(args[3])), 4
	}
	return core.Color{}, 0
}
