package codec

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"threea/canvas"
	"threea/core"
	"time"
)

// legacyColorMode tells which channels follow the text of each legacy row.
type legacyColorMode int

const (
	legacyNoColor legacyColorMode = iota
	legacyFg
	legacyBg
	legacyFgBg
)

// channels returns the number of data runs per row.
func (m legacyColorMode) channels() int {
	switch m {
	case legacyFg, legacyBg:
		return 2
	case legacyFgBg:
		return 3
	}
	return 1
}

type scanMode int

const (
	scanText scanMode = iota
	scanFg
	scanBg
)

// next returns the scan mode following s once a full row of it was read.
func (s scanMode) next(m legacyColorMode) scanMode {
	switch {
	case s == scanText && (m == legacyFg || m == legacyFgBg):
		return scanFg
	case s == scanText && m == legacyBg, s == scanFg && m == legacyFgBg:
		return scanBg
	}
	return scanText
}

// legacyColors maps legacy fg chars to built-in color chars.
var legacyColors = map[rune]rune{
	'0': '0', '1': '4', '2': '2', '3': '6', '4': '1', '5': '5', '6': '3', '7': '7',
	'8': '8', '9': 'c', 'a': 'a', 'b': 'e', 'c': '9', 'd': 'd', 'e': 'b', 'f': 'f',
}

// legacyReader parses the legacy format. It never fails on content: every
// problem becomes a Warning and the affected data is dropped.
type legacyReader struct {
	sc       *lineScanner
	log      *slog.Logger
	delay    time.Duration
	art      *canvas.Art
	warnings []Warning

	seen   map[string]bool
	mode   legacyColorMode
	width  int
	height int

	frameDelays map[int]time.Duration
	comments    commentBuffer
}

func newLegacyReader(data []byte, o options) *legacyReader {
	return &legacyReader{
		sc:    newLineScanner(data),
		log:   o.logger,
		delay: o.legacyDelay,
		art:   canvas.Empty(),
		seen:  make(map[string]bool),
	}
}

func (r *legacyReader) warn(line int, field, format string, args ...any) {
	w := Warning{Line: line, Field: field, Message: fmt.Sprintf(format, args...)}
	r.warnings = append(r.warnings, w)
	r.log.Warn(w.Message, "field", field, "line", line)
}

func (r *legacyReader) read() (*canvas.Art, []Warning, error) {
	r.readHeader()

	if !r.seen["delay"] {
		r.art.Delay = r.delay
		r.warn(0, "delay", "no timing, using %v per frame", r.delay)
	}
	if r.mode == legacyBg || r.mode == legacyFgBg {
		r.warn(0, "colors", "background colors dropped")
	}

	lines := r.bodyLines()
	if r.width == 0 && len(lines) > 0 {
		r.width = len(lines[0]) / r.mode.channels()
		r.warn(0, "width", "missing, using %d from the first row", r.width)
	}
	if r.width > 0 {
		r.buildFrames(r.scan(lines, r.width))
	}

	for i, d := range r.frameDelays {
		if f, err := r.art.Frame(i); err == nil {
			f.Delay = d
		}
	}
	return r.art, r.warnings, nil
}

func (r *legacyReader) readHeader() {
	for {
		raw, ok := r.sc.next()
		if !ok {
			r.comments.flush(&r.art.Header)
			return
		}
		before, comment, hasTab := strings.Cut(raw, "\t")
		if hasTab && strings.TrimSpace(comment) != "" {
			r.comments.add(comment)
		}
		if hasTab && before == "" {
			continue
		}
		line := strings.TrimSpace(canvas.NormalizeText(before))
		if line == "" {
			r.comments.flush(&r.art.Header)
			return
		}
		if strings.HasPrefix(line, "utf8") {
			continue
		}
		if strings.HasPrefix(line, "@") {
			r.comments.add(line)
			continue
		}
		if strings.HasPrefix(line, "#") {
			readTagLine(&r.art.Header, line, &r.comments)
			continue
		}
		r.readKey(line)
	}
}

func (r *legacyReader) readKey(line string) {
	n := r.sc.line()
	key, value, _ := strings.Cut(line, " ")
	value = strings.TrimSpace(value)

	switch key {
	case "author":
		r.comments.attach(&r.art.Header, key+" "+value)
	default:
		r.comments.attach(&r.art.Header, key)
	}
	if value == "" {
		r.warn(n, key, "key without value dropped")
		return
	}
	if key != "author" && r.seen[key] {
		r.warn(n, key, "duplicate key dropped")
		return
	}

	switch key {
	case "title":
		r.art.Title = value
	case "author":
		r.art.AddAuthor(value)
	case "loop":
		flag, err := parseFlag(value)
		if err != nil {
			r.warn(n, key, "%v dropped", err)
			return
		}
		r.art.Loop = flag
	case "preview":
		p, err := strconv.Atoi(value)
		if err != nil || p < 0 {
			r.warn(n, key, "value %q dropped", value)
			return
		}
		r.art.Preview = p
	case "delay":
		global, perFrame, err := parseDelay(value)
		if err != nil {
			r.warn(n, key, "%v dropped", err)
			return
		}
		r.art.Delay = global
		r.frameDelays = perFrame
	case "colors":
		switch strings.ToLower(value) {
		case "none":
			r.mode = legacyNoColor
		case "fg":
			r.mode = legacyFg
		case "bg":
			r.mode = legacyBg
		case "full":
			r.mode = legacyFgBg
		default:
			r.warn(n, key, "unknown color mode %q, reading text only", value)
		}
	case "width", "height":
		d, err := strconv.Atoi(value)
		if err != nil || d <= 0 {
			r.warn(n, key, "value %q dropped", value)
			return
		}
		if key == "width" {
			r.width = d
		} else {
			r.height = d
		}
	default:
		r.warn(n, key, "unknown key dropped")
		return
	}
	r.seen[key] = true
}

// bodyLines collects the body lines with comments and blank lines removed.
func (r *legacyReader) bodyLines() [][]rune {
	var lines [][]rune
	for {
		raw, ok := r.sc.next()
		if !ok {
			break
		}
		before, _, hasTab := strings.Cut(raw, "\t")
		if hasTab && before == "" {
			continue
		}
		if runes := []rune(canvas.NormalizeText(before)); len(runes) > 0 {
			lines = append(lines, runes)
		}
	}
	return lines
}

// scan runs the character stream through the text, fg and bg phases of
// every row.
func (r *legacyReader) scan(lines [][]rune, width int) [][]core.Cell {
	var rows [][]core.Cell
	var row []core.Cell
	mode := scanText
	pos := 0

	for _, line := range lines {
		for _, c := range line {
			switch mode {
			case scanText:
				row = append(row, core.Cell{Glyph: c})
			case scanFg:
				row[pos].Color = r.legacyColor(c)
			}
			if mode != scanText {
				pos++
			}
			if (mode == scanText && len(row) == width) || (mode != scanText && pos == width) {
				mode, pos = mode.next(r.mode), 0
				if mode == scanText {
					rows = append(rows, row)
					row = nil
				}
			}
		}
	}

	if len(row) > 0 || pos > 0 {
		r.warn(0, "body", "incomplete final row dropped")
	}
	return rows
}

func (r *legacyReader) legacyColor(c rune) core.ColorRef {
	name, ok := legacyColors[c]
	if !ok {
		return core.NoColor
	}
	pair, _ := core.BuiltinPair(name)
	return core.Ref(r.art.Palette().SearchOrCreate(pair))
}

func (r *legacyReader) buildFrames(rows [][]core.Cell) {
	height := r.height
	if height == 0 {
		height = len(rows)
		r.warn(0, "height", "missing, reading %d rows as one frame", height)
	}
	if height == 0 {
		return
	}

	for len(rows) >= height {
		f, err := canvas.NewFrame(r.width, height)
		if err != nil {
			r.warn(0, "body", "%v", err)
			return
		}
		for y, row := range rows[:height] {
			for x, cell := range row {
				f.Set(core.Point{X: x, Y: y}, cell)
			}
		}
		if _, err := r.art.AddFrame(f); err != nil {
			r.warn(0, "body", "frame dropped: %v", err)
		}
		rows = rows[height:]
	}
	if len(rows) > 0 {
		r.warn(0, "body", "incomplete final frame of %d rows dropped", len(rows))
	}
}
