package codec

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"threea/canvas"
	"threea/core"
	"time"
)

// noColorChar marks an uncolored cell in color rows.
const noColorChar = '_'

type rowKind int

const (
	rowsText rowKind = iota
	rowsColor
	rowsBoth
)

// currentReader parses the "@3a" format. Any error aborts the read.
type currentReader struct {
	sc  *lineScanner
	log *slog.Logger
	art *canvas.Art

	names       map[rune]int
	seen        map[string]bool
	frameDelays map[int]time.Duration
	comments    commentBuffer

	body     []*canvas.Frame
	haveBody bool
	textPin  *canvas.Frame
	colorPin *canvas.Frame
}

func newCurrentReader(data []byte, o options) *currentReader {
	return &currentReader{
		sc:          newLineScanner(data),
		log:         o.logger,
		art:         canvas.Empty(),
		names:       make(map[rune]int),
		seen:        make(map[string]bool),
		frameDelays: make(map[int]time.Duration),
	}
}

func (r *currentReader) errorf(sentinel error, format string, args ...any) error {
	return &ParseError{Line: r.sc.line(), Err: fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))}
}

func (r *currentReader) read() (*canvas.Art, error) {
	if first, _ := r.sc.next(); first != Signature {
		return nil, r.errorf(core.ErrUnsupportedVersion, "%q", first)
	}
	if err := r.readHeader(); err != nil {
		return nil, err
	}
	if err := r.readBlocks(); err != nil {
		return nil, err
	}
	if err := r.assemble(); err != nil {
		return nil, err
	}
	return r.art, nil
}

func (r *currentReader) readHeader() error {
	for {
		raw, ok := r.sc.next()
		if !ok {
			return &ParseError{Line: r.sc.line() + 1, Err: fmt.Errorf("%w: header not terminated", core.ErrTruncatedData)}
		}
		if r.sc.cut() {
			return r.errorf(core.ErrTruncatedData, "header line %q not terminated", raw)
		}
		line := strings.TrimSpace(canvas.NormalizeText(raw))
		if line == "" {
			r.comments.flush(&r.art.Header)
			return nil
		}
		if comment, ok := strings.CutPrefix(line, ";;"); ok {
			r.comments.add(comment)
			continue
		}
		if strings.HasPrefix(line, "#") {
			readTagLine(&r.art.Header, line, &r.comments)
			continue
		}
		if err := r.readKey(line); err != nil {
			return err
		}
	}
}

func (r *currentReader) readKey(line string) error {
	key, value, ok := strings.Cut(line, " ")
	value = strings.TrimSpace(value)
	if !ok || value == "" {
		return r.errorf(core.ErrMalformedHeader, "key %q without value", key)
	}

	switch key {
	case "title", "src", "editor", "license", "delay", "loop", "preview", "colors":
		if r.seen[key] {
			return r.errorf(core.ErrMalformedHeader, "duplicate key %q", key)
		}
		r.seen[key] = true
		r.comments.attach(&r.art.Header, key)
	case "col":
		// attached by readColor once the palette index is known
	default:
		r.comments.attach(&r.art.Header, key+" "+value)
	}

	h := &r.art.Header
	switch key {
	case "title":
		h.Title = value
	case "src":
		h.Source = value
	case "editor":
		h.Editor = value
	case "license":
		h.License = value
	case "author":
		h.AddAuthor(value)
	case "orig-author":
		h.AddOrigAuthor(value)
	case "delay":
		global, perFrame, err := parseDelay(value)
		if err != nil {
			return r.errorf(core.ErrMalformedHeader, "%v", err)
		}
		r.art.Delay = global
		r.frameDelays = perFrame
	case "loop", "colors":
		flag, err := parseFlag(value)
		if err != nil {
			return r.errorf(core.ErrMalformedHeader, "%s: %v", key, err)
		}
		if key == "loop" {
			h.Loop = flag
		} else {
			h.Colors = flag
		}
	case "preview":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return r.errorf(core.ErrMalformedHeader, "preview %q", value)
		}
		h.Preview = n
	case "col":
		return r.readColor(value)
	default:
		h.ExtraKeys = append(h.ExtraKeys, key+" "+value)
	}
	return nil
}

func (r *currentReader) readColor(value string) error {
	name, spec, _ := strings.Cut(value, " ")
	runes := []rune(name)
	if len(runes) != 1 || runes[0] == noColorChar {
		return r.errorf(core.ErrMalformedHeader, "color name %q", name)
	}
	if _, dup := r.names[runes[0]]; dup {
		return r.errorf(core.ErrMalformedHeader, "color %q declared twice", name)
	}
	pair, err := core.ParseColorPair(spec)
	if err != nil {
		return &ParseError{Line: r.sc.line(), Err: fmt.Errorf("%w: %w", core.ErrMalformedHeader, err)}
	}
	i := r.art.Palette().SearchOrCreate(pair)
	r.names[runes[0]] = i
	r.comments.attach(&r.art.Header, colorCommentKey(i))
	return nil
}

// parseFlag accepts yes/no and true/false in any case.
func parseFlag(value string) (canvas.Flag, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "true":
		return canvas.FlagYes, nil
	case "no", "false":
		return canvas.FlagNo, nil
	}
	return canvas.FlagUnset, fmt.Errorf("flag value %q", value)
}

// parseDelay parses "<global-ms> [<frame>:<ms> ...]". Zero values mean
// "default" for the global delay and "inherit" for a frame.
func parseDelay(value string) (time.Duration, map[int]time.Duration, error) {
	var global time.Duration
	haveGlobal := false
	perFrame := make(map[int]time.Duration)

	for _, field := range strings.Fields(value) {
		f, ms, isFrame := strings.Cut(field, ":")
		if !isFrame {
			if haveGlobal {
				return 0, nil, fmt.Errorf("second global delay %q", field)
			}
			n, err := strconv.ParseUint(field, 10, 31)
			if err != nil {
				return 0, nil, fmt.Errorf("global delay %q", field)
			}
			global, haveGlobal = time.Duration(n)*time.Millisecond, true
			continue
		}
		frame, err := strconv.ParseUint(f, 10, 31)
		if err != nil {
			return 0, nil, fmt.Errorf("frame delay %q", field)
		}
		n, err := strconv.ParseUint(ms, 10, 31)
		if err != nil {
			return 0, nil, fmt.Errorf("frame delay %q", field)
		}
		if _, dup := perFrame[int(frame)]; dup {
			return 0, nil, fmt.Errorf("frame %d delay given twice", frame)
		}
		perFrame[int(frame)] = time.Duration(n) * time.Millisecond
	}
	return global, perFrame, nil
}

func (r *currentReader) readBlocks() error {
	for {
		raw, ok := r.sc.next()
		if !ok {
			return nil
		}
		line := strings.TrimSpace(canvas.NormalizeText(raw))
		if line == "" {
			continue
		}
		name, isBlock := strings.CutPrefix(line, "@")
		if !isBlock {
			return r.errorf(core.ErrMalformedBlock, "expected block, got %q", line)
		}
		r.log.Debug("reading block", "block", name, "line", r.sc.line())

		if (name == "text-pin" || name == "color-pin") && r.haveBody {
			return r.errorf(core.ErrMalformedBlock, "@%s after @body", name)
		}

		var err error
		switch name {
		case "body":
			err = r.readBody()
		case "text-pin":
			if r.textPin != nil {
				return r.errorf(core.ErrMalformedBlock, "duplicate @text-pin")
			}
			r.textPin, err = r.readPin(rowsText)
		case "color-pin":
			if r.colorPin != nil {
				return r.errorf(core.ErrMalformedBlock, "duplicate @color-pin")
			}
			r.colorPin, err = r.readPin(rowsColor)
		case "attach":
			if next, ok := r.sc.peek(); ok && next != "" {
				r.sc.next()
				r.art.Attach = canvas.NormalizeText(next)
			}
		default:
			r.art.Extra = append(r.art.Extra, canvas.Block{Name: name, Content: r.readExtra()})
		}
		if err != nil {
			return err
		}
	}
}

func (r *currentReader) readExtra() string {
	var sb strings.Builder
	for {
		raw, ok := r.sc.next()
		if !ok {
			break
		}
		line := canvas.NormalizeText(raw)
		if line == "" {
			break
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (r *currentReader) colored() bool {
	return r.art.Colors.Value(r.art.Palette().Len() > 0)
}

func (r *currentReader) readBody() error {
	if r.haveBody {
		return r.errorf(core.ErrMalformedBlock, "duplicate @body")
	}
	r.haveBody = true

	kind := rowsBoth
	switch {
	case !r.colored(), r.colorPin != nil:
		kind = rowsText
	case r.textPin != nil:
		kind = rowsColor
	}

	for {
		f, err := r.readFrame(kind)
		if err != nil {
			return err
		}
		if f == nil {
			return nil
		}
		r.body = append(r.body, f)
	}
}

func (r *currentReader) readPin(kind rowKind) (*canvas.Frame, error) {
	f, err := r.readFrame(kind)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, r.errorf(core.ErrMalformedBlock, "empty pin block")
	}
	return f, nil
}

// readFrame reads rows up to a blank line or the end of input. It returns
// nil when no rows precede the blank line.
func (r *currentReader) readFrame(kind rowKind) (*canvas.Frame, error) {
	var rows [][]core.Cell
	width := -1

	for {
		raw, ok := r.sc.next()
		if !ok {
			break
		}
		runes := []rune(canvas.NormalizeText(raw))
		if len(runes) == 0 {
			break
		}

		n, err := r.rowWidth(runes, kind)
		if err != nil {
			return nil, err
		}
		if width >= 0 && n != width {
			if r.sc.cut() {
				return nil, r.errorf(core.ErrTruncatedData, "row ends after %d of %d cells", n, width)
			}
			return nil, r.errorf(core.ErrDimensionMismatch, "row has %d cells, frame has %d", n, width)
		}
		width = n

		row, err := r.parseRow(runes, kind)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, nil
	}
	f, err := canvas.NewFrame(width, len(rows))
	if err != nil {
		return nil, r.errorf(core.ErrDimensionMismatch, "%v", err)
	}
	for y, row := range rows {
		for x, cell := range row {
			f.Set(core.Point{X: x, Y: y}, cell)
		}
	}
	return f, nil
}

// rowWidth returns the number of cells a row line describes.
func (r *currentReader) rowWidth(runes []rune, kind rowKind) (int, error) {
	if kind != rowsBoth {
		return len(runes), nil
	}
	if len(runes)%2 != 0 {
		if r.sc.cut() {
			return 0, r.errorf(core.ErrTruncatedData, "row ends inside color data")
		}
		return 0, r.errorf(core.ErrDimensionMismatch, "text and color halves differ in width")
	}
	return len(runes) / 2, nil
}

func (r *currentReader) parseRow(runes []rune, kind rowKind) ([]core.Cell, error) {
	var glyphs, colors []rune
	switch kind {
	case rowsText:
		glyphs = runes
	case rowsColor:
		colors = runes
	case rowsBoth:
		glyphs, colors = runes[:len(runes)/2], runes[len(runes)/2:]
	}

	row := make([]core.Cell, max(len(glyphs), len(colors)))
	for i := range row {
		row[i].Glyph = ' '
		if glyphs != nil {
			row[i].Glyph = glyphs[i]
		}
		if colors != nil {
			ref, err := r.colorRef(colors[i])
			if err != nil {
				return nil, err
			}
			row[i].Color = ref
		}
	}
	return row, nil
}

// colorRef resolves a color char. Built-in chars that no col line declared
// are added to the palette on first use.
func (r *currentReader) colorRef(c rune) (core.ColorRef, error) {
	if c == noColorChar {
		return core.NoColor, nil
	}
	if i, ok := r.names[c]; ok {
		return core.Ref(i), nil
	}
	if pair, ok := core.BuiltinPair(c); ok {
		i := r.art.Palette().SearchOrCreate(pair)
		r.names[c] = i
		return core.Ref(i), nil
	}
	return core.NoColor, r.errorf(core.ErrInvalidColorIndex, "undeclared color %q", c)
}

// assemble merges the pins into the body frames, applies per-frame delays
// and hands the frames to the art.
func (r *currentReader) assemble() error {
	for _, f := range r.body {
		if r.colorPin != nil {
			if err := f.CopyColors(r.colorPin); err != nil {
				return &ParseError{Line: r.sc.line(), Err: fmt.Errorf("@color-pin: %w", err)}
			}
		}
		if r.textPin != nil {
			if err := f.CopyText(r.textPin); err != nil {
				return &ParseError{Line: r.sc.line(), Err: fmt.Errorf("@text-pin: %w", err)}
			}
		}
	}

	frames := make([]int, 0, len(r.frameDelays))
	for i := range r.frameDelays {
		frames = append(frames, i)
	}
	sort.Ints(frames)
	for _, i := range frames {
		if i >= len(r.body) {
			r.log.Debug("dropping delay of missing frame", "frame", i)
			continue
		}
		r.body[i].Delay = r.frameDelays[i]
	}

	for _, f := range r.body {
		if _, err := r.art.AddFrame(f); err != nil {
			return &ParseError{Line: r.sc.line(), Err: err}
		}
	}
	return nil
}
