package codec

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"threea/canvas"
	"threea/core"
	"threea/validation"
	"time"
)

// Characters tried, in order, when a palette entry needs a name that is
// not its built-in char.
const colorNameSets = "ghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"-+,.~?!@#$%^&*`<>()[]{}\"'\\|/:;" +
	"0123456789abcdef"

const tagLineWidth = 80

type writer struct {
	art   *canvas.Art
	sb    strings.Builder
	names []rune

	// commented records the comment keys already written.
	commented map[string]bool
}

func newWriter(art *canvas.Art) *writer {
	return &writer{art: art, commented: make(map[string]bool)}
}

func (w *writer) render() (string, error) {
	if errs := validation.NewArtValidator().Validate(w.art); len(errs) > 0 {
		return "", fmt.Errorf("cannot encode art: %w", errs[0])
	}
	w.names = colorNames(w.art.Palette())

	w.writeHeader()
	if w.art.Attach != "" {
		w.line("@attach")
		w.line(w.art.Attach)
		w.line("")
	}
	for _, b := range w.art.Extra {
		w.line("@" + b.Name)
		w.sb.WriteString(b.Content)
		if b.Content != "" && !strings.HasSuffix(b.Content, "\n") {
			w.sb.WriteByte('\n')
		}
		w.line("")
	}
	w.writeFrames()
	return w.sb.String(), nil
}

func (w *writer) line(s string) {
	w.sb.WriteString(s)
	w.sb.WriteByte('\n')
}

func (w *writer) key(k, v string) {
	w.keyLine(k, k, v)
}

// keyLine writes "k v" after the comments attached to comment. Nothing is
// written for an empty value.
func (w *writer) keyLine(comment, k, v string) {
	v = strings.TrimSpace(canvas.NormalizeText(v))
	if v == "" {
		return
	}
	w.comments(comment)
	w.line(k + " " + v)
}

func (w *writer) comments(key string) {
	for _, c := range w.art.CommentsFor(key) {
		w.comment(c)
	}
	w.commented[key] = true
}

func (w *writer) comment(text string) {
	for _, line := range strings.Split(text, "\n") {
		w.line(strings.TrimRight(";; "+line, " "))
	}
}

func (w *writer) writeHeader() {
	a := w.art
	w.line(Signature)
	w.key("title", a.Title)
	for _, au := range a.OrigAuthors {
		w.keyLine("orig-author "+au, "orig-author", au)
	}
	for _, au := range a.Authors {
		w.keyLine("author "+au, "author", au)
	}
	w.key("src", a.Source)
	w.key("editor", a.Editor)
	w.key("license", a.License)
	w.key("delay", formatDelay(a))
	w.key("loop", a.Loop.String())
	if a.Preview >= 0 {
		w.key("preview", strconv.Itoa(a.Preview))
	}
	w.key("colors", a.Colors.String())
	for i, pair := range a.Palette().Entries() {
		w.comments(colorCommentKey(i))
		w.line(strings.TrimRight("col "+string(w.names[i])+" "+pair.String(), " "))
	}
	for _, extra := range a.ExtraKeys {
		w.comments(extra)
		w.line(extra)
	}
	w.writeTags()

	// Comments whose line was not written go last.
	var orphans []string
	for key := range a.Comments {
		if !w.commented[key] {
			orphans = append(orphans, key)
		}
	}
	sort.Strings(orphans)
	for _, key := range orphans {
		w.comments(key)
	}
	for _, c := range a.TrailingComments {
		w.comment(c)
	}
	w.line("")
}

func (w *writer) writeTags() {
	var sb strings.Builder
	for _, tag := range w.art.Tags {
		commented := len(w.art.CommentsFor(tagCommentKey(tag))) > 0
		if sb.Len() > 0 && (commented || sb.Len()+len(tag)+2 > tagLineWidth) {
			w.line(sb.String())
			sb.Reset()
		}
		if commented {
			w.comments(tagCommentKey(tag))
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString("#" + tag)
	}
	if sb.Len() > 0 {
		w.line(sb.String())
	}
}

// formatDelay returns the global delay in milliseconds followed by a
// "frame:ms" pair for every frame with its own delay.
func formatDelay(a *canvas.Art) string {
	parts := []string{strconv.FormatInt(a.GlobalDelay().Milliseconds(), 10)}
	for i, f := range a.Frames() {
		if f.Delay > 0 {
			parts = append(parts, fmt.Sprintf("%d:%d", i, f.Delay/time.Millisecond))
		}
	}
	return strings.Join(parts, " ")
}

// colored reports whether the body carries color data. The reader makes
// the same decision from the colors key and the palette.
func (w *writer) colored() bool {
	return w.art.Colors.Value(w.art.Palette().Len() > 0)
}

func (w *writer) writeFrames() {
	frames := w.art.Frames()
	if !w.colored() {
		w.line("@body")
		for _, f := range frames {
			w.writeFrame(f, rowsText)
		}
		return
	}

	textPinned, colorPinned := w.art.Pinned()
	switch {
	case colorPinned:
		w.line("@color-pin")
		w.writeFrame(frames[0], rowsColor)
		w.line("@body")
		for _, f := range frames {
			w.writeFrame(f, rowsText)
		}
	case textPinned:
		w.line("@text-pin")
		w.writeFrame(frames[0], rowsText)
		w.line("@body")
		for _, f := range frames {
			w.writeFrame(f, rowsColor)
		}
	default:
		w.line("@body")
		for _, f := range frames {
			w.writeFrame(f, rowsBoth)
		}
	}
}

func (w *writer) writeFrame(f *canvas.Frame, kind rowKind) {
	for _, row := range f.Cells() {
		if kind != rowsColor {
			for _, cell := range row {
				w.sb.WriteRune(cell.Rune())
			}
		}
		if kind != rowsText {
			for _, cell := range row {
				w.sb.WriteRune(w.colorChar(cell.Color))
			}
		}
		w.sb.WriteByte('\n')
	}
	w.sb.WriteByte('\n')
}

func (w *writer) colorChar(ref core.ColorRef) rune {
	if i, ok := ref.Index(); ok {
		return w.names[i]
	}
	return noColorChar
}

// colorNames picks the char naming each palette entry. An entry equal to
// a built-in color keeps that built-in char; the rest take the next free
// char from colorNameSets, then any displayable rune.
func colorNames(p *canvas.Palette) []rune {
	entries := p.Entries()
	names := make([]rune, len(entries))
	used := map[rune]bool{noColorChar: true, ' ': true}

	for i, pair := range entries {
		if c, ok := core.BuiltinChar(pair); ok && !used[c] {
			names[i] = c
			used[c] = true
		}
	}

	candidates := []rune(colorNameSets)
	next := rune(0xA1)
	for i := range names {
		if names[i] != 0 {
			continue
		}
		for names[i] == 0 {
			var c rune
			if len(candidates) > 0 {
				c, candidates = candidates[0], candidates[1:]
			} else {
				c, next = next, next+1
				if g, ok := canvas.CheckChar(c); !ok || g != c || canvas.GlyphWidth(c) != 1 {
					continue
				}
			}
			if !used[c] {
				names[i] = c
				used[c] = true
			}
		}
	}
	return names
}
