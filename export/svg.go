package export

import (
	"fmt"
	"strconv"
	"strings"
	"threea/canvas"
	"threea/core"
	"time"
)

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"/", "&#x2F;",
)

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}

// SVGExporter renders an art as one SVG document. Every frame becomes a
// group with id "frame-N"; only the first is visible unless Animate adds
// an opacity timeline that shows each frame for its delay.
type SVGExporter struct {
	Colors  ColorMapper
	Font    FontMetrics
	Animate bool
}

// NewSVGExporter creates an SVG exporter with the CSS color map and the
// default font.
func NewSVGExporter() *SVGExporter {
	return &SVGExporter{
		Colors: NewCSSColorMap(),
		Font:   DefaultFont(),
	}
}

// Export renders all frames into one document sized for the largest frame.
func (e *SVGExporter) Export(a *canvas.Art) (string, error) {
	if a == nil {
		return "", fmt.Errorf("art is nil")
	}

	w, h := a.MaxSize()
	var sb strings.Builder
	if err := e.open(&sb, a, w, h); err != nil {
		return "", err
	}

	var timeline *svgTimeline
	if e.Animate && a.FrameCount() > 0 {
		timeline = newSVGTimeline(a)
	}
	for i, f := range a.Frames() {
		fmt.Fprintf(&sb, "<g id=\"frame-%d\" data-delay=\"%d\"", i, a.FrameDelay(i).Milliseconds())
		if i > 0 {
			sb.WriteString(` opacity="0"`)
		}
		sb.WriteString(">\n")
		if err := e.frame(&sb, a, f); err != nil {
			return "", fmt.Errorf("frame %d: %w", i, err)
		}
		if timeline != nil {
			timeline.write(&sb, i)
		}
		sb.WriteString("</g>\n")
	}

	sb.WriteString("</svg>\n")
	return sb.String(), nil
}

// RenderSVGFrame renders frame i alone as a standalone document.
func (e *SVGExporter) RenderSVGFrame(a *canvas.Art, i int) (string, error) {
	f, err := a.Frame(i)
	if err != nil {
		return "", err
	}

	w, h := f.Size()
	var sb strings.Builder
	if err := e.open(&sb, a, w, h); err != nil {
		return "", err
	}
	if err := e.frame(&sb, a, f); err != nil {
		return "", fmt.Errorf("frame %d: %w", i, err)
	}
	sb.WriteString("</svg>\n")
	return sb.String(), nil
}

// open writes everything up to the first frame: the prolog, the svg element,
// the style, the title and, for colored arts, the background.
func (e *SVGExporter) open(sb *strings.Builder, a *canvas.Art, cols, rows int) error {
	cw, ch := e.Font.CellSize()
	width, height := cols*cw, rows*ch

	sb.WriteString("<?xml version=\"1.0\" encoding=\"utf-8\"?>\n")
	fmt.Fprintf(sb, "<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"%d\" height=\"%d\" viewBox=\"0 0 %d %d\" role=\"img\">\n",
		width, height, width, height)
	fmt.Fprintf(sb, "<style>\n%s\n</style>\n", e.Font.Style())
	if title := a.TitleLine(); title != "" {
		fmt.Fprintf(sb, "<title>%s</title>\n", escapeXML(title))
	}
	if a.Colored() {
		bg, err := e.Colors.MapColor(core.Color{}, false)
		if err != nil {
			return err
		}
		fmt.Fprintf(sb, "<rect x=\"0\" y=\"0\" width=\"%d\" height=\"%d\" fill=\"%s\"/>\n", width, height, bg)
	}
	return nil
}

func (e *SVGExporter) frame(sb *strings.Builder, a *canvas.Art, f *canvas.Frame) error {
	if !a.Colored() {
		return e.plainText(sb, f)
	}
	if err := e.backgrounds(sb, a, f); err != nil {
		return err
	}
	return e.coloredText(sb, a, f)
}

// backgrounds writes one rect per cell whose pair has a background.
func (e *SVGExporter) backgrounds(sb *strings.Builder, a *canvas.Art, f *canvas.Frame) error {
	cw, ch := e.Font.CellSize()
	for y, row := range f.Cells() {
		for x, cell := range row {
			pair, err := a.Palette().Resolve(cell.Color)
			if err != nil {
				return err
			}
			if pair.Bg.IsNone() {
				continue
			}
			fill, err := e.Colors.MapColor(pair.Bg, false)
			if err != nil {
				return err
			}
			fmt.Fprintf(sb, "<rect x=\"%d\" y=\"%d\" width=\"%d\" height=\"%d\" fill=\"%s\"/>\n", x*cw, y*ch, cw, ch, fill)
		}
	}
	return nil
}

const textOpen = "<text x=\"0\" y=\"0\" xml:space=\"preserve\" dominant-baseline=\"hanging\">\n"

// coloredText writes one tspan per cell with the cell's foreground.
func (e *SVGExporter) coloredText(sb *strings.Builder, a *canvas.Art, f *canvas.Frame) error {
	cw, ch := e.Font.CellSize()
	ox, oy := e.Font.Offset()

	sb.WriteString(textOpen)
	for y, row := range f.Cells() {
		for x, cell := range row {
			pair, err := a.Palette().Resolve(cell.Color)
			if err != nil {
				return err
			}
			fill, err := e.Colors.MapColor(pair.Fg, true)
			if err != nil {
				return err
			}
			glyph := cell.Rune()
			gw, err := e.Font.GlyphWidth(glyph)
			if err != nil {
				return err
			}
			fmt.Fprintf(sb, "<tspan x=\"%d\" y=\"%d\" fill=\"%s\"", x*cw+ox, y*ch+oy, fill)
			if gw != cw {
				fmt.Fprintf(sb, " textLength=\"%d\"", cw)
			}
			fmt.Fprintf(sb, ">%s</tspan>\n", escapeXML(string(glyph)))
		}
	}
	sb.WriteString("</text>\n")
	return nil
}

// plainText writes one tspan per row.
func (e *SVGExporter) plainText(sb *strings.Builder, f *canvas.Frame) error {
	_, ch := e.Font.CellSize()
	ox, oy := e.Font.Offset()

	sb.WriteString(textOpen)
	for y, row := range f.Cells() {
		var line strings.Builder
		for _, cell := range row {
			if _, err := e.Font.GlyphWidth(cell.Rune()); err != nil {
				return err
			}
			line.WriteRune(cell.Rune())
		}
		fmt.Fprintf(sb, "<tspan x=\"%d\" y=\"%d\">%s</tspan>\n", ox, y*ch+oy, escapeXML(line.String()))
	}
	sb.WriteString("</text>\n")
	return nil
}

// svgTimeline holds the discrete opacity animation shared by all frame
// groups: frame k is visible between the k-th and k+1-th key time.
type svgTimeline struct {
	dur      string
	keyTimes string
	frames   int
	loop     bool
}

func newSVGTimeline(a *canvas.Art) *svgTimeline {
	total := a.Duration()
	times := make([]string, 0, a.FrameCount()+1)
	var acc time.Duration
	times = append(times, "0")
	for i := range a.FrameCount() {
		acc += a.FrameDelay(i)
		times = append(times, formatFraction(float64(acc)/float64(total)))
	}

	return &svgTimeline{
		dur:      strconv.FormatFloat(total.Seconds(), 'f', -1, 64),
		keyTimes: strings.Join(times, ";"),
		frames:   a.FrameCount(),
		loop:     a.Loop.Value(true),
	}
}

func (t *svgTimeline) write(sb *strings.Builder, frame int) {
	values := make([]string, t.frames+1)
	for i := range values {
		values[i] = "0"
	}
	values[frame] = "1"

	repeat := `repeatCount="indefinite"`
	if !t.loop {
		// the last frame stays up once the animation ends
		repeat = `repeatCount="1" fill="freeze"`
		if frame == t.frames-1 {
			values[t.frames] = "1"
		}
	}
	fmt.Fprintf(sb, "<animate attributeName=\"opacity\" begin=\"0s\" dur=\"%ss\" %s calcMode=\"discrete\" values=\"%s\" keyTimes=\"%s\"/>\n",
		t.dur, repeat, strings.Join(values, ";"), t.keyTimes)
}

// formatFraction prints f with at most six decimals and no trailing zeros.
func formatFraction(f float64) string {
	s := strconv.FormatFloat(f, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
