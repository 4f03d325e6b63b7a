package export

import (
	"fmt"
	"strings"
	"threea/canvas"
	"threea/core"
)

// RenderANSIFrame renders frame i as terminal text. For a colored art the
// SGR sequence of a cell's pair is written whenever it differs from the
// previous cell's, and every row ends back on the default colors. Rows are
// joined by "\n" with no trailing newline.
func RenderANSIFrame(a *canvas.Art, i int) (string, error) {
	f, err := a.Frame(i)
	if err != nil {
		return "", err
	}
	colored := a.Colored()

	var sb strings.Builder
	for y, row := range f.Cells() {
		if y > 0 {
			sb.WriteByte('\n')
		}
		var prev *core.ColorPair
		for x, cell := range row {
			if colored {
				pair, err := a.Palette().Resolve(cell.Color)
				if err != nil {
					return "", fmt.Errorf("frame %d (%d,%d): %w", i, x, y, err)
				}
				if prev == nil || *prev != pair {
					sb.WriteString(pair.ANSI())
					prev = &pair
				}
			}
			sb.WriteRune(cell.Rune())
		}
		if colored {
			sb.WriteString(core.DefaultPair.ANSI())
		}
	}
	return sb.String(), nil
}

// RenderANSIFrames renders every frame with RenderANSIFrame.
func RenderANSIFrames(a *canvas.Art) ([]string, error) {
	frames := make([]string, 0, a.FrameCount())
	for i := range a.FrameCount() {
		s, err := RenderANSIFrame(a, i)
		if err != nil {
			return nil, err
		}
		frames = append(frames, s)
	}
	return frames, nil
}

// ANSIExporter exports all frames as ANSI colored text
type ANSIExporter struct{}

// NewANSIExporter creates a new ANSI exporter
func NewANSIExporter() *ANSIExporter {
	return &ANSIExporter{}
}

// Export joins the rendered frames with newlines
func (e *ANSIExporter) Export(a *canvas.Art) (string, error) {
	if a == nil {
		return "", fmt.Errorf("art is nil")
	}
	frames, err := RenderANSIFrames(a)
	if err != nil {
		return "", fmt.Errorf("failed to render art: %w", err)
	}
	if len(frames) == 0 {
		return "", nil
	}
	return strings.Join(frames, "\n") + "\n", nil
}

// GetFileExtension returns the recommended file extension
func (e *ANSIExporter) GetFileExtension() string {
	return ".ans"
}

// GetFormatName returns the format name
func (e *ANSIExporter) GetFormatName() string {
	return "ANSI Text"
}
