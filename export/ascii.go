package export

import (
	"fmt"
	"strings"
	"threea/canvas"
)

// ASCIIExporter exports the glyphs of every frame, without colors
type ASCIIExporter struct{}

// NewASCIIExporter creates a new ASCII exporter
func NewASCIIExporter() *ASCIIExporter {
	return &ASCIIExporter{}
}

// Export writes the frames in order, each followed by a blank line
func (e *ASCIIExporter) Export(a *canvas.Art) (string, error) {
	if a == nil {
		return "", fmt.Errorf("art is nil")
	}

	var sb strings.Builder
	for _, f := range a.Frames() {
		sb.WriteString(f.String())
		sb.WriteString("\n\n")
	}
	return sb.String(), nil
}

// GetFileExtension returns the recommended file extension
func (e *ASCIIExporter) GetFileExtension() string {
	return ".txt"
}

// GetFormatName returns the format name
func (e *ASCIIExporter) GetFormatName() string {
	return "Plain Text"
}
