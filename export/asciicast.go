package export

import (
	"encoding/json"
	"fmt"
	"strings"
	"threea/canvas"
	"time"
)

const (
	hideCursor = "\x1b[?25l"
	showCursor = "\x1b[?25h"
)

// asciicastHeader is the first line of an asciicast v2 file.
type asciicastHeader struct {
	Version  int     `json:"version"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Duration float64 `json:"duration"`
	Title    string  `json:"title,omitempty"`
}

// AsciicastExporter exports an art as an asciicast v2 recording: a header
// line followed by one output event per frame, each a full redraw.
type AsciicastExporter struct{}

// NewAsciicastExporter creates a new asciicast exporter
func NewAsciicastExporter() *AsciicastExporter {
	return &AsciicastExporter{}
}

// Export writes the recording. The terminal size is the size of the first
// frame; each event is stamped with the summed delays of the frames before it.
func (e *AsciicastExporter) Export(a *canvas.Art) (string, error) {
	if a == nil {
		return "", fmt.Errorf("art is nil")
	}

	frames, err := RenderANSIFrames(a)
	if err != nil {
		return "", fmt.Errorf("failed to render art: %w", err)
	}

	var sb strings.Builder
	enc := json.NewEncoder(&sb)
	enc.SetEscapeHTML(false)

	w, h := a.Size()
	header := asciicastHeader{
		Version:  2,
		Width:    w,
		Height:   h,
		Duration: a.Duration().Seconds(),
		Title:    a.TitleLine(),
	}
	if err := enc.Encode(header); err != nil {
		return "", err
	}

	event := func(at time.Duration, data string) error {
		return enc.Encode([]any{at.Seconds(), "o", data})
	}

	if err := event(0, hideCursor); err != nil {
		return "", err
	}
	var at time.Duration
	for i, f := range a.Frames() {
		_, fh := f.Size()
		payload := strings.ReplaceAll(frames[i], "\n", "\r\n") + "\r"
		if fh > 1 {
			payload += fmt.Sprintf("\x1b[%dA", fh-1)
		}
		if err := event(at, payload); err != nil {
			return "", err
		}
		at += a.FrameDelay(i)
	}
	if err := event(at, strings.Repeat("\r\n", h)+showCursor); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// GetFileExtension returns the recommended file extension
func (e *AsciicastExporter) GetFileExtension() string {
	return ".cast"
}

// GetFormatName returns the format name
func (e *AsciicastExporter) GetFormatName() string {
	return "asciicast v2"
}
