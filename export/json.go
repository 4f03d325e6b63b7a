package export

import (
	"encoding/json"
	"fmt"
	"threea/canvas"
)

type jsonMeta struct {
	Frames   int     `json:"frames"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Duration float64 `json:"duration"`
}

type jsonHeader struct {
	Title       string   `json:"title,omitempty"`
	Authors     []string `json:"authors"`
	OrigAuthors []string `json:"orig-authors"`
	Source      string   `json:"src,omitempty"`
	Editor      string   `json:"editor,omitempty"`
	License     string   `json:"license,omitempty"`
	Loop        bool     `json:"loop"`
	Colors      bool     `json:"colors"`
	Preview     *int     `json:"preview"`
	Tags        []string `json:"tags"`
	ExtraKeys   []string `json:"extra-keys"`
}

type jsonColor struct {
	Fg string `json:"fg,omitempty"`
	Bg string `json:"bg,omitempty"`
}

type jsonBlock struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type jsonFrame struct {
	Delay  int64    `json:"delay"`
	Text   []string `json:"text"`
	Colors [][]int  `json:"colors"`
}

type jsonArt struct {
	Meta        jsonMeta    `json:"meta"`
	Header      jsonHeader  `json:"header"`
	Palette     []jsonColor `json:"palette"`
	Attached    *string     `json:"attached"`
	ExtraBlocks []jsonBlock `json:"extra-blocks"`
	Frames      []jsonFrame `json:"frames"`
}

// JSONExporter exports arts to JSON format. Frame colors are palette
// indexes, -1 for uncolored cells; delays are in milliseconds.
type JSONExporter struct{}

// NewJSONExporter creates a new JSON exporter
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Export converts an art to JSON
func (e *JSONExporter) Export(a *canvas.Art) (string, error) {
	if a == nil {
		return "", fmt.Errorf("art is nil")
	}

	w, h := a.Size()
	doc := jsonArt{
		Meta: jsonMeta{
			Frames:   a.FrameCount(),
			Width:    w,
			Height:   h,
			Duration: a.Duration().Seconds(),
		},
		Header: jsonHeader{
			Title:       a.Title,
			Authors:     nonNil(a.Authors),
			OrigAuthors: nonNil(a.OrigAuthors),
			Source:      a.Source,
			Editor:      a.Editor,
			License:     a.License,
			Loop:        a.Loop.Value(true),
			Colors:      a.Colored(),
			Tags:        nonNil(a.Tags),
			ExtraKeys:   nonNil(a.ExtraKeys),
		},
		Palette:     []jsonColor{},
		ExtraBlocks: []jsonBlock{},
		Frames:      []jsonFrame{},
	}
	if a.Preview >= 0 {
		p := a.Preview
		doc.Header.Preview = &p
	}
	if a.Attach != "" {
		doc.Attached = &a.Attach
	}
	for _, pair := range a.Palette().Entries() {
		doc.Palette = append(doc.Palette, jsonColor{Fg: pair.Fg.String(), Bg: pair.Bg.String()})
	}
	for _, b := range a.Extra {
		doc.ExtraBlocks = append(doc.ExtraBlocks, jsonBlock{Title: b.Name, Content: b.Content})
	}

	for i, f := range a.Frames() {
		jf := jsonFrame{Delay: a.FrameDelay(i).Milliseconds()}
		for _, row := range f.Cells() {
			text := make([]rune, len(row))
			colors := make([]int, len(row))
			for x, cell := range row {
				text[x] = cell.Rune()
				colors[x] = -1
				if c, ok := cell.Color.Index(); ok {
					colors[x] = c
				}
			}
			jf.Text = append(jf.Text, string(text))
			jf.Colors = append(jf.Colors, colors)
		}
		doc.Frames = append(doc.Frames, jf)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// GetFileExtension returns the file extension for JSON
func (e *JSONExporter) GetFileExtension() string {
	return ".json"
}

// GetFormatName returns the format name
func (e *JSONExporter) GetFormatName() string {
	return "JSON"
}
