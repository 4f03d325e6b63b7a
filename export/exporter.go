// Package export renders arts to other formats. Exporters never modify the
// art they are given.
package export

import (
	"fmt"
	"threea/canvas"
)

// Format represents an export format
type Format string

const (
	// FormatASCII exports the glyphs only, frames separated by blank lines
	FormatASCII Format = "ascii"
	// FormatANSI exports frames as ANSI colored terminal text
	FormatANSI Format = "ansi"
	// FormatSVG exports a single SVG document with one group per frame
	FormatSVG Format = "svg"
	// FormatAsciicast exports an asciicast v2 recording
	FormatAsciicast Format = "asciicast"
	// FormatJSON exports the whole art as a JSON document
	FormatJSON Format = "json"
)

// Exporter interface for different export formats
type Exporter interface {
	// Export converts an art to the target format
	Export(a *canvas.Art) (string, error)
	// GetFileExtension returns the recommended file extension for this format
	GetFileExtension() string
	// GetFormatName returns a human-readable name for this format
	GetFormatName() string
}

// NewExporter creates an exporter with default settings for the specified format
func NewExporter(format Format) (Exporter, error) {
	switch format {
	case FormatASCII:
		return NewASCIIExporter(), nil
	case FormatANSI:
		return NewANSIExporter(), nil
	case FormatSVG:
		return NewSVGExporter(), nil
	case FormatAsciicast:
		return NewAsciicastExporter(), nil
	case FormatJSON:
		return NewJSONExporter(), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// ParseFormat converts a string to a Format
func ParseFormat(s string) (Format, error) {
	switch s {
	case "ascii", "text", "txt":
		return FormatASCII, nil
	case "ansi":
		return FormatANSI, nil
	case "svg":
		return FormatSVG, nil
	case "asciicast", "cast":
		return FormatAsciicast, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown format: %s", s)
	}
}

// GetAvailableFormats returns a list of all available export formats
func GetAvailableFormats() []Format {
	return []Format{
		FormatASCII,
		FormatANSI,
		FormatSVG,
		FormatAsciicast,
		FormatJSON,
	}
}

// GetFormatDescriptions returns human-readable descriptions of all formats
func GetFormatDescriptions() map[Format]string {
	return map[Format]string{
		FormatASCII:     "Plain text, glyphs only",
		FormatANSI:      "Terminal text with ANSI color sequences",
		FormatSVG:       "SVG image, optionally animated",
		FormatAsciicast: "asciicast v2 recording (asciinema)",
		FormatJSON:      "JSON document with header, palette and frames",
	}
}
