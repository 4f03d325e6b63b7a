package validation

import (
	"fmt"
	"threea/canvas"
	"threea/core"
	"time"
)

// ArtValidator checks that an art can be written and rendered faithfully.
// It reports every problem it finds rather than stopping at the first one.
type ArtValidator struct {
	// Track validation errors
	errors []ValidationError
	// Options
	strictMode bool // Also reject wide glyphs and an out of range preview frame
}

// ValidationError represents a validation error with location information.
// It unwraps to the core sentinel describing the problem.
type ValidationError struct {
	Frame   int
	X, Y    int
	Char    rune
	Context string
	Message string
	Err     error
}

// NewArtValidator creates a new validator with default settings.
func NewArtValidator() *ArtValidator {
	return &ArtValidator{}
}

// SetStrictMode enables or disables strict validation.
func (v *ArtValidator) SetStrictMode(strict bool) {
	v.strictMode = strict
}

// Validate checks every frame of art.
func (v *ArtValidator) Validate(art *canvas.Art) []ValidationError {
	v.errors = nil

	if v.strictMode && art.Preview >= art.FrameCount() {
		v.addError(-1, 0, 0, 0, "header", core.ErrFrameOutOfRange,
			"preview frame %d, art has %d frames", art.Preview, art.FrameCount())
	}
	v.checkDelay(-1, art.Delay)

	// A "colors no" art is written without color rows.
	colorsOff := art.Colors == canvas.FlagNo
	for i, f := range art.Frames() {
		v.checkDelay(i, f.Delay)
		v.checkFrame(i, f, colorsOff)
	}

	return v.errors
}

// checkDelay rejects delays the file format cannot express. Frame is -1
// for the global delay.
func (v *ArtValidator) checkDelay(frame int, d time.Duration) {
	if d > 0 && d%time.Millisecond != 0 {
		v.addError(frame, 0, 0, 0, "delay", core.ErrInvalidDelay,
			"delay %v is not a whole number of milliseconds", d)
	}
}

// checkFrame validates the cells of one frame.
func (v *ArtValidator) checkFrame(i int, f *canvas.Frame, colorsOff bool) {
	for y, row := range f.Cells() {
		for x, cell := range row {
			v.checkCell(i, x, y, cell, colorsOff)
		}
	}
}

// checkCell validates a single cell's glyph and color reference.
func (v *ArtValidator) checkCell(i, x, y int, cell core.Cell, colorsOff bool) {
	if colorsOff && cell.Color.IsSet() {
		v.addError(i, x, y, cell.Rune(), "color", core.ErrColorsDisabled,
			"colored cell in an art with colors off")
	}

	glyph := cell.Rune()
	if g, ok := canvas.CheckChar(glyph); !ok || g != glyph {
		v.addError(i, x, y, glyph, "glyph", core.ErrDisallowedChar,
			"glyph %U cannot be stored", glyph)
		return
	}
	if v.strictMode && canvas.GlyphWidth(glyph) != 1 {
		v.addError(i, x, y, glyph, "glyph", core.ErrDisallowedChar,
			"glyph %U is %d cells wide", glyph, canvas.GlyphWidth(glyph))
	}
}

// addError adds a validation error.
func (v *ArtValidator) addError(frame, x, y int, char rune, context string, err error, format string, args ...interface{}) {
	v.errors = append(v.errors, ValidationError{
		Frame:   frame,
		X:       x,
		Y:       y,
		Char:    char,
		Context: context,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	})
}

// String formats validation errors as a string.
func (e ValidationError) String() string {
	if e.Frame < 0 {
		return fmt.Sprintf("[%s]: %s", e.Context, e.Message)
	}
	return fmt.Sprintf("frame %d (%d,%d) %q [%s]: %s", e.Frame, e.X, e.Y, e.Char, e.Context, e.Message)
}

func (e ValidationError) Error() string {
	return e.String()
}

func (e ValidationError) Unwrap() error {
	return e.Err
}
