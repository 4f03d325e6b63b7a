package validation

import (
	"errors"
	"strings"
	"testing"
	"threea/canvas"
	"threea/core"
	"time"
)

func TestArtValidator_Cells(t *testing.T) {
	tests := []struct {
		name    string
		cell    core.Cell
		colors  canvas.Flag
		strict  bool
		wantErr error
		errMsg  string
	}{
		{
			name: "plain glyph",
			cell: core.Cell{Glyph: 'x', Color: core.Ref(0)},
		},
		{
			name: "zero glyph is a space",
			cell: core.Cell{},
		},
		{
			name:    "colored cell with colors off",
			cell:    core.Cell{Glyph: 'x', Color: core.Ref(0)},
			colors:  canvas.FlagNo,
			wantErr: core.ErrColorsDisabled,
			errMsg:  "colors off",
		},
		{
			name:   "colored cell with colors on",
			cell:   core.Cell{Glyph: 'x', Color: core.Ref(0)},
			colors: canvas.FlagYes,
		},
		{
			name:    "control glyph",
			cell:    core.Cell{Glyph: '\n'},
			wantErr: core.ErrDisallowedChar,
			errMsg:  "cannot be stored",
		},
		{
			name:    "unnormalized space",
			cell:    core.Cell{Glyph: 0x00A0},
			wantErr: core.ErrDisallowedChar,
			errMsg:  "cannot be stored",
		},
		{
			name: "wide glyph allowed by default",
			cell: core.Cell{Glyph: '猫'},
		},
		{
			name:    "wide glyph rejected in strict mode",
			cell:    core.Cell{Glyph: '猫'},
			strict:  true,
			wantErr: core.ErrDisallowedChar,
			errMsg:  "2 cells wide",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			art, _ := canvas.New(1, 3, 2)
			art.Palette().SearchOrCreate(core.ColorPair{Fg: core.Color4(core.Red, false)})
			art.Colors = tt.colors
			f, _ := art.Frame(0)
			if err := f.Set(core.Point{X: 2, Y: 1}, tt.cell); err != nil {
				t.Fatalf("Set: %v", err)
			}

			v := NewArtValidator()
			v.SetStrictMode(tt.strict)
			errs := v.Validate(art)

			if tt.wantErr == nil {
				if len(errs) > 0 {
					t.Errorf("unexpected errors: %v", errs)
				}
				return
			}
			if len(errs) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
			}
			e := errs[0]
			if !errors.Is(e, tt.wantErr) {
				t.Errorf("error %v does not wrap %v", e, tt.wantErr)
			}
			if e.Frame != 0 || e.X != 2 || e.Y != 1 {
				t.Errorf("location = frame %d (%d,%d), want frame 0 (2,1)", e.Frame, e.X, e.Y)
			}
			if !strings.Contains(e.Message, tt.errMsg) {
				t.Errorf("message %q does not contain %q", e.Message, tt.errMsg)
			}
		})
	}
}

func TestArtValidator_ReportsEveryProblem(t *testing.T) {
	art, _ := canvas.New(2, 2, 1)
	f0, _ := art.Frame(0)
	f1, _ := art.Frame(1)
	f0.Set(core.Point{X: 0}, core.Cell{Glyph: '\x01'})
	f1.Set(core.Point{X: 1}, core.Cell{Glyph: '\x07'})
	f1.Delay = 2500 * time.Microsecond

	errs := NewArtValidator().Validate(art)
	if len(errs) != 3 {
		t.Fatalf("got %d errors, want 3: %v", len(errs), errs)
	}
	if errs[0].Frame != 0 || errs[1].Frame != 1 || errs[2].Frame != 1 {
		t.Errorf("frames = %d, %d, %d", errs[0].Frame, errs[1].Frame, errs[2].Frame)
	}
	if !errors.Is(errs[1], core.ErrInvalidDelay) {
		t.Errorf("frame 1 first error = %v, want ErrInvalidDelay", errs[1])
	}
}

func TestArtValidator_Delays(t *testing.T) {
	tests := []struct {
		name  string
		delay time.Duration
		ok    bool
	}{
		{"unset", 0, true},
		{"whole milliseconds", 120 * time.Millisecond, true},
		{"sub-millisecond", 1500 * time.Microsecond, false},
		{"one nanosecond over", time.Second + time.Nanosecond, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			art, _ := canvas.New(1, 1, 1)
			art.Delay = tt.delay
			errs := NewArtValidator().Validate(art)
			if tt.ok {
				if len(errs) != 0 {
					t.Errorf("unexpected errors: %v", errs)
				}
				return
			}
			if len(errs) != 1 || !errors.Is(errs[0], core.ErrInvalidDelay) || errs[0].Frame != -1 {
				t.Fatalf("errors = %v, want one global ErrInvalidDelay", errs)
			}
		})
	}
}

func TestArtValidator_StrictPreview(t *testing.T) {
	art, _ := canvas.New(2, 1, 1)
	art.Preview = 4

	if errs := NewArtValidator().Validate(art); len(errs) != 0 {
		t.Errorf("default mode reported preview: %v", errs)
	}

	v := NewArtValidator()
	v.SetStrictMode(true)
	errs := v.Validate(art)
	if len(errs) != 1 || !errors.Is(errs[0], core.ErrFrameOutOfRange) {
		t.Fatalf("strict errors = %v", errs)
	}
	if got := errs[0].String(); got != "[header]: preview frame 4, art has 2 frames" {
		t.Errorf("String() = %q", got)
	}
}

func TestValidationError_String(t *testing.T) {
	e := ValidationError{Frame: 1, X: 2, Y: 3, Char: 'q', Context: "color", Message: "bad"}
	want := `frame 1 (2,3) 'q' [color]: bad`
	if e.String() != want || e.Error() != want {
		t.Errorf("String() = %q, want %q", e.String(), want)
	}
}
