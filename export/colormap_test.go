package export

import (
	"errors"
	"strings"
	"testing"
	"threea/core"
)

func TestCSSColorMap_Defaults(t *testing.T) {
	m := NewCSSColorMap()

	tests := []struct {
		name       string
		color      core.Color
		foreground bool
		want       string
	}{
		{"default fg", core.Color{}, true, "#ffffff"},
		{"default bg", core.Color{}, false, "#000000"},
		{"red", core.Color4(core.Red, false), true, "#800000"},
		{"bright black", core.Color4(core.Black, true), false, "#4e4e4e"},
		{"bright white", core.Color4(core.White, true), true, "#ffffff"},
		{"256 low entry", core.Color256(9), true, "#ff0000"},
		{"256 cube", core.Color256(196), true, "#ff0000"},
		{"256 gray ramp", core.Color256(232), true, "#080808"},
		{"rgb", core.RGB(1, 2, 255), true, "#0102ff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.MapColor(tt.color, tt.foreground)
			if err != nil {
				t.Fatalf("MapColor: %v", err)
			}
			if got != tt.want {
				t.Errorf("MapColor(%v, %v) = %q, want %q", tt.color, tt.foreground, got, tt.want)
			}
		})
	}
}

func TestCSSColorMap_Overrides(t *testing.T) {
	m := NewCSSColorMap()

	if err := m.Set(core.Color4(core.Red, false), true, "navy"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := m.SetSpec("none/bg", " #101010 "); err != nil {
		t.Fatalf("SetSpec: %v", err)
	}

	if got, _ := m.MapColor(core.Color4(core.Red, false), true); got != "#000080" {
		t.Errorf("red fg = %q, want #000080", got)
	}
	if got, _ := m.MapColor(core.Color4(core.Red, false), false); got != "#800000" {
		t.Errorf("red bg = %q, the override is for fg only", got)
	}
	if got, _ := m.MapColor(core.Color{}, false); got != "#101010" {
		t.Errorf("default bg = %q, want #101010", got)
	}

	for _, bad := range []struct{ key, value string }{
		{"red/fg", "notacolor"},
		{"red/fg", "\"><script>"},
		{"red/side", "navy"},
		{"mauve/fg", "navy"},
		{"red", "navy"},
	} {
		if err := m.SetSpec(bad.key, bad.value); !errors.Is(err, core.ErrInvalidColor) {
			t.Errorf("SetSpec(%q, %q) error = %v, want ErrInvalidColor", bad.key, bad.value, err)
		}
	}
}

func TestSanitizeColor(t *testing.T) {
	if got := sanitizeColor(` #ab"c<d>-e_f `); got != "#abcd-e_f" {
		t.Errorf("sanitizeColor = %q", got)
	}
}

func TestFont(t *testing.T) {
	f := DefaultFont()

	if w, h := f.CellSize(); w != 12 || h != 20 {
		t.Errorf("CellSize = %d,%d", w, h)
	}
	if x, y := f.Offset(); x != 0 || y != 2 {
		t.Errorf("Offset = %d,%d", x, y)
	}
	for r, want := range map[rune]int{'a': 12, '猫': 24, '\u0301': 12} {
		got, err := f.GlyphWidth(r)
		if err != nil || got != want {
			t.Errorf("GlyphWidth(%q) = %d, %v, want %d", r, got, err, want)
		}
	}
	if _, err := f.GlyphWidth(-1); err == nil {
		t.Error("GlyphWidth of an invalid rune should fail")
	}

	f.Family = `Evil"Font`
	if style := f.Style(); strings.Contains(style, `Evil"`) {
		t.Errorf("family not escaped: %s", style)
	}
}
