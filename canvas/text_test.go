package canvas

import (
	"testing"
)

func TestCheckChar(t *testing.T) {
	tests := []struct {
		name string
		in   rune
		want rune
		ok   bool
	}{
		{"ascii", 'a', 'a', true},
		{"space", ' ', ' ', true},
		{"tab", '\t', ' ', true},
		{"no-break space", 0x00A0, ' ', true},
		{"em space", 0x2003, ' ', true},
		{"ideographic space", 0x3000, ' ', true},
		{"newline", '\n', 0, false},
		{"escape", 0x1b, 0, false},
		{"delete", 0x7f, 0, false},
		{"combining acute", 0x0301, 0, false},
		{"zero width space", 0x200B, 0, false},
		{"byte order mark", 0xFEFF, 0, false},
		{"variation selector", 0xFE0F, 0, false},
		{"bidi override", 0x202E, 0, false},
		{"box drawing", '─', '─', true},
		{"cjk", '猫', '猫', true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CheckChar(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Errorf("CheckChar(%U) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello", "hello"},
		{"a\tb", "a b"},
		{"e\u0301", "e"},
		{"line\nbreak", "linebreak"},
		{"\u200bzero", "zero"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeText(tt.in); got != tt.want {
			t.Errorf("NormalizeText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMeasureText(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"abc", 3},
		{"猫", 2},
		{"", 0},
	}
	for _, tt := range tests {
		if got := MeasureText(tt.in); got != tt.want {
			t.Errorf("MeasureText(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
	if GlyphWidth('a') != 1 || GlyphWidth('猫') != 2 {
		t.Errorf("GlyphWidth mismatch: a=%d 猫=%d", GlyphWidth('a'), GlyphWidth('猫'))
	}
}
