package codec_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"threea/canvas"
	"threea/codec"
	"threea/core"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

type frameSnapshot struct {
	Delay time.Duration
	Rows  [][]core.Cell
}

type artSnapshot struct {
	Header  canvas.Header
	Palette []core.ColorPair
	Delay   time.Duration
	Attach  string
	Extra   []canvas.Block
	Frames  []frameSnapshot
}

func snapshot(a *canvas.Art) artSnapshot {
	s := artSnapshot{
		Header:  a.Header,
		Palette: a.Palette().Entries(),
		Delay:   a.GlobalDelay(),
		Attach:  a.Attach,
		Extra:   a.Extra,
	}
	for i, f := range a.Frames() {
		s.Frames = append(s.Frames, frameSnapshot{Delay: a.FrameDelay(i), Rows: f.Cells()})
	}
	return s
}

func TestDetectVersion(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  codec.Version
	}{
		{"current", "@3a\n\n", codec.VersionCurrent},
		{"current crlf", "@3a\r\n\r\n", codec.VersionCurrent},
		{"future version", "@3b\n", codec.VersionUnsupported},
		{"signature with suffix", "@3a extra\n", codec.VersionUnsupported},
		{"legacy key", "title cat\n", codec.VersionLegacy},
		{"legacy width", "width 10\n", codec.VersionLegacy},
		{"legacy tab comment", "\tby someone\n", codec.VersionLegacy},
		{"legacy at comment", "@ made by hand\n", codec.VersionLegacy},
		{"legacy tags", "#cat #animal\n", codec.VersionLegacy},
		{"legacy utf8 marker", "utf8\n", codec.VersionLegacy},
		{"plain text", "hello world\n", codec.VersionUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := codec.DetectVersion([]byte(tt.input))
			if err != nil {
				t.Fatalf("DetectVersion: %v", err)
			}
			if got != tt.want {
				t.Errorf("DetectVersion(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}

	if _, err := codec.DetectVersion(nil); !errors.Is(err, core.ErrMalformedHeader) {
		t.Errorf("empty input error = %v, want ErrMalformedHeader", err)
	}
}

func TestEncode(t *testing.T) {
	art, _ := canvas.New(1, 2, 1)
	art.Title = "t"
	red := art.Palette().SearchOrCreate(core.ColorPair{Fg: core.Color4(core.Red, false)})
	art.Print(0, 0, 0, "a", core.SetColor(red))
	art.Print(0, 1, 0, "b", core.KeepColor())

	got, err := codec.Encode(art)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := "@3a\ntitle t\ndelay 50\ncol 1 fg:red\n\n@body\nab1_\n\n"
	if string(got) != want {
		t.Errorf("Encode() =\n%s\nwant\n%s", got, want)
	}
}

func TestEncode_TextOnly(t *testing.T) {
	art, _ := canvas.New(2, 3, 1)
	art.Print(0, 0, 0, "abc", core.KeepColor())
	art.Print(1, 0, 0, "xyz", core.KeepColor())
	art.Loop = canvas.FlagNo
	f, _ := art.Frame(1)
	f.Delay = 200 * time.Millisecond

	got, err := codec.Encode(art)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := "@3a\ndelay 50 1:200\nloop no\n\n@body\nabc\n\nxyz\n\n"
	if string(got) != want {
		t.Errorf("Encode() =\n%q\nwant\n%q", got, want)
	}
}

func buildArt(t *testing.T) *canvas.Art {
	t.Helper()

	art, err := canvas.New(3, 4, 2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	art.Title = "cat"
	art.AddOrigAuthor("ann")
	art.AddAuthor("bob")
	art.AddAuthor("cy")
	art.Source = "https://example.com/cat"
	art.Editor = "threea"
	art.License = "CC0"
	art.Loop = canvas.FlagYes
	art.Preview = 1
	art.AddTag("animal")
	art.AddTag("cute")
	art.ExtraKeys = []string{"mood happy"}
	art.Delay = 80 * time.Millisecond
	art.Attach = "cat.png"
	art.Extra = []canvas.Block{{Name: "notes", Content: "drawn quickly\nsecond line\n"}}

	blue := art.Palette().SearchOrCreate(core.ColorPair{Fg: core.Color4(core.Blue, true)})
	odd := art.Palette().SearchOrCreate(core.ColorPair{Fg: core.Color256(201), Bg: core.RGB(10, 11, 12)})
	bgOnly := art.Palette().SearchOrCreate(core.ColorPair{Bg: core.Color4(core.Yellow, false)})

	art.Print(0, 0, 0, "/\\_/", core.SetColor(blue))
	art.Print(0, 0, 1, "o.o", core.SetColor(odd))
	art.Print(1, 1, 0, "^ ^", core.SetColor(bgOnly))
	art.Print(1, 0, 1, "@#", core.KeepColor())
	art.Print(2, 0, 0, "é~", core.KeepColor())

	f, _ := art.Frame(2)
	f.Delay = 300 * time.Millisecond
	return art
}

func TestRoundTrip(t *testing.T) {
	art := buildArt(t)

	data, err := codec.Encode(art)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, warnings, err := codec.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v\n%s", err, data)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	if diff := cmp.Diff(snapshot(art), snapshot(got), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s\n%s", diff, data)
	}
}

func TestRoundTrip_Pins(t *testing.T) {
	tests := []struct {
		name  string
		block string
		setup func(a *canvas.Art, c int)
	}{
		{
			name:  "shared colors",
			block: "@color-pin",
			setup: func(a *canvas.Art, c int) {
				for i, text := range []string{"ab", "cd", "ef"} {
					a.Print(i, 0, 0, text, core.SetColor(c))
				}
			},
		},
		{
			name:  "shared text",
			block: "@text-pin",
			setup: func(a *canvas.Art, c int) {
				for i := 0; i < 3; i++ {
					a.Print(i, 0, 0, "zz", core.KeepColor())
					a.Print(i, i%2, 0, "z", core.SetColor(c))
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			art, _ := canvas.New(3, 2, 1)
			c := art.Palette().SearchOrCreate(core.ColorPair{Fg: core.Color4(core.Green, false)})
			tt.setup(art, c)

			data, err := codec.Encode(art)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if !bytes.Contains(data, []byte(tt.block+"\n")) {
				t.Errorf("output has no %s block:\n%s", tt.block, data)
			}

			got, _, err := codec.Decode(data)
			if err != nil {
				t.Fatalf("Decode: %v\n%s", err, data)
			}
			if diff := cmp.Diff(snapshot(art), snapshot(got), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecode_BuiltinColors(t *testing.T) {
	input := "@3a\ncolors yes\n\n@body\nab1_\ncd_1\n"
	art, _, err := codec.Decode([]byte(input))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if art.Palette().Len() != 1 {
		t.Fatalf("palette length = %d, want 1", art.Palette().Len())
	}
	pair, _ := art.Palette().Get(0)
	if pair != (core.ColorPair{Fg: core.Color4(core.Red, false)}) {
		t.Errorf("pair = %v, want fg:red", pair)
	}

	f, _ := art.Frame(0)
	if f.String() != "ab\ncd" {
		t.Errorf("glyphs = %q", f.String())
	}
	colored := map[core.Point]bool{{X: 0, Y: 0}: true, {X: 1, Y: 1}: true}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			p := core.Point{X: x, Y: y}
			if got := f.Get(p).Color.IsSet(); got != colored[p] {
				t.Errorf("cell %v colored = %v, want %v", p, got, colored[p])
			}
		}
	}
}

func TestDecode_DeclaredColorOverridesBuiltin(t *testing.T) {
	input := "@3a\ncol 1 fg:green\n\n@body\nx1\n"
	art, _, err := codec.Decode([]byte(input))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	pair, _ := art.Palette().Get(0)
	if pair.Fg != core.Color4(core.Green, false) {
		t.Errorf("pair = %v, want fg:green", pair)
	}
}

func TestDecode_Errors(t *testing.T) {
	valid := "@3a\ntitle t\ncol g fg:red bg:blue\ncol h fg:200\n\n@body\nabgh\n\n"

	tests := []struct {
		name    string
		input   string
		wantErr error
		line    int
	}{
		{"truncated inside col line", valid[:strings.Index(valid, "bg:blu")+3], core.ErrTruncatedData, 3},
		{"truncated after col line", valid[:strings.Index(valid, "col h")], core.ErrTruncatedData, 4},
		{"truncated inside row", "@3a\ncolors yes\n\n@body\nab__\nc", core.ErrTruncatedData, 6},
		{"signature only", "@3a", core.ErrTruncatedData, 2},
		{"unsupported signature", "@3z\n\n", core.ErrUnsupportedVersion, 1},
		{"not a 3a file", "<svg>\n", core.ErrUnsupportedVersion, 1},
		{"undeclared color", "@3a\ncolors yes\n\n@body\nabz_\n", core.ErrInvalidColorIndex, 5},
		{"row width mismatch", "@3a\n\n@body\nabc\nab\nxyz\n", core.ErrDimensionMismatch, 5},
		{"odd color row", "@3a\ncolors yes\n\n@body\nab1\nxyz\n", core.ErrDimensionMismatch, 5},
		{"duplicate title", "@3a\ntitle a\ntitle b\n\n", core.ErrMalformedHeader, 3},
		{"key without value", "@3a\ntitle\n\n", core.ErrMalformedHeader, 2},
		{"bad color", "@3a\ncol g fg:mauve\n\n", core.ErrMalformedHeader, 2},
		{"duplicate color name", "@3a\ncol g fg:red\ncol g fg:blue\n\n", core.ErrMalformedHeader, 3},
		{"bad flag", "@3a\nloop maybe\n\n", core.ErrMalformedHeader, 2},
		{"bad delay", "@3a\ndelay fast\n\n", core.ErrMalformedHeader, 2},
		{"text outside block", "@3a\n\nhello\n", core.ErrMalformedBlock, 3},
		{"duplicate body", "@3a\n\n@body\na\n\n\n@body\nb\n", core.ErrMalformedBlock, 7},
		{"text pin after body", "@3a\n\n@body\na\n\n\n@text-pin\nb\n", core.ErrMalformedBlock, 7},
		{"color pin after body", "@3a\ncolors yes\n\n@body\na1\n\n\n@color-pin\n1\n", core.ErrMalformedBlock, 8},
		{"pin size mismatch", "@3a\ncolors yes\n\n@color-pin\n1_\n\n@body\nabc\n", core.ErrDimensionMismatch, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			art, _, err := codec.Decode([]byte(tt.input))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Decode error = %v, want %v", err, tt.wantErr)
			}
			if art != nil {
				t.Errorf("Decode returned an art alongside %v", err)
			}
			var pe *codec.ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error %T is not a *ParseError", err)
			}
			if tt.line > 0 && pe.Line != tt.line {
				t.Errorf("error line = %d, want %d (%v)", pe.Line, tt.line, err)
			}
		})
	}
}

func TestDecode_HeaderDetails(t *testing.T) {
	input := strings.Join([]string{
		"@3a",
		";; drawn on paper first",
		"title  spaced title ",
		"author bob",
		"author bob",
		"delay 0 1:120",
		"colors no",
		"loop TRUE",
		"mood calm",
		"#one #two",
		"#three",
		"",
		"@attach",
		"pic.png",
		"",
		"@body",
		"a",
		"",
		"b",
		"",
	}, "\n")

	art, _, err := codec.Decode([]byte(input))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if art.Title != "spaced title" {
		t.Errorf("Title = %q", art.Title)
	}
	if diff := cmp.Diff([]string{"bob"}, art.Authors); diff != "" {
		t.Errorf("Authors (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"one", "two", "three"}, art.Tags); diff != "" {
		t.Errorf("Tags (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"mood calm"}, art.ExtraKeys); diff != "" {
		t.Errorf("ExtraKeys (-want +got):\n%s", diff)
	}
	if art.Loop != canvas.FlagYes || art.Colors != canvas.FlagNo {
		t.Errorf("flags loop=%v colors=%v", art.Loop, art.Colors)
	}
	if art.Attach != "pic.png" {
		t.Errorf("Attach = %q", art.Attach)
	}
	if diff := cmp.Diff([]string{"drawn on paper first"}, art.CommentsFor("title")); diff != "" {
		t.Errorf("title comments (-want +got):\n%s", diff)
	}
	if art.FrameCount() != 2 {
		t.Fatalf("FrameCount = %d, want 2", art.FrameCount())
	}
	if art.FrameDelay(0) != canvas.DefaultDelay || art.FrameDelay(1) != 120*time.Millisecond {
		t.Errorf("delays = %v, %v", art.FrameDelay(0), art.FrameDelay(1))
	}
}

func TestComments_RoundTrip(t *testing.T) {
	input := strings.Join([]string{
		"@3a",
		";; drawn on paper first",
		"title cat",
		";; joined later",
		"author bob",
		"delay 50",
		";; the red one",
		"col 1 fg:red",
		";;",
		"mood calm",
		";; tags",
		"#one",
		";; more tags",
		"#two #three",
		";; last words",
		"",
		"@body",
		"a1",
		"",
		"",
	}, "\n")

	art, _, err := codec.Decode([]byte(input))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	want := map[string][]string{
		"title":      {"drawn on paper first"},
		"author bob": {"joined later"},
		"col 0":      {"the red one"},
		"mood calm":  {""},
		"#one":       {"tags"},
		"#two":       {"more tags"},
	}
	if diff := cmp.Diff(want, art.Comments); diff != "" {
		t.Errorf("Comments (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"last words"}, art.TrailingComments); diff != "" {
		t.Errorf("TrailingComments (-want +got):\n%s", diff)
	}

	got, err := codec.Encode(art)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if string(got) != input {
		t.Errorf("Encode() =\n%s\nwant\n%s", got, input)
	}
}

func TestComments_Strip(t *testing.T) {
	art, _, err := codec.Decode([]byte("@3a\n;; one\ntitle t\n;; two\n\n@body\na\n\n"))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	art.StripComments()

	got, err := codec.Encode(art)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if want := "@3a\ntitle t\ndelay 50\n\n@body\na\n\n"; string(got) != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}

func TestComments_WithoutLineKept(t *testing.T) {
	art, _ := canvas.New(1, 1, 1)
	art.Print(0, 0, 0, "x", core.KeepColor())
	art.AddComment("license", "ask first")
	art.AddComment("#gone", "tag was removed")
	art.TrailingComments = []string{"end"}

	got, err := codec.Encode(art)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := "@3a\ndelay 50\n;; tag was removed\n;; ask first\n;; end\n\n@body\nx\n\n"
	if string(got) != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}

	back, _, err := codec.Decode(got)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if diff := cmp.Diff([]string{"tag was removed", "ask first", "end"}, back.TrailingComments); diff != "" {
		t.Errorf("TrailingComments (-want +got):\n%s", diff)
	}
}

func TestEncode_RejectsInvalidArt(t *testing.T) {
	tests := []struct {
		name    string
		edit    func(a *canvas.Art)
		wantErr error
	}{
		{
			name: "control glyph",
			edit: func(a *canvas.Art) {
				f, _ := a.Frame(0)
				f.Set(core.Point{}, core.Cell{Glyph: '\x07'})
			},
			wantErr: core.ErrDisallowedChar,
		},
		{
			name: "colored cells with colors off",
			edit: func(a *canvas.Art) {
				red := a.Palette().SearchOrCreate(core.ColorPair{Fg: core.Color4(core.Red, false)})
				a.Print(0, 0, 0, "x", core.SetColor(red))
				a.Colors = canvas.FlagNo
			},
			wantErr: core.ErrColorsDisabled,
		},
		{
			name:    "sub-millisecond global delay",
			edit:    func(a *canvas.Art) { a.Delay = 1500 * time.Microsecond },
			wantErr: core.ErrInvalidDelay,
		},
		{
			name: "sub-millisecond frame delay",
			edit: func(a *canvas.Art) {
				f, _ := a.Frame(0)
				f.Delay = 40*time.Millisecond + time.Nanosecond
			},
			wantErr: core.ErrInvalidDelay,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			art, _ := canvas.New(1, 2, 1)
			tt.edit(art)

			var buf bytes.Buffer
			err := codec.Write(&buf, art)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Write error = %v, want %v", err, tt.wantErr)
			}
			if buf.Len() != 0 {
				t.Errorf("Write produced output for an invalid art: %q", buf.String())
			}
		})
	}
}

func TestEncode_ColorNames(t *testing.T) {
	art, _ := canvas.New(1, 20, 1)
	var pairs []core.ColorPair
	for i := 0; i < 20; i++ {
		pairs = append(pairs, core.ColorPair{Fg: core.Color256(uint8(100 + i))})
	}
	pairs = append(pairs, core.ColorPair{Fg: core.Color4(core.Red, false)})
	for i, p := range pairs {
		idx := art.Palette().SearchOrCreate(p)
		art.Print(0, i%20, 0, "x", core.SetColor(idx))
	}

	data, err := codec.Encode(art)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for _, want := range []string{"col g fg:100\n", "col z fg:119\n", "col 1 fg:red\n"} {
		if !bytes.Contains(data, []byte(want)) {
			t.Errorf("output lacks %q:\n%s", want, data)
		}
	}

	got, _, err := codec.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if diff := cmp.Diff(art.Palette().Entries(), got.Palette().Entries()); diff != "" {
		t.Errorf("palette (-want +got):\n%s", diff)
	}
}

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

func TestRead_PropagatesIOError(t *testing.T) {
	boom := errors.New("disk on fire")
	if _, _, err := codec.Read(failingReader{boom}); err != boom {
		t.Errorf("Read error = %v, want %v", err, boom)
	}
}
