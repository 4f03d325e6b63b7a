// Package codec reads and writes arts in the 3a text format.
//
// Two format generations exist. The current one starts with an "@3a" line
// and is read strictly: any error aborts the read and no art is returned.
// The legacy one is read best-effort: whatever can be derived is kept and
// everything that had to be dropped or guessed is reported as a Warning.
// Only the current format is ever written.
package codec

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"threea/canvas"
	"threea/core"
	"time"
)

// Signature is the first line of a current-format file.
const Signature = "@3a"

// Version identifies the generation of a 3a document.
type Version int

const (
	// VersionUnsupported is any signature this package cannot read.
	VersionUnsupported Version = iota
	// VersionCurrent is the "@3a" format.
	VersionCurrent
	// VersionLegacy is the older header-and-stream format.
	VersionLegacy
)

// String returns the version name.
func (v Version) String() string {
	switch v {
	case VersionCurrent:
		return "current"
	case VersionLegacy:
		return "legacy"
	default:
		return "unsupported"
	}
}

var legacyKeys = map[string]bool{
	"title": true, "author": true, "loop": true, "preview": true,
	"delay": true, "colors": true, "width": true, "height": true,
}

// DetectVersion decides the format generation from the first line of data.
// Empty input is ErrMalformedHeader.
func DetectVersion(data []byte) (Version, error) {
	first, ok := newLineScanner(data).next()
	if !ok {
		return VersionUnsupported, &ParseError{Line: 1, Err: fmt.Errorf("%w: empty input", core.ErrMalformedHeader)}
	}

	switch {
	case first == Signature:
		return VersionCurrent, nil
	case strings.HasPrefix(first, "@3"):
		return VersionUnsupported, nil
	case strings.HasPrefix(first, "\t"), strings.HasPrefix(first, "@"),
		strings.HasPrefix(first, "#"), strings.HasPrefix(first, "utf8"):
		return VersionLegacy, nil
	}

	key, _, _ := strings.Cut(strings.TrimSpace(first), " ")
	if legacyKeys[key] {
		return VersionLegacy, nil
	}
	return VersionUnsupported, nil
}

// ParseError reports where in the input a read failed. It unwraps to one
// of the core sentinel errors.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Option configures Decode and Read.
type Option func(*options)

type options struct {
	logger      *slog.Logger
	legacyDelay time.Duration
}

func newOptions(opts []Option) options {
	o := options{
		logger:      slog.New(slog.DiscardHandler),
		legacyDelay: canvas.DefaultDelay,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger used for debug output and legacy warnings.
// By default nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithLegacyDefaultDelay sets the frame delay given to legacy files that
// carry no timing. Non-positive values are ignored.
func WithLegacyDefaultDelay(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.legacyDelay = d
		}
	}
}

// Decode parses a 3a document of either generation. Warnings are only
// produced by the legacy reader; a current-format document either decodes
// completely or fails.
func Decode(data []byte, opts ...Option) (*canvas.Art, []Warning, error) {
	o := newOptions(opts)

	version, err := DetectVersion(data)
	if err != nil {
		return nil, nil, err
	}
	o.logger.Debug("detected format", "version", version)

	switch version {
	case VersionCurrent:
		art, err := newCurrentReader(data, o).read()
		if err != nil {
			return nil, nil, err
		}
		return art, nil, nil
	case VersionLegacy:
		return newLegacyReader(data, o).read()
	}

	first, _ := newLineScanner(data).next()
	return nil, nil, &ParseError{Line: 1, Err: fmt.Errorf("%w: %q", core.ErrUnsupportedVersion, first)}
}

// Read reads all of r and decodes it. Errors from r are returned unchanged.
func Read(r io.Reader, opts ...Option) (*canvas.Art, []Warning, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}
	return Decode(data, opts...)
}

// Encode renders art in the current format.
func Encode(art *canvas.Art) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, art); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write renders art in the current format to w. The art is validated
// first; nothing is written if it is invalid. Errors from w are returned
// unchanged.
func Write(w io.Writer, art *canvas.Art) error {
	text, err := newWriter(art).render()
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, text)
	return err
}
