package core

import "errors"

// Errors shared by the model, the codec and the renderers.
var (
	// ErrMalformedHeader indicates a header line that cannot be parsed.
	ErrMalformedHeader = errors.New("threea: malformed header")

	// ErrMalformedBlock indicates body content outside a block or a duplicated block.
	ErrMalformedBlock = errors.New("threea: malformed block")

	// ErrUnsupportedVersion indicates an unrecognized format signature.
	ErrUnsupportedVersion = errors.New("threea: unsupported format version")

	// ErrTruncatedData indicates input that ends before a complete structure.
	ErrTruncatedData = errors.New("threea: truncated data")

	// ErrInvalidColorIndex indicates a cell referencing a color the palette does not hold.
	ErrInvalidColorIndex = errors.New("threea: invalid color index")

	// ErrDimensionMismatch indicates rows or channels of different sizes.
	ErrDimensionMismatch = errors.New("threea: dimension mismatch")

	// ErrInvalidColor indicates a color or color pair literal that cannot be parsed.
	ErrInvalidColor = errors.New("threea: invalid color")

	// ErrLegacyFieldDropped marks a non-fatal legacy warning.
	ErrLegacyFieldDropped = errors.New("threea: legacy field dropped")

	// ErrFrameOutOfRange indicates a frame index past the end of the art.
	ErrFrameOutOfRange = errors.New("threea: frame out of range")

	// ErrIndexOutOfRange indicates a palette index past the end of the palette.
	ErrIndexOutOfRange = errors.New("threea: palette index out of range")

	// ErrOutOfBounds indicates a cell position outside a frame.
	ErrOutOfBounds = errors.New("threea: position out of bounds")

	// ErrDisallowedChar indicates a glyph that cannot be stored in a cell.
	ErrDisallowedChar = errors.New("threea: disallowed character")

	// ErrInvalidSize indicates a frame with a non-positive dimension.
	ErrInvalidSize = errors.New("threea: invalid frame size")

	// ErrColorsDisabled indicates colored cells in an art whose colors flag is off.
	ErrColorsDisabled = errors.New("threea: colored cells with colors disabled")

	// ErrInvalidDelay indicates a delay that is not a whole number of milliseconds.
	ErrInvalidDelay = errors.New("threea: invalid delay")
)
