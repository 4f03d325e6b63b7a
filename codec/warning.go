package codec

import (
	"fmt"
	"threea/core"
)

// Warning describes data the legacy reader had to drop or approximate.
// Every Warning unwraps to core.ErrLegacyFieldDropped.
type Warning struct {
	// Line is the 1-based input line, or 0 when the warning concerns the
	// document as a whole.
	Line int
	// Field names the header key or body section affected.
	Field   string
	Message string
}

func (w Warning) Error() string {
	if w.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s", w.Line, w.Field, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Field, w.Message)
}

func (w Warning) Unwrap() error {
	return core.ErrLegacyFieldDropped
}
