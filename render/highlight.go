package render

import (
	"fmt"
	"io"

	"github.com/alecthomas/chroma/v2/quick"
)

// DefaultStyle is the chroma style used when none is given.
const DefaultStyle = "monokai"

// HighlightJSON writes data with terminal colour escapes. Formatter names are
// chroma's ("terminal256", "terminal16m", "noop" for plain text).
func HighlightJSON(w io.Writer, data []byte, formatter, style string) error {
	if formatter == "" {
		formatter = "terminal256"
	}
	if style == "" {
		style = DefaultStyle
	}
	if err := quick.Highlight(w, string(data), "json", formatter, style); err != nil {
		return fmt.Errorf("highlight json: %w", err)
	}
	return nil
}
