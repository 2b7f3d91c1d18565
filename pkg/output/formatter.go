package output

import (
	"io"

	"github.com/sdejongh/diffnorris/pkg/diff"
)

// Formatter defines the interface for rendering a finished comparison
// Implementations include human-readable and JSON formatters
type Formatter interface {
	// Render writes the session outcome to w
	Render(w io.Writer, session *diff.Session) error

	// Name returns the formatter name
	Name() string
}

// New returns the formatter for a format name, defaulting to human
func New(format string, opts Options) Formatter {
	switch format {
	case "json":
		return NewJSONFormatter()
	default:
		return NewHumanFormatter(opts)
	}
}

// Options controls formatter behavior
type Options struct {
	// Color enables colorized human output
	Color bool
	// Quiet suppresses everything except mismatch reports and errors
	Quiet bool
	// Debug dumps the full result record after the report
	Debug bool
}
