package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/sdejongh/diffnorris/pkg/diff"
)

// JSONFormatter renders the full session record as JSON for automation
// and scripting
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// jsonReport shapes the session for output, with the duration in
// milliseconds
type jsonReport struct {
	*diff.Session
	DurationMs int64 `json:"duration_ms"`
}

// Render writes the session as indented JSON
func (f *JSONFormatter) Render(w io.Writer, session *diff.Session) error {
	report := jsonReport{
		Session:    session,
		DurationMs: session.Duration.Milliseconds(),
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	_, err = fmt.Fprintln(w, string(data))
	return err
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}
