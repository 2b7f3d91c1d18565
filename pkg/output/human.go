package output

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/sdejongh/diffnorris/pkg/diff"
)

// HumanFormatter renders results for terminal reading
type HumanFormatter struct {
	opts Options
}

// NewHumanFormatter creates a new human-readable formatter
func NewHumanFormatter(opts Options) *HumanFormatter {
	return &HumanFormatter{opts: opts}
}

// Render prints the mismatch report (if any) and a status line
func (f *HumanFormatter) Render(w io.Writer, session *diff.Session) error {
	if !f.opts.Color {
		color.NoColor = true
	}

	res := session.Result
	if res != nil && !res.Matches && res.Report != "" {
		fmt.Fprintln(w, res.Report)
	}

	if !f.opts.Quiet {
		switch session.Status {
		case diff.StatusMatch:
			color.New(color.FgGreen).Fprintf(w, "match")
			fmt.Fprintf(w, " (%s)\n", session.Duration.Round(time.Millisecond))
		case diff.StatusMismatch:
			color.New(color.FgRed).Fprintf(w, "mismatch")
			if res != nil && res.Similarity >= 0 {
				fmt.Fprintf(w, " (similarity %.1f%%, %s)\n",
					res.Similarity*100, session.Duration.Round(time.Millisecond))
			} else {
				fmt.Fprintf(w, " (%s)\n", session.Duration.Round(time.Millisecond))
			}
		}
	}

	if f.opts.Debug && res != nil {
		fmt.Fprintf(w, "%+v\n", *res)
	}

	return nil
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}
