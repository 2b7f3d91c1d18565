package output

import (
	"io"
	"sync"

	"github.com/cheggaaa/pb/v3"
)

// progressThreshold is the minimum scan size worth a progress bar;
// smaller comparisons finish before a bar is useful
const progressThreshold = 8 * 1024 * 1024

// ProgressReporter drives a progress bar for long-running byte and
// element scans. Only one bar is active at a time so parallel directory
// workers do not garble the terminal.
type ProgressReporter struct {
	out io.Writer

	mu     sync.Mutex
	bar    *pb.ProgressBar
	active string
}

// NewProgressReporter creates a reporter writing to out
func NewProgressReporter(out io.Writer) *ProgressReporter {
	return &ProgressReporter{out: out}
}

// Callback returns a progress function suitable for the diff engine
func (p *ProgressReporter) Callback() func(path string, current, total int64) {
	return p.update
}

func (p *ProgressReporter) update(path string, current, total int64) {
	if total < progressThreshold {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar == nil {
		p.active = path
		p.bar = pb.New64(total)
		p.bar.Set(pb.Bytes, true)
		p.bar.SetWriter(p.out)
		p.bar.Start()
	} else if p.active != path {
		// Another worker's scan is already displayed
		return
	}

	p.bar.SetCurrent(current)
	if current >= total {
		p.bar.Finish()
		p.bar = nil
		p.active = ""
	}
}

// Stop finishes any bar still on screen
func (p *ProgressReporter) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil {
		p.bar.Finish()
		p.bar = nil
		p.active = ""
	}
}
