package convert

import (
	"fmt"
	"io"
	"sync"

	"github.com/jedib0t/go-pretty/v6/text"
)

// Reporter emits one status line per completed task. A single mutex guards
// the output stream so lines from concurrent workers never interleave
// mid-line. Line order is completion order, which varies between runs.
type Reporter struct {
	mu    sync.Mutex
	out   io.Writer
	total int
	color bool
}

// NewReporter writes progress to out. Color is the caller's decision
// (typically isatty on stdout).
func NewReporter(out io.Writer, total int, color bool) *Reporter {
	return &Reporter{out: out, total: total, color: color}
}

// TaskDone prints the status line for one terminal outcome.
func (r *Reporter) TaskDone(outcome Outcome) {
	label := outcome.Label()
	if r.color {
		if outcome.Success {
			label = text.FgGreen.Sprint(label)
		} else {
			label = text.FgRed.Sprint(label)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "[%d/%d] Converting %s -> %s ... %s\n",
		outcome.Task.Index+1, r.total, outcome.Task.SourceName(), outcome.Task.FinalName(), label)
}
