package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/raveheart1/pagecraft/internal/output"
	"github.com/raveheart1/pagecraft/internal/pipeline"
)

// Reporter renders stage lifecycle events with a terminal spinner. It
// implements pipeline.Observer. When stdout is not a TTY the spinner is
// suppressed and plain lines are printed instead, so piped output stays
// clean.
type Reporter struct {
	out     io.Writer
	caps    TerminalCapabilities
	symbols ProgressSymbols

	mu     sync.Mutex
	spin   *spinner.Spinner
	active int // stages currently running in this tier
}

// NewReporter builds a reporter for the detected terminal.
func NewReporter(out io.Writer) *Reporter {
	caps := DetectTerminalCapabilities()
	return &Reporter{
		out:     out,
		caps:    caps,
		symbols: SelectSymbols(caps),
	}
}

// StageStarted implements pipeline.Observer.
func (r *Reporter) StageStarted(index, total int, name pipeline.StageName) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.active++

	if !r.caps.IsTTY {
		output.PrintStageHeader(r.out, index+1, total, string(name))
		return
	}

	if r.spin == nil {
		r.spin = spinner.New(spinner.CharSets[r.symbols.SpinnerSet], 100*time.Millisecond, spinner.WithWriter(r.out))
		r.spin.Start()
	}
	r.spin.Suffix = fmt.Sprintf(" [%d/%d] %s", index+1, total, name)
}

// StageRetrying implements pipeline.Observer.
func (r *Reporter) StageRetrying(name pipeline.StageName, attempt int, reason error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.spin != nil {
		r.spin.Stop()
	}
	output.PrintStageRetry(r.out, r.symbols.Retry, string(name), attempt, reason.Error())
	if r.spin != nil {
		r.spin.Start()
	}
}

// StageCompleted implements pipeline.Observer.
func (r *Reporter) StageCompleted(index, total int, name pipeline.StageName) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.active--

	if r.spin != nil {
		r.spin.Stop()
	}
	fmt.Fprintf(r.out, "%s [%d/%d] %s\n", r.symbols.Checkmark, index+1, total, name)
	if r.spin != nil && r.active > 0 {
		r.spin.Start()
	}
	if r.active == 0 {
		r.spin = nil
	}
}

// Stop halts any running spinner, for cleanup after a failed run.
func (r *Reporter) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.spin != nil {
		r.spin.Stop()
		r.spin = nil
	}
}

var _ pipeline.Observer = (*Reporter)(nil)
