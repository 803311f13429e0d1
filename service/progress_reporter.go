package service

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/codepulse/codepulse/domain"
)

// ProgressReporterImpl reports batch progress with a terminal progress bar.
// All methods are safe for concurrent use.
type ProgressReporterImpl struct {
	mu          sync.Mutex
	writer      io.Writer
	bar         *progressbar.ProgressBar
	interactive bool
	processed   int
	skipped     int
}

// NewProgressReporter creates a progress reporter writing to w. When w is nil
// it defaults to stderr. The bar only renders on an interactive terminal.
func NewProgressReporter(w io.Writer) *ProgressReporterImpl {
	if w == nil {
		w = os.Stderr
	}
	return &ProgressReporterImpl{
		writer:      w,
		interactive: isTerminal(w),
	}
}

// StartAnalysis begins tracking a batch of totalFiles files
func (p *ProgressReporterImpl) StartAnalysis(totalFiles int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.processed = 0
	p.skipped = 0

	if !p.interactive || totalFiles <= 1 {
		return
	}

	p.bar = progressbar.NewOptions(totalFiles,
		progressbar.OptionSetDescription("Scanning"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetWriter(p.writer),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(p.writer)
		}),
	)
}

// FileCompleted records one successfully analyzed file
func (p *ProgressReporterImpl) FileCompleted(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.processed++
	if p.bar != nil {
		_ = p.bar.Add(1)
	}
}

// FileSkipped records a file that could not be analyzed
func (p *ProgressReporterImpl) FileSkipped(path string, reason string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.skipped++
	if p.bar != nil {
		_ = p.bar.Add(1)
	} else if p.interactive {
		fmt.Fprintf(p.writer, "skipped %s: %s\n", path, reason)
	}
}

// Finish closes out progress reporting
func (p *ProgressReporterImpl) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar != nil {
		_ = p.bar.Finish()
		p.bar = nil
	}
}

// NoOpProgressReporter is a progress reporter that does nothing
type NoOpProgressReporter struct{}

// NewNoOpProgressReporter creates a no-op progress reporter
func NewNoOpProgressReporter() *NoOpProgressReporter {
	return &NoOpProgressReporter{}
}

func (n *NoOpProgressReporter) StartAnalysis(totalFiles int)           {}
func (n *NoOpProgressReporter) FileCompleted(path string)              {}
func (n *NoOpProgressReporter) FileSkipped(path string, reason string) {}
func (n *NoOpProgressReporter) Finish()                                {}

// CreateProgressReporter picks a reporter appropriate for the environment.
// Progress is suppressed when disabled or when output is not a terminal.
func CreateProgressReporter(w io.Writer, enabled bool) domain.ProgressReporter {
	if !enabled {
		return NewNoOpProgressReporter()
	}
	if w == nil {
		w = os.Stderr
	}
	if !isTerminal(w) {
		return NewNoOpProgressReporter()
	}
	return NewProgressReporter(w)
}

// isTerminal checks if the writer is connected to a terminal
func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
