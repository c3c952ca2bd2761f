package tui

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/bubbles/progress"

	"github.com/vvka-141/pgetl/pkg/pgetl"
)

// ProgressBar reports load progress as a redrawn bar on a terminal.
// The "N files found" and "i/n files processed." texts are kept so the
// output reads the same as the plain reporter.
type ProgressBar struct {
	out    io.Writer
	bar    progress.Model
	mu     sync.Mutex
	inLine bool
}

// NewProgressBar creates a ProgressBar drawing on out.
func NewProgressBar(out io.Writer) *ProgressBar {
	return &ProgressBar{
		out: out,
		bar: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(40),
			progress.WithoutPercentage(),
		),
	}
}

// FilesFound prints the discovery summary for root.
func (p *ProgressBar) FilesFound(root string, count int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "%s\n", TitleStyle.Render(fmt.Sprintf("%d files found in %s", count, root)))
}

// FileProcessed redraws the bar; the last file ends the line.
func (p *ProgressBar) FileProcessed(done, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.out, "\r%s %d/%d files processed.", p.bar.ViewAs(Fraction(done, total)), done, total)
	p.inLine = done < total
	if !p.inLine {
		fmt.Fprintf(p.out, " %s\n", SuccessStyle.Render(SymbolCheck))
	}
}

// FileFailed ends a half-drawn bar so the error starts on its own line.
func (p *ProgressBar) FileFailed(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.inLine {
		fmt.Fprintln(p.out)
		p.inLine = false
	}
	fmt.Fprintf(p.out, "%s %s\n", ErrorStyle.Render(SymbolCross), path)
}

// Fraction returns done/total clamped to [0, 1]. An empty total counts as complete.
func Fraction(done, total int) float64 {
	if total <= 0 {
		return 1
	}
	f := float64(done) / float64(total)
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

var _ pgetl.ProgressReporter = (*ProgressBar)(nil)
