package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/vvka-141/pgetl/internal/tui"
	"github.com/vvka-141/pgetl/pkg/pgetl"
)

var dangerBox = lipgloss.NewStyle().
	Border(lipgloss.DoubleBorder()).
	BorderForeground(tui.ColorError).
	Padding(0, 2)

// ForcedApprover approves after a countdown the operator can interrupt with
// Ctrl+C. It backs the --force flag.
type ForcedApprover struct {
	verbose bool
	output  io.Writer
	sleepFn func(time.Duration)
}

// NewForcedApprover creates a ForcedApprover writing to stderr.
func NewForcedApprover(verbose bool) pgetl.Approver {
	return &ForcedApprover{verbose: verbose, output: os.Stderr, sleepFn: time.Sleep}
}

// RequestApproval counts down pgetl.DefaultForceApprovalCountdown and approves.
func (a *ForcedApprover) RequestApproval(ctx context.Context, dbName string) (bool, error) {
	fmt.Fprintln(a.output)
	fmt.Fprintln(a.output, dangerBox.Render(fmt.Sprintf(
		"DANGER: --force will DROP every analytics table in '%s'\nAll loaded songs, artists, users, time and songplays rows will be lost.", dbName)))
	fmt.Fprintln(a.output)

	for i := int(pgetl.DefaultForceApprovalCountdown.Seconds()); i > 0; i-- {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		fmt.Fprintf(a.output, "\rDropping in: %d seconds... (Press Ctrl+C to cancel)", i)
		a.sleepFn(time.Second)
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	fmt.Fprintf(a.output, "\r%s Proceeding with table drop...                              \n", tui.SymbolCheck)
	return true, nil
}

var _ pgetl.Approver = (*ForcedApprover)(nil)
