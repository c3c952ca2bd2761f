package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vvka-141/pgetl/internal/tui"
	"github.com/vvka-141/pgetl/pkg/pgetl"
)

// InteractiveApprover asks the operator to type the database name before
// the analytics tables are dropped.
type InteractiveApprover struct {
	verbose bool
	input   io.Reader
	output  io.Writer
}

// NewInteractiveApprover creates an InteractiveApprover reading stdin and writing stderr.
func NewInteractiveApprover(verbose bool) pgetl.Approver {
	return &InteractiveApprover{verbose: verbose, input: os.Stdin, output: os.Stderr}
}

// RequestApproval prompts for the database name and approves only on an exact match.
func (a *InteractiveApprover) RequestApproval(ctx context.Context, dbName string) (bool, error) {
	fmt.Fprintf(a.output, "\n%s You are about to DROP the songs, artists, time, users and songplays tables in '%s'\n",
		tui.WarningStyle.Render("⚠️  WARNING:"), dbName)
	fmt.Fprintln(a.output, "This will permanently delete all loaded data!")
	fmt.Fprintf(a.output, "\nTo confirm, type the database name '%s' and press Enter: ", dbName)

	inputChan := make(chan string, 1)
	errChan := make(chan error, 1)

	go func() {
		input, err := bufio.NewReader(a.input).ReadString('\n')
		if err != nil {
			errChan <- err
			return
		}
		inputChan <- strings.TrimSpace(input)
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case err := <-errChan:
		return false, fmt.Errorf("failed to read input: %w", err)
	case input := <-inputChan:
		if input == dbName {
			fmt.Fprintln(a.output, tui.SuccessStyle.Render(tui.SymbolCheck+" Confirmed. Dropping tables..."))
			return true, nil
		}
		fmt.Fprintf(a.output, "%s Input '%s' does not match database name '%s'. Operation cancelled.\n", tui.SymbolCross, input, dbName)
		return false, nil
	}
}

var _ pgetl.Approver = (*InteractiveApprover)(nil)
