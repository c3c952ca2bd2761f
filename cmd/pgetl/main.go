package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/vvka-141/pgetl/internal/cli"
	"github.com/vvka-141/pgetl/pkg/pgetl"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(pgetl.ExitPanic)
		}
	}()

	if os.Getenv("PGETL_TEST_PANIC") == "1" {
		panic("intentional test panic")
	}

	if err := cli.Execute(); err != nil {
		os.Exit(pgetl.ExitCodeForError(err))
	}
}
