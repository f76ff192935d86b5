package main

import (
	"fmt"
	"os"
	"unicode"

	"github.com/tsugix/tsugix/cmd"
	"github.com/tsugix/tsugix/internal/telemetry"
	"github.com/tsugix/tsugix/internal/ui"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Defer order matters: RecoverAndPanic is deferred first so it runs
	// last, after cleanup() has flushed any pending Sentry events.
	defer telemetry.RecoverAndPanic()
	cleanup := telemetry.Init(cmd.Version)
	defer cleanup()

	if err := cmd.Execute(); err != nil {
		telemetry.CaptureError(err)
		errMsg := err.Error()
		if errMsg != "" {
			runes := []rune(errMsg)
			runes[0] = unicode.ToUpper(runes[0])
			errMsg = string(runes)
		}
		fmt.Fprintln(os.Stderr, ui.ExitError(errMsg))
		return 1
	}
	return 0
}
