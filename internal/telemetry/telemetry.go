// Package telemetry implements crash telemetry (C14): structured logging
// of pipeline state transitions and optional Sentry error capture.
// Breadcrumbs never include verbatim stderr or source text, only state
// names and outcomes.
package telemetry

import (
	"os"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/tsugix/tsugix/internal/model"
)

const flushTimeout = 2 * time.Second

// Init configures Sentry if SENTRY_DSN is set; otherwise every subsequent
// call in this package is a no-op. Returns a cleanup function to defer.
func Init(version string) func() {
	dsn := os.Getenv("SENTRY_DSN")
	if dsn == "" {
		return func() {}
	}

	env := os.Getenv("SENTRY_ENVIRONMENT")
	if env == "" {
		env = "production"
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Release:          "tsugix@" + version,
		Environment:      env,
		AttachStacktrace: true,
		SampleRate:       1.0,
	}); err != nil {
		return func() {}
	}

	return func() { sentry.Flush(flushTimeout) }
}

// StateTransition records a pipeline state change as a breadcrumb. outcome
// is empty until a terminal state is reached.
func StateTransition(state string, outcome model.RunOutcome) {
	sentry.AddBreadcrumb(&sentry.Breadcrumb{
		Category: "pipeline",
		Message:  state,
		Level:    sentry.LevelInfo,
		Data: map[string]interface{}{
			"outcome": string(outcome),
		},
	})
}

// CaptureFailure reports an AiError or Failed outcome as a Sentry event.
// The message passed in must already be scrubbed of stderr/source text by
// the caller; this function adds no further sanitization.
func CaptureFailure(outcome model.RunOutcome, err error) {
	if err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("outcome", string(outcome))
		sentry.CaptureException(err)
	})
}

// CaptureError reports a top-level command error to Sentry. Safe to call
// even when Sentry was never initialized.
func CaptureError(err error) {
	if err == nil {
		return
	}
	sentry.CaptureException(err)
}

// RecoverAndPanic recovers from a panic, reports it to Sentry, flushes, and
// re-panics so the process still crashes with its original stack trace.
// Defer this first at a process entry point so it runs last, after any
// other deferred cleanup has flushed its own events.
func RecoverAndPanic() {
	if r := recover(); r != nil {
		sentry.CurrentHub().Recover(r)
		sentry.Flush(flushTimeout)
		panic(r)
	}
}
