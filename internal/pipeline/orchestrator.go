// Package pipeline implements the pipeline orchestrator (C10): the state
// machine wiring the context engine, prompt synthesizer, rate limiter, LLM
// transport, response parser, and file patcher together for one crash.
package pipeline

import (
	"context"
	"errors"

	"github.com/tsugix/tsugix/internal/crashctx"
	"github.com/tsugix/tsugix/internal/fixresponse"
	"github.com/tsugix/tsugix/internal/llm"
	"github.com/tsugix/tsugix/internal/model"
	"github.com/tsugix/tsugix/internal/patch"
	"github.com/tsugix/tsugix/internal/prompt"
	"github.com/tsugix/tsugix/internal/ratelimit"
	"github.com/tsugix/tsugix/internal/telemetry"
)

// State names the pipeline's states for telemetry purposes.
type State string

// Pipeline states, per the state machine: Idle -> Parsed -> Prompted ->
// Responded -> Reviewed -> a terminal outcome.
const (
	StateIdle      State = "Idle"
	StateParsed    State = "Parsed"
	StatePrompted  State = "Prompted"
	StateResponded State = "Responded"
	StateReviewed  State = "Reviewed"
)

// Confirm is called with a candidate fix before it is applied; returning
// false transitions the run to Rejected instead of Applied.
type Confirm func(*model.FixSuggestion) bool

// Options configures one orchestrator run.
type Options struct {
	Provider     string
	Model        string
	MaxTokens    int
	Temperature  float64
	SystemPrompt string // overrides prompt.SystemPrompt when non-empty
	AutoApply    bool   // bypass Confirm and apply any validated fix
	PatchOpts    patch.Options
}

// Orchestrator wires C4, C5, C7, C8, C6 and C9 together.
type Orchestrator struct {
	Engine  *crashctx.Engine
	Limiter *ratelimit.Limiter
	Client  llm.Client // nil means no client configured: every run is Skipped
	Confirm Confirm
}

// Outcome is the result of one pipeline run.
type Outcome struct {
	Result model.RunOutcome
	Patch  *model.PatchResult
}

// Run drives one crash report through the full pipeline.
func (o *Orchestrator) Run(ctx context.Context, report *model.CrashReport, opts Options) Outcome {
	telemetry.StateTransition(string(StateIdle), "")

	errCtx := o.Engine.Process(report)
	if errCtx == nil {
		return Outcome{Result: model.OutcomeSkipped}
	}
	telemetry.StateTransition(string(StateParsed), "")

	if o.Client == nil {
		return o.terminal(model.OutcomeSkipped, nil)
	}

	userPayload, err := prompt.BuildUserPayload(errCtx)
	if err != nil {
		return o.terminal(model.OutcomeAiError, nil)
	}

	permit, err := o.Limiter.Acquire(ctx, opts.Provider)
	if err != nil {
		return o.terminal(model.OutcomeSkipped, nil)
	}
	defer permit.Release()

	telemetry.StateTransition(string(StatePrompted), "")

	text, err := o.Client.Complete(ctx, llm.Request{
		Model:        opts.Model,
		SystemPrompt: prompt.BuildSystemPrompt(opts.SystemPrompt),
		UserPrompt:   userPayload,
		MaxTokens:    opts.MaxTokens,
		Temperature:  opts.Temperature,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return o.terminal(model.OutcomeSkipped, nil)
		}
		telemetry.CaptureFailure(model.OutcomeAiError, err)
		return o.terminal(model.OutcomeAiError, nil)
	}
	telemetry.StateTransition(string(StateResponded), "")

	suggestion := fixresponse.Parse(text)
	if suggestion == nil {
		return o.terminal(model.OutcomeNoFix, nil)
	}

	if !opts.AutoApply && o.Confirm != nil && !o.Confirm(suggestion) {
		return o.terminal(model.OutcomeRejected, nil)
	}
	telemetry.StateTransition(string(StateReviewed), "")

	result := patch.Apply(suggestion, opts.PatchOpts)
	if !result.Success {
		telemetry.CaptureFailure(model.OutcomeFailed, errors.New(result.ErrorMessage))
		return o.terminal(model.OutcomeFailed, &result)
	}
	return o.terminal(model.OutcomeApplied, &result)
}

func (o *Orchestrator) terminal(outcome model.RunOutcome, patchResult *model.PatchResult) Outcome {
	telemetry.StateTransition(string(outcome), outcome)
	return Outcome{Result: outcome, Patch: patchResult}
}
