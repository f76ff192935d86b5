package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/tsugix/tsugix/internal/config"
	"github.com/tsugix/tsugix/internal/crashctx"
	"github.com/tsugix/tsugix/internal/langparse/all"
	"github.com/tsugix/tsugix/internal/llm"
	"github.com/tsugix/tsugix/internal/lock"
	"github.com/tsugix/tsugix/internal/model"
	"github.com/tsugix/tsugix/internal/patch"
	"github.com/tsugix/tsugix/internal/pipeline"
	"github.com/tsugix/tsugix/internal/ratelimit"
	"github.com/tsugix/tsugix/internal/runcmd"
	signalpkg "github.com/tsugix/tsugix/internal/signal"
	"github.com/tsugix/tsugix/internal/ui"
)

var runCmd = &cobra.Command{
	Use:   "run -- <command> [args...]",
	Short: "Run a command, and heal it if it crashes",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := signalpkg.SetupSignalHandler(cmd.Context())
	return runAndHeal(ctx, args[0], args[1:])
}

// runAndHeal runs command once, and — if it crashes and a credential is
// configured — drives the crash through the pipeline. When the config's
// AutoRerun is set and a fix was applied, it runs command again so the
// caller sees whether the fix actually resolved the failure.
func runAndHeal(ctx context.Context, command string, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving working directory: %w", err)
	}

	result, err := runcmd.Run(ctx, command, args, wd)
	if err != nil {
		return fmt.Errorf("running command: %w", err)
	}
	if result.Skipped {
		signalpkg.PrintCancellationMessage(command)
		return nil
	}
	if result.Crash == nil {
		return nil
	}

	fmt.Fprintf(os.Stderr, "\n%s command exited non-zero (code %d)\n", ui.Bullet(), result.Crash.ExitCode)

	client := newClient()
	if client == nil {
		fmt.Fprintf(os.Stderr, "%s no OPENAI_API_KEY or ANTHROPIC_API_KEY set, skipping auto-heal\n", ui.Bullet())
		return nil
	}

	treeLock, err := lock.Acquire(cfg.RootDirectory)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v, skipping auto-heal\n", ui.Bullet(), err)
		return nil
	}
	defer treeLock.Release()

	orch := &pipeline.Orchestrator{
		Engine:  crashctx.New(all.NewRegistry()),
		Limiter: ratelimit.New(cfg.MaxConcurrent, cfg.RequestsPerMinute),
		Client:  client,
		Confirm: confirmFix,
	}

	interactive := isatty.IsTerminal(os.Stdout.Fd())
	outcome := ui.RunWithSpinner("asking the model for a fix", interactive, func() pipeline.Outcome {
		return orch.Run(ctx, result.Crash, pipeline.Options{
			Provider:     providerName(),
			Model:        cfg.Model,
			MaxTokens:    cfg.MaxTokens,
			Temperature:  cfg.Temperature,
			SystemPrompt: cfg.CustomPromptTemplate,
			AutoApply:    cfg.AutoApply,
			PatchOpts: patch.Options{
				RootDirectory:  cfg.RootDirectory,
				CreateBackup:   cfg.AutoBackup,
				VerifyContent:  true,
				IgnorePatterns: cfg.IgnorePatterns,
			},
		})
	})

	fmt.Fprintln(os.Stderr, ui.RenderOutcome(outcome.Result))
	if outcome.Patch != nil && outcome.Patch.BackupPath != "" {
		fmt.Fprintf(os.Stderr, "%s backup: %s\n", ui.Bullet(), outcome.Patch.BackupPath)
	}

	if outcome.Result == model.OutcomeApplied && cfg.AutoRerun {
		fmt.Fprintf(os.Stderr, "%s re-running %s\n", ui.Bullet(), command)
		rerun, err := runcmd.Run(ctx, command, args, wd)
		if err != nil {
			return fmt.Errorf("re-running command: %w", err)
		}
		switch {
		case rerun.Crash != nil:
			fmt.Fprintf(os.Stderr, "%s command still exits non-zero (code %d) after fix\n", ui.Bullet(), rerun.Crash.ExitCode)
		case !rerun.Skipped:
			fmt.Fprintf(os.Stderr, "%s command now exits cleanly\n", ui.Bullet())
		}
	}

	return nil
}

// selectedProvider resolves which provider to use: cfg.Provider if its
// credential is present, otherwise whichever credential is actually set.
func selectedProvider() string {
	if cfg.Provider == config.ProviderAnthropic && cfg.AnthropicAPIKey != "" {
		return config.ProviderAnthropic
	}
	if cfg.Provider == config.ProviderOpenAI && cfg.OpenAIAPIKey != "" {
		return config.ProviderOpenAI
	}
	if cfg.AnthropicAPIKey != "" {
		return config.ProviderAnthropic
	}
	if cfg.OpenAIAPIKey != "" {
		return config.ProviderOpenAI
	}
	return cfg.Provider
}

// newClient builds the LLM client for the resolved provider, or nil if
// neither credential is configured.
func newClient() llm.Client {
	llmCfg := llm.Config{
		RetryCount: cfg.RetryCount,
		Timeout:    durationSeconds(cfg.TimeoutSeconds),
		Endpoint:   cfg.Endpoint,
	}
	switch selectedProvider() {
	case config.ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil
		}
		llmCfg.APIKey = cfg.AnthropicAPIKey
		return llm.NewAnthropicClient(llmCfg)
	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil
		}
		llmCfg.APIKey = cfg.OpenAIAPIKey
		return llm.NewOpenAIClient(llmCfg)
	default:
		return nil
	}
}

func durationSeconds(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}

func providerName() string {
	switch selectedProvider() {
	case config.ProviderAnthropic:
		return "anthropic"
	default:
		return "openai"
	}
}

// confirmFix shows the cosmetic diff and asks the user to approve applying
// it. Non-interactive sessions (no TTY) decline automatically.
func confirmFix(suggestion *model.FixSuggestion) bool {
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return false
	}
	m := ui.NewConfirmModel("Apply this fix?", ui.RenderDiff(suggestion))
	p := tea.NewProgram(m)
	final, err := p.Run()
	if err != nil {
		return false
	}
	confirmed, ok := final.(*ui.ConfirmModel)
	if !ok {
		return false
	}
	return confirmed.Confirmed()
}
