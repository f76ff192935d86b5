// Package crashctx implements the context engine (C4): it selects a
// language parser via the registry, enriches frames with source snippets,
// and picks the primary frame a fix prompt should center on. The pipeline
// is registry lookup, then enrichment, with a frameless fallback context
// when no parser extracted a usable stack.
package crashctx

import (
	"path/filepath"
	"strings"

	"github.com/tsugix/tsugix/internal/langparse"
	"github.com/tsugix/tsugix/internal/model"
	"github.com/tsugix/tsugix/internal/snippet"
)

// snippetWindow is the number of lines read above and below an error line.
const snippetWindow = 5

// maxFallbackMessage bounds the truncated stderr used in a fallback context.
const maxFallbackMessage = 200

// Engine processes crash reports into enriched error contexts.
type Engine struct {
	registry *langparse.Registry
}

// New creates a context engine backed by registry.
func New(registry *langparse.Registry) *Engine {
	return &Engine{registry: registry}
}

// Process turns a CrashReport into an ErrorContext. It returns nil only for
// a nil report or a stderr that is empty or all whitespace: when no parser
// matches or parsing fails, it returns a fallback context with language
// "Unknown".
func (e *Engine) Process(report *model.CrashReport) *model.ErrorContext {
	if report == nil || strings.TrimSpace(report.Stderr) == "" {
		return nil
	}

	parser := e.registry.Best(report.Stderr)
	if parser == nil {
		return fallback(report)
	}

	result := parser.Parse(report.Stderr)
	if !result.Success {
		return fallback(report)
	}

	for _, frame := range result.Frames {
		if frame == nil || frame.File == "" || frame.Line <= 0 {
			continue
		}
		frame.Snippet = snippet.Read(resolvePath(frame.File, report.WorkingDir), frame.Line, snippetWindow)
	}

	ctx := &model.ErrorContext{
		Language:        parser.Language(),
		Exception:       result.Exception,
		Frames:          result.Frames,
		OriginalCommand: report.Command,
		WorkingDir:      report.WorkingDir,
		Timestamp:       report.Timestamp,
	}
	ctx.PrimaryFrame = primaryFrame(result.Frames)
	return ctx
}

// primaryFrame returns the first user-code frame with a non-empty path; if
// none qualifies, the first frame; nil if there are no frames at all.
func primaryFrame(frames []*model.StackFrame) *model.StackFrame {
	for _, f := range frames {
		if f != nil && f.IsUserCode && f.File != "" {
			return f
		}
	}
	if len(frames) > 0 {
		return frames[0]
	}
	return nil
}

// fallback builds the context returned when no parser matches or the chosen
// parser fails to extract anything usable. It never returns nil.
func fallback(report *model.CrashReport) *model.ErrorContext {
	msg := report.Stderr
	if len(msg) > maxFallbackMessage {
		msg = msg[:maxFallbackMessage] + "..."
	}
	return &model.ErrorContext{
		Language:        "Unknown",
		Exception:       &model.ExceptionInfo{Type: "Error", Message: msg},
		Frames:          nil,
		OriginalCommand: report.Command,
		WorkingDir:      report.WorkingDir,
		Timestamp:       report.Timestamp,
	}
}

// resolvePath joins a frame's file path against the working directory when
// it is relative. snippet.Read only ever sees the joined path, so if that
// names no readable file the frame gets no snippet.
func resolvePath(path, workingDir string) string {
	if filepath.IsAbs(path) || workingDir == "" {
		return path
	}
	return filepath.Join(workingDir, path)
}
