// Package python implements langparse.Parser for CPython tracebacks, using
// regex-driven tiered confidence scoring over the complete traceback text.
package python

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tsugix/tsugix/internal/langparse"
	"github.com/tsugix/tsugix/internal/model"
)

var (
	tracebackHeader = regexp.MustCompile(`^Traceback \(most recent call last\):`)
	frameLine       = regexp.MustCompile(`^\s*File "([^"]+)", line (\d+), in (\S+)`)
	exceptionLine   = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_.]*(?:Error|Exception|Warning)):?\s*(.*)$`)
)

// Parser parses Python tracebacks.
type Parser struct{}

// NewParser creates a new Python parser.
func NewParser() *Parser { return &Parser{} }

// Language implements langparse.Parser.
func (p *Parser) Language() string { return "Python" }

// CanParse implements langparse.Parser.
func (p *Parser) CanParse(stderr string) langparse.Confidence {
	if tracebackHeader.MatchString(stderr) {
		return langparse.High
	}
	if frameLine.MatchString(stderr) {
		return langparse.Medium
	}
	if strings.Contains(stderr, ".py") {
		return langparse.Low
	}
	return langparse.None
}

// Parse implements langparse.Parser.
func (p *Parser) Parse(stderr string) model.ParseResult {
	lines := strings.Split(stderr, "\n")

	var frames []*model.StackFrame
	for i := 0; i < len(lines); i++ {
		m := frameLine.FindStringSubmatch(lines[i])
		if m == nil {
			continue
		}
		lineNum, _ := strconv.Atoi(m[2])
		file := m[1]
		function := lastSegment(m[3])
		frames = append(frames, &model.StackFrame{
			File:       file,
			Line:       lineNum,
			Function:   function,
			IsUserCode: langparse.IsUserCode(file),
		})
	}

	var exc *model.ExceptionInfo
	for i := len(lines) - 1; i >= 0; i-- {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			continue
		}
		if m := exceptionLine.FindStringSubmatch(trimmed); m != nil {
			exc = &model.ExceptionInfo{Type: m[1], Message: strings.TrimSpace(m[2])}
			break
		}
		// Non-exception, non-empty trailing line: stop scanning upward once
		// we've passed the traceback frames (they start with whitespace).
		if !strings.HasPrefix(lines[i], " ") && !strings.HasPrefix(lines[i], "Traceback") {
			break
		}
	}

	if exc == nil && len(frames) == 0 {
		return model.ParseResult{Success: false, RawError: stderr}
	}
	return model.ParseResult{Success: true, Exception: exc, Frames: frames}
}

func lastSegment(s string) string {
	if i := strings.LastIndex(s, "."); i >= 0 {
		return s[i+1:]
	}
	return s
}

var _ langparse.Parser = (*Parser)(nil)
