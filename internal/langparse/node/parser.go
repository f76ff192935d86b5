// Package node implements langparse.Parser for Node.js/V8 stack traces,
// using a tiered regex approach that reads V8's "at fn (file:line:col)"
// frame format out of a thrown error's stack string.
package node

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tsugix/tsugix/internal/langparse"
	"github.com/tsugix/tsugix/internal/model"
)

var (
	// "Error: message" or "TypeError: message" as the first line.
	headerLine = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*Error):\s*(.*)$`)
	// "    at funcName (file:line:col)" or "    at file:line:col"
	frameWithFunc = regexp.MustCompile(`(?m)^\s*at\s+(\S+)\s+\(([^()]+):(\d+):(\d+)\)\s*$`)
	frameBare     = regexp.MustCompile(`(?m)^\s*at\s+([^()]+):(\d+):(\d+)\s*$`)
)

// Parser parses Node.js/V8 stack traces.
type Parser struct{}

// NewParser creates a new Node parser.
func NewParser() *Parser { return &Parser{} }

// Language implements langparse.Parser.
func (p *Parser) Language() string { return "JavaScript" }

// CanParse implements langparse.Parser.
func (p *Parser) CanParse(stderr string) langparse.Confidence {
	if frameWithFunc.MatchString(stderr) || frameBare.MatchString(stderr) {
		return langparse.High
	}
	if headerLine.MatchString(stderr) {
		return langparse.Medium
	}
	if strings.Contains(stderr, "node_modules") || strings.Contains(stderr, ".js") {
		return langparse.Low
	}
	return langparse.None
}

// Parse implements langparse.Parser.
func (p *Parser) Parse(stderr string) model.ParseResult {
	lines := strings.Split(stderr, "\n")

	var exc *model.ExceptionInfo
	var frames []*model.StackFrame

	for _, line := range lines {
		if exc == nil {
			if m := headerLine.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
				exc = &model.ExceptionInfo{Type: m[1], Message: strings.TrimSpace(m[2])}
				continue
			}
		}
		if m := frameWithFunc.FindStringSubmatch(line); m != nil {
			ln, _ := strconv.Atoi(m[3])
			col, _ := strconv.Atoi(m[4])
			frames = append(frames, &model.StackFrame{
				File:       m[2],
				Line:       ln,
				Column:     col,
				Function:   stripParams(m[1]),
				IsUserCode: langparse.IsUserCode(m[2]),
			})
			continue
		}
		if m := frameBare.FindStringSubmatch(line); m != nil {
			ln, _ := strconv.Atoi(m[2])
			col, _ := strconv.Atoi(m[3])
			frames = append(frames, &model.StackFrame{
				File:       m[1],
				Line:       ln,
				Column:     col,
				IsUserCode: langparse.IsUserCode(m[1]),
			})
		}
	}

	if exc == nil && len(frames) == 0 {
		return model.ParseResult{Success: false, RawError: stderr}
	}
	return model.ParseResult{Success: true, Exception: exc, Frames: frames}
}

func stripParams(fn string) string {
	if i := strings.Index(fn, "("); i >= 0 {
		fn = fn[:i]
	}
	if i := strings.LastIndex(fn, "."); i >= 0 {
		fn = fn[i+1:]
	}
	return fn
}

var _ langparse.Parser = (*Parser)(nil)
