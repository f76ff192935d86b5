// Package javalang implements langparse.Parser for JVM stack traces.
// Named javalang (not java) to avoid shadowing any future use of a
// standard "java" identifier; uses the same header+frame accumulation
// shape as the other per-language parsers in this tree.
package javalang

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tsugix/tsugix/internal/langparse"
	"github.com/tsugix/tsugix/internal/model"
)

var (
	headerLine = regexp.MustCompile(`^(?:Exception in thread "[^"]*"\s+)?([A-Za-z_][A-Za-z0-9_.$]*(?:Exception|Error)):?\s*(.*)$`)
	frameLine  = regexp.MustCompile(`(?m)^\s*at\s+([A-Za-z0-9_.$]+)\.([A-Za-z0-9_$<>]+)\(([A-Za-z0-9_$]+\.java):(\d+)\)\s*$`)
	causedBy   = regexp.MustCompile(`^Caused by:\s*([A-Za-z_][A-Za-z0-9_.$]*(?:Exception|Error)):?\s*(.*)$`)
)

// Parser parses JVM (Java/Kotlin) stack traces.
type Parser struct{}

// NewParser creates a new Java parser.
func NewParser() *Parser { return &Parser{} }

// Language implements langparse.Parser.
func (p *Parser) Language() string { return "Java" }

// CanParse implements langparse.Parser.
func (p *Parser) CanParse(stderr string) langparse.Confidence {
	if frameLine.MatchString(stderr) {
		return langparse.High
	}
	if headerLine.MatchString(stderr) {
		return langparse.Medium
	}
	if strings.Contains(stderr, ".java") {
		return langparse.Low
	}
	return langparse.None
}

// Parse implements langparse.Parser.
func (p *Parser) Parse(stderr string) model.ParseResult {
	lines := strings.Split(stderr, "\n")

	var exc *model.ExceptionInfo
	var inner string
	var frames []*model.StackFrame

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if exc == nil {
			if m := headerLine.FindStringSubmatch(trimmed); m != nil {
				exc = &model.ExceptionInfo{Type: m[1], Message: strings.TrimSpace(m[2])}
				continue
			}
		} else if inner == "" {
			if m := causedBy.FindStringSubmatch(trimmed); m != nil {
				inner = m[1] + ": " + strings.TrimSpace(m[2])
			}
		}
		if m := frameLine.FindStringSubmatch(line); m != nil {
			ln, _ := strconv.Atoi(m[4])
			fqClass := m[1]
			frames = append(frames, &model.StackFrame{
				File:       m[3],
				Line:       ln,
				Function:   m[2],
				Class:      fqClass,
				IsUserCode: langparse.IsUserCode(fqClass),
			})
		}
	}
	if exc != nil {
		exc.Inner = inner
	}

	if exc == nil && len(frames) == 0 {
		return model.ParseResult{Success: false, RawError: stderr}
	}
	return model.ParseResult{Success: true, Exception: exc, Frames: frames}
}

var _ langparse.Parser = (*Parser)(nil)
