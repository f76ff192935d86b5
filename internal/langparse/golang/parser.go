// Package golang implements langparse.Parser for Go panics: one pass over
// the complete stderr blob reads the "panic:" header, then pairs each
// function line with the file:line line that follows it.
package golang

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tsugix/tsugix/internal/langparse"
	"github.com/tsugix/tsugix/internal/model"
)

var (
	panicHeader     = regexp.MustCompile(`^panic:\s*(.*)$`)
	goroutineHeader = regexp.MustCompile(`^goroutine \d+ \[[^\]]+\]:\s*$`)
	// "pkg.(*Type).Method(...)" or "pkg.function(...)" on one line, file:line on the next.
	funcLine = regexp.MustCompile(`^([A-Za-z0-9_./*()\[\]{}~-]+)\(.*\)$`)
	fileLine = regexp.MustCompile(`^\s+(\S+\.go):(\d+)(?:\s+\+0x[0-9a-f]+)?\s*$`)
)

// Parser parses Go panic traces.
type Parser struct{}

// NewParser creates a new Go parser.
func NewParser() *Parser { return &Parser{} }

// Language implements langparse.Parser.
func (p *Parser) Language() string { return "Go" }

// CanParse implements langparse.Parser.
func (p *Parser) CanParse(stderr string) langparse.Confidence {
	if panicHeader.MatchString(firstNonEmptyLine(stderr)) || goroutineHeader.MatchString(stderr) {
		return langparse.High
	}
	if strings.Contains(stderr, ".go:") {
		return langparse.Low
	}
	return langparse.None
}

// Parse implements langparse.Parser.
func (p *Parser) Parse(stderr string) model.ParseResult {
	lines := strings.Split(stderr, "\n")

	var message string
	haveHeader := false
	var frames []*model.StackFrame

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if !haveHeader {
			if m := panicHeader.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
				message = m[1]
				haveHeader = true
			}
			continue
		}
		if goroutineHeader.MatchString(line) {
			continue
		}
		if m := funcLine.FindStringSubmatch(strings.TrimSpace(line)); m != nil && i+1 < len(lines) {
			if fm := fileLine.FindStringSubmatch(lines[i+1]); fm != nil {
				ln, _ := strconv.Atoi(fm[2])
				frames = append(frames, &model.StackFrame{
					File:       fm[1],
					Line:       ln,
					Function:   lastSegment(m[1]),
					IsUserCode: langparse.IsUserCode(fm[1]) && langparse.IsUserCode(m[1]),
				})
				i++
			}
		}
	}

	if !haveHeader && len(frames) == 0 {
		return model.ParseResult{Success: false, RawError: stderr}
	}

	excType := "panic"
	if message == "" {
		message = "panic"
	}
	return model.ParseResult{
		Success:   true,
		Exception: &model.ExceptionInfo{Type: excType, Message: message},
		Frames:    frames,
	}
}

func firstNonEmptyLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func lastSegment(s string) string {
	s = strings.TrimSuffix(s, ")")
	if i := strings.LastIndex(s, "/"); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.LastIndex(s, "."); i >= 0 {
		s = s[i+1:]
	}
	return s
}

var _ langparse.Parser = (*Parser)(nil)
