// Package ruby implements langparse.Parser for Ruby backtraces, following
// the same tiered-confidence shape as the sibling language parsers.
package ruby

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tsugix/tsugix/internal/langparse"
	"github.com/tsugix/tsugix/internal/model"
)

var (
	// file.rb:10:in `method': message (ErrorClass)
	headerFrame = regexp.MustCompile("(?m)^([^:]+\\.rb):(\\d+):in `([^']+)':\\s*(.*?)\\s*\\(([A-Za-z_][A-Za-z0-9_:]*(?:Error|Exception))\\)\\s*$")
	// plain backtrace continuation: file.rb:10:in `method'
	frameLine = regexp.MustCompile("^\\s*(?:from\\s+)?([^:]+\\.rb):(\\d+):in `([^']+)'\\s*$")
)

// Parser parses Ruby backtraces.
type Parser struct{}

// NewParser creates a new Ruby parser.
func NewParser() *Parser { return &Parser{} }

// Language implements langparse.Parser.
func (p *Parser) Language() string { return "Ruby" }

// CanParse implements langparse.Parser.
func (p *Parser) CanParse(stderr string) langparse.Confidence {
	if headerFrame.MatchString(stderr) {
		return langparse.High
	}
	if frameLine.MatchString(stderr) {
		return langparse.Medium
	}
	if strings.Contains(stderr, ".rb:") {
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
		trimmed := strings.TrimSpace(line)
		if exc == nil {
			if m := headerFrame.FindStringSubmatch(trimmed); m != nil {
				ln, _ := strconv.Atoi(m[2])
				exc = &model.ExceptionInfo{Type: m[5], Message: strings.TrimSpace(m[4])}
				frames = append(frames, &model.StackFrame{
					File:       m[1],
					Line:       ln,
					Function:   m[3],
					IsUserCode: langparse.IsUserCode(m[1]),
				})
				continue
			}
		}
		if m := frameLine.FindStringSubmatch(line); m != nil {
			ln, _ := strconv.Atoi(m[2])
			frames = append(frames, &model.StackFrame{
				File:       m[1],
				Line:       ln,
				Function:   m[3],
				IsUserCode: langparse.IsUserCode(m[1]),
			})
		}
	}

	if exc == nil && len(frames) == 0 {
		return model.ParseResult{Success: false, RawError: stderr}
	}
	return model.ParseResult{Success: true, Exception: exc, Frames: frames}
}

var _ langparse.Parser = (*Parser)(nil)
