// Package php implements langparse.Parser for PHP fatal errors. PHP emits a
// "Fatal error: ... in FILE on line N" header and, when the error occurred
// inside a function call chain, a following "Stack trace:" block of
// "#N FILE(LINE): func()" frames. When no stack trace follows, a single
// frame is synthesized from the header's own file/line so callers always
// get a primary frame to center a source snippet on.
package php

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tsugix/tsugix/internal/langparse"
	"github.com/tsugix/tsugix/internal/model"
)

var (
	headerLine = regexp.MustCompile(`(?m)^(?:PHP )?Fatal error:\s*(.*?)\s+in\s+(\S+)\s+on\s+line\s+(\d+)\s*$`)
	traceFrame = regexp.MustCompile(`^#(\d+)\s+(\S+)\((\d+)\):\s*(\S+)\(`)
)

// Parser parses PHP fatal error output.
type Parser struct{}

// NewParser creates a new PHP parser.
func NewParser() *Parser { return &Parser{} }

// Language implements langparse.Parser.
func (p *Parser) Language() string { return "PHP" }

// CanParse implements langparse.Parser.
func (p *Parser) CanParse(stderr string) langparse.Confidence {
	if headerLine.MatchString(stderr) {
		return langparse.High
	}
	if traceFrame.MatchString(stderr) {
		return langparse.Medium
	}
	if strings.Contains(stderr, ".php") {
		return langparse.Low
	}
	return langparse.None
}

// Parse implements langparse.Parser.
func (p *Parser) Parse(stderr string) model.ParseResult {
	lines := strings.Split(stderr, "\n")

	var exc *model.ExceptionInfo
	var headerFile string
	var headerLineNum int
	haveHeader := false
	var frames []*model.StackFrame

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !haveHeader {
			if m := headerLine.FindStringSubmatch(trimmed); m != nil {
				headerFile = m[2]
				headerLineNum, _ = strconv.Atoi(m[3])
				exc = &model.ExceptionInfo{Type: "Fatal error", Message: m[1]}
				haveHeader = true
			}
			continue
		}
		if m := traceFrame.FindStringSubmatch(line); m != nil {
			ln, _ := strconv.Atoi(m[3])
			frames = append(frames, &model.StackFrame{
				File:       m[2],
				Line:       ln,
				Function:   m[4],
				IsUserCode: langparse.IsUserCode(m[2]),
			})
		}
	}

	if !haveHeader {
		return model.ParseResult{Success: false, RawError: stderr}
	}

	if len(frames) == 0 {
		frames = append(frames, &model.StackFrame{
			File:       headerFile,
			Line:       headerLineNum,
			IsUserCode: langparse.IsUserCode(headerFile),
		})
	}

	return model.ParseResult{Success: true, Exception: exc, Frames: frames}
}

var _ langparse.Parser = (*Parser)(nil)
