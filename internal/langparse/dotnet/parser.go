// Package dotnet implements langparse.Parser for .NET/C# unhandled
// exception traces, following the same tiered-regex, header+frame
// accumulation shape as the sibling language parsers.
package dotnet

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tsugix/tsugix/internal/langparse"
	"github.com/tsugix/tsugix/internal/model"
)

var (
	headerLine = regexp.MustCompile(`^(Unhandled exception\.\s*)?([A-Za-z_][A-Za-z0-9_.]*Exception):\s*(.*)$`)
	frameLine  = regexp.MustCompile(`(?m)^\s*at\s+([A-Za-z0-9_.<>\[\],` + "`" + `]+)\(([^)]*)\)(?:\s+in\s+(.+):line\s+(\d+))?\s*$`)
)

// Parser parses .NET/C# exception traces.
type Parser struct{}

// NewParser creates a new .NET parser.
func NewParser() *Parser { return &Parser{} }

// Language implements langparse.Parser.
func (p *Parser) Language() string { return "C#" }

// CanParse implements langparse.Parser.
func (p *Parser) CanParse(stderr string) langparse.Confidence {
	if frameLine.MatchString(stderr) && strings.Contains(stderr, " in ") && strings.Contains(stderr, ":line ") {
		return langparse.High
	}
	if headerLine.MatchString(stderr) {
		return langparse.Medium
	}
	if strings.Contains(stderr, "System.") || strings.Contains(stderr, ".cs:") {
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
				exc = &model.ExceptionInfo{Type: m[2], Message: strings.TrimSpace(m[3])}
				continue
			}
		}
		if m := frameLine.FindStringSubmatch(line); m != nil {
			fullMethod := m[1]
			className, method := splitClassMethod(fullMethod)
			var file string
			var ln int
			if m[3] != "" {
				file = m[3]
				ln, _ = strconv.Atoi(m[4])
			}
			frames = append(frames, &model.StackFrame{
				File:       file,
				Line:       ln,
				Function:   method,
				Class:      className,
				IsUserCode: langparse.IsUserCode(fullMethod) && langparse.IsUserCode(file),
			})
		}
	}

	if exc == nil && len(frames) == 0 {
		return model.ParseResult{Success: false, RawError: stderr}
	}
	return model.ParseResult{Success: true, Exception: exc, Frames: frames}
}

func splitClassMethod(full string) (class, method string) {
	i := strings.LastIndex(full, ".")
	if i < 0 {
		return "", full
	}
	return full[:i], full[i+1:]
}

var _ langparse.Parser = (*Parser)(nil)
