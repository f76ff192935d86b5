// Package swift implements langparse.Parser for Swift runtime failures:
// "Fatal error: ..." and the precondition/assertion variants, anchored on
// the "file <x.swift>, line N" suffix Swift attaches to the failure message.
// Like PHP, Swift's fatal-error output rarely carries a full call stack, so
// a single frame is synthesized from the reported file/line.
package swift

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tsugix/tsugix/internal/langparse"
	"github.com/tsugix/tsugix/internal/model"
)

var (
	// Fatal error: Index out of range: file Sources/main.swift, line 12
	failureLine = regexp.MustCompile(`^(Fatal error|Precondition failed|Assertion failed):\s*(.*?)\s*:?\s*file\s+(\S+\.swift),\s*line\s+(\d+)\s*$`)
)

// Parser parses Swift runtime failure output.
type Parser struct{}

// NewParser creates a new Swift parser.
func NewParser() *Parser { return &Parser{} }

// Language implements langparse.Parser.
func (p *Parser) Language() string { return "Swift" }

// CanParse implements langparse.Parser.
func (p *Parser) CanParse(stderr string) langparse.Confidence {
	if failureLine.MatchString(stderr) {
		return langparse.High
	}
	if strings.Contains(stderr, ".swift") {
		return langparse.Low
	}
	return langparse.None
}

// Parse implements langparse.Parser.
func (p *Parser) Parse(stderr string) model.ParseResult {
	lines := strings.Split(stderr, "\n")

	for _, line := range lines {
		m := failureLine.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		ln, _ := strconv.Atoi(m[4])
		file := m[3]
		return model.ParseResult{
			Success:   true,
			Exception: &model.ExceptionInfo{Type: literalType(m[1]), Message: m[2]},
			Frames: []*model.StackFrame{{
				File:       file,
				Line:       ln,
				IsUserCode: langparse.IsUserCode(file),
			}},
		}
	}

	return model.ParseResult{Success: false, RawError: stderr}
}

// literalType maps the human-readable failure kind Swift prints to the
// fixed literal word used for an anonymous (message-only) fatal failure.
func literalType(kind string) string {
	switch kind {
	case "Precondition failed":
		return "PreconditionFailure"
	case "Assertion failed":
		return "AssertionFailure"
	default:
		return "FatalError"
	}
}

var _ langparse.Parser = (*Parser)(nil)
