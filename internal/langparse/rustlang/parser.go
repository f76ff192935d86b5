// Package rustlang implements langparse.Parser for Rust panics. Rust changed
// its panic header format between editions; this parser accepts both the
// old form (message embedded in quotes on the header line) and the new form
// (file:line:col on the header line, message on the line that follows).
package rustlang

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tsugix/tsugix/internal/langparse"
	"github.com/tsugix/tsugix/internal/model"
)

var (
	// thread 'main' panicked at 'index out of bounds: ...', src/main.rs:10:5
	oldHeader = regexp.MustCompile(`^thread '[^']*' panicked at '(.*)',\s*(\S+):(\d+):(\d+)\s*$`)
	// thread 'main' panicked at src/main.rs:10:5:
	newHeader = regexp.MustCompile(`^thread '[^']*' panicked at (\S+):(\d+):(\d+):\s*$`)
	// "   0: rust_begin_unwind" / "   1: core::panicking::panic_fmt" backtrace frames
	backtraceFrame = regexp.MustCompile(`^\s*\d+:\s+(\S+)\s*$`)
	backtraceAt    = regexp.MustCompile(`^\s+at\s+(\S+):(\d+)(?::(\d+))?\s*$`)
)

// Parser parses Rust panic traces.
type Parser struct{}

// NewParser creates a new Rust parser.
func NewParser() *Parser { return &Parser{} }

// Language implements langparse.Parser.
func (p *Parser) Language() string { return "Rust" }

// CanParse implements langparse.Parser.
func (p *Parser) CanParse(stderr string) langparse.Confidence {
	if strings.Contains(stderr, "panicked at") {
		return langparse.High
	}
	if strings.Contains(stderr, ".rs:") {
		return langparse.Low
	}
	return langparse.None
}

// Parse implements langparse.Parser.
func (p *Parser) Parse(stderr string) model.ParseResult {
	lines := strings.Split(stderr, "\n")

	var message, file string
	var line, col int
	haveHeader := false

	for i := 0; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if m := oldHeader.FindStringSubmatch(trimmed); m != nil {
			message = m[1]
			file = m[2]
			line, _ = strconv.Atoi(m[3])
			col, _ = strconv.Atoi(m[4])
			haveHeader = true
			break
		}
		if m := newHeader.FindStringSubmatch(trimmed); m != nil {
			file = m[1]
			line, _ = strconv.Atoi(m[2])
			col, _ = strconv.Atoi(m[3])
			haveHeader = true
			// message is on the following non-empty line for the new format
			for j := i + 1; j < len(lines); j++ {
				next := strings.TrimSpace(lines[j])
				if next == "" {
					continue
				}
				message = next
				break
			}
			break
		}
	}

	var frames []*model.StackFrame
	if haveHeader {
		frames = append(frames, &model.StackFrame{
			File:       file,
			Line:       line,
			Column:     col,
			IsUserCode: langparse.IsUserCode(file),
		})
	}

	for i := 0; i < len(lines); i++ {
		m := backtraceFrame.FindStringSubmatch(lines[i])
		if m == nil || i+1 >= len(lines) {
			continue
		}
		am := backtraceAt.FindStringSubmatch(lines[i+1])
		if am == nil {
			continue
		}
		ln, _ := strconv.Atoi(am[2])
		frames = append(frames, &model.StackFrame{
			File:       am[1],
			Line:       ln,
			Function:   lastSegment(m[1]),
			IsUserCode: langparse.IsUserCode(am[1]) && langparse.IsUserCode(m[1]),
		})
		i++
	}

	if !haveHeader && len(frames) == 0 {
		return model.ParseResult{Success: false, RawError: stderr}
	}
	if message == "" {
		message = "panic"
	}
	return model.ParseResult{
		Success:   true,
		Exception: &model.ExceptionInfo{Type: "panic", Message: message},
		Frames:    frames,
	}
}

func lastSegment(s string) string {
	if i := strings.LastIndex(s, "::"); i >= 0 {
		return s[i+2:]
	}
	return s
}

var _ langparse.Parser = (*Parser)(nil)
