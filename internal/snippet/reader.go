// Package snippet reads a bounded window of source text around a crash
// location, detecting encoding and line endings the same way the file
// patcher (internal/patch) does so the two stay consistent.
package snippet

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/tsugix/tsugix/internal/model"
	"github.com/tsugix/tsugix/internal/textenc"
)

// maxFileSize guards against reading huge files into memory.
const maxFileSize = 10 * 1024 * 1024 // 10 MiB

// Read returns a SourceSnippet centered on errorLine, extending window lines
// above and below it. It never returns an error: any I/O failure, or an
// out-of-range/invalid argument, results in a nil snippet.
func Read(path string, errorLine int, window int) *model.SourceSnippet {
	if path == "" || errorLine <= 0 || window <= 0 {
		return nil
	}

	resolved := path
	if !filepath.IsAbs(resolved) {
		if wd, err := os.Getwd(); err == nil {
			resolved = filepath.Join(wd, path)
		}
	}

	data, err := os.ReadFile(resolved) // #nosec G304 - path originates from a parsed stack frame
	if err != nil {
		// fall back to the path exactly as given
		data, err = os.ReadFile(path) // #nosec G304
		if err != nil {
			return nil
		}
	}
	if len(data) > maxFileSize {
		return nil
	}

	enc, rawBody := textenc.Sniff(data)
	text, err := textenc.Decode(enc, rawBody)
	if err != nil {
		// malformed encoding — fall back to the raw bytes rather than
		// failing the whole snippet read
		text = string(rawBody)
	}
	lines := splitLines(text)
	total := len(lines)
	if total == 0 || errorLine > total {
		return nil
	}

	start := errorLine - window
	end := errorLine + window

	if start < 1 {
		start = 1
		// extend the high end if the file has room, so the window still
		// covers roughly 2*window+1 lines
		if extended := 1 + 2*window; extended > end && extended <= total {
			end = extended
		}
	}
	if end > total {
		end = total
		if extended := total - 2*window; extended < start && extended >= 1 {
			start = extended
		}
	}
	if start < 1 {
		start = 1
	}
	if end > total {
		end = total
	}

	out := &model.SourceSnippet{
		FilePath:  path,
		StartLine: start,
		EndLine:   end,
		ErrorLine: errorLine,
	}
	out.Lines = make([]model.SourceLine, 0, end-start+1)
	for n := start; n <= end; n++ {
		out.Lines = append(out.Lines, model.SourceLine{
			Number:      n,
			Content:     lines[n-1],
			IsErrorLine: n == errorLine,
		})
	}
	return out
}

// splitLines splits on \r\n, \r or \n, matching the file patcher's
// normalization so line numbers agree between the two packages.
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	lines := strings.Split(s, "\n")
	// A trailing newline produces a trailing empty element that doesn't
	// correspond to a real line; drop it so line numbers match editors.
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
