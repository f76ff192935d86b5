// Package fixresponse extracts and validates a FixSuggestion from an LLM's
// raw text response (C6). JSON extraction uses tidwall/gjson for permissive
// field access so the new and legacy response schemas can share one decode
// path without two hand-written structs.
package fixresponse

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/tsugix/tsugix/internal/model"
)

const maxExplanationLen = 200

// Parse extracts a validated FixSuggestion from raw LLM output text. It
// returns nil whenever the text is empty, no JSON object can be isolated,
// or the candidate fails validation.
func Parse(text string) *model.FixSuggestion {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	candidate := extractJSON(text)
	if candidate == "" || !gjson.Valid(candidate) {
		return nil
	}

	root := gjson.Parse(candidate)
	suggestion := &model.FixSuggestion{
		Language:    root.Get("language").String(),
		Explanation: root.Get("explanation").String(),
		Confidence:  int(root.Get("confidence").Int()),
	}

	if edits := root.Get("edits"); edits.Exists() && edits.IsArray() {
		for _, e := range edits.Array() {
			suggestion.Edits = append(suggestion.Edits, decodeNewEdit(e))
		}
	} else if legacy := decodeLegacyEdit(root); legacy != nil {
		suggestion.Edits = append(suggestion.Edits, *legacy)
	}

	if !validate(suggestion) {
		return nil
	}
	return suggestion
}

func decodeNewEdit(e gjson.Result) model.FixEdit {
	var original []string
	for _, l := range e.Get("original_lines").Array() {
		original = append(original, l.String())
	}
	return model.FixEdit{
		FilePath:      e.Get("file_path").String(),
		StartLine:     int(e.Get("start_line").Int()),
		EndLine:       int(e.Get("end_line").Int()),
		OriginalLines: original,
		Replacement:   e.Get("replacement").String(),
	}
}

// decodeLegacyEdit synthesizes a single FixEdit from the legacy top-level
// fields (file_path, original_lines, replacement_lines, start_line?,
// end_line?), joining replacement_lines with "\n" and inferring line
// numbers from the original_lines count when start_line/end_line are absent.
func decodeLegacyEdit(root gjson.Result) *model.FixEdit {
	filePath := root.Get("file_path")
	originalLines := root.Get("original_lines")
	replacementLines := root.Get("replacement_lines")
	if !filePath.Exists() || !originalLines.Exists() {
		return nil
	}

	var original []string
	for _, l := range originalLines.Array() {
		original = append(original, l.String())
	}
	var replacement []string
	for _, l := range replacementLines.Array() {
		replacement = append(replacement, l.String())
	}

	start := int(root.Get("start_line").Int())
	end := int(root.Get("end_line").Int())
	if start == 0 {
		start = 1
	}
	if end == 0 {
		end = start + len(original) - 1
	}

	return &model.FixEdit{
		FilePath:      filePath.String(),
		StartLine:     start,
		EndLine:       end,
		OriginalLines: original,
		Replacement:   strings.Join(replacement, "\n"),
	}
}

// validate enforces §4.6's rules: non-empty edits, well-formed per-edit
// fields, confidence in range, bounded explanation, and no overlapping
// edits within the same file.
func validate(s *model.FixSuggestion) bool {
	if s == nil || len(s.Edits) == 0 {
		return false
	}
	if s.Confidence < 0 || s.Confidence > 100 {
		return false
	}
	if len(s.Explanation) > maxExplanationLen {
		return false
	}
	for _, e := range s.Edits {
		if e.FilePath == "" || e.StartLine < 1 || e.EndLine < e.StartLine || len(e.OriginalLines) == 0 {
			return false
		}
	}
	return !overlaps(s.Edits)
}

// overlaps groups edits by file, sorts each group by start_line, and
// requires every edit's end_line to fall strictly before the next edit's
// start_line.
func overlaps(edits []model.FixEdit) bool {
	byFile := make(map[string][]model.FixEdit)
	for _, e := range edits {
		byFile[e.FilePath] = append(byFile[e.FilePath], e)
	}
	for _, group := range byFile {
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				a, b := group[i], group[j]
				if a.StartLine > b.StartLine {
					a, b = b, a
				}
				if a.EndLine >= b.StartLine {
					return true
				}
			}
		}
	}
	return false
}

// extractJSON isolates a JSON object from free-form text: first it looks
// for a fenced ```json or ``` code block, then falls back to scanning for
// the first "{" and returning the shortest prefix-balanced object that
// respects string and escape state.
func extractJSON(text string) string {
	if fenced := extractFenced(text); fenced != "" {
		return fenced
	}
	return extractBalanced(text)
}

func extractFenced(text string) string {
	pos := 0
	for {
		open := strings.Index(text[pos:], "```")
		if open == -1 {
			return ""
		}
		open += pos
		rest := text[open+3:]
		nl := strings.IndexByte(rest, '\n')
		if nl == -1 {
			return ""
		}
		tag := strings.TrimSpace(rest[:nl])
		body := rest[nl+1:]
		end := strings.Index(body, "```")
		if end == -1 {
			return ""
		}
		if tag == "" || strings.EqualFold(tag, "json") {
			if candidate := strings.TrimSpace(body[:end]); candidate != "" {
				return candidate
			}
		}
		pos = open + 3 + nl + 1 + end + 3
	}
}

// extractBalanced scans for the first "{" and returns the shortest
// prefix-balanced object, tracking string/escape state so braces inside
// string literals don't affect the depth count.
func extractBalanced(text string) string {
	start := strings.IndexByte(text, '{')
	if start == -1 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}
