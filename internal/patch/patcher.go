// Package patch implements the file patcher (C9): a path-safety-gated,
// content-matched, hash-verified, atomically-written applier of a
// FixSuggestion's first edit. Writes go through a temp file, fsync, and
// rename, with cleanup on any failure partway through.
package patch

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/tsugix/tsugix/internal/model"
	"github.com/tsugix/tsugix/internal/textenc"
)

// Options controls how a fix is applied.
type Options struct {
	RootDirectory    string
	AllowOutsideRoot bool
	CreateBackup     bool
	VerifyContent    bool
	// IgnorePatterns are doublestar globs (matched against the path
	// relative to RootDirectory) that a fix may never touch, e.g.
	// "vendor/**" or "**/*_generated.go".
	IgnorePatterns []string
}

// Apply applies the first edit of suggestion to disk per opts. Only the
// first edit is supported; any additional edits are ignored.
func Apply(suggestion *model.FixSuggestion, opts Options) model.PatchResult {
	if suggestion == nil || len(suggestion.Edits) == 0 {
		return model.PatchResult{Success: false, ErrorMessage: "no edit to apply"}
	}
	edit := suggestion.Edits[0]

	resolved, err := resolvePath(edit.FilePath, opts)
	if err != nil {
		return model.PatchResult{Success: false, ErrorMessage: err.Error()}
	}
	if matchesIgnore(resolved, opts) {
		return model.PatchResult{Success: false, ErrorMessage: "file path matches an ignore pattern"}
	}

	original, err := os.ReadFile(resolved) // #nosec G304 - path passed through the safety gate above
	if err != nil {
		return model.PatchResult{Success: false, ErrorMessage: fmt.Sprintf("reading file: %v", err)}
	}

	enc, rawBody := textenc.Sniff(original)
	body, err := textenc.Decode(enc, rawBody)
	if err != nil {
		return model.PatchResult{Success: false, ErrorMessage: fmt.Sprintf("decoding file: %v", err)}
	}
	lineEnding := detectLineEnding([]byte(body))
	fileLines := splitLines(body)

	idx, ok := findMatch(fileLines, edit.OriginalLines)
	if !ok {
		return model.PatchResult{Success: false, ErrorMessage: "original code not found"}
	}

	origHash := sha256.Sum256(original)

	var backupPath string
	if opts.CreateBackup {
		backupPath, err = writeBackup(opts.RootDirectory, resolved, original)
		if err != nil {
			return model.PatchResult{Success: false, ErrorMessage: fmt.Sprintf("creating backup: %v", err)}
		}
	}

	if opts.VerifyContent {
		current, err := os.ReadFile(resolved) // #nosec G304
		if err != nil {
			return model.PatchResult{Success: false, BackupPath: backupPath, ErrorMessage: fmt.Sprintf("re-reading file: %v", err)}
		}
		if sha256.Sum256(current) != origHash {
			return model.PatchResult{Success: false, BackupPath: backupPath, ErrorMessage: "file changed during operation"}
		}
	}

	newLines := make([]string, 0, len(fileLines)-len(edit.OriginalLines)+1)
	newLines = append(newLines, fileLines[:idx]...)
	newLines = append(newLines, splitLines(edit.Replacement)...)
	newLines = append(newLines, fileLines[idx+len(edit.OriginalLines):]...)

	newContent := strings.Join(newLines, lineEnding)
	if strings.HasSuffix(body, "\n") || strings.HasSuffix(body, "\r") {
		newContent += lineEnding
	}
	encoded, err := textenc.Encode(enc, newContent)
	if err != nil {
		return model.PatchResult{Success: false, BackupPath: backupPath, ErrorMessage: fmt.Sprintf("encoding file: %v", err)}
	}
	if err := atomicWrite(resolved, textenc.BOMPrefix(enc), encoded); err != nil {
		return model.PatchResult{Success: false, BackupPath: backupPath, ErrorMessage: fmt.Sprintf("writing file: %v", err)}
	}

	return model.PatchResult{Success: true, BackupPath: backupPath}
}

// Verify performs the path gate, read, and content-match without modifying
// anything. Returns true if the edit's original_lines would be found.
func Verify(suggestion *model.FixSuggestion, opts Options) bool {
	if suggestion == nil || len(suggestion.Edits) == 0 {
		return false
	}
	edit := suggestion.Edits[0]

	resolved, err := resolvePath(edit.FilePath, opts)
	if err != nil {
		return false
	}
	raw, err := os.ReadFile(resolved) // #nosec G304
	if err != nil {
		return false
	}
	enc, rawBody := textenc.Sniff(raw)
	body, err := textenc.Decode(enc, rawBody)
	if err != nil {
		return false
	}
	fileLines := splitLines(body)
	_, ok := findMatch(fileLines, edit.OriginalLines)
	return ok
}

// resolvePath applies the path-safety gate: reject empty paths, resolve
// against root_directory, and require the resolved absolute path to remain
// under the canonical root unless allow_outside_root is set.
func resolvePath(path string, opts Options) (string, error) {
	if path == "" {
		return "", fmt.Errorf("empty file path")
	}

	root := opts.RootDirectory
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		root = wd
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	canonicalRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		canonicalRoot = root
	}

	joined := path
	if !filepath.IsAbs(joined) {
		joined = filepath.Join(root, path)
	}
	resolved, err := filepath.Abs(joined)
	if err != nil {
		return "", err
	}

	if opts.AllowOutsideRoot {
		return resolved, nil
	}

	rel, err := filepath.Rel(canonicalRoot, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("file path escapes root directory: %s", path)
	}
	return resolved, nil
}

// matchesIgnore reports whether resolved's path relative to opts'
// root directory matches any of opts.IgnorePatterns.
func matchesIgnore(resolved string, opts Options) bool {
	if len(opts.IgnorePatterns) == 0 {
		return false
	}
	root := opts.RootDirectory
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return false
		}
		root = wd
	}
	rel, err := filepath.Rel(root, resolved)
	if err != nil {
		rel = resolved
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range opts.IgnorePatterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// detectLineEnding counts CRLF vs bare LF occurrences; CRLF wins only on
// strict majority-or-tie.
func detectLineEnding(body []byte) string {
	crlf := strings.Count(string(body), "\r\n")
	totalLF := strings.Count(string(body), "\n")
	bareLF := totalLF - crlf
	if crlf >= bareLF {
		return "\r\n"
	}
	return "\n"
}

func splitLines(text string) []string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	lines := strings.Split(normalized, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

// findMatch finds the smallest index i such that every original_lines[j]
// matches file_lines[i+j] after whitespace trimming on both sides.
func findMatch(fileLines, original []string) (int, bool) {
	if len(original) == 0 || len(fileLines) < len(original) {
		return 0, false
	}
	trimmedOriginal := make([]string, len(original))
	for i, l := range original {
		trimmedOriginal[i] = strings.TrimSpace(l)
	}

	for i := 0; i+len(original) <= len(fileLines); i++ {
		match := true
		for j := range original {
			if strings.TrimSpace(fileLines[i+j]) != trimmedOriginal[j] {
				match = false
				break
			}
		}
		if match {
			return i, true
		}
	}
	return 0, false
}

// writeBackup copies the original bytes to
// <root>/.tsugix/backup/<yyyymmdd_HHMMSS>/<relative-path>, creating
// directories as needed, and returns the destination path.
func writeBackup(root, resolvedPath string, original []byte) (string, error) {
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		root = wd
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}

	rel, err := filepath.Rel(root, resolvedPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(resolvedPath)
	}

	stamp := time.Now().Format("20060102_150405")
	dest := filepath.Join(root, ".tsugix", "backup", stamp, rel)

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(dest, original, 0o644); err != nil {
		return "", err
	}
	return dest, nil
}

// atomicWrite writes bomPrefix followed by content to a sibling temp file,
// flushes and fsyncs, then renames over target. The temp file is removed on
// any failure path. content is expected to already be in the target
// encoding (see textenc.Encode) — atomicWrite itself does no transcoding.
func atomicWrite(target string, bomPrefix []byte, content []byte) error {
	dir := filepath.Dir(target)
	tempPath := filepath.Join(dir, ".tsugix.tmp."+randomHex(16))

	f, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}

	if len(bomPrefix) > 0 {
		if _, err := f.Write(bomPrefix); err != nil {
			_ = f.Close()
			_ = os.Remove(tempPath)
			return err
		}
	}
	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		_ = os.Remove(tempPath)
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tempPath)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tempPath)
		return err
	}
	if err := os.Rename(tempPath, target); err != nil {
		_ = os.Remove(tempPath)
		return err
	}
	return nil
}

func randomHex(n int) string {
	buf := make([]byte, n)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
