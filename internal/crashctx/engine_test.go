package crashctx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsugix/tsugix/internal/langparse"
	"github.com/tsugix/tsugix/internal/langparse/python"
	"github.com/tsugix/tsugix/internal/model"
)

func newTestEngine() *Engine {
	reg := langparse.NewDefaultRegistry(python.NewParser())
	return New(reg)
}

func TestProcess_EmptyStderrReturnsNil(t *testing.T) {
	e := newTestEngine()
	assert.Nil(t, e.Process(&model.CrashReport{Stderr: ""}))
	assert.Nil(t, e.Process(nil))
}

func TestProcess_FallbackOnNoParserMatch(t *testing.T) {
	e := newTestEngine()
	ctx := e.Process(&model.CrashReport{Stderr: "some unrelated garbage output", Command: "run"})
	require.NotNil(t, ctx)
	assert.Equal(t, "Unknown", ctx.Language)
	assert.Equal(t, "Error", ctx.Exception.Type)
	assert.Empty(t, ctx.Frames)
}

func TestProcess_FallbackTruncatesLongStderr(t *testing.T) {
	e := newTestEngine()
	long := ""
	for i := 0; i < 50; i++ {
		long += "1234567890"
	}
	ctx := e.Process(&model.CrashReport{Stderr: long})
	require.NotNil(t, ctx)
	assert.True(t, len(ctx.Exception.Message) <= maxFallbackMessage+3)
	assert.Contains(t, ctx.Exception.Message, "...")
}

func TestProcess_EnrichesFramesAndPicksPrimary(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "app.py")
	content := "line1\nline2\nraise ValueError('boom')\nline4\nline5\n"
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))

	stderr := "Traceback (most recent call last):\n" +
		"  File \"" + file + "\", line 3, in main\n" +
		"ValueError: boom\n"

	e := newTestEngine()
	ctx := e.Process(&model.CrashReport{Stderr: stderr, Command: "python app.py", WorkingDir: dir})
	require.NotNil(t, ctx)
	assert.Equal(t, "Python", ctx.Language)
	require.Len(t, ctx.Frames, 1)
	require.NotNil(t, ctx.PrimaryFrame)
	require.NotNil(t, ctx.PrimaryFrame.Snippet)
	assert.Equal(t, 3, ctx.PrimaryFrame.Snippet.ErrorLine)
}
