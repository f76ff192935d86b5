package prompt

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsugix/tsugix/internal/model"
)

func TestBuildUserPayload_TruncatesMessageAndCommand(t *testing.T) {
	longMsg := strings.Repeat("x", maxMessageLen+50)
	longCmd := strings.Repeat("y", maxCommandLen+50)

	ctx := &model.ErrorContext{
		Language:        "Python",
		Exception:       &model.ExceptionInfo{Type: "ValueError", Message: longMsg},
		OriginalCommand: longCmd,
	}

	raw, err := BuildUserPayload(ctx)
	require.NoError(t, err)

	var decoded userPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))

	assert.True(t, strings.HasSuffix(decoded.Error.Message, "..."))
	assert.LessOrEqual(t, len(decoded.Error.Message), maxMessageLen+3)
	assert.True(t, strings.HasSuffix(decoded.OriginalCommand, "..."))
	assert.LessOrEqual(t, len(decoded.OriginalCommand), maxCommandLen+3)
}

func TestBuildUserPayload_CapsFramesAt20(t *testing.T) {
	frames := make([]*model.StackFrame, 30)
	for i := range frames {
		frames[i] = &model.StackFrame{File: "a.py", Line: i + 1, IsUserCode: true}
	}
	ctx := &model.ErrorContext{Language: "Python", Exception: &model.ExceptionInfo{Type: "E"}, Frames: frames}

	raw, err := BuildUserPayload(ctx)
	require.NoError(t, err)

	var decoded userPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	assert.Len(t, decoded.StackTrace, maxFrames)
}

func TestBuildUserPayload_NoSourceContextWithoutSnippet(t *testing.T) {
	ctx := &model.ErrorContext{
		Language:     "Python",
		Exception:    &model.ExceptionInfo{Type: "E"},
		PrimaryFrame: &model.StackFrame{File: "a.py", Line: 3},
	}
	raw, err := BuildUserPayload(ctx)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	_, present := decoded["source_context"]
	assert.False(t, present)
}

func TestBuildUserPayload_RawCodeStopsAt50Lines(t *testing.T) {
	lines := make([]model.SourceLine, 0, 80)
	for i := 1; i <= 80; i++ {
		lines = append(lines, model.SourceLine{Number: i, Content: "line"})
	}
	frame := &model.StackFrame{
		File: "a.py",
		Line: 40,
		Snippet: &model.SourceSnippet{
			FilePath:  "a.py",
			ErrorLine: 40,
			Lines:     lines,
		},
	}
	ctx := &model.ErrorContext{
		Language:     "Python",
		Exception:    &model.ExceptionInfo{Type: "E"},
		PrimaryFrame: frame,
	}
	raw, err := BuildUserPayload(ctx)
	require.NoError(t, err)

	var decoded userPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	require.NotNil(t, decoded.SourceContext)
	assert.True(t, decoded.SourceContext.IsTruncated)
	assert.Equal(t, maxRawLines, strings.Count(decoded.SourceContext.RawCode, "line"))
}
