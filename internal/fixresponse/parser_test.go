package fixresponse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_EmptyTextReturnsNil(t *testing.T) {
	assert.Nil(t, Parse(""))
	assert.Nil(t, Parse("   "))
}

func TestParse_FencedJSONBlock(t *testing.T) {
	text := "Here is the fix:\n```json\n" + `{
  "language": "Python",
  "edits": [{"file_path": "a.py", "start_line": 3, "end_line": 3, "original_lines": ["x = 1"], "replacement": "x = 2"}],
  "explanation": "fix off by one",
  "confidence": 80
}` + "\n```\nDone."

	s := Parse(text)
	require.NotNil(t, s)
	assert.Equal(t, "Python", s.Language)
	require.Len(t, s.Edits, 1)
	assert.Equal(t, "a.py", s.Edits[0].FilePath)
	assert.Equal(t, 80, s.Confidence)
}

func TestParse_BalancedBraceFallback(t *testing.T) {
	text := `not fenced {"language":"Go","edits":[{"file_path":"a.go","start_line":1,"end_line":1,"original_lines":["a"],"replacement":"b"}],"explanation":"e","confidence":50} trailing text`

	s := Parse(text)
	require.NotNil(t, s)
	assert.Equal(t, "Go", s.Language)
}

func TestParse_LegacySchemaNormalizes(t *testing.T) {
	text := `{"file_path":"a.rb","original_lines":["foo","bar"],"replacement_lines":["baz"],"confidence":10,"explanation":"x"}`

	s := Parse(text)
	require.NotNil(t, s)
	require.Len(t, s.Edits, 1)
	assert.Equal(t, 1, s.Edits[0].StartLine)
	assert.Equal(t, 2, s.Edits[0].EndLine)
	assert.Equal(t, "baz", s.Edits[0].Replacement)
}

func TestParse_RejectsOverlappingEdits(t *testing.T) {
	text := `{"edits":[
		{"file_path":"a.py","start_line":1,"end_line":5,"original_lines":["a"],"replacement":"x"},
		{"file_path":"a.py","start_line":3,"end_line":7,"original_lines":["b"],"replacement":"y"}
	],"confidence":50,"explanation":"e"}`
	assert.Nil(t, Parse(text))
}

func TestParse_RejectsOutOfRangeConfidence(t *testing.T) {
	text := `{"edits":[{"file_path":"a.py","start_line":1,"end_line":1,"original_lines":["a"],"replacement":"b"}],"confidence":150,"explanation":"e"}`
	assert.Nil(t, Parse(text))
}

func TestParse_RejectsNoJSONFound(t *testing.T) {
	assert.Nil(t, Parse("no json here at all"))
}

func TestParse_RejectsEmptyEdits(t *testing.T) {
	assert.Nil(t, Parse(`{"edits":[],"confidence":50}`))
}
