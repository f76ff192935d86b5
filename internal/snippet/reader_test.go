package snippet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsugix/tsugix/internal/textenc"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "source.py")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRead_CentersWindow(t *testing.T) {
	content := "l1\nl2\nl3\nl4\nl5\nl6\nl7\n"
	path := writeTemp(t, content)

	snip := Read(path, 4, 2)
	require.NotNil(t, snip)
	assert.Equal(t, 2, snip.StartLine)
	assert.Equal(t, 6, snip.EndLine)
	assert.Equal(t, 4, snip.ErrorLine)

	errorLines := 0
	for _, l := range snip.Lines {
		if l.IsErrorLine {
			errorLines++
			assert.Equal(t, 4, l.Number)
		}
	}
	assert.Equal(t, 1, errorLines)
}

func TestRead_ClampLowExtendsHigh(t *testing.T) {
	content := "l1\nl2\nl3\nl4\nl5\nl6\nl7\nl8\nl9\nl10\n"
	path := writeTemp(t, content)

	snip := Read(path, 1, 3)
	require.NotNil(t, snip)
	assert.Equal(t, 1, snip.StartLine)
	assert.LessOrEqual(t, snip.EndLine-snip.StartLine, 2*3)
	assert.Equal(t, 7, snip.EndLine) // extended to 1+2*window since file has room
}

func TestRead_ClampHighExtendsLow(t *testing.T) {
	content := "l1\nl2\nl3\nl4\nl5\nl6\nl7\n"
	path := writeTemp(t, content)

	snip := Read(path, 7, 3)
	require.NotNil(t, snip)
	assert.Equal(t, 7, snip.EndLine)
	assert.Equal(t, 1, snip.StartLine)
}

func TestRead_InvalidArgs(t *testing.T) {
	path := writeTemp(t, "a\nb\n")
	assert.Nil(t, Read("", 1, 1))
	assert.Nil(t, Read(path, 0, 1))
	assert.Nil(t, Read(path, 100, 1))
	assert.Nil(t, Read(path, 1, 0))
}

func TestRead_MissingFileReturnsNil(t *testing.T) {
	assert.Nil(t, Read("/does/not/exist.go", 1, 1))
}

func TestRead_StripsUTF8BOM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bom.go")
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("package main\nfunc main() {}\n")...)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	snip := Read(path, 1, 0)
	require.Nil(t, snip) // window must be >= 1 per contract

	snip = Read(path, 1, 1)
	require.NotNil(t, snip)
	assert.Equal(t, "package main", snip.Lines[0].Content)
}

func TestRead_TranscodesUTF16LEFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bom.py")

	encoded, err := textenc.Encode(textenc.UTF16LE, "one\ntwo\nthree\n")
	require.NoError(t, err)
	data := append(textenc.BOMPrefix(textenc.UTF16LE), encoded...)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	snip := Read(path, 2, 1)
	require.NotNil(t, snip)
	assert.Equal(t, "two", snip.Lines[1].Content)
}
