package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList_EmptyWhenNoBackupDir(t *testing.T) {
	dir := t.TempDir()
	records, err := List(dir)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestList_FindsBackedUpFiles(t *testing.T) {
	dir := t.TempDir()
	stamp := filepath.Join(dir, backupDirName, "20260101_120000")
	require.NoError(t, os.MkdirAll(filepath.Join(stamp, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(stamp, "sub", "a.py"), []byte("x"), 0o644))

	records, err := List(dir)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, filepath.Join("sub", "a.py"), records[0].OriginalPath)
	assert.Equal(t, 2026, records[0].Timestamp.Year())

	want := sha256.Sum256([]byte("x"))
	assert.Equal(t, hex.EncodeToString(want[:]), records[0].Hash)
}

func TestList_SkipsMalformedTimestampDirs(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, backupDirName, "not-a-timestamp")
	require.NoError(t, os.MkdirAll(bad, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(bad, "a.py"), []byte("x"), 0o644))

	records, err := List(dir)
	require.NoError(t, err)
	assert.Empty(t, records)
}
