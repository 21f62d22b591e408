package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "results", "nested", "run.json")
	require.NoError(t, Write(path, []byte("papertrader")), "Write must create parent directories")
	data, err := os.ReadFile(path)
	require.NoError(t, err, "ReadFile must not error")
	assert.Equal(t, "papertrader", string(data))

	require.NoError(t, Write(path, []byte("again")), "Write must overwrite")
	data, err = os.ReadFile(path)
	require.NoError(t, err, "ReadFile must not error")
	assert.Equal(t, "again", string(data))
}

func TestExists(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	assert.True(t, Exists(dir), "Exists should find a directory")
	assert.False(t, Exists(filepath.Join(dir, "missing.json")), "Exists should not find a missing file")
	path := filepath.Join(dir, "present.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))
	assert.True(t, Exists(path), "Exists should find a file")
}
