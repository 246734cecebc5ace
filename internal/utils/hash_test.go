package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileHash(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.png")
	b := filepath.Join(dir, "b.png")
	c := filepath.Join(dir, "c.png")
	require.NoError(t, os.WriteFile(a, []byte("same bytes"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("same bytes"), 0o644))
	require.NoError(t, os.WriteFile(c, []byte("other bytes"), 0o644))

	ha, err := FileHash(a)
	require.NoError(t, err)
	hb, err := FileHash(b)
	require.NoError(t, err)
	hc, err := FileHash(c)
	require.NoError(t, err)

	assert.Equal(t, ha, hb)
	assert.NotEqual(t, ha, hc)
}

func TestFileHashMissingFile(t *testing.T) {
	_, err := FileHash(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}
