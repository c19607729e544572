package book

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskImageStoreSave(t *testing.T) {
	dir := t.TempDir()
	store, err := newDiskImageStore(dir)
	require.NoError(t, err)

	path, err := store.Save("cover.PNG", strings.NewReader("png bytes"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(path, "/uploads/"))
	assert.True(t, strings.HasSuffix(path, ".png"))

	data, err := os.ReadFile(filepath.Join(dir, filepath.Base(path)))
	require.NoError(t, err)
	assert.Equal(t, "png bytes", string(data))
}

func TestDiskImageStoreNormalizesUnknownExtension(t *testing.T) {
	store, err := newDiskImageStore(t.TempDir())
	require.NoError(t, err)

	path, err := store.Save("cover.exe", strings.NewReader("bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ".jpg"))
}
