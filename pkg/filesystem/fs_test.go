package filesystem

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func implementations(t *testing.T) map[string]struct {
	fs   FS
	root string
} {
	return map[string]struct {
		fs   FS
		root string
	}{
		"os":     {fs: NewOS(), root: t.TempDir()},
		"memory": {fs: NewMemory(), root: "/work"},
	}
}

func TestFSRoundTrip(t *testing.T) {
	for name, impl := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			fsys := impl.fs
			dir := filepath.Join(impl.root, "a", "b")
			require.NoError(t, fsys.MkdirAll(dir, 0755))

			file := filepath.Join(dir, "f.txt")
			w, err := fsys.Create(file)
			require.NoError(t, err)
			_, err = io.WriteString(w, "payload")
			require.NoError(t, err)
			require.NoError(t, w.Close())

			r, err := fsys.Open(file)
			require.NoError(t, err)
			data, err := io.ReadAll(r)
			require.NoError(t, err)
			require.NoError(t, r.Close())
			assert.Equal(t, "payload", string(data))

			entries, err := fsys.ReadDir(dir)
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, "f.txt", entries[0].Name())
			assert.False(t, entries[0].IsDir())

			require.NoError(t, fsys.RemoveAll(filepath.Join(impl.root, "a")))
			_, err = fsys.Stat(file)
			assert.Error(t, err)
		})
	}
}

func TestAferoReadFileRejectsDirectory(t *testing.T) {
	fsys := NewMemory()
	require.NoError(t, fsys.MkdirAll("/d", 0755))
	_, err := fsys.ReadFile("/d")
	assert.Error(t, err)
}
