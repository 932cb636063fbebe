package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/buckle/internal/adapters/fs"
	"go.trai.ch/buckle/internal/core/domain"
)

func TestLinker_Link(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first := filepath.Join(dir, "first.jar")
	second := filepath.Join(dir, "second.jar")
	writeFile(t, first, "first")
	writeFile(t, second, "second")

	link := filepath.Join(dir, "cache", "lib-1.0.jar")
	require.NoError(t, os.MkdirAll(filepath.Dir(link), domain.DirPerm))

	l := fs.NewLinker()

	t.Run("creates link", func(t *testing.T) {
		require.NoError(t, l.Link(first, link))
		got, err := os.Readlink(link)
		require.NoError(t, err)
		assert.Equal(t, first, got)
	})

	t.Run("same target is a no-op", func(t *testing.T) {
		require.NoError(t, l.Link(first, link))
		got, err := os.Readlink(link)
		require.NoError(t, err)
		assert.Equal(t, first, got)
	})

	t.Run("replaces existing link", func(t *testing.T) {
		require.NoError(t, l.Link(second, link))
		content, err := os.ReadFile(link)
		require.NoError(t, err)
		assert.Equal(t, "second", string(content))
	})

	t.Run("missing directory fails", func(t *testing.T) {
		err := l.Link(first, filepath.Join(dir, "absent", "lib.jar"))
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrSymlinkFailed.Error())
	})
}
