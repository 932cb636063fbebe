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

func TestHasher_HashBytes(t *testing.T) {
	t.Parallel()

	h := fs.NewHasher(fs.NewWalker())

	a := h.HashBytes([]byte("java_library()"))
	assert.Len(t, a, 16)
	assert.Equal(t, a, h.HashBytes([]byte("java_library()")))
	assert.NotEqual(t, a, h.HashBytes([]byte("java_binary()")))
}

func TestHasher_HashFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := filepath.Join(root, "BUCK")
	writeFile(t, path, "prebuilt_jar()")

	h := fs.NewHasher(fs.NewWalker())
	got, err := h.HashFile(path)
	require.NoError(t, err)
	assert.Equal(t, h.HashBytes([]byte("prebuilt_jar()")), got)

	_, err = h.HashFile(filepath.Join(root, "missing"))
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrFileHashFailed.Error())
}

func TestHasher_HashTree(t *testing.T) {
	t.Parallel()

	build := func(t *testing.T, target string) string {
		t.Helper()
		root := t.TempDir()
		artifacts := t.TempDir()
		writeFile(t, filepath.Join(artifacts, "a.jar"), "a")
		writeFile(t, filepath.Join(artifacts, "b.jar"), "b")
		writeFile(t, filepath.Join(root, "com", "example", "lib", "BUCK"), "prebuilt_jar()")
		require.NoError(t, os.Symlink(filepath.Join(artifacts, target),
			filepath.Join(root, "com", "example", "lib", "lib-1.0.jar")))
		return root
	}

	h := fs.NewHasher(fs.NewWalker())

	t.Run("stable across runs", func(t *testing.T) {
		t.Parallel()
		root := build(t, "a.jar")
		first, err := h.HashTree(root)
		require.NoError(t, err)
		second, err := h.HashTree(root)
		require.NoError(t, err)
		assert.Len(t, first, 16)
		assert.Equal(t, first, second)
	})

	t.Run("changes with rule file content", func(t *testing.T) {
		t.Parallel()
		root := build(t, "a.jar")
		before, err := h.HashTree(root)
		require.NoError(t, err)

		writeFile(t, filepath.Join(root, "com", "example", "lib", "BUCK"), "android_prebuilt_aar()")
		after, err := h.HashTree(root)
		require.NoError(t, err)
		assert.NotEqual(t, before, after)
	})

	t.Run("changes with link target", func(t *testing.T) {
		t.Parallel()
		root := build(t, "a.jar")
		before, err := h.HashTree(root)
		require.NoError(t, err)

		link := filepath.Join(root, "com", "example", "lib", "lib-1.0.jar")
		target, err := os.Readlink(link)
		require.NoError(t, err)
		require.NoError(t, os.Remove(link))
		require.NoError(t, os.Symlink(filepath.Join(filepath.Dir(target), "b.jar"), link))

		after, err := h.HashTree(root)
		require.NoError(t, err)
		assert.NotEqual(t, before, after)
	})

	t.Run("missing root", func(t *testing.T) {
		t.Parallel()
		_, err := h.HashTree(filepath.Join(t.TempDir(), "missing"))
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrPathStatFailed.Error())
	})
}
