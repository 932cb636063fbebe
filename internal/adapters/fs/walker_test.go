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

func TestWalker_WalkEntries(t *testing.T) {
	t.Parallel()

	// tmp/
	//   .git/config
	//   ignored/file
	//   src/main.java
	//   src/lib.jar -> ../README.md
	//   README.md
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".git", "config"), "git config")
	writeFile(t, filepath.Join(root, "ignored", "file"), "ignored content")
	writeFile(t, filepath.Join(root, "src", "main.java"), "class Main {}")
	writeFile(t, filepath.Join(root, "README.md"), "# Readme")
	require.NoError(t, os.Symlink(filepath.Join(root, "README.md"), filepath.Join(root, "src", "lib.jar")))

	var rels []string
	var linkTypes []bool
	for entry, err := range fs.NewWalker().WalkEntries(root, "ignored") {
		require.NoError(t, err)
		rels = append(rels, entry.Rel)
		linkTypes = append(linkTypes, entry.Type&os.ModeSymlink != 0)
	}

	assert.Equal(t, []string{"README.md", "src/lib.jar", "src/main.java"}, rels)
	assert.Equal(t, []bool{false, true, false}, linkTypes)
}

func TestWalker_WalkEntries_StopsEarly(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a"), "a")
	writeFile(t, filepath.Join(root, "b"), "b")

	count := 0
	for _, err := range fs.NewWalker().WalkEntries(root) {
		require.NoError(t, err)
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestWalker_WalkEntries_MissingRoot(t *testing.T) {
	t.Parallel()

	var gotErr error
	for _, err := range fs.NewWalker().WalkEntries(filepath.Join(t.TempDir(), "missing")) {
		gotErr = err
	}
	require.Error(t, gotErr)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
}
