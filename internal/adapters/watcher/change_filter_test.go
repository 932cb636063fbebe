package watcher_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/buckle/internal/adapters/fs"
	"go.trai.ch/buckle/internal/adapters/watcher"
)

func TestChangeFilter(t *testing.T) {
	dir := t.TempDir()
	settings := filepath.Join(dir, "buckle.yaml")
	project := filepath.Join(dir, "buckle.project.yaml")
	require.NoError(t, os.WriteFile(settings, []byte("version: \"1\"\n"), 0o600))
	require.NoError(t, os.WriteFile(project, []byte("modules: []\n"), 0o600))

	filter := watcher.NewChangeFilter(fs.NewHasher(fs.NewWalker()))
	filter.Prime([]string{settings, project})

	t.Run("unchanged content is filtered", func(t *testing.T) {
		require.NoError(t, os.WriteFile(settings, []byte("version: \"1\"\n"), 0o600))
		assert.Empty(t, filter.Changed([]string{settings, project}))
	})

	t.Run("edited content is reported", func(t *testing.T) {
		require.NoError(t, os.WriteFile(project, []byte("modules: [{path: app}]\n"), 0o600))
		assert.Equal(t, []string{project}, filter.Changed([]string{settings, project}))
		assert.Empty(t, filter.Changed([]string{project}))
	})

	t.Run("removed file is reported", func(t *testing.T) {
		require.NoError(t, os.Remove(settings))
		assert.Equal(t, []string{settings}, filter.Changed([]string{settings}))
	})
}
