package cas_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/buckle/internal/adapters/cas"
	"go.trai.ch/buckle/internal/core/domain"
)

func TestStore_PutGet(t *testing.T) {
	t.Parallel()

	state := domain.GenerationState{
		Files: []domain.GeneratedFile{
			{Path: "app/BUCK", Hash: "00000000000000aa"},
			{Path: ".buckle/ext/com/example/lib/BUCK", Hash: "00000000000000bb"},
		},
		// Truncate because JSON unmarshal drops the monotonic clock reading.
		Timestamp: time.Now().Truncate(time.Second).UTC(),
	}

	t.Run("put and get", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		store, err := cas.NewStore()
		require.NoError(t, err)

		require.NoError(t, store.Put(root, state))

		got, err := store.Get(root)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, state, *got)
		assert.Equal(t, []string{"app/BUCK", ".buckle/ext/com/example/lib/BUCK"}, got.Paths())

		hash, ok := got.HashOf("app/BUCK")
		assert.True(t, ok)
		assert.Equal(t, "00000000000000aa", hash)

		_, err = os.Stat(filepath.Join(root, domain.DefaultStatePath(), cas.StateFileName+".tmp"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("get missing", func(t *testing.T) {
		t.Parallel()
		store, err := cas.NewStore()
		require.NoError(t, err)

		got, err := store.Get(t.TempDir())
		require.NoError(t, err)
		assert.Nil(t, got)
		assert.Nil(t, got.Paths())
	})

	t.Run("get corrupt", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		store, err := cas.NewStore()
		require.NoError(t, err)

		require.NoError(t, store.Put(root, domain.GenerationState{}))

		filename := filepath.Join(root, domain.DefaultStatePath(), cas.StateFileName)
		//nolint:gosec // Test file permissions
		require.NoError(t, os.WriteFile(filename, []byte("{ invalid json"), 0o600))

		_, err = store.Get(root)
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrStoreUnmarshalFailed.Error())
	})
}

func TestStore_PutFailsWhenStateDirIsFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	//nolint:gosec // Test file permissions
	require.NoError(t, os.WriteFile(filepath.Join(root, domain.BuckleDirName), []byte("x"), 0o600))

	store, err := cas.NewStore()
	require.NoError(t, err)

	err = store.Put(root, domain.GenerationState{})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrStoreCreateFailed.Error())
}
