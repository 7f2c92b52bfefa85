package objectclient

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore(t *testing.T) {
	ctx := context.Background()

	t.Run("save get delete roundtrip", func(t *testing.T) {
		store, err := NewLocalStore(t.TempDir())
		require.NoError(t, err)

		ref, err := store.Save(ctx, "doc-1_p3_full.jpg", []byte("jpeg bytes"), "image/jpeg")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(ref), "refs must be absolute paths")

		data, err := store.Get(ctx, ref)
		require.NoError(t, err)
		assert.Equal(t, []byte("jpeg bytes"), data)

		require.NoError(t, store.Delete(ctx, ref))
		_, err = store.Get(ctx, ref)
		assert.Error(t, err)
	})

	t.Run("save strips path components from keys", func(t *testing.T) {
		dir := t.TempDir()
		store, err := NewLocalStore(dir)
		require.NoError(t, err)

		ref, err := store.Save(ctx, "../escape/evil.jpg", []byte("x"), "image/jpeg")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "evil.jpg"), ref)
	})

	t.Run("creates the output directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "outputs")
		_, err := NewLocalStore(dir)
		require.NoError(t, err)

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})
}
