package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStoreContract checks the behaviour every Store backend must share.
func runStoreContract(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		value, err := store.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Empty(t, value)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "novar-decohome-products", `[{"id":"a"}]`))
		value, err := store.Get(ctx, "novar-decohome-products")
		require.NoError(t, err)
		assert.Equal(t, `[{"id":"a"}]`, value)
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "k", "first"))
		require.NoError(t, store.Set(ctx, "k", "second · ñandú"))
		value, err := store.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "second · ñandú", value)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "gone", "v"))
		require.NoError(t, store.Delete(ctx, "gone"))
		_, err := store.Get(ctx, "gone")
		assert.ErrorIs(t, err, ErrNotFound)

		// deleting a missing key is not an error
		assert.NoError(t, store.Delete(ctx, "never-set"))
	})
}
