package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	t.Run("put then get returns a copy", func(t *testing.T) {
		data := []byte("name: survey")
		require.NoError(t, store.PutObject(ctx, "forms/1/a.yaml", "application/x-yaml", data))
		data[0] = 'X'

		got, err := store.GetObject(ctx, "forms/1/a.yaml")
		require.NoError(t, err)
		assert.Equal(t, "name: survey", string(got))
		assert.ElementsMatch(t, []string{"forms/1/a.yaml"}, store.Keys())
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := store.GetObject(ctx, "forms/2/none.yaml")
		assert.ErrorIs(t, err, ErrObjectNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.DeleteObject(ctx, "forms/1/a.yaml"))
		_, err := store.GetObject(ctx, "forms/1/a.yaml")
		assert.ErrorIs(t, err, ErrObjectNotFound)
	})
}
