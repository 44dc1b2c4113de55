// Package kvtest holds the behaviour every kv.Store implementation must share.
package kvtest

import (
	"context"
	"testing"

	"github.com/dori/mytasks/internal/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises the kv.Store contract against stores built by open. Each
// subtest gets a fresh, empty store.
func Run(t *testing.T, open func(t *testing.T) kv.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("absent key", func(t *testing.T) {
		s := open(t)
		v, ok, err := s.Get(ctx, "tasks")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, v)
	})

	t.Run("batch write visible together", func(t *testing.T) {
		s := open(t)
		err := s.MultiSet(ctx, []kv.Entry{
			{Key: "tasks", Value: `[{"id":"1"}]`},
			{Key: "isDarkMode", Value: "true"},
		})
		require.NoError(t, err)

		v, ok, err := s.Get(ctx, "tasks")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, `[{"id":"1"}]`, v)

		v, ok, err = s.Get(ctx, "isDarkMode")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "true", v)
	})

	t.Run("overwrite keeps other keys", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.MultiSet(ctx, []kv.Entry{
			{Key: "tasks", Value: "[]"},
			{Key: "isDarkMode", Value: "false"},
		}))
		require.NoError(t, s.MultiSet(ctx, []kv.Entry{
			{Key: "isDarkMode", Value: "true"},
		}))

		v, _, err := s.Get(ctx, "tasks")
		require.NoError(t, err)
		assert.Equal(t, "[]", v)

		v, _, err = s.Get(ctx, "isDarkMode")
		require.NoError(t, err)
		assert.Equal(t, "true", v)
	})

	t.Run("empty value is present", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.MultiSet(ctx, []kv.Entry{{Key: "tasks", Value: ""}}))

		v, ok, err := s.Get(ctx, "tasks")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Empty(t, v)
	})

	t.Run("empty batch", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.MultiSet(ctx, nil))
	})
}
