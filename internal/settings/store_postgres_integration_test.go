//go:build integration

package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medgate/pkg/testutil/containers"
)

func TestPostgresStore(t *testing.T) {
	ctx := context.Background()
	pg := containers.NewPostgresContainer(t)
	require.NoError(t, pg.ApplySchema(ctx, Schema))

	store := NewPostgresStore(pg.DB, "http://default.oracle", 50)

	t.Run("defaults before any write", func(t *testing.T) {
		ref, err := store.OracleRef(ctx)
		require.NoError(t, err)
		assert.Equal(t, "http://default.oracle", ref)

		threshold, err := store.Threshold(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint32(50), threshold)
	})

	t.Run("writes override and persist", func(t *testing.T) {
		require.NoError(t, store.SaveOracleRef(ctx, "http://next.oracle"))
		require.NoError(t, store.SaveThreshold(ctx, 80))

		ref, err := store.OracleRef(ctx)
		require.NoError(t, err)
		assert.Equal(t, "http://next.oracle", ref)

		threshold, err := store.Threshold(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint32(80), threshold)

		// A second handle over the same database sees the stored values.
		fresh := NewPostgresStore(pg.DB, "unused", 1)
		threshold, err = fresh.Threshold(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint32(80), threshold)
	})
}
