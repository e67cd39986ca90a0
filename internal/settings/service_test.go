package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medgate/internal/audit"
	"medgate/internal/oracle"
	"medgate/pkg/domain"
	dErrors "medgate/pkg/domain-errors"
)

const ownerAcct = domain.Account("owner-1")

func okFactory(string) (oracle.Oracle, error) { return oracle.NewStatic(), nil }

func newService(t *testing.T, store Store) (*Service, *audit.InMemoryStore) {
	t.Helper()
	events := audit.NewInMemoryStore()
	svc, err := New(context.Background(), store, okFactory, ownerAcct,
		WithPublisher(audit.NewPublisher(events, nil)),
	)
	require.NoError(t, err)
	return svc, events
}

func TestService_SetOracle(t *testing.T) {
	ctx := context.Background()

	t.Run("owner swaps the oracle", func(t *testing.T) {
		svc, events := newService(t, NewInMemoryStore("", 50))

		_, err := svc.Current(ctx)
		assert.ErrorIs(t, err, ErrNotConfigured)

		require.NoError(t, svc.SetOracle(ctx, ownerAcct, "http://oracle.internal"))

		current, err := svc.Current(ctx)
		require.NoError(t, err)
		assert.NotNil(t, current)

		ref, err := svc.OracleRef(ctx)
		require.NoError(t, err)
		assert.Equal(t, "http://oracle.internal", ref)

		changed := events.ByAction(audit.ActionConfigUpdated)
		require.Len(t, changed, 1)
		assert.Equal(t, "oracle_ref", changed[0].Subject)
	})

	t.Run("empty reference is refused", func(t *testing.T) {
		svc, _ := newService(t, NewInMemoryStore("", 50))

		assert.ErrorIs(t, svc.SetOracle(ctx, ownerAcct, ""), ErrZeroAddress)
		assert.ErrorIs(t, svc.SetOracle(ctx, ownerAcct, "   "), ErrZeroAddress)
	})

	t.Run("non-owner is refused", func(t *testing.T) {
		svc, events := newService(t, NewInMemoryStore("", 50))

		assert.ErrorIs(t, svc.SetOracle(ctx, "stranger", "http://x"), ErrNotAuthorized)
		assert.Empty(t, events.Events())
	})

	t.Run("unbuildable reference does not commit", func(t *testing.T) {
		store := NewInMemoryStore("", 50)
		events := audit.NewInMemoryStore()
		svc, err := New(context.Background(), store,
			func(string) (oracle.Oracle, error) {
				return nil, dErrors.New(dErrors.CodeInvalidInput, "bad ref")
			},
			ownerAcct, WithPublisher(audit.NewPublisher(events, nil)),
		)
		require.NoError(t, err)

		err = svc.SetOracle(ctx, ownerAcct, "garbage")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

		ref, rerr := svc.OracleRef(ctx)
		require.NoError(t, rerr)
		assert.Empty(t, ref)
	})

	t.Run("stored reference is rebuilt at startup", func(t *testing.T) {
		svc, _ := newService(t, NewInMemoryStore("http://oracle.internal", 50))

		current, err := svc.Current(ctx)
		require.NoError(t, err)
		assert.NotNil(t, current)
	})
}

func TestService_SetThreshold(t *testing.T) {
	ctx := context.Background()

	t.Run("owner change is visible immediately", func(t *testing.T) {
		svc, events := newService(t, NewInMemoryStore("", 50))

		require.NoError(t, svc.SetThreshold(ctx, ownerAcct, 80))

		value, err := svc.Threshold(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint32(80), value)

		changed := events.ByAction(audit.ActionConfigUpdated)
		require.Len(t, changed, 1)
		assert.Equal(t, "competency_threshold", changed[0].Subject)
		assert.Equal(t, "80", changed[0].Details["value"])
	})

	t.Run("non-owner is refused", func(t *testing.T) {
		svc, _ := newService(t, NewInMemoryStore("", 50))

		assert.ErrorIs(t, svc.SetThreshold(ctx, "stranger", 80), ErrNotAuthorized)

		value, err := svc.Threshold(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint32(50), value)
	})
}
