package candles

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/candles/pkg/types"
)

func TestOpen_PersistsAcrossInstances(t *testing.T) {
	for _, backend := range []string{types.BackendSQLite, types.BackendFile} {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			cfg := types.Config{Backend: backend, DataDir: t.TempDir()}

			store, err := Open(ctx, cfg, zerolog.Nop())
			require.NoError(t, err)
			assert.Empty(t, store.List())

			details := types.Details{
				TotalWeight:     decimal.RequireFromString("86"),
				WaxWeight:       decimal.RequireFromString("77.4"),
				FragranceWeight: decimal.RequireFromString("8.6"),
			}
			rec, err := store.Create(ctx, "Vanilla", details)
			require.NoError(t, err)
			require.NoError(t, store.Close())

			reopened, err := Open(ctx, cfg, zerolog.Nop())
			require.NoError(t, err)
			defer reopened.Close()

			got := reopened.List()
			require.Len(t, got, 1)
			assert.True(t, rec.Equal(got[0]))

			found, ok := reopened.Get(rec.ID)
			require.True(t, ok)
			assert.True(t, rec.Equal(found))
			_, ok = reopened.Get("missing")
			assert.False(t, ok)
		})
	}
}

func TestOpen_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  types.Config
		want error
	}{
		{"empty backend", types.Config{}, types.ErrBackendEmpty},
		{"unknown backend", types.Config{Backend: "postgres"}, types.ErrBackendUnknown},
		{"redis without addr", types.Config{Backend: types.BackendRedis}, types.ErrRedisAddrEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(context.Background(), tt.cfg, zerolog.Nop())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
