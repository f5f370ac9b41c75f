package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/candles/pkg/types"
)

// engineContract exercises the behavior every engine must share.
func engineContract(t *testing.T, engine types.KeyValue) {
	t.Helper()
	ctx := context.Background()

	_, err := engine.Get(ctx, "missing")
	assert.ErrorIs(t, err, types.ErrKeyNotFound)

	require.NoError(t, engine.Set(ctx, "savedCandles", []byte(`[]`)))
	got, err := engine.Get(ctx, "savedCandles")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))

	require.NoError(t, engine.Set(ctx, "savedCandles", []byte(`[{"id":"1"}]`)))
	got, err = engine.Get(ctx, "savedCandles")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, string(got))

	assert.ErrorIs(t, engine.Set(ctx, "", []byte("x")), ErrInvalidKey)
	_, err = engine.Get(ctx, "../escape")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestOpen(t *testing.T) {
	for _, backend := range []string{types.BackendSQLite, types.BackendFile} {
		t.Run(backend, func(t *testing.T) {
			engine, err := Open(context.Background(), types.Config{
				Backend: backend,
				DataDir: t.TempDir(),
			})
			require.NoError(t, err)
			defer engine.Close()

			engineContract(t, engine)
		})
	}
}

func TestOpenRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  types.Config
		wantErr error
	}{
		{name: "empty backend", config: types.Config{}, wantErr: types.ErrBackendEmpty},
		{name: "unknown backend", config: types.Config{Backend: "etcd"}, wantErr: types.ErrBackendUnknown},
		{name: "redis without addr", config: types.Config{Backend: types.BackendRedis}, wantErr: types.ErrRedisAddrEmpty},
		{name: "mongo without uri", config: types.Config{Backend: types.BackendMongo}, wantErr: types.ErrMongoURIEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, err := Open(context.Background(), tt.config)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, engine)
		})
	}
}
