package records

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/candles/internal/kv"
	"github.com/mesh-intelligence/candles/pkg/types"
)

func TestGateway_LoadMissingKeyIsEmpty(t *testing.T) {
	g := NewGateway(newMemKV())

	got, err := g.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestGateway_LoadTolerates(t *testing.T) {
	for _, blob := range []string{"", "  \n", "null", "[]"} {
		t.Run(blob, func(t *testing.T) {
			m := newMemKV()
			m.data[StorageKey] = []byte(blob)

			got, err := NewGateway(m).Load(context.Background())
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestGateway_LoadReferenceBlob(t *testing.T) {
	m := newMemKV()
	m.data[StorageKey] = []byte(`[
		{"id":"0.123","name":"Vanilla","date":"7-3","details":{"totalWeight":"86.00","waxWeight":"77.40","fragranceWeight":"8.60"}},
		{"id":"0.456","name":"Default","date":"8-3","details":{"totalWeight":0,"waxWeight":0,"fragranceWeight":0}}
	]`)

	got, err := NewGateway(m).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Vanilla", got[0].Name)
	assert.True(t, details("86", "77.4", "8.6").Equal(got[0].Details))
	assert.True(t, types.Details{}.Equal(got[1].Details))
}

func TestGateway_LoadErrors(t *testing.T) {
	t.Run("engine failure", func(t *testing.T) {
		m := newMemKV()
		m.getErr = errDiskFull
		_, err := NewGateway(m).Load(context.Background())
		assert.ErrorIs(t, err, errDiskFull)
	})

	t.Run("corrupt blob", func(t *testing.T) {
		m := newMemKV()
		m.data[StorageKey] = []byte(`{not json`)
		_, err := NewGateway(m).Load(context.Background())
		assert.Error(t, err)
	})
}

func TestGateway_SaveWritesFullArray(t *testing.T) {
	m := newMemKV()
	g := NewGateway(m)
	ctx := context.Background()

	require.NoError(t, g.Save(ctx, nil))
	assert.Equal(t, "[]", m.raw(StorageKey))

	rec := types.CandleRecord{ID: "a", Name: "Vanilla", Date: "7-3", Details: details("86", "77.4", "8.6")}
	require.NoError(t, g.Save(ctx, []types.CandleRecord{rec}))
	assert.JSONEq(t,
		`[{"id":"a","name":"Vanilla","date":"7-3","details":{"totalWeight":"86.00","waxWeight":"77.40","fragranceWeight":"8.60"}}]`,
		m.raw(StorageKey))
}

func TestGateway_SaveError(t *testing.T) {
	m := newMemKV()
	m.setErr = errDiskFull

	err := NewGateway(m).Save(context.Background(), nil)
	assert.ErrorIs(t, err, errDiskFull)
}

func TestGateway_RoundTripThroughEngines(t *testing.T) {
	for _, backend := range []string{types.BackendSQLite, types.BackendFile} {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			dir := t.TempDir()

			want := []types.CandleRecord{
				{ID: "a", Name: "Vanilla", Date: "7-3", Details: details("86", "77.4", "8.6")},
				{ID: "b", Name: "Cedar", Date: "17-10", Details: details("172.5", "155.25", "17.25")},
			}

			engine, err := kv.Open(ctx, types.Config{Backend: backend, DataDir: dir})
			require.NoError(t, err)
			require.NoError(t, NewGateway(engine).Save(ctx, want))
			require.NoError(t, engine.Close())

			engine, err = kv.Open(ctx, types.Config{Backend: backend, DataDir: dir})
			require.NoError(t, err)
			g := NewGateway(engine)
			defer g.Close()

			got, err := g.Load(ctx)
			require.NoError(t, err)
			require.Len(t, got, len(want))
			for i := range want {
				assert.True(t, want[i].Equal(got[i]), "record %d: want %+v, got %+v", i, want[i], got[i])
			}
		})
	}
}
