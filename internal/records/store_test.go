package records

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/candles/internal/kv"
	"github.com/mesh-intelligence/candles/pkg/types"
)

var fixedNow = func() time.Time {
	return time.Date(2026, time.March, 7, 18, 30, 0, 0, time.UTC)
}

func openTestStore(t *testing.T, m *memKV, opts ...Option) *Store {
	t.Helper()
	base := []Option{WithClock(fixedNow), WithIDGenerator(sequentialIDs())}
	return Open(context.Background(), NewGateway(m), append(base, opts...)...)
}

func persisted(t *testing.T, m *memKV) []types.CandleRecord {
	t.Helper()
	var out []types.CandleRecord
	require.NoError(t, json.Unmarshal([]byte(m.raw(StorageKey)), &out))
	return out
}

func TestStore_OpenEmpty(t *testing.T) {
	s := openTestStore(t, newMemKV())

	assert.Empty(t, s.List())
	assert.Equal(t, 0, len(s.List()))
}

func TestStore_OpenLoadsExisting(t *testing.T) {
	m := newMemKV()
	m.data[StorageKey] = []byte(`[{"id":"x","name":"Old","date":"1-1","details":{"totalWeight":"1.00","waxWeight":"1.00","fragranceWeight":"0.00"}}]`)

	s := openTestStore(t, m)

	require.Equal(t, 1, len(s.List()))
	got, ok := s.Get("x")
	require.True(t, ok)
	assert.Equal(t, "Old", got.Name)
}

func TestStore_OpenLoadFailureStartsEmptyAndLogs(t *testing.T) {
	m := newMemKV()
	m.getErr = errDiskFull
	var buf bytes.Buffer

	s := openTestStore(t, m, WithLogger(zerolog.New(&buf)))

	assert.Empty(t, s.List())
	assert.Contains(t, buf.String(), "disk full")
	assert.Contains(t, buf.String(), StorageKey)
}

func TestStore_OpenCorruptBlobStartsEmpty(t *testing.T) {
	m := newMemKV()
	m.data[StorageKey] = []byte(`[{"id":`)

	s := openTestStore(t, m)
	assert.Empty(t, s.List())
}

func TestStore_Create(t *testing.T) {
	m := newMemKV()
	s := openTestStore(t, m)

	rec, err := s.Create(context.Background(), " Vanilla ", details("86", "77.4", "8.6"))
	require.NoError(t, err)

	assert.Equal(t, "id-1", rec.ID)
	assert.Equal(t, "Vanilla", rec.Name)
	assert.Equal(t, "7-3", rec.Date)
	assert.True(t, details("86", "77.4", "8.6").Equal(rec.Details))

	list := s.List()
	require.Len(t, list, 1)
	assert.True(t, rec.Equal(list[0]))

	stored := persisted(t, m)
	require.Len(t, stored, 1)
	assert.True(t, rec.Equal(stored[0]))
}

func TestStore_CreateRejectsEmptyName(t *testing.T) {
	for _, name := range []string{"", "   ", "\t\n"} {
		t.Run(fmt.Sprintf("%q", name), func(t *testing.T) {
			m := newMemKV()
			s := openTestStore(t, m)

			_, err := s.Create(context.Background(), name, details("1", "1", "0"))
			assert.ErrorIs(t, err, types.ErrEmptyName)
			assert.Equal(t, 0, len(s.List()))
			assert.Equal(t, 0, m.sets, "rejected create must not write")
		})
	}
}

func TestStore_CreateAppendsNewestLast(t *testing.T) {
	s := openTestStore(t, newMemKV())
	ctx := context.Background()

	for _, name := range []string{"A", "B", "C"} {
		_, err := s.Create(ctx, name, details("1", "1", "0"))
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"id-1", "id-2", "id-3"}, ids(s.List()))
}

func TestStore_CreateRegeneratesDuplicateIDs(t *testing.T) {
	gen := []string{"dup", "dup", "dup", "fresh"}
	n := 0
	s := openTestStore(t, newMemKV(), WithIDGenerator(func() string {
		id := gen[n]
		n++
		return id
	}))
	ctx := context.Background()

	first, err := s.Create(ctx, "A", details("1", "1", "0"))
	require.NoError(t, err)
	second, err := s.Create(ctx, "B", details("1", "1", "0"))
	require.NoError(t, err)

	assert.Equal(t, "dup", first.ID)
	assert.Equal(t, "fresh", second.ID)
}

func TestStore_CreateThenDeleteRestores(t *testing.T) {
	m := newMemKV()
	s := openTestStore(t, m)
	ctx := context.Background()

	_, err := s.Create(ctx, "Keep", details("1", "1", "0"))
	require.NoError(t, err)
	before := s.List()

	rec, err := s.Create(ctx, "Temp", details("2", "2", "0"))
	require.NoError(t, err)
	s.Delete(ctx, rec.ID)

	after := s.List()
	assert.Equal(t, ids(before), ids(after))
	assert.Equal(t, ids(before), ids(persisted(t, m)))
}

func TestStore_DeleteUnknownIsNoop(t *testing.T) {
	m := newMemKV()
	s := openTestStore(t, m)
	ctx := context.Background()

	_, err := s.Create(ctx, "A", details("1", "1", "0"))
	require.NoError(t, err)
	before := s.List()

	s.Delete(ctx, "no-such-id")

	after := s.List()
	require.Len(t, after, len(before))
	assert.True(t, before[0].Equal(after[0]))
	assert.Equal(t, ids(before), ids(persisted(t, m)))
}

func TestStore_EveryMutationWritesFullList(t *testing.T) {
	m := newMemKV()
	s := openTestStore(t, m)
	ctx := context.Background()

	a, _ := s.Create(ctx, "A", details("1", "1", "0"))
	assert.Equal(t, []string{"id-1"}, ids(persisted(t, m)))

	_, _ = s.Create(ctx, "B", details("1", "1", "0"))
	assert.Equal(t, []string{"id-1", "id-2"}, ids(persisted(t, m)))

	s.Delete(ctx, a.ID)
	assert.Equal(t, []string{"id-2"}, ids(persisted(t, m)))

	s.Delete(ctx, "id-2")
	assert.Equal(t, "[]", m.raw(StorageKey))
	assert.Equal(t, 4, m.sets)
}

func TestStore_SaveFailureKeepsInMemoryChange(t *testing.T) {
	m := newMemKV()
	var buf bytes.Buffer
	s := openTestStore(t, m, WithLogger(zerolog.New(&buf)))
	ctx := context.Background()

	m.setErr = errDiskFull
	rec, err := s.Create(ctx, "Vanilla", details("86", "77.4", "8.6"))
	require.NoError(t, err, "persistence failures are not surfaced")

	assert.Equal(t, 1, len(s.List()))
	assert.Contains(t, buf.String(), "disk full")

	buf.Reset()
	s.Delete(ctx, rec.ID)
	assert.Equal(t, 0, len(s.List()))
	assert.Contains(t, buf.String(), "save candles")
}

func TestStore_ListReturnsSnapshot(t *testing.T) {
	s := openTestStore(t, newMemKV())
	ctx := context.Background()

	_, err := s.Create(ctx, "A", details("1", "1", "0"))
	require.NoError(t, err)

	snap := s.List()
	snap[0].Name = "mutated"
	_ = append(snap, types.CandleRecord{ID: "extra"})

	got := s.List()
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Name)
}

func TestStore_RoundTripFreshInstance(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	engine, err := kv.Open(ctx, types.Config{Backend: types.BackendSQLite, DataDir: dir})
	require.NoError(t, err)
	first := Open(ctx, NewGateway(engine))
	for _, name := range []string{"Vanilla", "Cedar", "Amber"} {
		_, err := first.Create(ctx, name, details("86", "77.4", "8.6"))
		require.NoError(t, err)
	}
	want := first.List()
	require.NoError(t, first.Close())

	engine, err = kv.Open(ctx, types.Config{Backend: types.BackendSQLite, DataDir: dir})
	require.NoError(t, err)
	second := Open(ctx, NewGateway(engine))
	defer second.Close()

	got := second.List()
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, want[i].Equal(got[i]), "record %d", i)
	}
}

func TestStore_ConcurrentCreates(t *testing.T) {
	m := newMemKV()
	s := Open(context.Background(), NewGateway(m))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.Create(ctx, fmt.Sprintf("candle-%d", i), details("1", "1", "0"))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, len(s.List()))
	assert.Len(t, persisted(t, m), 20)
}

func TestStore_Close(t *testing.T) {
	m := newMemKV()
	s := openTestStore(t, m)

	require.NoError(t, s.Close())
	assert.True(t, m.closed)
}
