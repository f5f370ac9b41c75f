// Package records holds the saved candle collection and mirrors it to a
// key-value engine.
//
// The Gateway encodes the whole collection as one JSON array under a single
// key. The Store owns the in-memory list and writes the entire list through
// the Gateway after every mutation.
package records

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/candles/pkg/types"
)

// StorageKey is the key the collection is persisted under.
const StorageKey = "savedCandles"

// Gateway loads and saves the full record collection.
type Gateway struct {
	kv  types.KeyValue
	key string
}

// NewGateway returns a Gateway persisting under StorageKey.
func NewGateway(kv types.KeyValue) *Gateway {
	return &Gateway{kv: kv, key: StorageKey}
}

// Key returns the storage key.
func (g *Gateway) Key() string {
	return g.key
}

// Load reads the persisted collection. A key that was never written yields
// an empty collection and no error.
func (g *Gateway) Load(ctx context.Context) ([]types.CandleRecord, error) {
	data, err := g.kv.Get(ctx, g.key)
	if errors.Is(err, types.ErrKeyNotFound) {
		return []types.CandleRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", g.key, err)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []types.CandleRecord{}, nil
	}

	var records []types.CandleRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", g.key, err)
	}
	if records == nil {
		records = []types.CandleRecord{}
	}
	return records, nil
}

// Save replaces the persisted collection with records. An empty collection
// is written as [].
func (g *Gateway) Save(ctx context.Context, records []types.CandleRecord) error {
	if records == nil {
		records = []types.CandleRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", g.key, err)
	}
	if err := g.kv.Set(ctx, g.key, data); err != nil {
		return fmt.Errorf("save %s: %w", g.key, err)
	}
	return nil
}

// Close releases the key-value engine.
func (g *Gateway) Close() error {
	return g.kv.Close()
}
