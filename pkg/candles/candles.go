// Package candles is the public entry point for opening a saved candle
// store. It keeps the storage engines and the record store internal.
package candles

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/candles/internal/kv"
	"github.com/mesh-intelligence/candles/internal/logging"
	"github.com/mesh-intelligence/candles/internal/records"
	"github.com/mesh-intelligence/candles/pkg/types"
)

// Version is the release version of the candles module.
const Version = "0.1.0"

// ModulePath is the Go module path.
const ModulePath = "github.com/mesh-intelligence/candles"

// Open connects the storage engine selected by cfg.Backend and loads the
// saved collection. A collection that cannot be loaded is logged and the
// store starts empty; only engine connection errors are returned.
//
// Example:
//
//	store, err := candles.Open(ctx, types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".candles-db",
//	}, zerolog.Nop())
//	defer store.Close()
func Open(ctx context.Context, cfg types.Config, logger zerolog.Logger) (types.RecordStore, error) {
	engine, err := kv.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	store := records.Open(ctx, records.NewGateway(engine),
		records.WithLogger(logging.Component(logger, "records").With().Str("backend", cfg.Backend).Logger()),
	)
	return store, nil
}
