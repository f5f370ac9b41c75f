// Package kv implements the key-value engines the record store persists
// through: SQLite (default), plain JSON files, Redis and MongoDB.
package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/candles/pkg/types"
)

// ErrInvalidKey is returned for keys that are empty or could escape the data
// directory of file-based engines.
var ErrInvalidKey = errors.New("invalid key")

// Open validates cfg and returns the engine it selects. The caller must Close
// the engine when done.
func Open(ctx context.Context, cfg types.Config) (types.KeyValue, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case types.BackendSQLite:
		s, err := OpenSQLite(ctx, cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open sqlite backend: %w", err)
		}
		return s, nil
	case types.BackendFile:
		f, err := OpenFile(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open file backend: %w", err)
		}
		return f, nil
	case types.BackendRedis:
		r, err := OpenRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("open redis backend: %w", err)
		}
		return r, nil
	case types.BackendMongo:
		m, err := OpenMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, fmt.Errorf("open mongo backend: %w", err)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrBackendUnknown, cfg.Backend)
	}
}

func checkKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// dataDirOrCWD mirrors the backend default of using the working directory
// when no data directory is configured.
func dataDirOrCWD(dataDir string) string {
	if dataDir == "" {
		return "."
	}
	return dataDir
}
