package records

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/candles/pkg/types"
)

var _ types.RecordStore = (*Store)(nil)

// Store is the single owner of the saved candle list. Every Create and
// Delete writes the entire list through the Gateway. Persistence failures
// are logged and never undo the in-memory change.
type Store struct {
	mu      sync.Mutex
	gateway *Gateway
	records []types.CandleRecord
	logger  zerolog.Logger
	now     func() time.Time
	newID   func() string
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for persistence failures.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithClock overrides the clock used to stamp record dates.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides record ID generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// Open creates a Store and loads the persisted collection. A failed load is
// logged and the store starts empty.
func Open(ctx context.Context, gateway *Gateway, opts ...Option) *Store {
	s := &Store{
		gateway: gateway,
		logger:  zerolog.Nop(),
		now:     time.Now,
		newID:   generateID,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	records, err := gateway.Load(ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("key", gateway.Key()).Msg("load saved candles; starting empty")
		records = []types.CandleRecord{}
	}
	s.records = records
	s.logger.Debug().Int("count", len(records)).Msg("loaded saved candles")
	return s
}

// Create appends a record named name (trimmed) holding details, then writes
// the list through. Returns types.ErrEmptyName without touching the list if
// the trimmed name is empty.
func (s *Store) Create(ctx context.Context, name string, details types.Details) (types.CandleRecord, error) {
	trimmed, err := types.NormalizeName(name)
	if err != nil {
		return types.CandleRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := types.CandleRecord{
		ID:      s.uniqueIDLocked(),
		Name:    trimmed,
		Date:    types.FormatDate(s.now()),
		Details: details,
	}
	s.records = append(s.records, rec)
	s.writeThroughLocked(ctx)
	return rec, nil
}

// Delete removes the record with the given ID and writes the resulting list
// through. Unknown IDs leave the list unchanged.
func (s *Store) Delete(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = slices.DeleteFunc(s.records, func(r types.CandleRecord) bool {
		return r.ID == id
	})
	s.writeThroughLocked(ctx)
}

// List returns a copy of the records, oldest first.
func (s *Store) List() []types.CandleRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]types.CandleRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Get returns the record with the given ID.
func (s *Store) Get(id string) (types.CandleRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.records {
		if r.ID == id {
			return r, true
		}
	}
	return types.CandleRecord{}, false
}

// Close releases the storage engine.
func (s *Store) Close() error {
	return s.gateway.Close()
}

// writeThroughLocked persists the full list. The caller must hold s.mu.
func (s *Store) writeThroughLocked(ctx context.Context) {
	if err := s.gateway.Save(ctx, s.records); err != nil {
		s.logger.Error().Err(err).Str("key", s.gateway.Key()).Int("count", len(s.records)).Msg("save candles")
		return
	}
	s.logger.Debug().Int("count", len(s.records)).Msg("saved candles")
}

// uniqueIDLocked draws IDs until one is unused in the collection.
// The caller must hold s.mu.
func (s *Store) uniqueIDLocked() string {
	for {
		id := s.newID()
		if !slices.ContainsFunc(s.records, func(r types.CandleRecord) bool { return r.ID == id }) {
			return id
		}
	}
}

// generateID returns a UUID v7, falling back to v4.
func generateID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
