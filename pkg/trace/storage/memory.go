package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"cognita-hq/tutela/pkg/trace"
)

// Storage persists trace records.
type Storage interface {
	// Store persists a trace record. Records are append-only: storing a
	// record with an existing ID is an error.
	Store(ctx context.Context, record *trace.Record) error

	// BySession returns a session's records ordered by creation time.
	BySession(ctx context.Context, sessionID string) ([]*trace.Record, error)

	// DeleteOlderThan removes records created before the cutoff and
	// returns how many were removed. Intended for retention pruning only.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// Close releases backend resources.
	Close() error
}

// MemoryStorage implements Storage with an in-memory map. Intended for
// testing only.
type MemoryStorage struct {
	mu      sync.RWMutex
	records map[string]*trace.Record
}

// NewMemoryStorage creates an in-memory trace store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		records: make(map[string]*trace.Record),
	}
}

// Store persists a record.
func (s *MemoryStorage) Store(ctx context.Context, record *trace.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[record.ID]; exists {
		return trace.NewStorageError("memory", "store", errDuplicateID(record.ID))
	}

	// Copy to guarantee the stored record cannot be mutated through the
	// caller's pointer.
	stored := *record
	s.records[record.ID] = &stored
	return nil
}

// BySession returns a session's records ordered by creation time.
func (s *MemoryStorage) BySession(ctx context.Context, sessionID string) ([]*trace.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*trace.Record
	for _, record := range s.records {
		if record.SessionID == sessionID {
			copied := *record
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// DeleteOlderThan removes records created before the cutoff.
func (s *MemoryStorage) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, record := range s.records {
		if record.CreatedAt.Before(cutoff) {
			delete(s.records, id)
			deleted++
		}
	}
	return deleted, nil
}

// Close is a no-op for the memory backend.
func (s *MemoryStorage) Close() error {
	return nil
}

type errDuplicateID string

func (e errDuplicateID) Error() string {
	return "record " + string(e) + " already stored"
}
