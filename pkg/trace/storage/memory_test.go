package storage

import (
	"context"
	"testing"
	"time"

	"cognita-hq/tutela/pkg/trace"
)

func recordAt(id, session string, createdAt time.Time) *trace.Record {
	return &trace.Record{ID: id, SessionID: session, CreatedAt: createdAt}
}

func TestMemoryStorage_StoreAndQuery(t *testing.T) {
	store := NewMemoryStorage()
	defer store.Close()
	ctx := context.Background()

	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

	if err := store.Store(ctx, recordAt("t2", "s1", base.Add(time.Minute))); err != nil {
		t.Fatalf("unexpected store error: %v", err)
	}
	if err := store.Store(ctx, recordAt("t1", "s1", base)); err != nil {
		t.Fatalf("unexpected store error: %v", err)
	}
	if err := store.Store(ctx, recordAt("t3", "s2", base)); err != nil {
		t.Fatalf("unexpected store error: %v", err)
	}

	records, err := store.BySession(ctx, "s1")
	if err != nil {
		t.Fatalf("unexpected query error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	// Ordered by creation time regardless of insertion order.
	if records[0].ID != "t1" || records[1].ID != "t2" {
		t.Errorf("expected [t1 t2], got [%s %s]", records[0].ID, records[1].ID)
	}
}

func TestMemoryStorage_AppendOnly(t *testing.T) {
	store := NewMemoryStorage()
	defer store.Close()
	ctx := context.Background()

	record := recordAt("t1", "s1", time.Now())
	if err := store.Store(ctx, record); err != nil {
		t.Fatalf("unexpected store error: %v", err)
	}
	if err := store.Store(ctx, record); err == nil {
		t.Error("expected duplicate ID to be rejected")
	}
}

func TestMemoryStorage_CopiesRecords(t *testing.T) {
	store := NewMemoryStorage()
	defer store.Close()
	ctx := context.Background()

	record := recordAt("t1", "s1", time.Now())
	if err := store.Store(ctx, record); err != nil {
		t.Fatalf("unexpected store error: %v", err)
	}

	// Mutating the caller's record must not reach the stored copy.
	record.SessionID = "mutated"

	records, err := store.BySession(ctx, "s1")
	if err != nil {
		t.Fatalf("unexpected query error: %v", err)
	}
	if len(records) != 1 || records[0].SessionID != "s1" {
		t.Errorf("stored record was mutated through the caller's pointer")
	}
}

func TestMemoryStorage_DeleteOlderThan(t *testing.T) {
	store := NewMemoryStorage()
	defer store.Close()
	ctx := context.Background()

	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	store.Store(ctx, recordAt("old-1", "s1", base.Add(-48*time.Hour)))
	store.Store(ctx, recordAt("old-2", "s1", base.Add(-25*time.Hour)))
	store.Store(ctx, recordAt("fresh", "s1", base))

	deleted, err := store.DeleteOlderThan(ctx, base.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("unexpected delete error: %v", err)
	}
	if deleted != 2 {
		t.Errorf("expected 2 deleted, got %d", deleted)
	}

	records, _ := store.BySession(ctx, "s1")
	if len(records) != 1 || records[0].ID != "fresh" {
		t.Errorf("expected only the fresh record to survive, got %v", records)
	}
}
