package trace

import (
	"fmt"
	"sync"
	"testing"
)

func recordFor(session, id, parent string) *Record {
	return &Record{ID: id, SessionID: session, ParentTraceID: parent}
}

func TestArena_AppendAndSequence(t *testing.T) {
	arena := NewArena()

	if seq := arena.Append(recordFor("s1", "t1", "")); seq != 0 {
		t.Errorf("expected sequence 0, got %d", seq)
	}
	if seq := arena.Append(recordFor("s1", "t2", "t1")); seq != 1 {
		t.Errorf("expected sequence 1, got %d", seq)
	}
	// Sessions are independent sequences.
	if seq := arena.Append(recordFor("s2", "t3", "")); seq != 0 {
		t.Errorf("expected sequence 0 in a fresh session, got %d", seq)
	}

	if arena.Len("s1") != 2 {
		t.Errorf("expected 2 records in s1, got %d", arena.Len("s1"))
	}
}

func TestArena_Lookup(t *testing.T) {
	arena := NewArena()
	arena.Append(recordFor("s1", "t1", ""))
	arena.Append(recordFor("s1", "t2", "t1"))

	latest, ok := arena.Latest("s1")
	if !ok || latest.ID != "t2" {
		t.Errorf("expected latest t2, got %v %v", latest, ok)
	}

	at, ok := arena.At("s1", 0)
	if !ok || at.ID != "t1" {
		t.Errorf("expected t1 at sequence 0, got %v %v", at, ok)
	}

	if _, ok := arena.At("s1", 5); ok {
		t.Error("expected out-of-range sequence to miss")
	}
	if _, ok := arena.Latest("missing"); ok {
		t.Error("expected unknown session to miss")
	}
}

func TestArena_LineageChain(t *testing.T) {
	arena := NewArena()

	parent := ""
	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("t%d", i)
		arena.Append(recordFor("s1", id, parent))
		parent = id
	}

	records := arena.Records("s1")
	if len(records) != 5 {
		t.Fatalf("expected 5 records, got %d", len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i].ParentTraceID != records[i-1].ID {
			t.Errorf("record %d parent %q does not chain to %q",
				i, records[i].ParentTraceID, records[i-1].ID)
		}
	}
}

func TestArena_ConcurrentAppend(t *testing.T) {
	arena := NewArena()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			arena.Append(recordFor("s1", fmt.Sprintf("t%d", n), ""))
		}(i)
	}
	wg.Wait()

	if arena.Len("s1") != 50 {
		t.Errorf("expected 50 records after concurrent append, got %d", arena.Len("s1"))
	}
}
