package session

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// Store is the session-history provider interface the engine's callers use.
type Store interface {
	// AppendInteraction persists a learner interaction and its
	// ai_involvement estimate.
	AppendInteraction(ctx context.Context, interaction *Interaction, aiInvolvement float64) error

	// AppendEvent persists a session event.
	AppendEvent(ctx context.Context, sessionID string, event Event) error

	// SetPriorTrace records the ID and cognitive state of the most recent
	// trace record for a session so the next pipeline invocation can link
	// its lineage and resume the state machine.
	SetPriorTrace(ctx context.Context, sessionID, traceID, state string) error

	// LoadHistory assembles the full History for a session. A session that
	// has never been seen yields an empty History, not an error.
	LoadHistory(ctx context.Context, sessionID string) (*History, error)

	// Close releases store resources.
	Close() error
}

// SQLiteStore implements Store using SQLite for persistence. It is suitable
// for single-instance deployments where history must survive restarts.
//
// SQLiteStore uses a write-ahead log (WAL) for better concurrent performance.
type SQLiteStore struct {
	db        *sql.DB
	dbPath    string
	mu        sync.RWMutex
	closeOnce sync.Once

	// prepared statements for the hot paths
	insertInteractionStmt *sql.Stmt
	insertEventStmt       *sql.Stmt
	upsertSessionStmt     *sql.Stmt
}

// SQLiteStoreConfig configures the SQLite session store.
type SQLiteStoreConfig struct {
	// DBPath is the path to the SQLite database file.
	DBPath string

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteStoreConfig returns the default store configuration.
func DefaultSQLiteStoreConfig() *SQLiteStoreConfig {
	return &SQLiteStoreConfig{
		DBPath:      "data/sessions.db",
		BusyTimeout: 5 * time.Second,
	}
}

// NewSQLiteStore creates a new SQLite-backed session store.
func NewSQLiteStore(cfg *SQLiteStoreConfig) (*SQLiteStore, error) {
	if cfg == nil {
		cfg = DefaultSQLiteStoreConfig()
	}
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		cfg.DBPath, int(cfg.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports a single writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &SQLiteStore{
		db:     db,
		dbPath: cfg.DBPath,
	}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	if err := s.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	return s, nil
}

// initSchema creates the database schema if it doesn't exist.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		session_id     TEXT PRIMARY KEY,
		started_at     INTEGER NOT NULL,
		prior_trace_id TEXT NOT NULL DEFAULT '',
		prior_state    TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS interactions (
		id             TEXT PRIMARY KEY,
		session_id     TEXT NOT NULL,
		timestamp      INTEGER NOT NULL,
		raw_text       TEXT NOT NULL,
		normalized_text TEXT NOT NULL,
		ai_involvement REAL NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS events (
		seq        INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		kind       TEXT NOT NULL,
		timestamp  INTEGER NOT NULL,
		text       TEXT NOT NULL DEFAULT '',
		passed     INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_interactions_session ON interactions(session_id, timestamp);
	CREATE INDEX IF NOT EXISTS idx_events_session ON events(session_id, seq);
	`

	_, err := s.db.Exec(schema)
	return err
}

// prepareStatements prepares SQL statements for reuse.
func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.insertInteractionStmt, err = s.db.Prepare(`
		INSERT INTO interactions (id, session_id, timestamp, raw_text, normalized_text, ai_involvement)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}

	s.insertEventStmt, err = s.db.Prepare(`
		INSERT INTO events (session_id, kind, timestamp, text, passed)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}

	s.upsertSessionStmt, err = s.db.Prepare(`
		INSERT INTO sessions (session_id, started_at)
		VALUES (?, ?)
		ON CONFLICT (session_id) DO NOTHING`)
	if err != nil {
		return err
	}

	return nil
}

// AppendInteraction persists a learner interaction.
func (s *SQLiteStore) AppendInteraction(ctx context.Context, interaction *Interaction, aiInvolvement float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureSession(ctx, interaction.SessionID, interaction.Timestamp); err != nil {
		return err
	}

	_, err := s.insertInteractionStmt.ExecContext(ctx,
		interaction.ID,
		interaction.SessionID,
		interaction.Timestamp.UnixNano(),
		interaction.RawText,
		interaction.NormalizedText,
		aiInvolvement,
	)
	if err != nil {
		return fmt.Errorf("failed to insert interaction %s: %w", interaction.ID, err)
	}
	return nil
}

// AppendEvent persists a session event.
func (s *SQLiteStore) AppendEvent(ctx context.Context, sessionID string, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureSession(ctx, sessionID, event.Timestamp); err != nil {
		return err
	}

	passed := 0
	if event.Passed {
		passed = 1
	}

	_, err := s.insertEventStmt.ExecContext(ctx,
		sessionID,
		string(event.Kind),
		event.Timestamp.UnixNano(),
		event.Text,
		passed,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event for session %s: %w", sessionID, err)
	}
	return nil
}

// SetPriorTrace records the most recent trace ID and cognitive state for a
// session.
func (s *SQLiteStore) SetPriorTrace(ctx context.Context, sessionID, traceID, state string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET prior_trace_id = ?, prior_state = ? WHERE session_id = ?`,
		traceID, state, sessionID,
	)
	if err != nil {
		return fmt.Errorf("failed to update prior trace for session %s: %w", sessionID, err)
	}
	return nil
}

// LoadHistory assembles the full History for a session.
func (s *SQLiteStore) LoadHistory(ctx context.Context, sessionID string) (*History, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := &History{SessionID: sessionID}

	// Session row (may not exist yet)
	var startedAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT started_at, prior_trace_id, prior_state FROM sessions WHERE session_id = ?`,
		sessionID,
	).Scan(&startedAt, &history.PriorTraceID, &history.PriorState)
	switch {
	case err == sql.ErrNoRows:
		return history, nil
	case err != nil:
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	history.StartedAt = time.Unix(0, startedAt)

	// Interactions
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, timestamp, raw_text, normalized_text, ai_involvement
		 FROM interactions WHERE session_id = ? ORDER BY timestamp ASC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load interactions for session %s: %w", sessionID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var in Interaction
		var ts int64
		var involvement float64
		if err := rows.Scan(&in.ID, &ts, &in.RawText, &in.NormalizedText, &involvement); err != nil {
			return nil, fmt.Errorf("failed to scan interaction: %w", err)
		}
		in.SessionID = sessionID
		in.Timestamp = time.Unix(0, ts)
		history.Interactions = append(history.Interactions, in)
		history.AIInvolvement = append(history.AIInvolvement, involvement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate interactions: %w", err)
	}

	// Events
	eventRows, err := s.db.QueryContext(ctx,
		`SELECT kind, timestamp, text, passed
		 FROM events WHERE session_id = ? ORDER BY seq ASC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load events for session %s: %w", sessionID, err)
	}
	defer eventRows.Close()

	for eventRows.Next() {
		var ev Event
		var kind string
		var ts int64
		var passed int
		if err := eventRows.Scan(&kind, &ts, &ev.Text, &passed); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		ev.Kind = EventKind(kind)
		ev.Timestamp = time.Unix(0, ts)
		ev.Passed = passed == 1
		history.Events = append(history.Events, ev)
	}
	if err := eventRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	return history, nil
}

// ensureSession creates the session row on first write. Callers must hold
// the write lock.
func (s *SQLiteStore) ensureSession(ctx context.Context, sessionID string, at time.Time) error {
	_, err := s.upsertSessionStmt.ExecContext(ctx, sessionID, at.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to ensure session %s: %w", sessionID, err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	var err error
	s.closeOnce.Do(func() {
		for _, stmt := range []*sql.Stmt{s.insertInteractionStmt, s.insertEventStmt, s.upsertSessionStmt} {
			if stmt != nil {
				stmt.Close()
			}
		}
		err = s.db.Close()
	})
	return err
}
