package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"cognita-hq/tutela/pkg/trace"
)

// SQLiteConfig contains configuration for the SQLite trace store.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/traces.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db         *sql.DB
	config     *SQLiteConfig
	insertStmt *sql.Stmt
	mu         sync.RWMutex
	logger     *slog.Logger
}

// NewSQLiteStorage creates a new SQLite trace store and initializes the
// schema.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	logger := slog.Default().With("component", "trace.storage.sqlite")

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, trace.NewStorageError("sqlite", "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStorage{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("trace storage initialized", "path", config.Path)

	return s, nil
}

// initialize applies pragmas, creates the schema, and prepares statements.
func (s *SQLiteStorage) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			return trace.NewStorageError("sqlite", "pragma", err)
		}
	}
	if s.config.BusyTimeout > 0 {
		pragma := fmt.Sprintf("PRAGMA busy_timeout=%d", s.config.BusyTimeout.Milliseconds())
		if _, err := s.db.Exec(pragma); err != nil {
			return trace.NewStorageError("sqlite", "pragma", err)
		}
	}

	schema := `
	CREATE TABLE IF NOT EXISTS trace_records (
		id               TEXT PRIMARY KEY,
		session_id       TEXT NOT NULL,
		parent_trace_id  TEXT NOT NULL DEFAULT '',
		interaction_id   TEXT NOT NULL,
		cognitive_state  TEXT NOT NULL,
		cognitive_intent TEXT NOT NULL,
		ai_involvement   REAL NOT NULL,
		payload          TEXT NOT NULL,
		created_at       INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_traces_session ON trace_records(session_id, created_at);
	CREATE INDEX IF NOT EXISTS idx_traces_created ON trace_records(created_at);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return trace.NewStorageError("sqlite", "schema", err)
	}

	stmt, err := s.db.Prepare(`
		INSERT INTO trace_records
			(id, session_id, parent_trace_id, interaction_id, cognitive_state,
			 cognitive_intent, ai_involvement, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return trace.NewStorageError("sqlite", "prepare", err)
	}
	s.insertStmt = stmt

	return nil
}

// Store persists a trace record. The full record is kept as a JSON payload
// alongside the indexed columns, so findings and verdicts survive schema
// evolution.
func (s *SQLiteStorage) Store(ctx context.Context, record *trace.Record) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return trace.NewStorageError("sqlite", "marshal", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.insertStmt.ExecContext(ctx,
		record.ID,
		record.SessionID,
		record.ParentTraceID,
		record.InteractionID,
		string(record.CognitiveState),
		string(record.CognitiveIntent),
		record.AIInvolvement,
		string(payload),
		record.CreatedAt.UnixNano(),
	)
	if err != nil {
		return trace.NewStorageError("sqlite", "store", err)
	}

	return nil
}

// BySession returns a session's records ordered by creation time.
func (s *SQLiteStorage) BySession(ctx context.Context, sessionID string) ([]*trace.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM trace_records WHERE session_id = ? ORDER BY created_at ASC`,
		sessionID,
	)
	if err != nil {
		return nil, trace.NewStorageError("sqlite", "query", err)
	}
	defer rows.Close()

	var out []*trace.Record
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, trace.NewStorageError("sqlite", "scan", err)
		}
		var record trace.Record
		if err := json.Unmarshal([]byte(payload), &record); err != nil {
			return nil, trace.NewStorageError("sqlite", "unmarshal", err)
		}
		out = append(out, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, trace.NewStorageError("sqlite", "query", err)
	}

	return out, nil
}

// DeleteOlderThan removes records created before the cutoff.
func (s *SQLiteStorage) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM trace_records WHERE created_at < ?`,
		cutoff.UnixNano(),
	)
	if err != nil {
		return 0, trace.NewStorageError("sqlite", "delete", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, trace.NewStorageError("sqlite", "delete", err)
	}

	if deleted > 0 {
		s.logger.Info("pruned trace records",
			"deleted_count", deleted,
			"cutoff", cutoff,
		)
	}

	return deleted, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	if s.insertStmt != nil {
		s.insertStmt.Close()
	}
	return s.db.Close()
}
