package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"mercator-hq/verdict/pkg/rule/codec"
)

// Supported database/sql driver names.
const (
	DriverModernc = "sqlite"  // modernc.org/sqlite, pure Go
	DriverMattn   = "sqlite3" // github.com/mattn/go-sqlite3, requires cgo
)

// SQLiteConfig contains configuration for the SQLite backend.
type SQLiteConfig struct {
	// Path is the database file path, or ":memory:".
	Path string

	// Driver selects the database/sql driver.
	// Default: "sqlite"
	Driver string

	// WALMode enables Write-Ahead Logging.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:        "data/verdict.db",
		Driver:      DriverModernc,
		WALMode:     true,
		BusyTimeout: 5 * time.Second,
	}
}

// SQLiteStore implements Store on SQLite.
type SQLiteStore struct {
	db     *sql.DB
	config *SQLiteConfig
	stmts  map[string]*sql.Stmt
	logger *slog.Logger
}

// NewSQLiteStore opens the database, applies pragmas and creates the schema.
func NewSQLiteStore(config *SQLiteConfig, logger *slog.Logger) (*SQLiteStore, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "store.sqlite")

	driver := config.Driver
	if driver == "" {
		driver = DriverModernc
	}
	if driver != DriverModernc && driver != DriverMattn {
		return nil, NewStorageError("sqlite", "open", fmt.Errorf("unsupported driver %q", driver))
	}

	db, err := sql.Open(driver, config.Path)
	if err != nil {
		return nil, NewStorageError("sqlite", "open", err)
	}

	// A single connection serializes writers and keeps ":memory:" databases
	// alive for the lifetime of the store.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{
		db:     db,
		config: config,
		stmts:  make(map[string]*sql.Stmt),
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite store initialized",
		"path", config.Path,
		"driver", driver,
		"wal_mode", config.WALMode,
	)

	return s, nil
}

func (s *SQLiteStore) initialize() error {
	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return NewStorageError("sqlite", "set_busy_timeout", err)
	}

	if s.config.WALMode && s.config.Path != ":memory:" {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return NewStorageError("sqlite", "enable_wal", err)
		}
		s.logger.Debug("WAL mode enabled")
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return NewStorageError("sqlite", "create_schema", err)
	}
	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	if err := s.db.QueryRow(GetSchemaVersion).Scan(&version); err != nil {
		return NewStorageError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	for name, query := range map[string]string{
		"insert": insertRule,
		"get":    selectRuleByID,
		"list":   listRules,
		"delete": deleteRule,
		"count":  countRules,
	} {
		stmt, err := s.db.Prepare(query)
		if err != nil {
			return NewStorageError("sqlite", "prepare_"+name, err)
		}
		s.stmts[name] = stmt
	}

	return nil
}

// Append inserts a record.
func (s *SQLiteStore) Append(ctx context.Context, r *Record) error {
	prepare(r)

	sources, err := json.Marshal(r.Sources)
	if err != nil {
		return NewStorageError("sqlite", "append", err)
	}
	doc, err := json.Marshal(r.AST)
	if err != nil {
		return NewStorageError("sqlite", "append", err)
	}

	_, err = s.stmts["insert"].ExecContext(ctx,
		r.ID, r.Name, string(r.Kind), r.RuleString, string(sources), string(doc), r.Origin, r.CreatedAt.UnixNano())
	if err != nil {
		if isUniqueViolation(err) {
			return NewStorageError("sqlite", "append", ErrDuplicate)
		}
		return NewStorageError("sqlite", "append", err)
	}
	return nil
}

// Get loads one record.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Record, error) {
	r, err := scanRecord(s.stmts["get"].QueryRowContext(ctx, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, NewStorageError("sqlite", "get", err)
	}
	return r, nil
}

// List loads every record in insertion order.
func (s *SQLiteStore) List(ctx context.Context) ([]*Record, error) {
	rows, err := s.stmts["list"].QueryContext(ctx)
	if err != nil {
		return nil, NewStorageError("sqlite", "list", err)
	}
	defer rows.Close()

	records := make([]*Record, 0)
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, NewStorageError("sqlite", "list", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError("sqlite", "list", err)
	}
	return records, nil
}

// Delete removes one record.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.stmts["delete"].ExecContext(ctx, id)
	if err != nil {
		return NewStorageError("sqlite", "delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return NewStorageError("sqlite", "delete", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByOrigin removes every record with the given origin.
func (s *SQLiteStore) DeleteByOrigin(ctx context.Context, origin string) (int64, error) {
	return s.exec(ctx, "delete_by_origin", deleteByOrigin, origin)
}

// DeleteBefore removes records created before cutoff.
func (s *SQLiteStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return s.exec(ctx, "delete_before", deleteBefore, cutoff.UnixNano())
}

// Trim keeps only the newest keep records.
func (s *SQLiteStore) Trim(ctx context.Context, keep int64) (int64, error) {
	if keep < 0 {
		return 0, nil
	}
	return s.exec(ctx, "trim", trimRules, keep)
}

// Count returns the number of records.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.stmts["count"].QueryRowContext(ctx).Scan(&n); err != nil {
		return 0, NewStorageError("sqlite", "count", err)
	}
	return n, nil
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return NewStorageError("sqlite", "ping", err)
	}
	return nil
}

// Close closes prepared statements and the database.
func (s *SQLiteStore) Close() error {
	for _, stmt := range s.stmts {
		stmt.Close()
	}
	if err := s.db.Close(); err != nil {
		return NewStorageError("sqlite", "close", err)
	}
	s.logger.Info("SQLite store closed")
	return nil
}

func (s *SQLiteStore) exec(ctx context.Context, op, query string, args ...any) (int64, error) {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, NewStorageError("sqlite", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, NewStorageError("sqlite", op, err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var (
		r         Record
		kind      string
		sources   sql.NullString
		doc       sql.NullString
		createdAt int64
	)
	if err := row.Scan(&r.ID, &r.Name, &kind, &r.RuleString, &sources, &doc, &r.Origin, &createdAt); err != nil {
		return nil, err
	}

	r.Kind = Kind(kind)
	r.CreatedAt = time.Unix(0, createdAt).UTC()

	if sources.Valid && sources.String != "" {
		if err := json.Unmarshal([]byte(sources.String), &r.Sources); err != nil {
			return nil, fmt.Errorf("decode sources: %w", err)
		}
	}
	if doc.Valid && doc.String != "" {
		var d *codec.Document
		if err := json.Unmarshal([]byte(doc.String), &d); err != nil {
			return nil, fmt.Errorf("decode ast: %w", err)
		}
		r.AST = d
	}
	return &r, nil
}

// isUniqueViolation matches the constraint message shared by both drivers.
func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
