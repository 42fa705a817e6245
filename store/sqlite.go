package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

//go:embed schema.sql
var schema string

var (
	// ErrDuplicateID is returned when an inserted item reuses an id.
	ErrDuplicateID = errors.New("item id already exists")
	// ErrNotConfigured is returned by methods on a nil or closed store.
	ErrNotConfigured = errors.New("storage is not configured")
)

// SQLite persists items in a single table.
type SQLite struct {
	sqlDB *sql.DB
}

// OpenSQLite opens the database at path, creating the schema if needed.
func OpenSQLite(path string) (*SQLite, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	if err := registerFunctions(); err != nil {
		return nil, fmt.Errorf("register sqlite functions: %w", err)
	}
	dsn := MemoryPath
	if path != MemoryPath {
		dsn = filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection keeps :memory: databases shared and serialises writers.
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLite{sqlDB: sqlDB}, nil
}

// Close closes the database handle.
func (s *SQLite) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Insert stores items in one transaction and returns them with ids filled in.
func (s *SQLite) Insert(ctx context.Context, items ...Item) ([]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, ErrNotConfigured
	}
	items = normalize(items)
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin insert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO items (id, name, required_by) VALUES (?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, item := range items {
		id := sql.NullInt64{Int64: item.ID, Valid: item.ID != 0}
		res, err := stmt.ExecContext(ctx, id, item.Name, item.RequiredBy)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, fmt.Errorf("insert item %d: %w", item.ID, ErrDuplicateID)
			}
			return nil, fmt.Errorf("insert item: %w", err)
		}
		if item.ID == 0 {
			if items[i].ID, err = res.LastInsertId(); err != nil {
				return nil, fmt.Errorf("read item id: %w", err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit insert: %w", err)
	}
	return items, nil
}

// Seed inserts items only when the table is empty. It returns the number of
// rows written.
func (s *SQLite) Seed(ctx context.Context, items []Item) (int, error) {
	count, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}
	inserted, err := s.Insert(ctx, items...)
	if err != nil {
		return 0, fmt.Errorf("seed items: %w", err)
	}
	return len(inserted), nil
}

// Count returns the number of stored items.
func (s *SQLite) Count(ctx context.Context) (int, error) {
	if s == nil || s.sqlDB == nil {
		return 0, ErrNotConfigured
	}
	var count int
	if err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return count, nil
}

// List returns every item in id order.
func (s *SQLite) List(ctx context.Context) ([]Item, error) {
	if s == nil || s.sqlDB == nil {
		return nil, ErrNotConfigured
	}
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT id, name, required_by FROM items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return scanItems(rows)
}

func scanItems(rows *sql.Rows) ([]Item, error) {
	defer rows.Close()
	items := []Item{}
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.Name, &item.RequiredBy); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

var (
	registerOnce sync.Once
	registerErr  error
)

// registerFunctions installs grid_match(pattern, text), which applies the
// search pattern to text with whitespace removed.
func registerFunctions() error {
	registerOnce.Do(func() {
		registerErr = msqlite.RegisterDeterministicScalarFunction("grid_match", 2, gridMatch)
	})
	return registerErr
}

var patterns = struct {
	sync.Mutex
	compiled map[string]*regexp.Regexp
}{compiled: make(map[string]*regexp.Regexp)}

func gridMatch(_ *msqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	pattern, _ := args[0].(string)
	text, _ := args[1].(string)
	if pattern == "" {
		return int64(1), nil
	}

	patterns.Lock()
	re, ok := patterns.compiled[pattern]
	if !ok {
		var err error
		if re, err = regexp.Compile(pattern); err != nil {
			patterns.Unlock()
			return nil, fmt.Errorf("grid_match: %w", err)
		}
		if len(patterns.compiled) >= 64 {
			clear(patterns.compiled)
		}
		patterns.compiled[pattern] = re
	}
	patterns.Unlock()

	if re.MatchString(strings.Join(strings.Fields(text), "")) {
		return int64(1), nil
	}
	return int64(0), nil
}
