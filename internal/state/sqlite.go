package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLite state store instance.
func NewSQLiteStore() *SQLiteStore {
	return &SQLiteStore{now: time.Now}
}

// NewSQLiteStoreWithDB wraps an already opened connection.
func NewSQLiteStoreWithDB(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

// Open opens a connection to the SQLite database.
// Use ":memory:" for an in-memory database.
func (s *SQLiteStore) Open(path string) error {
	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	if path == ":memory:" {
		dsn = "file::memory:?_pragma=foreign_keys(1)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if path == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	return nil
}

// OpenMigrated creates the parent directory of path if needed, opens the
// store and applies pending migrations.
func OpenMigrated(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return nil, fmt.Errorf("failed to create state directory: %w", err)
			}
		}
	}

	store := NewSQLiteStore()
	if err := store.Open(path); err != nil {
		return nil, err
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the path the store was opened with.
func (s *SQLiteStore) Path() string {
	return s.path
}

// generateID creates a new UUID.
func generateID() string {
	return uuid.New().String()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}

// AddLocation saves a new location. It fails with ErrLocationExists when the
// name is taken.
func (s *SQLiteStore) AddLocation(ctx context.Context, loc *Location) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	if err := loc.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var count int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM locations WHERE name = ?`, loc.Name,
	).Scan(&count); err != nil {
		return fmt.Errorf("failed to check location %s: %w", loc.Name, err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %s", ErrLocationExists, loc.Name)
	}

	now := s.now().UTC()
	loc.ID = generateID()
	loc.CreatedAt = now
	loc.UpdatedAt = now

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO locations (id, name, latitude, longitude, timezone, method, madhab, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		loc.ID, loc.Name, loc.Latitude, loc.Longitude, loc.Timezone,
		loc.Method, loc.Madhab, formatTime(now), formatTime(now),
	); err != nil {
		return fmt.Errorf("failed to insert location %s: %w", loc.Name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit location %s: %w", loc.Name, err)
	}
	return nil
}

// UpdateLocation overwrites the coordinates and overrides of a saved
// location.
func (s *SQLiteStore) UpdateLocation(ctx context.Context, loc *Location) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	if err := loc.Validate(); err != nil {
		return err
	}

	now := s.now().UTC()
	res, err := s.db.ExecContext(ctx,
		`UPDATE locations SET latitude = ?, longitude = ?, timezone = ?, method = ?, madhab = ?, updated_at = ?
		 WHERE name = ?`,
		loc.Latitude, loc.Longitude, loc.Timezone, loc.Method, loc.Madhab, formatTime(now), loc.Name,
	)
	if err != nil {
		return fmt.Errorf("failed to update location %s: %w", loc.Name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update location %s: %w", loc.Name, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrLocationNotFound, loc.Name)
	}
	loc.UpdatedAt = now
	return nil
}

// GetLocation retrieves a location by name.
func (s *SQLiteStore) GetLocation(ctx context.Context, name string) (*Location, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, latitude, longitude, timezone, method, madhab, created_at, updated_at
		 FROM locations WHERE name = ?`, name)

	loc, err := scanLocation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrLocationNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get location %s: %w", name, err)
	}
	return loc, nil
}

// ListLocations returns every saved location ordered by name.
func (s *SQLiteStore) ListLocations(ctx context.Context) ([]*Location, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, latitude, longitude, timezone, method, madhab, created_at, updated_at
		 FROM locations ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var locations []*Location
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		locations = append(locations, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	return locations, nil
}

// DeleteLocation removes a location by name.
func (s *SQLiteStore) DeleteLocation(ctx context.Context, name string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM locations WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete location %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete location %s: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrLocationNotFound, name)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLocation(row scanner) (*Location, error) {
	loc := &Location{}
	var createdAt, updatedAt string
	if err := row.Scan(
		&loc.ID, &loc.Name, &loc.Latitude, &loc.Longitude, &loc.Timezone,
		&loc.Method, &loc.Madhab, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if loc.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if loc.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return loc, nil
}
