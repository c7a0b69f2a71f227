/*
Package sqlite persists custom holiday calendars in SQLite.

PURPOSE:
  Built-in calendars (weekends, US federal) live in code. Desk or
  market calendars that change at run time are stored here as explicit
  holiday lists and loaded into the holiday registry as holiday.DateSet
  calendars, so they resolve by name like any other calendar.

KEY TABLES:
  calendars: one row per custom calendar (display name, weekend base)
  holidays:  one row per holiday date; recurring rows match the same
             month and day every year

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. Every query takes a context.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging): multiple readers do not
  block and a single writer proceeds at a time.

USAGE:
  store, err := sqlite.New("./data/calendars.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  n, err := store.LoadAll(ctx) // register every stored calendar

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - holiday/builtin.go: DateSet
  - holiday/registry.go: Register, Of
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/convention-engine/dates"
	"github.com/warp/convention-engine/holiday"
	"github.com/warp/convention-engine/name"
)

var (
	// ErrNotFound is returned when a calendar or holiday row does not exist.
	ErrNotFound = errors.New("not found in store")

	// ErrBuiltin is returned when writing to a built-in calendar name.
	ErrBuiltin = errors.New("built-in calendars cannot be stored")
)

// Store persists custom holiday calendars.
type Store struct {
	db *sql.DB
	mu sync.RWMutex

	// calendars this store has registered with the holiday registry
	regMu  sync.Mutex
	loaded map[string]name.Name
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one connection keeps ":memory:" databases shared across queries
	db.SetMaxOpenConns(1)

	store := &Store{db: db, loaded: make(map[string]name.Name)}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS calendars (
		key TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		weekend TEXT NOT NULL DEFAULT 'Sat/Sun',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS holidays (
		calendar_key TEXT NOT NULL REFERENCES calendars(key) ON DELETE CASCADE,
		date TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		recurring BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL,
		PRIMARY KEY (calendar_key, date)
	);

	CREATE INDEX IF NOT EXISTS idx_holidays_recurring
		ON holidays(calendar_key, recurring);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// CALENDARS
// =============================================================================

// SaveCalendar creates a calendar or changes its weekend base. The weekend
// must resolve through holiday.OfBuiltin, so stored calendars never depend
// on each other.
func (s *Store) SaveCalendar(ctx context.Context, n name.Name, weekend string) error {
	if err := checkWritable(n); err != nil {
		return err
	}
	if _, err := holiday.OfBuiltin(weekend); err != nil {
		return fmt.Errorf("weekend: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO calendars (key, name, weekend, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET weekend = excluded.weekend
	`, n.Key(), n.String(), weekend, time.Now().Format(time.RFC3339))
	return err
}

// DeleteCalendar removes a calendar and all its holidays, and drops it from
// the holiday registry.
func (s *Store) DeleteCalendar(ctx context.Context, n name.Name) error {
	if err := checkWritable(n); err != nil {
		return err
	}

	s.mu.Lock()
	res, err := s.db.ExecContext(ctx, "DELETE FROM calendars WHERE key = ?", n.Key())
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if err := requireAffected(res, "calendar", n.String()); err != nil {
		return err
	}
	s.unregister(n)
	return nil
}

func checkWritable(n name.Name) error {
	if holiday.IsBuiltin(n) {
		return fmt.Errorf("%w: %s", ErrBuiltin, n)
	}
	return holiday.CheckCustom(n)
}

// CalendarNames lists stored calendars by display name.
func (s *Store) CalendarNames(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT name FROM calendars ORDER BY key ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// Calendar builds the stored calendar as a DateSet.
func (s *Store) Calendar(ctx context.Context, n name.Name) (*holiday.DateSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.calendar(ctx, s.db, n.Key())
}

func (s *Store) calendar(ctx context.Context, q querier, key string) (*holiday.DateSet, error) {
	var display, weekendName string
	err := q.QueryRowContext(ctx,
		"SELECT name, weekend FROM calendars WHERE key = ?", key,
	).Scan(&display, &weekendName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("calendar %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	n, err := name.New(display)
	if err != nil {
		return nil, fmt.Errorf("calendar %q: %w", display, err)
	}
	weekend, err := holiday.OfBuiltin(weekendName)
	if err != nil {
		return nil, fmt.Errorf("calendar %q weekend: %w", display, err)
	}
	entries, err := s.holidays(ctx, q, key)
	if err != nil {
		return nil, err
	}
	return holiday.NewDateSet(n, weekend, entries...), nil
}

// Sync rebuilds one stored calendar and registers it, replacing any
// previous version in the holiday registry.
func (s *Store) Sync(ctx context.Context, n name.Name) (*holiday.DateSet, error) {
	set, err := s.Calendar(ctx, n)
	if err != nil {
		return nil, err
	}
	if err := holiday.Register(set); err != nil {
		return nil, err
	}
	s.regMu.Lock()
	s.loaded[n.Key()] = set.Name()
	s.regMu.Unlock()
	return set, nil
}

// LoadAll registers every stored calendar and returns how many were loaded.
// Calendars this store registered earlier that are no longer stored are
// unregistered.
func (s *Store) LoadAll(ctx context.Context) (int, error) {
	s.regMu.Lock()
	before := make(map[string]name.Name, len(s.loaded))
	maps.Copy(before, s.loaded)
	s.regMu.Unlock()

	names, err := s.CalendarNames(ctx)
	if err != nil {
		return 0, err
	}
	for _, display := range names {
		n, err := name.New(display)
		if err != nil {
			return 0, fmt.Errorf("calendar %q: %w", display, err)
		}
		if _, err := s.Sync(ctx, n); err != nil {
			return 0, err
		}
		delete(before, n.Key())
	}
	for _, n := range before {
		s.unregister(n)
	}
	return len(names), nil
}

func (s *Store) unregister(n name.Name) {
	s.regMu.Lock()
	defer s.regMu.Unlock()

	delete(s.loaded, n.Key())
	holiday.Unregister(n)
}

// =============================================================================
// HOLIDAYS
// =============================================================================

// SaveHoliday adds a holiday, creating the calendar with a Sat/Sun weekend
// if it does not exist. Saving the same date again updates its name and
// recurrence. A holiday that leaves the calendar without a business day
// in reach of the date is rejected with holiday.ErrNoBusinessDay.
func (s *Store) SaveHoliday(ctx context.Context, calendar name.Name, e holiday.Entry) error {
	if err := checkWritable(calendar); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().Format(time.RFC3339)
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO calendars (key, name, created_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO NOTHING
	`, calendar.Key(), calendar.String(), now); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO holidays (calendar_key, date, name, recurring, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(calendar_key, date) DO UPDATE SET
			name = excluded.name,
			recurring = excluded.recurring
	`, calendar.Key(), e.Date.String(), e.Name, e.Recurring, now); err != nil {
		return err
	}

	set, err := s.calendar(ctx, tx, calendar.Key())
	if err != nil {
		return err
	}
	if err := holiday.CheckBusinessDays(set, e.Date); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteHoliday removes the holiday on date from a calendar.
func (s *Store) DeleteHoliday(ctx context.Context, calendar name.Name, date dates.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"DELETE FROM holidays WHERE calendar_key = ? AND date = ?",
		calendar.Key(), date.String(),
	)
	if err != nil {
		return err
	}
	return requireAffected(res, "holiday", fmt.Sprintf("%s %s", calendar, date))
}

// Holidays returns a calendar's holidays ordered by date.
func (s *Store) Holidays(ctx context.Context, calendar name.Name) ([]holiday.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM calendars WHERE key = ?", calendar.Key()).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, fmt.Errorf("calendar %q: %w", calendar, ErrNotFound)
	}
	return s.holidays(ctx, s.db, calendar.Key())
}

func (s *Store) holidays(ctx context.Context, q querier, key string) ([]holiday.Entry, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT date, name, recurring
		FROM holidays
		WHERE calendar_key = ?
		ORDER BY date ASC
	`, key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []holiday.Entry
	for rows.Next() {
		var e holiday.Entry
		var dateStr string
		if err := rows.Scan(&dateStr, &e.Name, &e.Recurring); err != nil {
			return nil, err
		}
		if e.Date, err = dates.Parse(dateStr); err != nil {
			return nil, fmt.Errorf("stored holiday date %q: %w", dateStr, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func requireAffected(res sql.Result, what, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %q: %w", what, id, ErrNotFound)
	}
	return nil
}
