package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/goliatone/go-timelineform/pkg/submission"
	"github.com/goliatone/go-timelineform/pkg/timeline"
)

// DefaultListLimit caps List when the filter asks for no limit.
const DefaultListLimit = 100

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("journal: store is closed")

// Entry is one recorded service call. Response is set only for successful
// predictions; Error holds the collaborator's error text on failure.
type Entry struct {
	ID        string            `json:"id"`
	Session   string            `json:"session"`
	Intent    submission.Intent `json:"intent"`
	Request   []timeline.Value  `json:"request"`
	Response  []timeline.Value  `json:"response,omitempty"`
	Error     string            `json:"error,omitempty"`
	Duration  time.Duration     `json:"duration"`
	CreatedAt time.Time         `json:"createdAt"`
}

// Filter narrows List. An empty Session lists every session.
type Filter struct {
	Session string
	Limit   int
}

// Store is a sqlite-backed journal.
type Store struct {
	db     *sql.DB
	closed atomic.Bool
	now    func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStoreClock overrides the time source used for CreatedAt.
func WithStoreClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Open opens (creating if needed) the journal at path and applies
// migrations. The special path ":memory:" opens a private in-memory journal.
func Open(ctx context.Context, path string, options ...StoreOption) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("journal: path is required")
	}

	var dsn string
	if path == ":memory:" {
		dsn = "file::memory:?_pragma=busy_timeout(5000)"
	} else {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("journal: create dir: %w", err)
		}
		dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("journal: open sqlite: %w", err)
	}
	// One connection keeps the in-memory database alive and serialises
	// writers.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal: ping sqlite: %w", err)
	}
	if err := applyMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	store := &Store{db: db, now: time.Now}
	for _, opt := range options {
		if opt != nil {
			opt(store)
		}
	}
	return store, nil
}

// Close releases the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil || s.closed.Swap(true) {
		return nil
	}
	return s.db.Close()
}

// Record appends entry, filling in ID and CreatedAt when unset, and returns
// the stored entry.
func (s *Store) Record(ctx context.Context, entry Entry) (Entry, error) {
	if s == nil || s.db == nil || s.closed.Load() {
		return Entry{}, ErrClosed
	}
	if !entry.Intent.Valid() {
		return Entry{}, fmt.Errorf("journal: %w %q", submission.ErrUnknownIntent, entry.Intent)
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now()
	}
	entry.CreatedAt = entry.CreatedAt.UTC()

	request, err := json.Marshal(nonNil(entry.Request))
	if err != nil {
		return Entry{}, fmt.Errorf("journal: encode request: %w", err)
	}
	var response any
	if entry.Response != nil {
		payload, err := json.Marshal(entry.Response)
		if err != nil {
			return Entry{}, fmt.Errorf("journal: encode response: %w", err)
		}
		response = string(payload)
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO submissions(id, session, intent, request, response, error, duration_ms, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, entry.ID, entry.Session, string(entry.Intent), string(request), response, entry.Error, entry.Duration.Milliseconds(), ts(entry.CreatedAt))
	if err != nil {
		return Entry{}, fmt.Errorf("journal: insert submission: %w", err)
	}
	return entry, nil
}

// List returns entries newest first.
func (s *Store) List(ctx context.Context, filter Filter) ([]Entry, error) {
	if s == nil || s.db == nil || s.closed.Load() {
		return nil, ErrClosed
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := `SELECT id, session, intent, request, response, error, duration_ms, created_at FROM submissions`
	args := []any{}
	if filter.Session != "" {
		query += ` WHERE session = ?`
		args = append(args, filter.Session)
	}
	query += ` ORDER BY seq DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("journal: list submissions: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	entries := []Entry{}
	for rows.Next() {
		var (
			entry      Entry
			intent     string
			request    string
			response   sql.NullString
			durationMS int64
			createdAt  string
		)
		if err := rows.Scan(&entry.ID, &entry.Session, &intent, &request, &response, &entry.Error, &durationMS, &createdAt); err != nil {
			return nil, fmt.Errorf("journal: scan submission: %w", err)
		}
		entry.Intent = submission.Intent(intent)
		entry.Duration = time.Duration(durationMS) * time.Millisecond
		if err := json.Unmarshal([]byte(request), &entry.Request); err != nil {
			return nil, fmt.Errorf("journal: decode request %s: %w", entry.ID, err)
		}
		if response.Valid {
			if err := json.Unmarshal([]byte(response.String), &entry.Response); err != nil {
				return nil, fmt.Errorf("journal: decode response %s: %w", entry.ID, err)
			}
		}
		if entry.CreatedAt, err = parseTS(createdAt); err != nil {
			return nil, fmt.Errorf("journal: decode created_at %s: %w", entry.ID, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("journal: iterate submissions: %w", err)
	}
	return entries, nil
}

func nonNil(values []timeline.Value) []timeline.Value {
	if values == nil {
		return []timeline.Value{}
	}
	return values
}

func ts(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTS(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
