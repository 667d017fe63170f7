package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotSeen reports a lookup for a post that is not in the history.
var ErrNotSeen = errors.New("post not in history")

// Store manages post history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
}

// Open initializes or connects to the history database at path, creating
// parent directories as needed.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("history: empty database path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure history dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Seen reports whether the post has already been recorded, in any status.
func (s *Store) Seen(ctx context.Context, postID string) (bool, error) {
	ctx = ensureContext(ctx)
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM posts WHERE post_id = ?", postID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check post %s: %w", postID, err)
	}
	return count > 0, nil
}

// Record stores or replaces the outcome for a post. Re-recording a post
// keeps its original created_at.
func (s *Store) Record(ctx context.Context, entry Entry) error {
	if strings.TrimSpace(entry.PostID) == "" {
		return errors.New("history: empty post id")
	}
	if !entry.Status.valid() {
		return fmt.Errorf("history: invalid status %q", entry.Status)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	return s.execWithRetry(ctx,
		`INSERT INTO posts (
            post_id, post_title, status, comment_id,
            match_title, match_year, imdb_id, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(post_id) DO UPDATE SET
            post_title = excluded.post_title,
            status = excluded.status,
            comment_id = excluded.comment_id,
            match_title = excluded.match_title,
            match_year = excluded.match_year,
            imdb_id = excluded.imdb_id,
            updated_at = excluded.updated_at`,
		entry.PostID, entry.PostTitle, string(entry.Status), entry.CommentID,
		entry.MatchTitle, entry.MatchYear, entry.IMDbID, now, now,
	)
}

// Get returns the entry for one post.
func (s *Store) Get(ctx context.Context, postID string) (*Entry, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT post_id, post_title, status, comment_id,
                match_title, match_year, imdb_id, created_at, updated_at
         FROM posts WHERE post_id = ?`, postID)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("post %s: %w", postID, ErrNotSeen)
	}
	if err != nil {
		return nil, fmt.Errorf("get post %s: %w", postID, err)
	}
	return entry, nil
}

// Waiting returns every post parked for retry, oldest first.
func (s *Store) Waiting(ctx context.Context) ([]Entry, error) {
	return s.list(ctx,
		`SELECT post_id, post_title, status, comment_id,
                match_title, match_year, imdb_id, created_at, updated_at
         FROM posts WHERE status = ? ORDER BY created_at ASC`,
		string(StatusWaiting))
}

// Recent returns the most recently updated entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.list(ctx,
		`SELECT post_id, post_title, status, comment_id,
                match_title, match_year, imdb_id, created_at, updated_at
         FROM posts ORDER BY updated_at DESC LIMIT ?`,
		limit)
}

// CountByStatus returns entry counts keyed by status.
func (s *Store) CountByStatus(ctx context.Context) (map[Status]int, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, "SELECT status, COUNT(1) FROM posts GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[Status]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[Status(status)] = count
	}
	return counts, rows.Err()
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]Entry, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*Entry, error) {
	var entry Entry
	var status, createdAt, updatedAt string
	if err := row.Scan(
		&entry.PostID, &entry.PostTitle, &status, &entry.CommentID,
		&entry.MatchTitle, &entry.MatchYear, &entry.IMDbID, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	entry.Status = Status(status)
	entry.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	entry.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return &entry, nil
}
