// Package ledger keeps a local history of issued versions and codes in SQLite.
package ledger

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

// DefaultPath is the ledger location when none is configured.
const DefaultPath = "~/.git-semver/history.db"

// ErrCodeRegression is returned when a version code lower than one already
// issued for the same repository is about to be issued.
var ErrCodeRegression = errors.New("version code regression")

// Entry is one issued version.
type Entry struct {
	ID          int64
	Repository  string // absolute path or remote identifying the project
	Version     string
	VersionCode uint32
	Channel     string
	Tag         string
	Commit      string
	RecordedAt  time.Time
}

// Store is a SQLite-backed ledger.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the ledger at path and migrates its schema.
func Open(path string) (*Store, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite", resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schemaV1); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate ledger schema: %w", err)
	}

	return &Store{db: db, path: resolved}, nil
}

func resolvePath(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		p = DefaultPath
	}
	if strings.HasPrefix(p, "~/") || p == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home dir: %w", err)
		}
		if p == "~" {
			p = home
		} else {
			p = filepath.Join(home, p[2:])
		}
	}
	return filepath.Clean(p), nil
}

// Path returns the resolved database path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores an entry. Recording the same version and code twice for a
// repository is a no-op.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.Repository == "" {
		return errors.New("repository is required")
	}
	if e.RecordedAt.IsZero() {
		e.RecordedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO builds (
			repository, version_name, version_code, channel, tag, commit_hash, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(repository, version_name, version_code) DO NOTHING
	`, e.Repository, e.Version, int64(e.VersionCode), e.Channel, e.Tag, e.Commit,
		e.RecordedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("recording %s: %w", e.Version, err)
	}
	return nil
}

// List returns the most recent entries for a repository, newest first.
// A limit of zero or less returns every entry.
func (s *Store) List(ctx context.Context, repository string, limit int) ([]Entry, error) {
	query := `
		SELECT build_id, repository, version_name, version_code, channel,
		       COALESCE(tag, ''), COALESCE(commit_hash, ''), recorded_at
		FROM builds
		WHERE repository = ?
		ORDER BY build_id DESC`
	args := []any{repository}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Highest returns the entry with the highest version code for a repository.
// ok is false when nothing has been recorded.
func (s *Store) Highest(ctx context.Context, repository string) (entry Entry, ok bool, err error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT build_id, repository, version_name, version_code, channel,
		       COALESCE(tag, ''), COALESCE(commit_hash, ''), recorded_at
		FROM builds
		WHERE repository = ?
		ORDER BY version_code DESC, build_id DESC
		LIMIT 1`, repository)

	entry, err = scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	return entry, true, nil
}

// CheckMonotonic returns ErrCodeRegression when code is lower than the highest
// code already recorded for the repository.
func (s *Store) CheckMonotonic(ctx context.Context, repository string, code uint32) error {
	highest, ok, err := s.Highest(ctx, repository)
	if err != nil {
		return err
	}
	if ok && code < highest.VersionCode {
		return fmt.Errorf("%w: %d is lower than %d issued for %s", ErrCodeRegression, code, highest.VersionCode, highest.Version)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var (
		e        Entry
		code     int64
		recorded string
	)
	if err := row.Scan(&e.ID, &e.Repository, &e.Version, &code, &e.Channel, &e.Tag, &e.Commit, &recorded); err != nil {
		return Entry{}, err
	}
	e.VersionCode = uint32(code)

	t, err := time.Parse(time.RFC3339Nano, recorded)
	if err != nil {
		return Entry{}, fmt.Errorf("parsing recorded_at %q: %w", recorded, err)
	}
	e.RecordedAt = t
	return e, nil
}
