package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/repocorpus/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/repocorpus/internal/core/domain"
	"github.com/custodia-labs/repocorpus/internal/core/ports/driven"
)

// Store is a SQLite-based storage that provides access to
// the store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.repocorpus/data/manifest.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".repocorpus", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "manifest.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// ManifestStore returns the fetch manifest store.
func (s *Store) ManifestStore() driven.ManifestStore {
	return &manifestStore{db: s.db}
}

// migrate applies every pending NNN_name.up.sql migration in order.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_manifest.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning migration %s: %w", name, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Manifest Store ====================

// Ensure manifestStore implements the interface.
var _ driven.ManifestStore = (*manifestStore)(nil)

type manifestStore struct {
	db *sql.DB
}

// Save upserts every result in one transaction. Results are ordered after
// those already recorded for their source.
func (s *manifestStore) Save(ctx context.Context, results []domain.FetchResult) error {
	if len(results) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := insertResults(ctx, tx, results); err != nil {
		return err
	}
	return tx.Commit()
}

// Replace swaps the manifest of source for results in one transaction.
// The earlier manifest survives any failure.
func (s *manifestStore) Replace(ctx context.Context, source string, results []domain.FetchResult) error {
	for _, r := range results {
		if r.Source != source {
			return fmt.Errorf("%w: result for %s in manifest of %s", domain.ErrInvalidInput, r.Source, source)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM fetch_results WHERE source = ?", source); err != nil {
		return fmt.Errorf("delete %s: %w", source, err)
	}
	if err := insertResults(ctx, tx, results); err != nil {
		return err
	}
	return tx.Commit()
}

// insertResults upserts results inside tx, numbering them per source from
// the end of the source's current manifest.
func insertResults(ctx context.Context, tx *sql.Tx, results []domain.FetchResult) error {
	if len(results) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO fetch_results
			(source, repository, path, name, sha, size, url, ref, local_path, error, position, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (source, repository, path) DO UPDATE SET
			name = excluded.name,
			sha = excluded.sha,
			size = excluded.size,
			url = excluded.url,
			ref = excluded.ref,
			local_path = excluded.local_path,
			error = excluded.error,
			position = excluded.position,
			fetched_at = excluded.fetched_at
	`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	next := make(map[string]int64)
	for _, r := range results {
		pos, ok := next[r.Source]
		if !ok {
			row := tx.QueryRowContext(ctx,
				"SELECT COALESCE(MAX(position) + 1, 0) FROM fetch_results WHERE source = ?", r.Source)
			if err := row.Scan(&pos); err != nil {
				return fmt.Errorf("next position for %s: %w", r.Source, err)
			}
		}
		next[r.Source] = pos + 1

		_, err := stmt.ExecContext(ctx,
			r.Source, r.File.Repository, r.File.Path, r.File.Name,
			r.File.SHA, r.File.Size, r.File.URL, r.File.Ref,
			nullString(r.LocalPath()), nullString(r.Err()), pos,
		)
		if err != nil {
			return fmt.Errorf("save %s: %w", r.File.Path, err)
		}
	}
	return nil
}

// List returns the results of one source in the order they were saved.
func (s *manifestStore) List(ctx context.Context, source string) ([]domain.FetchResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT source, repository, path, name, sha, size, url, ref, local_path, error
		FROM fetch_results
		WHERE source = ?
		ORDER BY position, repository, path
	`, source)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var results []domain.FetchResult
	for rows.Next() {
		r, err := scanFetchResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// Sources returns every source with a manifest, sorted.
func (s *manifestStore) Sources(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT source FROM fetch_results ORDER BY source")
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var sources []string
	for rows.Next() {
		var source string
		if err := rows.Scan(&source); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		sources = append(sources, source)
	}
	return sources, rows.Err()
}

// Delete removes the manifest of a source.
func (s *manifestStore) Delete(ctx context.Context, source string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM fetch_results WHERE source = ?", source)
	if err != nil {
		return fmt.Errorf("delete %s: %w", source, err)
	}
	return nil
}

// scanFetchResult rebuilds a result from one row.
func scanFetchResult(rows *sql.Rows) (domain.FetchResult, error) {
	var (
		source    string
		file      domain.FileDescriptor
		localPath sql.NullString
		errMsg    sql.NullString
	)
	err := rows.Scan(
		&source, &file.Repository, &file.Path, &file.Name,
		&file.SHA, &file.Size, &file.URL, &file.Ref,
		&localPath, &errMsg,
	)
	if err != nil {
		return domain.FetchResult{}, fmt.Errorf("scan: %w", err)
	}

	switch {
	case errMsg.Valid && localPath.Valid:
		return domain.FetchResult{}, errors.Join(domain.ErrInvalidInput,
			fmt.Errorf("manifest row %s has both local_path and error", file.Path))
	case errMsg.Valid:
		return domain.FetchFailed(source, file, errMsg.String), nil
	case localPath.Valid:
		return domain.FetchSucceeded(source, file, localPath.String), nil
	default:
		return domain.FetchResult{File: file, Source: source}, nil
	}
}

// nullString maps "" to SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
