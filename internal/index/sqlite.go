package index

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rcomplete/rindex-mcp/pkg/types"
)

// SQLite is a persistent Index implementation backed by a SQLite database.
type SQLite struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLite creates a new SQLite-backed index at the given path. Use
// ":memory:" for an ephemeral database.
func NewSQLite(dbPath string) (*SQLite, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the database connection
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) RegisterPackages(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `INSERT INTO packages (name) VALUES (?) ON CONFLICT(name) DO NOTHING`
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, query, name); err != nil {
			return fmt.Errorf("failed to register package %q: %w", name, err)
		}
	}

	return tx.Commit()
}

func (s *SQLite) AllUnindexedPackages(ctx context.Context) ([]string, error) {
	query := `SELECT name FROM packages WHERE indexed = 0 ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query unindexed packages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *SQLite) HasInformation(ctx context.Context, name string) (bool, error) {
	var indexed int
	err := s.db.QueryRowContext(ctx,
		`SELECT indexed FROM packages WHERE name = ?`, name).Scan(&indexed)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return indexed != 0, nil
}

func (s *SQLite) AddPackageInformation(ctx context.Context, name string, info types.PackageInformation) error {
	exports, err := encodeStrings(info.Exports)
	if err != nil {
		return fmt.Errorf("failed to encode exports: %w", err)
	}
	typeCodes, err := encodeInts(info.Types)
	if err != nil {
		return fmt.Errorf("failed to encode types: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Whole-record replace: upsert the package row, then rebuild its
	// function rows from scratch.
	now := time.Now()
	var packageID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO packages (name, indexed, is_empty, exports, types, indexed_at)
		VALUES (?, 1, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			indexed = 1,
			is_empty = excluded.is_empty,
			exports = excluded.exports,
			types = excluded.types,
			indexed_at = excluded.indexed_at
		RETURNING id
	`, name, boolToInt(info.IsEmpty()), exports, typeCodes, now).Scan(&packageID)
	if err != nil {
		return fmt.Errorf("failed to upsert package %q: %w", name, err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM functions WHERE package_id = ?`, packageID); err != nil {
		return fmt.Errorf("failed to clear functions for %q: %w", name, err)
	}

	for fnName, fn := range info.FunctionInfo {
		formals, err := encodeFormals(fn.Formals)
		if err != nil {
			return fmt.Errorf("failed to encode formals for %q: %w", fnName, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO functions (package_id, name, performs_nse, is_primitive, formals)
			VALUES (?, ?, ?, ?, ?)
		`, packageID, fnName, boolToInt(fn.PerformsNse), boolToInt(fn.IsPrimitive), formals)
		if err != nil {
			return fmt.Errorf("failed to store function %q: %w", fnName, err)
		}
	}

	return tx.Commit()
}

func (s *SQLite) GetPackage(ctx context.Context, name string) (*types.PackageInformation, error) {
	var (
		packageID int64
		indexed   int
		exports   []byte
		typeCodes []byte
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, indexed, exports, types FROM packages WHERE name = ?
	`, name).Scan(&packageID, &indexed, &exports, &typeCodes)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if indexed == 0 {
		// Registered but never refreshed: no metadata entry yet.
		return nil, ErrNotFound
	}

	info := types.NewPackageInformation(name)
	if info.Exports, err = decodeStrings(exports); err != nil {
		return nil, err
	}
	if info.Types, err = decodeInts(typeCodes); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, performs_nse, is_primitive, formals
		FROM functions WHERE package_id = ?
	`, packageID)
	if err != nil {
		return nil, fmt.Errorf("failed to query functions for %q: %w", name, err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			fnName      string
			performsNse int
			isPrimitive int
			formals     []byte
		)
		if err := rows.Scan(&fnName, &performsNse, &isPrimitive, &formals); err != nil {
			return nil, err
		}
		fn := types.NewFunctionInformation(fnName, name)
		fn.PerformsNse = performsNse != 0
		fn.IsPrimitive = isPrimitive != 0
		if fn.Formals, err = decodeFormals(formals); err != nil {
			return nil, err
		}
		info.FunctionInfo[fnName] = fn
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &info, nil
}

func (s *SQLite) ListPackages(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM packages ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *SQLite) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(indexed), 0), COALESCE(SUM(is_empty), 0)
		FROM packages
	`).Scan(&stats.TotalPackages, &stats.IndexedPackages, &stats.EmptyPlaceholders)
	if err != nil {
		return nil, fmt.Errorf("failed to compute index stats: %w", err)
	}
	stats.UnindexedPackages = stats.TotalPackages - stats.IndexedPackages
	return stats, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
