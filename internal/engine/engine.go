// Package engine wraps a single in-process DuckDB connection (component A,
// the Analytical Engine Adapter). It is the only component in the pipeline
// that owns I/O state; every other package reaches the database through the
// Engine it is handed.
package engine

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"sync"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/couchcryptid/realestate-medallion/internal/domain"
)

// identifierPattern is the strict safe-identifier regex from spec.md §4.A.
// Table and column names are validated against it before interpolation into
// SQL text; DuckDB's driver does not support parameterizing identifiers.
var identifierPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{0,63}$`)

// Config configures the single DuckDB connection created at construction
// time. Fields are never mutated after New returns.
type Config struct {
	MemoryLimit  string
	ThreadCount  int
	DatabaseFile string
}

// Engine is a thread-safe singleton wrapper over one *sql.DB. The
// orchestrator must not issue concurrent statements on it (spec.md §5); DB
// is exported only for code that needs database/sql primitives the Engine
// doesn't wrap (e.g. sink writers streaming a cursor).
type Engine struct {
	mu sync.Mutex
	db *sql.DB
}

// New opens the DuckDB connection, applies Config, and loads the JSON and
// Parquet extensions required by Bronze ingestion and the Parquet sink.
// Connection failures are fatal per spec.md §4.A.
func New(cfg Config) (*Engine, error) {
	dsn := cfg.DatabaseFile
	if dsn == "" {
		dsn = ":memory:"
	}

	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, domain.WrapConfiguration("engine: open duckdb connection", err)
	}

	pragmas := []string{
		"INSTALL json",
		"LOAD json",
		"INSTALL parquet",
		"LOAD parquet",
	}
	if cfg.MemoryLimit != "" {
		pragmas = append(pragmas, fmt.Sprintf("SET memory_limit='%s'", cfg.MemoryLimit))
	}
	if cfg.ThreadCount > 0 {
		pragmas = append(pragmas, fmt.Sprintf("SET threads=%d", cfg.ThreadCount))
	}

	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, domain.WrapConfiguration(fmt.Sprintf("engine: apply %q", p), err)
		}
	}

	return &Engine{db: db}, nil
}

// DB returns the underlying *sql.DB for callers that need to stream large
// result sets (sink writers) rather than materialize them.
func (e *Engine) DB() *sql.DB { return e.db }

// Close releases the connection. Called once, at process shutdown.
func (e *Engine) Close() error {
	return e.db.Close()
}

// ValidateIdentifier fails fast (ErrProgrammer) if name is not a safe SQL
// identifier. The table-name helpers below call this before interpolating
// a caller-supplied table or column name; Execute and Exec take raw SQL and
// do not.
func ValidateIdentifier(name string) error {
	if !identifierPattern.MatchString(name) {
		return domain.WrapProgrammer(fmt.Sprintf("engine: unsafe identifier %q", name), nil)
	}
	return nil
}

// Execute runs sql with optional parameters, returning the raw *sql.Rows.
// Most callers should prefer the typed helpers below.
func (e *Engine) Execute(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.WrapTransient("engine: execute query", err)
	}
	return rows, nil
}

// Exec runs a statement that returns no rows (DDL, COPY, bulk DML).
func (e *Engine) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	res, err := e.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, domain.WrapTransient("engine: exec statement", err)
	}
	return res, nil
}

// TableExists reports whether name is a known table or view.
func (e *Engine) TableExists(ctx context.Context, name string) (bool, error) {
	var count int
	err := e.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM information_schema.tables WHERE table_name = ?", name,
	).Scan(&count)
	if err != nil {
		return false, domain.WrapTransient("engine: check table_exists", err)
	}
	return count > 0, nil
}

// DropTable drops name if it exists. name must pass ValidateIdentifier.
func (e *Engine) DropTable(ctx context.Context, name string) error {
	if err := ValidateIdentifier(name); err != nil {
		return err
	}
	_, err := e.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", name))
	return err
}

// DropView drops name if it exists as a view. name must pass
// ValidateIdentifier.
func (e *Engine) DropView(ctx context.Context, name string) error {
	if err := ValidateIdentifier(name); err != nil {
		return err
	}
	_, err := e.Exec(ctx, fmt.Sprintf("DROP VIEW IF EXISTS %s", name))
	return err
}

// CountRecords returns the row count of name, or 0 if it does not exist.
func (e *Engine) CountRecords(ctx context.Context, name string) (int, error) {
	if err := ValidateIdentifier(name); err != nil {
		return 0, err
	}
	exists, err := e.TableExists(ctx, name)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, nil
	}
	var count int
	err = e.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", name)).Scan(&count)
	if err != nil {
		return 0, domain.WrapTransient("engine: count_records", err)
	}
	return count, nil
}

// ColumnInfo is one row of a table's schema, as reported by DESCRIBE.
type ColumnInfo struct {
	Name string
	Type string
}

// GetTableSchema returns the column name/type pairs for name, or nil if it
// does not exist.
func (e *Engine) GetTableSchema(ctx context.Context, name string) ([]ColumnInfo, error) {
	if err := ValidateIdentifier(name); err != nil {
		return nil, err
	}
	exists, err := e.TableExists(ctx, name)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	rows, err := e.db.QueryContext(ctx, fmt.Sprintf("DESCRIBE %s", name))
	if err != nil {
		return nil, domain.WrapTransient("engine: get_table_schema", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, domain.WrapTransient("engine: read schema columns", err)
	}

	var out []ColumnInfo
	for rows.Next() {
		scanDest := make([]any, len(cols))
		var name, colType string
		scanDest[0] = &name
		scanDest[1] = &colType
		for i := 2; i < len(cols); i++ {
			var discard any
			scanDest[i] = &discard
		}
		if err := rows.Scan(scanDest...); err != nil {
			return nil, domain.WrapTransient("engine: scan schema row", err)
		}
		out = append(out, ColumnInfo{Name: name, Type: colType})
	}
	return out, rows.Err()
}

// CreateTableAs drops name if it exists, then creates it as the materialized
// result of selectQuery. name must pass ValidateIdentifier.
func (e *Engine) CreateTableAs(ctx context.Context, name, selectQuery string, args ...any) error {
	if err := ValidateIdentifier(name); err != nil {
		return err
	}
	if err := e.DropTable(ctx, name); err != nil {
		return err
	}
	_, err := e.Exec(ctx, fmt.Sprintf("CREATE TABLE %s AS %s", name, selectQuery), args...)
	return err
}

// CreateViewAs drops name if it exists, then creates it as a view over
// selectQuery. name must pass ValidateIdentifier. Used by Gold enrichers,
// which materialize no data of their own.
func (e *Engine) CreateViewAs(ctx context.Context, name, selectQuery string, args ...any) error {
	if err := ValidateIdentifier(name); err != nil {
		return err
	}
	if err := e.DropView(ctx, name); err != nil {
		return err
	}
	_, err := e.Exec(ctx, fmt.Sprintf("CREATE VIEW %s AS %s", name, selectQuery), args...)
	return err
}

// CopyToParquet exports table to path using DuckDB's native COPY, never
// row-iterating in Go.
func (e *Engine) CopyToParquet(ctx context.Context, table, path, compression string, compressionLevel, rowGroupSize int) error {
	if err := ValidateIdentifier(table); err != nil {
		return err
	}
	query := fmt.Sprintf(
		"COPY %s TO '%s' (FORMAT PARQUET, COMPRESSION '%s', COMPRESSION_LEVEL %d, ROW_GROUP_SIZE %d)",
		table, path, compression, compressionLevel, rowGroupSize,
	)
	_, err := e.Exec(ctx, query)
	return err
}

// ReadParquet loads path into table, optionally limited to the first limit
// rows (sampled runs). limit <= 0 means no limit.
func (e *Engine) ReadParquet(ctx context.Context, path, table string, limit int) error {
	if err := ValidateIdentifier(table); err != nil {
		return err
	}
	selectQuery := fmt.Sprintf("SELECT * FROM read_parquet('%s')", path)
	if limit > 0 {
		selectQuery += fmt.Sprintf(" LIMIT %d", limit)
	}
	return e.CreateTableAs(ctx, table, selectQuery)
}

// Transaction runs fn within BEGIN/COMMIT, rolling back on any error fn
// returns or panic fn raises.
func (e *Engine) Transaction(ctx context.Context, fn func(*sql.Tx) error) (err error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.WrapTransient("engine: begin transaction", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
		if err != nil {
			tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return domain.WrapTransient("engine: commit transaction", err)
	}
	return nil
}

// AttachDatabase attaches an external DuckDB/SQLite-compatible file under
// alias. The Wikipedia Bronze ingester uses AttachSQLite instead.
func (e *Engine) AttachDatabase(ctx context.Context, path, alias string) error {
	if err := ValidateIdentifier(alias); err != nil {
		return err
	}
	_, err := e.Exec(ctx, fmt.Sprintf("ATTACH '%s' AS %s (READ_ONLY)", path, alias))
	return err
}

// DetachDatabase detaches alias. Safe to call even if the attach failed or
// never happened.
func (e *Engine) DetachDatabase(ctx context.Context, alias string) error {
	if err := ValidateIdentifier(alias); err != nil {
		return err
	}
	_, err := e.Exec(ctx, fmt.Sprintf("DETACH DATABASE IF EXISTS %s", alias))
	return err
}

// AttachSQLite loads DuckDB's sqlite scanner extension and attaches path
// (a SQLite database file) under alias, read-only. Used by the Wikipedia
// Bronze ingester, whose source is a SQLite database rather than JSON.
func (e *Engine) AttachSQLite(ctx context.Context, path, alias string) error {
	if err := ValidateIdentifier(alias); err != nil {
		return err
	}
	for _, p := range []string{"INSTALL sqlite", "LOAD sqlite"} {
		if _, err := e.Exec(ctx, p); err != nil {
			return domain.WrapConfiguration(fmt.Sprintf("engine: %s", p), err)
		}
	}
	_, err := e.Exec(ctx, fmt.Sprintf("ATTACH '%s' AS %s (TYPE sqlite, READ_ONLY)", path, alias))
	return err
}
