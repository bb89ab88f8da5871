// Package tabular keeps one in-memory SQL table per dataset so ad-hoc
// queries can run against data fetched once from upstream.
package tabular

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"askchart/models"

	_ "modernc.org/sqlite" // SQLite driver (pure Go)
)

var datasetIDPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{0,63}$`)

// Store is the dataset cache. A reload replaces the whole table inside one
// transaction; there is no read isolation beyond that, so a query racing a
// reload sees either the old or the new table. Tables are never evicted.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

func New(log *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", "file::memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}

	// Every connection to :memory: is a separate database, so keep exactly one.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping in-memory database: %w", err)
	}

	return &Store{db: db, log: log}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// TableName is the table backing datasetID.
func TableName(datasetID string) string {
	return datasetID + "_data"
}

// ValidDatasetID reports whether id can be used to name a table.
func ValidDatasetID(id string) bool {
	return datasetIDPattern.MatchString(id)
}

// Load replaces the table for datasetID with result.
func (s *Store) Load(ctx context.Context, datasetID string, result *models.QueryResult) error {
	if !ValidDatasetID(datasetID) {
		return fmt.Errorf("invalid dataset id %q: %w", datasetID, models.ErrInvalidRequest)
	}
	if result == nil || len(result.Columns) == 0 {
		return fmt.Errorf("dataset %s has no columns: %w", datasetID, models.ErrInvalidRequest)
	}

	table := quoteIdent(TableName(datasetID))
	types := inferTypes(result)

	defs := make([]string, len(result.Columns))
	for i, col := range result.Columns {
		defs[i] = fmt.Sprintf("%s %s", quoteIdent(col), types[i].decl)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin load of %s: %w", datasetID, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
		return fmt.Errorf("failed to drop %s: %w", table, err)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", table, strings.Join(defs, ", "))); err != nil {
		return fmt.Errorf("failed to create %s: %w", table, err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(result.Columns)), ", ")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s VALUES (%s)", table, placeholders))
	if err != nil {
		return fmt.Errorf("failed to prepare insert into %s: %w", table, err)
	}
	defer stmt.Close()

	args := make([]any, len(result.Columns))
	for _, row := range result.Rows {
		for i, col := range result.Columns {
			args[i] = toSQLValue(row[col])
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit load of %s: %w", datasetID, err)
	}

	s.log.Info("dataset stored", "table", TableName(datasetID), "rows", len(result.Rows))
	return nil
}

// Exists reports whether datasetID has been loaded.
func (s *Store) Exists(ctx context.Context, datasetID string) bool {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?",
		TableName(datasetID)).Scan(&n)
	if err != nil {
		s.log.Warn("table lookup failed", "dataset", datasetID, "error", err)
		return false
	}
	return n > 0
}

// Execute runs a read-only query. The statement runs inside a transaction
// that is always rolled back, so a write that slips past validation never
// persists.
func (s *Store) Execute(ctx context.Context, query string) (*models.QueryResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, &models.QueryError{Query: query, Err: err}
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		s.log.Error("query failed", "query", query, "error", err, "tables", s.tablesTx(ctx, tx))
		return nil, &models.QueryError{Query: query, Err: err}
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, &models.QueryError{Query: query, Err: err}
	}

	result := &models.QueryResult{Columns: columns, Rows: []map[string]any{}}
	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, &models.QueryError{Query: query, Err: err}
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[col] = fromSQLValue(values[i])
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &models.QueryError{Query: query, Err: err}
	}

	return result, nil
}

// DescribeSchema lists the columns of datasetID in table order. It returns
// an empty slice when the dataset is not loaded.
func (s *Store) DescribeSchema(ctx context.Context, datasetID string) []models.Column {
	columns := []models.Column{}
	if !ValidDatasetID(datasetID) || !s.Exists(ctx, datasetID) {
		return columns
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(TableName(datasetID))))
	if err != nil {
		s.log.Warn("schema lookup failed", "dataset", datasetID, "error", err)
		return columns
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid        int
			name, decl string
			notNull    int
			dflt       sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &decl, &notNull, &dflt, &pk); err != nil {
			s.log.Warn("schema scan failed", "dataset", datasetID, "error", err)
			return columns
		}
		columns = append(columns, models.Column{Name: name, Type: typeFromDecl(decl)})
	}
	return columns
}

// Tables lists the cached tables.
func (s *Store) Tables(ctx context.Context) []string {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name")
	if err != nil {
		return nil
	}
	defer rows.Close()
	return scanNames(rows)
}

func (s *Store) tablesTx(ctx context.Context, tx *sql.Tx) []string {
	rows, err := tx.QueryContext(ctx, "SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name")
	if err != nil {
		return nil
	}
	defer rows.Close()
	return scanNames(rows)
}

func scanNames(rows *sql.Rows) []string {
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err == nil {
			names = append(names, name)
		}
	}
	return names
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func toSQLValue(v any) any {
	switch t := v.(type) {
	case time.Time:
		return t.Format(time.RFC3339)
	case bool:
		if t {
			return 1
		}
		return 0
	}
	return v
}

func fromSQLValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
