package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"askchart/config"
	"askchart/models"

	_ "github.com/microsoft/go-mssqldb"
)

// Source fetches the full row set of a dataset from wherever it lives.
type Source interface {
	FetchRows(ctx context.Context, datasetID string) (*models.QueryResult, error)
}

// SQLServerSource reads datasets from SQL Server using the fixed upstream
// query of each catalog entry.
type SQLServerSource struct {
	db  *sql.DB
	log *slog.Logger
}

func NewSQLServerSource(cfg config.SQLServerConfig, log *slog.Logger) (*SQLServerSource, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("SQL Server configuration is incomplete")
	}

	db, err := sql.Open("sqlserver", buildConnectionString(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open SQL Server connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		// Start anyway; datasets fall back to sample rows until the server is reachable.
		log.Warn("failed to ping SQL Server during initialization", "error", err)
	}

	return newSQLServerSource(db, log), nil
}

func newSQLServerSource(db *sql.DB, log *slog.Logger) *SQLServerSource {
	return &SQLServerSource{db: db, log: log}
}

func buildConnectionString(cfg config.SQLServerConfig) string {
	connStr := fmt.Sprintf("server=%s;port=%s;database=%s",
		cfg.Server, cfg.Port, cfg.Database)

	if cfg.UserID != "" {
		connStr += fmt.Sprintf(";user id=%s;password=%s", cfg.UserID, cfg.Password)
	} else {
		connStr += ";trusted_connection=true"
	}

	if cfg.Encrypt {
		// TLS without CA verification so self-signed internal certs work.
		connStr += ";encrypt=true;TrustServerCertificate=true"
	} else {
		connStr += ";encrypt=false"
	}

	return connStr
}

func (s *SQLServerSource) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// FetchRows runs the catalog query for datasetID. Unknown datasets are
// models.ErrNotFound.
func (s *SQLServerSource) FetchRows(ctx context.Context, datasetID string) (*models.QueryResult, error) {
	dataset, ok := config.LookupDataset(datasetID)
	if !ok {
		return nil, fmt.Errorf("dataset %s: %w", datasetID, models.ErrNotFound)
	}

	start := time.Now()
	rows, err := s.db.QueryContext(ctx, dataset.UpstreamQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query dataset %s: %w", datasetID, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of dataset %s: %w", datasetID, err)
	}

	result := &models.QueryResult{Columns: columns, Rows: []map[string]any{}}
	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("failed to scan dataset %s: %w", datasetID, err)
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[col] = upstreamValue(values[i])
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", datasetID, err)
	}

	s.log.Info("dataset fetched", "dataset", datasetID, "rows", len(result.Rows), "elapsed", time.Since(start))
	return result, nil
}

// upstreamValue keeps numbers and times typed so column types can be
// inferred. DECIMAL and MONEY arrive as text and are parsed as numbers.
func upstreamValue(v any) any {
	switch val := v.(type) {
	case []byte:
		return decimalOrString(string(val))
	default:
		return val
	}
}

// decimalOrString parses upstream DECIMAL text as a number when it is one.
func decimalOrString(s string) any {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// Ping checks the connection within ctx.
func (s *SQLServerSource) Ping(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("SQL Server connection is not initialized")
	}
	return s.db.PingContext(ctx)
}

func (s *SQLServerSource) IsConnected() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return s.Ping(ctx) == nil
}
