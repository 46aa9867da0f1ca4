package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/XSAM/otelsql"
	_ "github.com/mattn/go-sqlite3"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"osmdev/internal/config"
)

var sqlOpen = sql.Open

// BuildSQLiteDSN constructs a DSN for the embedded SQLite export index.
// Example: file:exports.db?_busy_timeout=5000
func BuildSQLiteDSN(c config.DatabaseConfig) (string, error) {
	if c.Path == "" {
		return "", fmt.Errorf("invalid database config: path is required")
	}

	q := url.Values{}
	if c.BusyTimeoutMs > 0 {
		q.Set("_busy_timeout", strconv.Itoa(c.BusyTimeoutMs))
	}

	dsn := "file:" + c.Path
	if enc := q.Encode(); enc != "" {
		dsn += "?" + enc
	}
	return dsn, nil
}

// NewSQLite opens a database/sql connection using the go-sqlite3 driver and
// applies pooling settings. The driver is wrapped with otelsql so index
// queries show up in traces when tracing is enabled.
func NewSQLite(c config.DatabaseConfig) (*sql.DB, error) {
	dsn, err := BuildSQLiteDSN(c)
	if err != nil {
		return nil, err
	}

	// Register the otelsql driver wrapper
	driverName, err := otelsql.Register("sqlite3",
		otelsql.WithAttributes(semconv.DBSystemSqlite),
		otelsql.WithSQLCommenter(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register otelsql: %w", err)
	}

	db, err := sqlOpen(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}

	// SQLite tolerates a single writer; keep the pool small unless overridden
	if c.MaxOpenConns > 0 {
		db.SetMaxOpenConns(c.MaxOpenConns)
	}
	if c.MaxIdleConns > 0 {
		db.SetMaxIdleConns(c.MaxIdleConns)
	}
	if c.ConnMaxLifetimeSec > 0 {
		db.SetConnMaxLifetime(time.Duration(c.ConnMaxLifetimeSec) * time.Second)
	}

	// Verify the file is openable with a short timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	return db, nil
}
