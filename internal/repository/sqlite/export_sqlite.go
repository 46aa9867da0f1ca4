package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"osmdev/internal/model"
	"osmdev/internal/repository"
)

// ExportSQLite is a SQLite implementation of repository.ExportRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type ExportSQLite struct {
	db *sql.DB
}

// NewExportSQLite creates a new ExportSQLite repository.
func NewExportSQLite(db *sql.DB) *ExportSQLite {
	return &ExportSQLite{db: db}
}

var _ repository.ExportRepository = (*ExportSQLite)(nil)

// Timestamps are stored as RFC3339Nano text so rows stay readable with the
// sqlite3 CLI and scanning stays driver-independent.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// Upsert inserts the export row, replacing any prior row for the same
// sequence id.
func (r *ExportSQLite) Upsert(ctx context.Context, e *model.Export) (*model.Export, error) {
	const q = `
		INSERT INTO exports (sequence_id, filename, size, exported_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(sequence_id) DO UPDATE SET
			filename    = excluded.filename,
			size        = excluded.size,
			exported_at = excluded.exported_at
	`
	if _, err := r.db.ExecContext(ctx, q,
		e.SequenceID,
		e.Filename,
		e.Size,
		formatTime(e.ExportedAt),
	); err != nil {
		return nil, err
	}

	out := *e
	out.ExportedAt = e.ExportedAt.UTC()
	return &out, nil
}

// List returns exports using LIMIT/OFFSET pagination and a total count.
func (r *ExportSQLite) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Export], error) {
	// Count total rows
	const qCount = `SELECT COUNT(*) FROM exports`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	// Fetch page
	const qList = `
		SELECT sequence_id, filename, size, exported_at
		FROM exports
		ORDER BY exported_at DESC, sequence_id DESC
		LIMIT ? OFFSET ?
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Export, 0)
	for rows.Next() {
		var e model.Export
		var exportedAt string
		if err := rows.Scan(
			&e.SequenceID,
			&e.Filename,
			&e.Size,
			&exportedAt,
		); err != nil {
			return nil, err
		}
		if e.ExportedAt, err = parseTime(exportedAt); err != nil {
			return nil, fmt.Errorf("parse exported_at for %s: %w", e.SequenceID, err)
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Export]{Items: items, Total: total}, nil
}
