package repository

import (
	"context"

	"osmdev/internal/model"
)

// ExportRepository defines data access for the export index using SQL only.
// No business logic here, strictly persistence operations.
//
// The index is advisory: the file on disk is the source of truth for
// retrieval, the index only feeds the history listing.
type ExportRepository interface {
	// Upsert inserts the export record, replacing any existing row with the
	// same sequence id (last-write-wins). Returns the stored record.
	Upsert(ctx context.Context, e *model.Export) (*model.Export, error)

	// List returns a paginated list of exports, newest first, and the total
	// row count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Export], error)
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
