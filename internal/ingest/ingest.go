// Package ingest reads a tabular shipment file, infers a role per column and
// bulk-writes coerced documents into the configured collection. Ingestion is
// one-shot: no transaction, no rollback, and whatever the bulk-write
// primitive reports is surfaced as-is.
package ingest

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"shipquery/internal/model"
	"shipquery/internal/schema"
	"shipquery/pkg/tabular"
)

// Inserter is the slice of the store ingestion needs. *store.Collection
// satisfies it; tests substitute an in-memory fake.
type Inserter interface {
	InsertMany(ctx context.Context, docs []model.Document) (int, error)
	EnsureIndexes(ctx context.Context, fields []string)
}

// Summary reports what one ingest run did.
type Summary struct {
	DatasetID       string        `json:"dataset_id"`
	RowsInserted    int           `json:"rows_inserted"`
	ColumnsDetected int           `json:"columns_detected"`
	Fields          []model.Field `json:"fields"`
}

// File ingests a tabular file from disk.
func File(ctx context.Context, ins Inserter, path string, loc *time.Location, log *zap.SugaredLogger) (*Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	return Reader(ctx, ins, f, path, loc, log)
}

// Reader ingests tabular data from r; name is used only to pick the format.
func Reader(ctx context.Context, ins Inserter, r io.Reader, name string, loc *time.Location, log *zap.SugaredLogger) (*Summary, error) {
	t, err := readTable(r, name)
	if err != nil {
		return nil, err
	}
	if len(t.rows) == 0 {
		return nil, model.ErrEmptyFile
	}

	fields := schema.ClassifyColumns(t.headers, t.rows)
	log.Infow("columns classified", "columns", len(fields))

	docs := make([]model.Document, 0, len(t.rows))
	for _, row := range t.rows {
		docs = append(docs, coerceRow(t.headers, fields, row, loc))
	}

	inserted, err := ins.InsertMany(ctx, docs)
	if err != nil {
		return nil, err
	}

	// Best-effort; a failed index never fails the ingest.
	ins.EnsureIndexes(ctx, t.headers)

	summary := &Summary{
		DatasetID:       uuid.New().String(),
		RowsInserted:    inserted,
		ColumnsDetected: len(t.headers),
		Fields:          fields,
	}
	log.Infow("ingest complete", "dataset", summary.DatasetID, "rows", inserted, "columns", len(t.headers))
	return summary, nil
}

// coerceRow maps one raw row onto field names, coercing each cell to its
// column's inferred role. A cell that fails coercion keeps its original
// text; no row is ever dropped.
func coerceRow(headers []string, fields []model.Field, row []string, loc *time.Location) model.Document {
	doc := make(model.Document, len(headers))
	for i, h := range headers {
		if i >= len(row) {
			break
		}
		// First occurrence wins on duplicate headers.
		if _, exists := doc[h]; exists {
			continue
		}
		doc[h] = coerceCell(row[i], fields[i].Role, loc)
	}
	return doc
}

func coerceCell(raw string, role model.FieldRole, loc *time.Location) interface{} {
	trimmed := raw
	if trimmed == "" {
		return nil
	}

	switch role {
	case model.RoleNumeric:
		if f, ok := tabular.ParseNumber(trimmed); ok {
			return f
		}
	case model.RoleDate:
		if t, ok := tabular.ParseDate(trimmed, loc); ok {
			return t
		}
	case model.RoleIdentifier:
		// Identifiers stay strings even when numeric-looking.
		return trimmed
	}
	return trimmed
}
