package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/realestate-medallion/internal/domain"
)

// Result summarizes one entity's indexing run.
type Result struct {
	Index            string
	Indexed          int
	Errors           int
	ValidationErrors int
	DurationSeconds  float64
}

// transformFunc converts one Gold row (column name -> driver value) into a
// document ready for JSON encoding, or an error if the row fails
// field-level validation (spec.md §4.I.2 step 3 — counted, not fatal).
type transformFunc func(row map[string]any) (map[string]any, error)

// indexDocuments runs query once, fetches rows in batchSize-sized groups
// (mirrors the teacher's fetchmany(batch_size) loop), transforms each row,
// and submits each batch via the Elasticsearch Bulk API with failures
// counted rather than fatal (spec.md §4.I.2 steps 1-5).
func (w *Writer) indexDocuments(ctx context.Context, query, indexName, idField string, batchSize int, transform transformFunc) (Result, error) {
	start := time.Now()

	rows, err := w.eng.Execute(ctx, query)
	if err != nil {
		return Result{}, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return Result{}, domain.WrapTransient("sink/search: read columns", err)
	}

	var indexed, bulkErrors, validationErrors int
	batch := make([]map[string]any, 0, batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, failed, err := w.bulkIndex(ctx, indexName, idField, batch)
		if err != nil {
			return err
		}
		indexed += n
		bulkErrors += failed
		batch = batch[:0]
		return nil
	}

	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return Result{}, domain.WrapTransient("sink/search: scan row", err)
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}

		doc, err := transform(row)
		if err != nil {
			validationErrors++
			slog.Error("sink/search: row transform failed", "index", indexName, "error", err)
			continue
		}

		batch = append(batch, doc)
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return Result{}, err
			}
		}
	}
	if err := rows.Err(); err != nil {
		return Result{}, domain.WrapTransient("sink/search: iterate rows", err)
	}
	if err := flush(); err != nil {
		return Result{}, err
	}

	return Result{
		Index:            indexName,
		Indexed:          indexed,
		Errors:           bulkErrors,
		ValidationErrors: validationErrors,
		DurationSeconds:  time.Since(start).Seconds(),
	}, nil
}

type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []struct {
		Index struct {
			ID     string `json:"_id"`
			Status int    `json:"status"`
			Error  *struct {
				Type   string `json:"type"`
				Reason string `json:"reason"`
			} `json:"error,omitempty"`
		} `json:"index"`
	} `json:"items"`
}

// bulkIndex submits one NDJSON bulk request and reports how many documents
// succeeded vs. failed, logging only the first few failures (mirrors
// bulk(..., raise_on_error=False) plus base.py's "log first 3 failures").
func (w *Writer) bulkIndex(ctx context.Context, indexName, idField string, batch []map[string]any) (indexed, failed int, err error) {
	var buf bytes.Buffer
	for _, doc := range batch {
		meta := map[string]any{
			"index": map[string]any{
				"_index": indexName,
				"_id":    fmt.Sprintf("%v", doc[idField]),
			},
		}
		metaBytes, err := json.Marshal(meta)
		if err != nil {
			return 0, 0, domain.WrapProgrammer("sink/search: marshal bulk action", err)
		}
		docBytes, err := json.Marshal(doc)
		if err != nil {
			return 0, 0, domain.WrapProgrammer("sink/search: marshal document", err)
		}
		buf.Write(metaBytes)
		buf.WriteByte('\n')
		buf.Write(docBytes)
		buf.WriteByte('\n')
	}

	res, err := w.client.Bulk(
		bytes.NewReader(buf.Bytes()),
		w.client.Bulk.WithContext(ctx),
		w.client.Bulk.WithIndex(indexName),
	)
	if err != nil {
		return 0, len(batch), domain.WrapTransient("sink/search: bulk request failed", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, len(batch), domain.WrapProvider(fmt.Sprintf("sink/search: bulk request rejected: %s", res.String()), nil)
	}

	var parsed bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return 0, len(batch), domain.WrapProvider("sink/search: parse bulk response", err)
	}

	for _, item := range parsed.Items {
		if item.Index.Status >= 200 && item.Index.Status < 300 {
			indexed++
			continue
		}
		failed++
		if failed <= 3 {
			slog.Error("sink/search: bulk indexing failure", "index", indexName, "id", item.Index.ID, "error", item.Index.Error)
		}
	}
	return indexed, failed, nil
}

// isoifyTimestamps rewrites any time.Time-valued field named in fields to
// an ISO-8601 string (spec.md §4.I.2's "dates become ISO-8601 strings").
func isoifyTimestamps(doc map[string]any, fields ...string) {
	for _, f := range fields {
		if t, ok := doc[f].(time.Time); ok {
			doc[f] = t.UTC().Format(time.RFC3339)
		}
	}
}

func copyMap(row map[string]any) map[string]any {
	doc := make(map[string]any, len(row))
	for k, v := range row {
		doc[k] = v
	}
	return doc
}
