package graphdb

import (
	"context"

	"github.com/couchcryptid/realestate-medallion/internal/domain"
)

// rowsAsMaps executes query and returns every row as a column-name-keyed
// map, ready to pass as Cypher UNWIND parameters. DuckDB's driver already
// returns native Go values (arrays, floats, timestamps) for each column,
// so no further per-field conversion is needed before handing rows to the
// neo4j driver's parameter encoder.
func (w *Writer) rowsAsMaps(ctx context.Context, query string) ([]map[string]any, error) {
	rows, err := w.eng.Execute(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, domain.WrapTransient("sink/graphdb: read columns", err)
	}

	var out []map[string]any
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, domain.WrapTransient("sink/graphdb: scan row", err)
		}
		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapTransient("sink/graphdb: iterate rows", err)
	}
	return out, nil
}

// tableHasColumn reports whether table declares a column named column.
func (w *Writer) tableHasColumn(ctx context.Context, table, column string) (bool, error) {
	cols, err := w.eng.GetTableSchema(ctx, table)
	if err != nil {
		return false, err
	}
	for _, c := range cols {
		if c.Name == column {
			return true, nil
		}
	}
	return false, nil
}
