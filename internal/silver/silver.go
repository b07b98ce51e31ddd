// Package silver implements component F (Silver Transformers): one
// relation-API pipeline per entity, standardizing Bronze into a canonical,
// embedding-bearing shape (spec.md §4.F).
package silver

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/realestate-medallion/internal/domain"
	"github.com/couchcryptid/realestate-medallion/internal/embedding"
	"github.com/couchcryptid/realestate-medallion/internal/engine"
)

func sqlStringLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// sqlVectorLiteral formats an embedding vector as a DuckDB DOUBLE[] literal.
func sqlVectorLiteral(v []float32) string {
	parts := make([]string, len(v))
	for i, f := range v {
		parts[i] = strconv.FormatFloat(float64(f), 'f', -1, 32)
	}
	return "[" + strings.Join(parts, ",") + "]::DOUBLE[]"
}

// attachEmbeddings generates embeddings for texts (in the order keys
// gives them) and materializes tmpTable(keyColumn, embedding_text,
// embedding_vector, embedding_generated_at) for the caller to LEFT JOIN
// back onto its transformed table. Grounded on the teacher-language
// sources' values_clause pattern (squack_pipeline_v2/silver/{property,
// neighborhood}.py): build a DuckDB VALUES literal rather than round-trip
// through a dataframe, since Go has no dataframe type to register.
func attachEmbeddings(ctx context.Context, eng *engine.Engine, provider embedding.Provider, delay time.Duration, tmpTable, keyColumn, keySQLType string, keys, texts []string) error {
	if err := eng.DropTable(ctx, tmpTable); err != nil {
		return err
	}

	if len(keys) == 0 {
		_, err := eng.Exec(ctx, fmt.Sprintf(
			"CREATE TABLE %s (%s %s, embedding_text VARCHAR, embedding_vector DOUBLE[], embedding_generated_at TIMESTAMP)",
			tmpTable, keyColumn, keySQLType,
		))
		return err
	}

	vectors, _, err := embedding.GenerateAll(ctx, provider, texts, delay)
	if err != nil {
		return err
	}
	if len(vectors) != len(keys) {
		return domain.WrapProgrammer(fmt.Sprintf("silver: embedding provider returned %d vectors for %d rows", len(vectors), len(keys)), nil)
	}

	now := time.Now().Format("2006-01-02 15:04:05.000000")
	rows := make([]string, len(keys))
	for i, k := range keys {
		keyLiteral := k
		if keySQLType == "VARCHAR" {
			keyLiteral = sqlStringLiteral(k)
		}
		rows[i] = fmt.Sprintf("(%s, %s, %s, TIMESTAMP '%s')", keyLiteral, sqlStringLiteral(texts[i]), sqlVectorLiteral(vectors[i]), now)
	}

	selectQuery := fmt.Sprintf(
		"SELECT * FROM (VALUES %s) AS t(%s, embedding_text, embedding_vector, embedding_generated_at)",
		strings.Join(rows, ","), keyColumn,
	)
	return eng.CreateTableAs(ctx, tmpTable, selectQuery)
}

// fetchKeyTextPairs runs query (expected to select exactly two columns: a
// key and an embedding_text) and returns them as parallel slices.
func fetchKeyTextPairs(ctx context.Context, eng *engine.Engine, query string) (keys, texts []string, err error) {
	rows, err := eng.Execute(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var key, text string
		if err := rows.Scan(&key, &text); err != nil {
			return nil, nil, domain.WrapTransient("silver: scan embedding source row", err)
		}
		keys = append(keys, key)
		texts = append(texts, text)
	}
	return keys, texts, rows.Err()
}
