package search

import "context"

const (
	wikipediaIndexDefault     = "wikipedia"
	wikipediaBatchSizeDefault = 50
)

// IndexWikipedia indexes a Wikipedia Gold table into Elasticsearch.
// table/index/batchSize fall back to gold_wikipedia/wikipedia/50 when
// empty/zero — Wikipedia articles are larger documents than property or
// neighborhood rows, so the default batch is smaller (spec.md §4.I.2).
func (w *Writer) IndexWikipedia(ctx context.Context, table, index string, batchSize int) (Result, error) {
	if table == "" {
		table = "gold_wikipedia"
	}
	if index == "" {
		index = wikipediaIndexDefault
	}
	if batchSize <= 0 {
		batchSize = wikipediaBatchSizeDefault
	}

	result, err := w.indexDocuments(ctx, "SELECT * FROM "+table, index, "page_id", batchSize, transformWikipedia)
	if err != nil {
		return Result{}, err
	}
	w.documentsIndexed += result.Indexed
	return result, nil
}

func transformWikipedia(row map[string]any) (map[string]any, error) {
	doc := copyMap(row)
	isoifyTimestamps(doc, "embedding_generated_at", "gold_processed_at")
	return doc, nil
}
