package search

import "context"

const (
	neighborhoodIndexDefault     = "neighborhoods"
	neighborhoodBatchSizeDefault = 100
)

// IndexNeighborhoods indexes a Neighborhood Gold table into Elasticsearch.
// table/index/batchSize fall back to
// gold_neighborhoods/neighborhoods/100 when empty/zero (spec.md §4.I.2).
func (w *Writer) IndexNeighborhoods(ctx context.Context, table, index string, batchSize int) (Result, error) {
	if table == "" {
		table = "gold_neighborhoods"
	}
	if index == "" {
		index = neighborhoodIndexDefault
	}
	if batchSize <= 0 {
		batchSize = neighborhoodBatchSizeDefault
	}

	result, err := w.indexDocuments(ctx, "SELECT * FROM "+table, index, "neighborhood_id", batchSize, transformNeighborhood)
	if err != nil {
		return Result{}, err
	}
	w.documentsIndexed += result.Indexed
	return result, nil
}

func transformNeighborhood(row map[string]any) (map[string]any, error) {
	doc := copyMap(row)

	doc["geo_point"] = map[string]any{
		"lat": doc["latitude"],
		"lon": doc["longitude"],
	}
	delete(doc, "longitude")
	delete(doc, "latitude")

	isoifyTimestamps(doc, "embedding_generated_at", "gold_processed_at")

	return doc, nil
}
