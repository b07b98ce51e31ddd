package search

import "context"

const (
	propertyIndexDefault    = "properties"
	propertyBatchSizeDefault = 100
)

// IndexProperties indexes a Property Gold table into Elasticsearch.
// table/index/batchSize fall back to gold_properties/properties/100 when
// empty/zero (spec.md §4.I.2).
func (w *Writer) IndexProperties(ctx context.Context, table, index string, batchSize int) (Result, error) {
	if table == "" {
		table = "gold_properties"
	}
	if index == "" {
		index = propertyIndexDefault
	}
	if batchSize <= 0 {
		batchSize = propertyBatchSizeDefault
	}

	result, err := w.indexDocuments(ctx, "SELECT * FROM "+table, index, "listing_id", batchSize, transformProperty)
	if err != nil {
		return Result{}, err
	}
	w.documentsIndexed += result.Indexed
	return result, nil
}

// transformProperty nests street/city/state/zip_code/longitude/latitude
// into an address sub-object with a geo_point, per spec.md §4.I.2's
// "nested address structs become a document sub-object with a geo_point".
func transformProperty(row map[string]any) (map[string]any, error) {
	doc := copyMap(row)

	doc["address"] = map[string]any{
		"street":   doc["street"],
		"city":     doc["city"],
		"state":    doc["state"],
		"zip_code": doc["zip_code"],
		"geo_point": map[string]any{
			"lat": doc["latitude"],
			"lon": doc["longitude"],
		},
	}
	delete(doc, "street")
	delete(doc, "city")
	delete(doc, "state")
	delete(doc, "zip_code")
	delete(doc, "longitude")
	delete(doc, "latitude")

	isoifyTimestamps(doc, "embedding_generated_at", "gold_processed_at")

	return doc, nil
}
