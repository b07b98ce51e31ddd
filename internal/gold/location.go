package gold

import (
	"context"
	"fmt"

	"github.com/couchcryptid/realestate-medallion/internal/domain"
	"github.com/couchcryptid/realestate-medallion/internal/engine"
)

// Location builds the Gold location view over Silver: a namespaced
// graph_node_id ("<label>:<id>") and parent_location_id per row, picking
// the deepest non-null hierarchy level (neighborhood > city > county >
// state), for the Graph Builder to consume directly (spec.md §4.G
// "Location Gold").
func Location(ctx context.Context, eng *engine.Engine, inputTable, outputTable string) (domain.GoldMetadata, error) {
	inputCount, err := requireInput(ctx, eng, inputTable)
	if err != nil {
		return domain.GoldMetadata{}, err
	}

	query := fmt.Sprintf(`
		SELECT
			neighborhood,
			city,
			county,
			state_standardized AS state,
			state AS state_abbr,
			zip_code,
			zip_validity,
			neighborhood_id,
			city_id,
			county_id,
			state_id,
			location_type,

			CASE
				WHEN neighborhood_id IS NOT NULL AND location_type = 'neighborhood' THEN 'neighborhood:' || neighborhood_id
				WHEN city_id IS NOT NULL AND location_type = 'city' THEN 'city:' || city_id
				WHEN county_id IS NOT NULL AND location_type = 'county' THEN 'county:' || county_id
				WHEN state_id IS NOT NULL AND location_type = 'state'
					THEN 'state:' || LOWER(REGEXP_REPLACE(COALESCE(state_abbr, ''), '[^a-zA-Z0-9]', '', 'g'))
				ELSE NULL
			END AS graph_node_id,

			CASE
				WHEN location_type = 'neighborhood' THEN city_id
				WHEN location_type = 'city' THEN county_id
				WHEN location_type = 'county'
					THEN LOWER(REGEXP_REPLACE(COALESCE(state_abbr, ''), '[^a-zA-Z0-9]', '', 'g'))
				ELSE NULL
			END AS parent_location_id

		FROM %s
	`, inputTable)

	if err := eng.CreateViewAs(ctx, outputTable, query); err != nil {
		return domain.GoldMetadata{}, err
	}

	outputCount, err := eng.CountRecords(ctx, outputTable)
	if err != nil {
		return domain.GoldMetadata{}, err
	}

	enrichments := []string{"hierarchical_ids", "graph_node_ids", "parent_relationships"}
	return domain.NewGoldMetadata(inputTable, outputTable, inputCount, outputCount, enrichments, domain.EntityLocation)
}
