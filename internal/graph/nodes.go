package graph

import (
	"context"
	"fmt"

	"github.com/couchcryptid/realestate-medallion/internal/catalog"
	"github.com/couchcryptid/realestate-medallion/internal/engine"
)

// buildPropertyNodes materializes gold_graph_property from gold_properties,
// carrying the embedding vector through only when Gold actually attached
// one (a stub/unconfigured embedding provider leaves it null, per
// spec.md's embedding-failure behavior).
func buildPropertyNodes(ctx context.Context, eng *engine.Engine, goldProperties string) (string, error) {
	entity, err := catalog.Lookup("property")
	if err != nil {
		return "", err
	}
	table := catalog.GraphNodeTable(entity.GraphLabel)

	query := fmt.Sprintf(`
		SELECT
			listing_id,
			neighborhood_id,
			bedrooms,
			bathrooms,
			square_feet,
			property_type,
			year_built,
			price,
			price_per_sqft,
			street,
			city,
			state,
			zip_code,
			longitude,
			latitude,
			description,
			features,
			embedding_vector,
			'%s' AS node_label,
			'%s:' || listing_id AS graph_node_id
		FROM %s
		WHERE listing_id IS NOT NULL
	`, entity.GraphLabel, lowerLabel(entity.GraphLabel), goldProperties)

	if err := eng.CreateTableAs(ctx, table, query); err != nil {
		return "", err
	}
	return table, nil
}

// buildNeighborhoodNodes materializes gold_graph_neighborhood from
// gold_neighborhoods.
func buildNeighborhoodNodes(ctx context.Context, eng *engine.Engine, goldNeighborhoods string) (string, error) {
	entity, err := catalog.Lookup("neighborhood")
	if err != nil {
		return "", err
	}
	table := catalog.GraphNodeTable(entity.GraphLabel)

	query := fmt.Sprintf(`
		SELECT
			neighborhood_id,
			name,
			city,
			state,
			population,
			walkability_score,
			school_rating,
			density_category,
			lifestyle_category,
			overall_livability_score,
			longitude,
			latitude,
			embedding_vector,
			'%s' AS node_label,
			'%s:' || neighborhood_id AS graph_node_id
		FROM %s
		WHERE neighborhood_id IS NOT NULL
	`, entity.GraphLabel, lowerLabel(entity.GraphLabel), goldNeighborhoods)

	if err := eng.CreateTableAs(ctx, table, query); err != nil {
		return "", err
	}
	return table, nil
}

// buildWikipediaNodes materializes gold_graph_wikipediaarticle from
// gold_wikipedia.
func buildWikipediaNodes(ctx context.Context, eng *engine.Engine, goldWikipedia string) (string, error) {
	entity, err := catalog.Lookup("wikipedia")
	if err != nil {
		return "", err
	}
	table := catalog.GraphNodeTable(entity.GraphLabel)

	query := fmt.Sprintf(`
		SELECT
			page_id,
			title,
			extract AS content,
			categories,
			article_quality,
			article_quality_score,
			embedding_vector,
			'%s' AS node_label,
			'%s:' || page_id AS graph_node_id
		FROM %s
		WHERE page_id IS NOT NULL
	`, entity.GraphLabel, lowerLabel(entity.GraphLabel), goldWikipedia)

	if err := eng.CreateTableAs(ctx, table, query); err != nil {
		return "", err
	}
	return table, nil
}

// buildClassificationNodes materializes Feature, PropertyType, and
// PriceRange node tables. The teacher reads these from dedicated
// silver_features/silver_property_types/silver_price_ranges extraction
// tables this module never builds (that extraction stage is out of
// spec.md's scope); here they are derived directly from gold_properties
// instead — UNNEST over features, DISTINCT over property_type, and the
// same affordable/mid-range/luxury banding Property Gold's search_tags use.
func buildClassificationNodes(ctx context.Context, eng *engine.Engine, goldProperties string) ([]string, error) {
	var tables []string

	featureTable := catalog.GraphNodeTable(catalog.LabelFeature)
	featureQuery := fmt.Sprintf(`
		SELECT
			LOWER(TRIM(feature)) AS feature_id,
			LOWER(TRIM(feature)) AS feature_name,
			COUNT(*) AS occurrence_count,
			'%s' AS node_label,
			'%s:' || LOWER(TRIM(feature)) AS graph_node_id
		FROM (SELECT UNNEST(features) AS feature FROM %s WHERE features IS NOT NULL AND array_length(features) > 0)
		WHERE feature IS NOT NULL AND LENGTH(TRIM(feature)) > 0
		GROUP BY LOWER(TRIM(feature))
	`, catalog.LabelFeature, lowerLabel(catalog.LabelFeature), goldProperties)
	if err := eng.CreateTableAs(ctx, featureTable, featureQuery); err != nil {
		return nil, err
	}
	tables = append(tables, featureTable)

	typeTable := catalog.GraphNodeTable(catalog.LabelPropertyType)
	typeQuery := fmt.Sprintf(`
		SELECT
			LOWER(REGEXP_REPLACE(property_type, '[^a-zA-Z0-9]+', '_', 'g')) AS type_id,
			property_type AS type_name,
			COUNT(*) AS property_count,
			'%s' AS node_label,
			'%s:' || LOWER(REGEXP_REPLACE(property_type, '[^a-zA-Z0-9]+', '_', 'g')) AS graph_node_id
		FROM %s
		WHERE property_type IS NOT NULL
		GROUP BY property_type
	`, catalog.LabelPropertyType, lowerLabel(catalog.LabelPropertyType), goldProperties)
	if err := eng.CreateTableAs(ctx, typeTable, typeQuery); err != nil {
		return nil, err
	}
	tables = append(tables, typeTable)

	rangeTable := catalog.GraphNodeTable(catalog.LabelPriceRange)
	rangeQuery := fmt.Sprintf(`
		SELECT
			range_id, range_label, min_price, max_price,
			COUNT(*) AS property_count,
			'%s' AS node_label,
			'%s:' || range_id AS graph_node_id
		FROM (
			SELECT
				CASE
					WHEN price < 500000 THEN 'affordable'
					WHEN price < 1000000 THEN 'mid_range'
					ELSE 'luxury'
				END AS range_id,
				CASE
					WHEN price < 500000 THEN 'Affordable'
					WHEN price < 1000000 THEN 'Mid-Range'
					ELSE 'Luxury'
				END AS range_label,
				CASE
					WHEN price < 500000 THEN 0
					WHEN price < 1000000 THEN 500000
					ELSE 1000000
				END AS min_price,
				CASE
					WHEN price < 500000 THEN 500000
					WHEN price < 1000000 THEN 1000000
					ELSE NULL
				END AS max_price
			FROM %s
			WHERE price IS NOT NULL
		)
		GROUP BY range_id, range_label, min_price, max_price
	`, catalog.LabelPriceRange, lowerLabel(catalog.LabelPriceRange), goldProperties)
	if err := eng.CreateTableAs(ctx, rangeTable, rangeQuery); err != nil {
		return nil, err
	}
	tables = append(tables, rangeTable)

	return tables, nil
}

// buildGeographicNodes materializes City, State, County, and ZipCode node
// tables directly from gold_locations, which already carries a standardized
// state name, a stripped county name, and the city_id/county_id/state_id
// hierarchical keys Silver computed (see internal/silver/location.go) — the
// teacher instead reads from silver_cities/silver_states/silver_zip_codes
// tables this module never builds.
func buildGeographicNodes(ctx context.Context, eng *engine.Engine, goldLocations string) ([]string, error) {
	var tables []string

	cityTable := catalog.GraphNodeTable(catalog.LabelCity)
	cityQuery := fmt.Sprintf(`
		SELECT DISTINCT
			city_id,
			city AS name,
			state,
			'%s' AS node_label,
			'%s:' || city_id AS graph_node_id
		FROM %s
		WHERE city_id IS NOT NULL AND city IS NOT NULL
	`, catalog.LabelCity, lowerLabel(catalog.LabelCity), goldLocations)
	if err := eng.CreateTableAs(ctx, cityTable, cityQuery); err != nil {
		return nil, err
	}
	tables = append(tables, cityTable)

	countyTable := catalog.GraphNodeTable(catalog.LabelCounty)
	countyQuery := fmt.Sprintf(`
		SELECT DISTINCT
			county_id,
			county AS name,
			state,
			'%s' AS node_label,
			'%s:' || county_id AS graph_node_id
		FROM %s
		WHERE county_id IS NOT NULL AND county IS NOT NULL
	`, catalog.LabelCounty, lowerLabel(catalog.LabelCounty), goldLocations)
	if err := eng.CreateTableAs(ctx, countyTable, countyQuery); err != nil {
		return nil, err
	}
	tables = append(tables, countyTable)

	stateTable := catalog.GraphNodeTable(catalog.LabelState)
	stateQuery := fmt.Sprintf(`
		SELECT DISTINCT
			LOWER(REGEXP_REPLACE(COALESCE(state_abbr, ''), '[^a-zA-Z0-9]', '', 'g')) AS state_id,
			state_abbr AS abbreviation,
			state AS name,
			'%s' AS node_label,
			'%s:' || LOWER(REGEXP_REPLACE(COALESCE(state_abbr, ''), '[^a-zA-Z0-9]', '', 'g')) AS graph_node_id
		FROM %s
		WHERE state_abbr IS NOT NULL
	`, catalog.LabelState, lowerLabel(catalog.LabelState), goldLocations)
	if err := eng.CreateTableAs(ctx, stateTable, stateQuery); err != nil {
		return nil, err
	}
	tables = append(tables, stateTable)

	zipTable := catalog.GraphNodeTable(catalog.LabelZipCode)
	zipQuery := fmt.Sprintf(`
		SELECT DISTINCT
			zip_code,
			city,
			state,
			'%s' AS node_label,
			'%s:' || zip_code AS graph_node_id
		FROM %s
		WHERE zip_code IS NOT NULL AND zip_validity = 'valid'
	`, catalog.LabelZipCode, lowerLabel(catalog.LabelZipCode), goldLocations)
	if err := eng.CreateTableAs(ctx, zipTable, zipQuery); err != nil {
		return nil, err
	}
	tables = append(tables, zipTable)

	return tables, nil
}

func lowerLabel(label string) string {
	return catalog.GraphNodeTable(label)[len(catalog.GraphTablePrefix):]
}
