package graph

import (
	"context"
	"fmt"

	"github.com/couchcryptid/realestate-medallion/internal/catalog"
	"github.com/couchcryptid/realestate-medallion/internal/engine"
)

// cityIDExpr recomputes the same city_id hierarchical key
// internal/silver/location.go derives (lower(city + '_' + raw state),
// non-alphanumerics stripped) against a property's own city/state columns,
// so Property rows can be joined to City nodes without a City lookup.
func cityIDExpr(cityCol, stateCol string) string {
	return fmt.Sprintf(`LOWER(CONCAT(
		REGEXP_REPLACE(COALESCE(TRIM(%s), ''), '[^a-zA-Z0-9]', '', 'g'),
		'_',
		REGEXP_REPLACE(COALESCE(%s, ''), '[^a-zA-Z0-9]', '', 'g')
	))`, cityCol, stateCol)
}

// buildLocatedInEdges builds Property -> Neighborhood LOCATED_IN edges.
func buildLocatedInEdges(ctx context.Context, eng *engine.Engine, goldProperties string) (string, error) {
	table := catalog.GraphEdgeTable(catalog.RelLocatedIn)
	propertyLabel := lowerLabel("Property")
	neighborhoodLabel := lowerLabel("Neighborhood")

	query := fmt.Sprintf(`
		SELECT
			'%s:' || listing_id AS from_id,
			'%s:' || neighborhood_id AS to_id,
			'%s' AS relationship_type,
			1.0 AS weight
		FROM %s
		WHERE neighborhood_id IS NOT NULL
	`, propertyLabel, neighborhoodLabel, catalog.RelLocatedIn, goldProperties)

	if err := eng.CreateTableAs(ctx, table, query); err != nil {
		return "", err
	}
	return table, nil
}

// buildHasFeatureEdges builds Property -> Feature HAS_FEATURE edges, one
// per element of the features array.
func buildHasFeatureEdges(ctx context.Context, eng *engine.Engine, goldProperties string) (string, error) {
	table := catalog.GraphEdgeTable(catalog.RelHasFeature)
	propertyLabel := lowerLabel("Property")
	featureLabel := lowerLabel(catalog.LabelFeature)

	query := fmt.Sprintf(`
		SELECT DISTINCT
			'%s:' || listing_id AS from_id,
			'%s:' || LOWER(TRIM(feature)) AS to_id,
			'%s' AS relationship_type
		FROM (
			SELECT listing_id, UNNEST(features) AS feature
			FROM %s
			WHERE features IS NOT NULL AND array_length(features) > 0
		)
		WHERE feature IS NOT NULL AND LENGTH(TRIM(feature)) > 0
	`, propertyLabel, featureLabel, catalog.RelHasFeature, goldProperties)

	if err := eng.CreateTableAs(ctx, table, query); err != nil {
		return "", err
	}
	return table, nil
}

// buildClassificationEdges builds Property -> PropertyType TYPE_OF edges
// and Property -> PriceRange IN_PRICE_RANGE edges, recomputing the same
// type_id/range_id keys buildClassificationNodes used.
func buildClassificationEdges(ctx context.Context, eng *engine.Engine, goldProperties string) ([]string, error) {
	var tables []string
	propertyLabel := lowerLabel("Property")

	typeOfTable := catalog.GraphEdgeTable(catalog.RelTypeOf)
	typeLabel := lowerLabel(catalog.LabelPropertyType)
	typeOfQuery := fmt.Sprintf(`
		SELECT DISTINCT
			'%s:' || listing_id AS from_id,
			'%s:' || LOWER(REGEXP_REPLACE(property_type, '[^a-zA-Z0-9]+', '_', 'g')) AS to_id,
			'%s' AS relationship_type
		FROM %s
		WHERE property_type IS NOT NULL
	`, propertyLabel, typeLabel, catalog.RelTypeOf, goldProperties)
	if err := eng.CreateTableAs(ctx, typeOfTable, typeOfQuery); err != nil {
		return nil, err
	}
	tables = append(tables, typeOfTable)

	priceRangeTable := catalog.GraphEdgeTable(catalog.RelInPriceRange)
	rangeLabel := lowerLabel(catalog.LabelPriceRange)
	priceRangeQuery := fmt.Sprintf(`
		SELECT DISTINCT
			'%s:' || listing_id AS from_id,
			'%s:' || CASE
				WHEN price < 500000 THEN 'affordable'
				WHEN price < 1000000 THEN 'mid_range'
				ELSE 'luxury'
			END AS to_id,
			'%s' AS relationship_type
		FROM %s
		WHERE price IS NOT NULL
	`, propertyLabel, rangeLabel, catalog.RelInPriceRange, goldProperties)
	if err := eng.CreateTableAs(ctx, priceRangeTable, priceRangeQuery); err != nil {
		return nil, err
	}
	tables = append(tables, priceRangeTable)

	return tables, nil
}

// buildGeographicEdges builds Property -> City IN_CITY, Property -> State
// IN_STATE, and Property -> ZipCode IN_ZIP_CODE edges directly off
// gold_properties, recomputing the same city_id/state_abbr-derived keys the
// City/State/ZipCode node tables use.
func buildGeographicEdges(ctx context.Context, eng *engine.Engine, goldProperties string) ([]string, error) {
	var tables []string
	propertyLabel := lowerLabel("Property")

	inCityTable := catalog.GraphEdgeTable(catalog.RelInCity)
	cityLabel := lowerLabel(catalog.LabelCity)
	inCityQuery := fmt.Sprintf(`
		SELECT DISTINCT
			'%s:' || listing_id AS from_id,
			'%s:' || %s AS to_id,
			'%s' AS relationship_type
		FROM %s
		WHERE city IS NOT NULL AND state IS NOT NULL
	`, propertyLabel, cityLabel, cityIDExpr("city", "state"), catalog.RelInCity, goldProperties)
	if err := eng.CreateTableAs(ctx, inCityTable, inCityQuery); err != nil {
		return nil, err
	}
	tables = append(tables, inCityTable)

	inStateTable := catalog.GraphEdgeTable(catalog.RelInState)
	stateLabel := lowerLabel(catalog.LabelState)
	inStateQuery := fmt.Sprintf(`
		SELECT DISTINCT
			'%s:' || listing_id AS from_id,
			'%s:' || LOWER(REGEXP_REPLACE(COALESCE(state, ''), '[^a-zA-Z0-9]', '', 'g')) AS to_id,
			'%s' AS relationship_type
		FROM %s
		WHERE state IS NOT NULL
	`, propertyLabel, stateLabel, catalog.RelInState, goldProperties)
	if err := eng.CreateTableAs(ctx, inStateTable, inStateQuery); err != nil {
		return nil, err
	}
	tables = append(tables, inStateTable)

	inZipTable := catalog.GraphEdgeTable(catalog.RelInZipCode)
	zipLabel := lowerLabel(catalog.LabelZipCode)
	inZipQuery := fmt.Sprintf(`
		SELECT DISTINCT
			'%s:' || listing_id AS from_id,
			'%s:' || zip_code AS to_id,
			'%s' AS relationship_type
		FROM %s
		WHERE zip_code IS NOT NULL
	`, propertyLabel, zipLabel, catalog.RelInZipCode, goldProperties)
	if err := eng.CreateTableAs(ctx, inZipTable, inZipQuery); err != nil {
		return nil, err
	}
	tables = append(tables, inZipTable)

	return tables, nil
}

// buildGeographicHierarchyEdges builds the neighborhood->city->county->state
// chain as GEOGRAPHIC_HIERARCHY edges, directly off gold_locations'
// graph_node_id/parent_location_id pair (a relationship the teacher never
// names explicitly, built instead per-level as separate LOCATED_IN-style
// tables; spec.md names it once, generically, so it is built once here).
func buildGeographicHierarchyEdges(ctx context.Context, eng *engine.Engine, goldLocations string) (string, error) {
	table := catalog.GraphEdgeTable(catalog.RelGeographicHierarchy)

	query := fmt.Sprintf(`
		SELECT
			graph_node_id AS from_id,
			CASE location_type
				WHEN 'neighborhood' THEN 'city:' || parent_location_id
				WHEN 'city' THEN 'county:' || parent_location_id
				WHEN 'county' THEN 'state:' || parent_location_id
				ELSE NULL
			END AS to_id,
			'%s' AS relationship_type,
			1.0 AS weight
		FROM %s
		WHERE graph_node_id IS NOT NULL AND parent_location_id IS NOT NULL
	`, catalog.RelGeographicHierarchy, goldLocations)

	if err := eng.CreateTableAs(ctx, table, query); err != nil {
		return "", err
	}
	return table, nil
}

// buildSimilarToEdges computes Property-Property SIMILAR_TO edges via a
// cosine-similarity self-join on embedding_vector, thresholded at 0.85,
// limited to the top 10,000 pairs by similarity descending, using the
// triangular id1 < id2 condition to emit each pair once (spec.md §3).
// If gold_graph_property carries no non-null embedding_vector, the edge
// table is skipped entirely and the second return value is true.
func buildSimilarToEdges(ctx context.Context, eng *engine.Engine) (string, bool, error) {
	propertyNodes := catalog.GraphNodeTable("Property")

	hasEmbeddings, err := hasNonEmptyColumn(ctx, eng, propertyNodes, "embedding_vector")
	if err != nil {
		return "", false, err
	}
	if !hasEmbeddings {
		return "", true, nil
	}

	table := catalog.GraphEdgeTable(catalog.RelSimilarTo)
	propertyLabel := lowerLabel("Property")

	query := fmt.Sprintf(`
		WITH similarity_scores AS (
			SELECT
				p1.listing_id AS id1,
				p2.listing_id AS id2,
				list_dot_product(p1.embedding_vector, p2.embedding_vector) /
				(sqrt(list_sum(list_transform(p1.embedding_vector, x -> x * x))) *
				 sqrt(list_sum(list_transform(p2.embedding_vector, x -> x * x)))) AS similarity
			FROM %s p1
			CROSS JOIN %s p2
			WHERE p1.listing_id < p2.listing_id
				AND p1.embedding_vector IS NOT NULL
				AND p2.embedding_vector IS NOT NULL
				AND array_length(p1.embedding_vector) > 0
				AND array_length(p2.embedding_vector) > 0
		)
		SELECT
			'%s:' || id1 AS from_id,
			'%s:' || id2 AS to_id,
			'%s' AS relationship_type,
			similarity AS weight
		FROM similarity_scores
		WHERE similarity > 0.85
		ORDER BY similarity DESC
		LIMIT 10000
	`, propertyNodes, propertyNodes, propertyLabel, propertyLabel, catalog.RelSimilarTo)

	if err := eng.CreateTableAs(ctx, table, query); err != nil {
		return "", false, err
	}
	return table, false, nil
}
