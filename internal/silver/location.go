package silver

import (
	"context"
	"fmt"

	"github.com/couchcryptid/realestate-medallion/internal/domain"
	"github.com/couchcryptid/realestate-medallion/internal/engine"
)

// placeholderZip is the known placeholder ZIP value flagged rather than
// treated as a genuine address (spec.md §4.F "Location").
const placeholderZip = "90001"

// TransformLocation refines the bronze location hierarchy into Silver:
// state standardization, county-suffix stripping, ZIP validity flagging,
// and deterministic hierarchical ID computation. No embedding is attached —
// Location has no free-text field to embed. Must run before Neighborhood
// Silver, which joins against its output.
func TransformLocation(ctx context.Context, eng *engine.Engine, inputTable, outputTable string) (domain.SilverMetadata, error) {
	exists, err := eng.TableExists(ctx, inputTable)
	if err != nil {
		return domain.SilverMetadata{}, err
	}
	if !exists {
		return domain.SilverMetadata{}, domain.WrapConfiguration(fmt.Sprintf("silver: input table %q does not exist", inputTable), nil)
	}
	inputCount, err := eng.CountRecords(ctx, inputTable)
	if err != nil {
		return domain.SilverMetadata{}, err
	}

	stateFullName := stateToFullNameCaseSQL("state")

	selectQuery := fmt.Sprintf(`
		SELECT
			TRIM(neighborhood) AS neighborhood,
			TRIM(city) AS city,
			TRIM(REGEXP_REPLACE(county, '\s+County$', '', 'i')) AS county,
			state,
			%s AS state_standardized,
			zip_code,
			CASE
				WHEN zip_code IS NULL THEN 'missing'
				WHEN zip_code = '%s' THEN 'placeholder'
				WHEN REGEXP_MATCHES(zip_code, '^[0-9]{5}$') THEN 'valid'
				ELSE 'invalid'
			END AS zip_validity,
			CONCAT('state_', LOWER(REGEXP_REPLACE(COALESCE(%s, 'unknown'), '[^a-zA-Z0-9]', '', 'g'))) AS state_id,
			LOWER(CONCAT(
				REGEXP_REPLACE(COALESCE(TRIM(REGEXP_REPLACE(county, '\s+County$', '', 'i')), ''), '[^a-zA-Z0-9]', '', 'g'),
				'_',
				REGEXP_REPLACE(COALESCE(state, ''), '[^a-zA-Z0-9]', '', 'g')
			)) AS county_id,
			LOWER(CONCAT(
				REGEXP_REPLACE(COALESCE(TRIM(city), ''), '[^a-zA-Z0-9]', '', 'g'),
				'_',
				REGEXP_REPLACE(COALESCE(state, ''), '[^a-zA-Z0-9]', '', 'g')
			)) AS city_id,
			LOWER(CONCAT(
				REGEXP_REPLACE(COALESCE(TRIM(neighborhood), ''), '[^a-zA-Z0-9]', '', 'g'),
				'_',
				REGEXP_REPLACE(COALESCE(TRIM(city), ''), '[^a-zA-Z0-9]', '', 'g')
			)) AS neighborhood_id,
			CASE
				WHEN neighborhood IS NOT NULL THEN 'neighborhood'
				WHEN city IS NOT NULL THEN 'city'
				WHEN county IS NOT NULL THEN 'county'
				WHEN state IS NOT NULL THEN 'state'
				ELSE 'unknown'
			END AS location_type
		FROM %s
	`, stateFullName, placeholderZip, stateFullName, inputTable)

	if err := eng.CreateTableAs(ctx, outputTable, selectQuery); err != nil {
		return domain.SilverMetadata{}, err
	}

	outputCount, err := eng.CountRecords(ctx, outputTable)
	if err != nil {
		return domain.SilverMetadata{}, err
	}

	return domain.NewSilverMetadata(inputTable, outputTable, inputCount, outputCount, domain.EntityLocation)
}
