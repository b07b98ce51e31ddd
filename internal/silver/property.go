package silver

import (
	"context"
	"fmt"
	"time"

	"github.com/couchcryptid/realestate-medallion/internal/domain"
	"github.com/couchcryptid/realestate-medallion/internal/embedding"
	"github.com/couchcryptid/realestate-medallion/internal/engine"
)

// TransformProperty refines bronze property data into a canonical,
// embedding-bearing Silver table (spec.md §4.F "Property"). price_per_sqft
// is computed here rather than passed through from Bronze, since the source
// reader's inferred schema does not guarantee the field's presence.
func TransformProperty(ctx context.Context, eng *engine.Engine, provider embedding.Provider, inputTable, outputTable string, batchDelay time.Duration) (domain.SilverMetadata, error) {
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

	const tmpTransformed = "tmp_silver_property_transformed"
	const tmpEmbed = "tmp_silver_property_embeddings"

	transformedSelect := fmt.Sprintf(`
		SELECT
			listing_id,
			neighborhood_id,
			property_details.bedrooms AS bedrooms,
			property_details.bathrooms AS bathrooms,
			property_details.square_feet AS square_feet,
			property_details.property_type AS property_type,
			property_details.year_built AS year_built,
			property_details.garage_spaces AS garage_spaces,
			CAST(ROUND(COALESCE(property_details.lot_size * 43560, 0)) AS INTEGER) AS lot_size_sqft,
			listing_price AS price,
			CASE WHEN property_details.square_feet > 0
				THEN listing_price / property_details.square_feet
				ELSE NULL
			END AS price_per_sqft,
			address.street AS street,
			address.city AS city,
			address.state AS state,
			address.zip AS zip_code,
			coordinates.longitude AS longitude,
			coordinates.latitude AS latitude,
			description,
			features,
			CONCAT_WS(' ',
				COALESCE(description, ''),
				COALESCE(property_details.property_type, ''),
				CONCAT(COALESCE(property_details.bedrooms, 0), ' bedrooms'),
				CONCAT(COALESCE(property_details.bathrooms, 0), ' bathrooms'),
				CONCAT(COALESCE(property_details.square_feet, 0), ' sqft')
			) AS embedding_text
		FROM %s
		WHERE listing_id IS NOT NULL
			AND listing_price > 0
			AND property_details.square_feet > 0
	`, inputTable)

	if err := eng.CreateTableAs(ctx, tmpTransformed, transformedSelect); err != nil {
		return domain.SilverMetadata{}, err
	}
	defer eng.DropTable(ctx, tmpTransformed)

	keys, texts, err := fetchKeyTextPairs(ctx, eng, fmt.Sprintf("SELECT listing_id, embedding_text FROM %s", tmpTransformed))
	if err != nil {
		return domain.SilverMetadata{}, err
	}
	if err := attachEmbeddings(ctx, eng, provider, batchDelay, tmpEmbed, "listing_id", "VARCHAR", keys, texts); err != nil {
		return domain.SilverMetadata{}, err
	}
	defer eng.DropTable(ctx, tmpEmbed)

	finalSelect := fmt.Sprintf(`
		SELECT
			t.listing_id, t.neighborhood_id, t.bedrooms, t.bathrooms, t.square_feet,
			t.property_type, t.year_built, t.garage_spaces, t.lot_size_sqft, t.price,
			t.price_per_sqft, t.street, t.city, t.state, t.zip_code, t.longitude, t.latitude,
			t.description, t.features,
			e.embedding_text, e.embedding_vector, e.embedding_generated_at
		FROM %s t
		LEFT JOIN %s e ON t.listing_id = e.listing_id
	`, tmpTransformed, tmpEmbed)

	if err := eng.CreateTableAs(ctx, outputTable, finalSelect); err != nil {
		return domain.SilverMetadata{}, err
	}

	outputCount, err := eng.CountRecords(ctx, outputTable)
	if err != nil {
		return domain.SilverMetadata{}, err
	}

	return domain.NewSilverMetadata(inputTable, outputTable, inputCount, outputCount, domain.EntityProperty)
}
