package bronze

import (
	"context"

	"github.com/couchcryptid/realestate-medallion/internal/domain"
	"github.com/couchcryptid/realestate-medallion/internal/engine"
)

// IngestLocation loads the raw location-hierarchy JSON file into table,
// verbatim. Location Bronze must complete before Neighborhood/Property
// Silver run, since both join against the location reference.
func IngestLocation(ctx context.Context, eng *engine.Engine, table, configuredPath, path string, sampleSize int) (domain.BronzeMetadata, error) {
	if path == "" {
		path = configuredPath
	}
	if path == "" {
		return domain.BronzeMetadata{}, domain.WrapConfiguration("bronze: no locations file configured", nil)
	}

	abs, err := assertExists(path)
	if err != nil {
		return domain.BronzeMetadata{}, err
	}

	if err := ingestJSON(ctx, eng, table, abs, sampleSize); err != nil {
		return domain.BronzeMetadata{}, err
	}

	count, err := eng.CountRecords(ctx, table)
	if err != nil {
		return domain.BronzeMetadata{}, err
	}

	return domain.NewBronzeMetadata(table, abs, count, domain.EntityLocation)
}
