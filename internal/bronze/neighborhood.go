package bronze

import (
	"context"

	"github.com/couchcryptid/realestate-medallion/internal/domain"
	"github.com/couchcryptid/realestate-medallion/internal/engine"
)

// IngestNeighborhood loads a raw neighborhood JSON file into table, verbatim.
func IngestNeighborhood(ctx context.Context, eng *engine.Engine, table string, filePaths []string, path string, sampleSize int) (domain.BronzeMetadata, error) {
	if path == "" {
		if len(filePaths) == 0 {
			return domain.BronzeMetadata{}, domain.WrapConfiguration("bronze: no neighborhoods file configured", nil)
		}
		path = filePaths[0]
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

	return domain.NewBronzeMetadata(table, abs, count, domain.EntityNeighborhood)
}
