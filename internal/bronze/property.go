package bronze

import (
	"context"

	"github.com/couchcryptid/realestate-medallion/internal/domain"
	"github.com/couchcryptid/realestate-medallion/internal/engine"
)

// IngestProperty loads a raw property JSON file into table, verbatim.
// If path is empty, the first of filePaths is used.
func IngestProperty(ctx context.Context, eng *engine.Engine, table string, filePaths []string, path string, sampleSize int) (domain.BronzeMetadata, error) {
	if path == "" {
		if len(filePaths) == 0 {
			return domain.BronzeMetadata{}, domain.WrapConfiguration("bronze: no properties file configured", nil)
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

	return domain.NewBronzeMetadata(table, abs, count, domain.EntityProperty)
}
