// Package gold implements component G (Gold Enrichers): one business-ready
// enrichment per entity, expressed purely as a view over Silver so no Silver
// data is duplicated (spec.md §4.G). Every enricher here calls
// engine.CreateViewAs, never CreateTableAs.
package gold

import (
	"context"
	"fmt"

	"github.com/couchcryptid/realestate-medallion/internal/domain"
	"github.com/couchcryptid/realestate-medallion/internal/engine"
)

// requireInput fails fast (ErrConfiguration) if inputTable does not exist,
// and returns its row count for the eventual GoldMetadata.
func requireInput(ctx context.Context, eng *engine.Engine, inputTable string) (int, error) {
	exists, err := eng.TableExists(ctx, inputTable)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, domain.WrapConfiguration(fmt.Sprintf("gold: input table %q does not exist", inputTable), nil)
	}
	return eng.CountRecords(ctx, inputTable)
}
