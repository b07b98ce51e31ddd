// Package bronze implements component D (Bronze Ingesters) and component E
// (Bronze Validators): raw, as-is loading of every entity stream into the
// engine, and post-load checks that never mutate what was loaded.
package bronze

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/couchcryptid/realestate-medallion/internal/domain"
	"github.com/couchcryptid/realestate-medallion/internal/engine"
)

// assertExists resolves path to an absolute form and fails fatally
// (ErrConfiguration) if it does not exist, per spec.md §4.D step 2.
func assertExists(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", domain.WrapConfiguration(fmt.Sprintf("bronze: resolve path %q", path), err)
	}
	if _, err := os.Stat(abs); err != nil {
		return "", domain.WrapConfiguration(fmt.Sprintf("bronze: source file not found: %s", abs), err)
	}
	return abs, nil
}

// ingestJSON creates table as the raw contents of the JSON file at path,
// optionally limited to sampleSize rows. Bronze principle: no projection,
// no rename, schema equals the reader's inferred schema.
func ingestJSON(ctx context.Context, eng *engine.Engine, table, path string, sampleSize int) error {
	if err := eng.DropTable(ctx, table); err != nil {
		return err
	}
	selectQuery := fmt.Sprintf("SELECT * FROM read_json_auto('%s', maximum_object_size=20000000)", path)
	if sampleSize > 0 {
		selectQuery += fmt.Sprintf(" LIMIT %d", sampleSize)
	}
	return eng.CreateTableAs(ctx, table, selectQuery)
}
