package bronze

import (
	"context"
	"fmt"

	"github.com/couchcryptid/realestate-medallion/internal/domain"
	"github.com/couchcryptid/realestate-medallion/internal/engine"
)

// wikipediaAttachAlias is the alias the Wikipedia source database is
// attached under for the duration of one ingest call.
const wikipediaAttachAlias = "wiki_db"

// IngestWikipedia attaches the external Wikipedia SQLite database, copies its
// articles table into Bronze verbatim, and always detaches — even if the
// copy fails — per spec.md §4.D.
func IngestWikipedia(ctx context.Context, eng *engine.Engine, table, configuredPath, path string, sampleSize int) (meta domain.BronzeMetadata, err error) {
	if path == "" {
		path = configuredPath
	}
	if path == "" {
		return domain.BronzeMetadata{}, domain.WrapConfiguration("bronze: no wikipedia database path configured", nil)
	}

	abs, err := assertExists(path)
	if err != nil {
		return domain.BronzeMetadata{}, err
	}

	if err := eng.AttachSQLite(ctx, abs, wikipediaAttachAlias); err != nil {
		return domain.BronzeMetadata{}, err
	}
	defer func() {
		// Detach unconditionally to release the file lock, even if the copy
		// below failed; a detach error never masks an earlier ingest error.
		if detachErr := eng.DetachDatabase(ctx, wikipediaAttachAlias); detachErr != nil && err == nil {
			err = detachErr
		}
	}()

	if err = eng.DropTable(ctx, table); err != nil {
		return domain.BronzeMetadata{}, err
	}

	selectQuery := fmt.Sprintf("SELECT * FROM %s.articles", wikipediaAttachAlias)
	if sampleSize > 0 {
		selectQuery += fmt.Sprintf(" LIMIT %d", sampleSize)
	}
	if err = eng.CreateTableAs(ctx, table, selectQuery); err != nil {
		return domain.BronzeMetadata{}, err
	}

	count, cerr := eng.CountRecords(ctx, table)
	if cerr != nil {
		err = cerr
		return domain.BronzeMetadata{}, err
	}

	meta, err = domain.NewBronzeMetadata(table, abs, count, domain.EntityWikipedia)
	return meta, err
}
