package engine

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(Config{DatabaseFile: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func TestValidateIdentifier(t *testing.T) {
	assert.NoError(t, ValidateIdentifier("bronze_properties"))
	assert.NoError(t, ValidateIdentifier("silver_wikipedia2"))
	assert.Error(t, ValidateIdentifier("bronze-properties"))
	assert.Error(t, ValidateIdentifier("1bronze"))
	assert.Error(t, ValidateIdentifier("bronze; DROP TABLE x"))
}

func TestEngine_CreateTableAsAndCountRecords(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	err := e.CreateTableAs(ctx, "t_properties", "SELECT * FROM (VALUES (1, 'a'), (2, 'b')) AS v(id, name)")
	require.NoError(t, err)

	exists, err := e.TableExists(ctx, "t_properties")
	require.NoError(t, err)
	assert.True(t, exists)

	count, err := e.CountRecords(ctx, "t_properties")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestEngine_CountRecords_MissingTableIsZero(t *testing.T) {
	e := newTestEngine(t)
	count, err := e.CountRecords(context.Background(), "t_does_not_exist")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestEngine_DropTable(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, e.CreateTableAs(ctx, "t_throwaway", "SELECT 1 AS id"))
	require.NoError(t, e.DropTable(ctx, "t_throwaway"))

	exists, err := e.TableExists(ctx, "t_throwaway")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestEngine_GetTableSchema(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, e.CreateTableAs(ctx, "t_schema", "SELECT 1 AS id, 'x' AS name"))

	schema, err := e.GetTableSchema(ctx, "t_schema")
	require.NoError(t, err)
	require.Len(t, schema, 2)
	assert.Equal(t, "id", schema[0].Name)
	assert.Equal(t, "name", schema[1].Name)
}

func TestEngine_TransactionRollsBackOnError(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, e.CreateTableAs(ctx, "t_tx", "SELECT 1 AS id"))

	txErr := e.Transaction(ctx, func(tx *sql.Tx) error {
		return errors.New("boom")
	})
	assert.Error(t, txErr)

	count, err := e.CountRecords(ctx, "t_tx")
	require.NoError(t, err)
	assert.Equal(t, 1, count, "rollback must not affect data created before the transaction")
}

func TestRelation_SQLBuildsFilterProjectJoin(t *testing.T) {
	e := newTestEngine(t)
	rel := e.Table("silver_properties").
		Filter("price > 0").
		Filter("square_feet > 0").
		Project("listing_id, price").
		Join("LEFT JOIN silver_locations AS l ON silver_properties.city = l.city")

	sql := rel.SQL()
	assert.Contains(t, sql, "SELECT listing_id, price FROM silver_properties")
	assert.Contains(t, sql, "LEFT JOIN silver_locations")
	assert.Contains(t, sql, "WHERE price > 0 AND square_feet > 0")
}

func TestRelation_CreateMaterializesTable(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, e.CreateTableAs(ctx, "base", "SELECT * FROM (VALUES (1), (2), (3)) AS v(id)"))

	err := e.Table("base").Filter("id > 1").Project("id").Create(ctx, "derived")
	require.NoError(t, err)

	count, err := e.CountRecords(ctx, "derived")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
