//go:build cgo

package runtime

import (
	"context"
	"testing"

	"github.com/TechXTT/sqlkit/pkg/ddl"
	"github.com/TechXTT/sqlkit/pkg/query"
	"github.com/stretchr/testify/require"

	_ "github.com/duckdb/duckdb-go/v2"
)

// openDuckDB connects to a fresh in-memory DuckDB with a users table.
func openDuckDB(t *testing.T) *Database {
	t.Helper()
	ctx := context.Background()
	d, err := Connect(ctx, Config{URL: "duckdb:", MaxOpenConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { d.Disconnect() })
	require.Equal(t, query.Generic, d.Dialect())

	users := ddl.NewCreateTable("users", false)
	users.Bigint("id").PrimaryKey()
	users.Varchar("name", 32)
	_, err = d.Execute(ctx, users)
	require.NoError(t, err)
	return d
}

func countUsers(t *testing.T, d *Database) int64 {
	t.Helper()
	records, err := d.Query(context.Background(), query.SelectFrom("users").Columns("COUNT(*)"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	n, ok := records[0].Int64(0)
	require.True(t, ok)
	return n
}

func TestDuckDB_FailedTransactionRollsBack(t *testing.T) {
	d := openDuckDB(t)

	var cause string
	tx := d.Transaction(
		insertUser("users", 1, "Alice"),
		insertUser("usr", 2, "Bob"),
		insertUser("users", 3, "Charlie"),
	).OnRollback(func(c string) { cause = c })

	require.NoError(t, tx.Execute(context.Background()))
	require.Equal(t, TxRolledBack, tx.State())
	require.Contains(t, cause, "usr")
	require.Contains(t, cause, "does not exist")
	require.Equal(t, int64(0), countUsers(t, d))
}

func TestDuckDB_TransactionCommits(t *testing.T) {
	d := openDuckDB(t)

	tx := d.Transaction(
		insertUser("users", 1, "Alice"),
		insertUser("users", 2, "Bob"),
		insertUser("users", 3, "Charlie"),
	).OnRollback(func(c string) { t.Fatalf("unexpected rollback: %s", c) })

	require.NoError(t, tx.Execute(context.Background()))
	require.Equal(t, TxCommitted, tx.State())
	require.Equal(t, int64(3), countUsers(t, d))
}

func TestDuckDB_QueryAndBatch(t *testing.T) {
	d := openDuckDB(t)
	ctx := context.Background()

	_, err := d.ExecuteBatch(ctx, query.BatchInsertInto("users").
		Columns("id", "name").
		Values(1, "Alice").
		Values(2, "Bob"))
	require.NoError(t, err)

	records, err := d.Query(ctx, query.SelectFrom("users").Columns("id", "name").Where(query.Eq("id", 2)))
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, 2, records[0].Size())
	name, ok := records[0].Text(1)
	require.True(t, ok)
	require.Equal(t, "Bob", name)

	_, err = d.Query(ctx, query.SelectFrom("users").Columns("id", "id", "id", "id", "id", "id", "id", "name"))
	require.ErrorIs(t, err, ErrUnsupportedResultArity)

	type row struct {
		ID   int64
		Name string
	}
	rows, err := Fetch(ctx, d, query.SelectFrom("users").Columns("id", "name").OrderBy("id").Desc(),
		func(vals []interface{}) (row, error) {
			id, _ := vals[0].(int64)
			name, _ := vals[1].(string)
			return row{id, name}, nil
		})
	require.NoError(t, err)
	require.Equal(t, []row{{2, "Bob"}, {1, "Alice"}}, rows)

	_, err = d.Execute(ctx, query.UpdateTable("users").Set("name", "Robert").Where(query.Eq("id", 2)))
	require.NoError(t, err)
	_, err = d.Execute(ctx, query.DeleteFrom("users").Where(query.Eq("id", 1)))
	require.NoError(t, err)
	require.Equal(t, int64(1), countUsers(t, d))
}
