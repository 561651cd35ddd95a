package migrate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/TechXTT/sqlkit/pkg/query"
	"github.com/TechXTT/sqlkit/pkg/runtime"
	"github.com/stretchr/testify/require"
)

const (
	ensureSQL  = `CREATE TABLE IF NOT EXISTS schema_migrations (version BIGINT PRIMARY KEY)`
	currentSQL = `SELECT MAX(version) FROM schema_migrations`
	recordSQL  = `INSERT INTO schema_migrations (version) VALUES ($1) RETURNING *`
	deleteSQL  = `DELETE FROM schema_migrations WHERE version = $1`
)

func writeMigrations(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
	}
	return dir
}

func newManager(t *testing.T, dir string) (*Manager, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mgr, err := NewManager(context.Background(), runtime.Wrap(db, query.PostgreSQL), DirSource{Dir: dir})
	require.NoError(t, err)
	mgr.Out = io.Discard
	return mgr, mock
}

func expectCurrent(mock sqlmock.Sqlmock, version interface{}) {
	mock.ExpectExec(regexp.QuoteMeta(ensureSQL)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(currentSQL)).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(version))
}

func TestUp_AppliesPendingMigrations(t *testing.T) {
	upSQL := "CREATE TABLE foo();"
	dir := writeMigrations(t, map[string]string{
		"0001_foo.up.sql":   upSQL,
		"0001_foo.down.sql": "DROP TABLE foo;",
	})
	mgr, mock := newManager(t, dir)

	// currentVersion: no rows -> NULL -> 0
	expectCurrent(mock, nil)
	mock.ExpectBegin()
	mock.ExpectExec(fmt.Sprintf("^%s$", regexp.QuoteMeta(upSQL))).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(recordSQL)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(1))
	mock.ExpectCommit()

	require.NoError(t, mgr.Up(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUp_SkipsAppliedMigrations(t *testing.T) {
	dir := writeMigrations(t, map[string]string{
		"0001_a.up.sql": "A1",
		"0002_b.up.sql": "B1",
	})
	mgr, mock := newManager(t, dir)

	expectCurrent(mock, int64(1))
	mock.ExpectBegin()
	mock.ExpectExec("^B1$").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(recordSQL)).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(2))
	mock.ExpectCommit()

	require.NoError(t, mgr.Up(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUp_FailedMigrationRollsBack(t *testing.T) {
	dir := writeMigrations(t, map[string]string{
		"0001_a.up.sql": "BROKEN",
		"0002_b.up.sql": "B1",
	})
	mgr, mock := newManager(t, dir)

	expectCurrent(mock, nil)
	mock.ExpectBegin()
	mock.ExpectExec("^BROKEN$").WillReturnError(errors.New(`syntax error at or near "BROKEN"`))
	mock.ExpectRollback()

	err := mgr.Up(context.Background())
	require.ErrorIs(t, err, runtime.ErrTransactionAborted)
	require.Contains(t, err.Error(), "apply up 1")
	require.Contains(t, err.Error(), `syntax error at or near "BROKEN"`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUp_MissingUpFile(t *testing.T) {
	dir := writeMigrations(t, map[string]string{
		"0001_a.down.sql": "DROP TABLE a;",
	})
	mgr, mock := newManager(t, dir)

	expectCurrent(mock, nil)
	mock.ExpectBegin()
	mock.ExpectRollback()

	err := mgr.Up(context.Background())
	require.ErrorIs(t, err, query.ErrEmptyStatement)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDown_RollsBackLatestMigration(t *testing.T) {
	dir := writeMigrations(t, map[string]string{
		"0001_foo.up.sql":   "X",
		"0001_foo.down.sql": "Y",
	})
	mgr, mock := newManager(t, dir)

	expectCurrent(mock, int64(1))
	mock.ExpectBegin()
	mock.ExpectExec("^Y$").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(deleteSQL)).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, mgr.Down(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDown_NothingApplied(t *testing.T) {
	dir := writeMigrations(t, map[string]string{"0001_foo.up.sql": "X"})
	mgr, mock := newManager(t, dir)

	expectCurrent(mock, nil)

	require.NoError(t, mgr.Down(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDown_UnknownVersion(t *testing.T) {
	dir := writeMigrations(t, map[string]string{"0001_foo.up.sql": "X"})
	mgr, mock := newManager(t, dir)

	expectCurrent(mock, int64(9))

	err := mgr.Down(context.Background())
	require.EqualError(t, err, "migration not found for version 9")
}

func TestReset_RevertsThenReapplies(t *testing.T) {
	dir := writeMigrations(t, map[string]string{
		"0001_a.up.sql":   "A1",
		"0001_a.down.sql": "A0",
		"0002_b.up.sql":   "B1",
		"0002_b.down.sql": "B0",
	})
	mgr, mock := newManager(t, dir)

	expectCurrent(mock, int64(2))
	for _, step := range []struct {
		sql     string
		version int
	}{{"B0", 2}, {"A0", 1}} {
		mock.ExpectBegin()
		mock.ExpectExec("^" + step.sql + "$").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta(deleteSQL)).
			WithArgs(step.version).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
	}
	expectCurrent(mock, nil)
	for _, step := range []struct {
		sql     string
		version int
	}{{"A1", 1}, {"B1", 2}} {
		mock.ExpectBegin()
		mock.ExpectExec("^" + step.sql + "$").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta(recordSQL)).
			WithArgs(step.version).
			WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(step.version))
		mock.ExpectCommit()
	}

	require.NoError(t, mgr.Reset(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStatus(t *testing.T) {
	dir := writeMigrations(t, map[string]string{
		"0001_a.up.sql": "A1",
		"0002_b.up.sql": "B1",
		"README.md":     "ignored",
	})
	mgr, mock := newManager(t, dir)
	require.Len(t, mgr.Migrations(), 2)

	expectCurrent(mock, int64(1))

	status, err := mgr.Status(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Current version: 1\n0001_a: applied\n0002_b: pending", status)
}

func TestLoadMigrations_OrdersByVersion(t *testing.T) {
	dir := writeMigrations(t, map[string]string{
		"10_late.up.sql":        "L",
		"2_early.up.sql":        "E",
		"2_early.down.sql":      "e",
		"notes.sql":             "skip",
		"0003_mid.sideways.sql": "skip",
	})
	require.NoError(t, os.Mkdir(filepath.Join(dir, "0004_dir.up.sql"), 0755))

	migs, err := loadMigrations(context.Background(), DirSource{Dir: dir})
	require.NoError(t, err)
	require.Equal(t, []Migration{
		{Version: 2, Name: "early", UpSQL: "E", DownSQL: "e"},
		{Version: 10, Name: "late", UpSQL: "L"},
	}, migs)
}

func TestNewManager_MissingDir(t *testing.T) {
	_, err := NewManager(context.Background(), runtime.New(), DirSource{Dir: filepath.Join(t.TempDir(), "nope")})
	require.Error(t, err)
	require.Contains(t, err.Error(), "read migrations dir")
}
