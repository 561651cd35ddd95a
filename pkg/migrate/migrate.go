package migrate

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/TechXTT/sqlkit/pkg/ddl"
	"github.com/TechXTT/sqlkit/pkg/query"
	"github.com/TechXTT/sqlkit/pkg/runtime"
)

// VersionTable records applied migration versions.
const VersionTable = "schema_migrations"

// Migration holds one versioned migration
type Migration struct {
	Version int
	Name    string
	UpSQL   string
	DownSQL string
}

// Manager applies and rolls back migrations
type Manager struct {
	db         *runtime.Database
	migrations []Migration

	// Out receives progress lines. Defaults to os.Stdout.
	Out io.Writer
}

// NewManager loads all migrations from src.
func NewManager(ctx context.Context, db *runtime.Database, src Source) (*Manager, error) {
	migrations, err := loadMigrations(ctx, src)
	if err != nil {
		return nil, err
	}
	return &Manager{db: db, migrations: migrations, Out: os.Stdout}, nil
}

// Migrations returns the loaded migrations in version order.
func (m *Manager) Migrations() []Migration {
	return append([]Migration(nil), m.migrations...)
}

// EnsureVersionTable creates schema_migrations if missing
func (m *Manager) EnsureVersionTable(ctx context.Context) error {
	t := ddl.NewCreateTable(VersionTable, false)
	t.Bigint("version").PrimaryKey()
	_, err := m.db.Execute(ctx, t)
	return err
}

// CurrentVersion returns the highest applied migration version, 0 if none.
func (m *Manager) CurrentVersion(ctx context.Context) (int, error) {
	records, err := m.db.Query(ctx, query.SelectFrom(VersionTable).Columns("MAX(version)"))
	if err != nil {
		return 0, err
	}
	if len(records) == 0 || records[0].At(0) == nil {
		return 0, nil
	}
	v, ok := records[0].Int64(0)
	if !ok {
		return 0, fmt.Errorf("unexpected version value %v", records[0].At(0))
	}
	return int(v), nil
}

// apply runs stmts in one transaction and turns a rollback into an error.
func (m *Manager) apply(ctx context.Context, label string, stmts ...query.Statement) error {
	var cause string
	tx := m.db.Transaction(stmts...).OnRollback(func(c string) { cause = c })
	if err := tx.Execute(ctx); err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}
	if tx.State() == runtime.TxRolledBack {
		return fmt.Errorf("%s: %s: %w", label, cause, tx.Err())
	}
	return nil
}

func (m *Manager) up(ctx context.Context, mig Migration) error {
	fmt.Fprintf(m.Out, "Applying %04d_%s.up.sql\n", mig.Version, mig.Name)
	return m.apply(ctx, fmt.Sprintf("apply up %d", mig.Version),
		query.Raw(mig.UpSQL),
		query.InsertInto(VersionTable).Columns("version").Values(mig.Version),
	)
}

func (m *Manager) down(ctx context.Context, mig Migration) error {
	fmt.Fprintf(m.Out, "Rolling back %04d_%s.down.sql\n", mig.Version, mig.Name)
	return m.apply(ctx, fmt.Sprintf("apply down %d", mig.Version),
		query.Raw(mig.DownSQL),
		query.DeleteFrom(VersionTable).Where(query.Eq("version", mig.Version)),
	)
}

// Up applies all pending migrations
func (m *Manager) Up(ctx context.Context) error {
	if err := m.EnsureVersionTable(ctx); err != nil {
		return err
	}
	current, err := m.CurrentVersion(ctx)
	if err != nil {
		return err
	}
	for _, mig := range m.migrations {
		if mig.Version <= current {
			continue
		}
		if err := m.up(ctx, mig); err != nil {
			return err
		}
	}
	return nil
}

// Down rolls back the latest migration
func (m *Manager) Down(ctx context.Context) error {
	if err := m.EnsureVersionTable(ctx); err != nil {
		return err
	}
	current, err := m.CurrentVersion(ctx)
	if err != nil {
		return err
	}
	if current == 0 {
		fmt.Fprintln(m.Out, "No migrations to roll back.")
		return nil
	}
	for i := len(m.migrations) - 1; i >= 0; i-- {
		if m.migrations[i].Version == current {
			return m.down(ctx, m.migrations[i])
		}
	}
	return fmt.Errorf("migration not found for version %d", current)
}

// Reset rolls back every applied migration, newest first, then reapplies all.
func (m *Manager) Reset(ctx context.Context) error {
	if err := m.EnsureVersionTable(ctx); err != nil {
		return err
	}
	current, err := m.CurrentVersion(ctx)
	if err != nil {
		return err
	}
	for i := len(m.migrations) - 1; i >= 0; i-- {
		if m.migrations[i].Version > current {
			continue
		}
		if err := m.down(ctx, m.migrations[i]); err != nil {
			return err
		}
	}
	return m.Up(ctx)
}

// Status reports the current version and whether each migration is applied.
func (m *Manager) Status(ctx context.Context) (string, error) {
	if err := m.EnsureVersionTable(ctx); err != nil {
		return "", err
	}
	current, err := m.CurrentVersion(ctx)
	if err != nil {
		return "", err
	}
	lines := []string{fmt.Sprintf("Current version: %d", current)}
	for _, mig := range m.migrations {
		state := "pending"
		if mig.Version <= current {
			state = "applied"
		}
		lines = append(lines, fmt.Sprintf("%04d_%s: %s", mig.Version, mig.Name, state))
	}
	return strings.Join(lines, "\n"), nil
}
