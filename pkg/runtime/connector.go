package runtime

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/TechXTT/sqlkit/pkg/query"
)

// Config describes how to reach the backend.
type Config struct {
	URL      string
	Username string
	Password string
	// Driver overrides the database/sql driver derived from URL.
	Driver          string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// target is a resolved driver name, data source name and dialect.
type target struct {
	driver  string
	dsn     string
	dialect query.Dialect
}

func resolve(cfg Config) (target, error) {
	raw := strings.TrimSpace(cfg.URL)
	if raw == "" {
		return target{}, fmt.Errorf("connection url is empty")
	}
	t := target{driver: cfg.Driver, dsn: raw, dialect: query.DialectFromURL(raw)}
	switch {
	case t.dialect == query.PostgreSQL:
		dsn, err := postgresDSN(raw, cfg.Username, cfg.Password)
		if err != nil {
			return target{}, err
		}
		t.dsn = dsn
		if t.driver == "" {
			t.driver = "postgres"
		}
	case strings.HasPrefix(raw, "jdbc:duckdb:"), strings.HasPrefix(raw, "duckdb:"):
		t.dsn = strings.TrimPrefix(strings.TrimPrefix(raw, "jdbc:"), "duckdb:")
		if t.driver == "" {
			t.driver = "duckdb"
		}
	case t.dialect == query.H2:
		t.dsn = strings.TrimPrefix(raw, "jdbc:h2:")
	}
	if t.driver == "" {
		return target{}, fmt.Errorf("%w: %s", ErrUnknownDriver, raw)
	}
	return t, nil
}

// postgresDSN turns jdbc:postgresql:, postgres:// or postgresql:// URLs into
// a lib/pq URL carrying the credentials.
func postgresDSN(raw, user, password string) (string, error) {
	dsn := strings.TrimPrefix(raw, "jdbc:")
	if !strings.Contains(dsn, "://") {
		dsn = "postgres:///" + strings.TrimPrefix(dsn, "postgresql:")
	}
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("parse postgres url: %w", err)
	}
	if user != "" {
		if password != "" {
			u.User = url.UserPassword(user, password)
		} else {
			u.User = url.User(user)
		}
	}
	// Ensure SSL mode is disabled by default if not specified.
	q := u.Query()
	if q.Get("sslmode") == "" {
		q.Set("sslmode", "disable")
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// Connect opens the pool described by cfg and verifies it with a ping.
func (d *Database) Connect(ctx context.Context, cfg Config) error {
	t, err := resolve(cfg)
	if err != nil {
		return err
	}
	pool, err := sql.Open(t.driver, t.dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		pool.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		pool.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		pool.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if err := pool.PingContext(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	d.mu.Lock()
	old := d.pool
	d.pool, d.dialect = pool, t.dialect
	d.mu.Unlock()
	if old != nil {
		old.Close()
	}
	d.log.Debug("connected", "driver", t.driver, "dialect", t.dialect.String())
	return nil
}

// Disconnect closes the pool. Later calls fail with ErrNotConnected until
// Connect succeeds again.
func (d *Database) Disconnect() error {
	d.mu.Lock()
	pool := d.pool
	d.pool, d.dialect = nil, query.Generic
	d.mu.Unlock()
	if pool == nil {
		return nil
	}
	d.log.Debug("disconnected")
	return pool.Close()
}

// Connect is shorthand for New followed by Database.Connect.
func Connect(ctx context.Context, cfg Config, opts ...Option) (*Database, error) {
	d := New(opts...)
	if err := d.Connect(ctx, cfg); err != nil {
		return nil, err
	}
	return d, nil
}
