package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_FromEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"DATABASE_URL=jdbc:postgresql://localhost/app\n"+
			"DATABASE_USER=bob\n"+
			"DATABASE_MAX_OPEN_CONNS=4\n"+
			"DATABASE_CONN_MAX_LIFETIME=5m\n"+
			"MIGRATIONS_DIR=s3://bucket/migrations\n"+
			"AWS_REGION=eu-west-1\n"), 0o644))
	for _, k := range []string{EnvURL, EnvUser, EnvMaxOpenConns, EnvConnMaxLifetime, EnvMigrationsDir, EnvAWSRegion} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := Load(envFile)
	require.NoError(t, err)
	require.Equal(t, "jdbc:postgresql://localhost/app", cfg.Database.URL)
	require.Equal(t, "bob", cfg.Database.Username)
	require.Equal(t, 4, cfg.Database.MaxOpenConns)
	require.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
	require.Equal(t, "s3://bucket/migrations", cfg.MigrationsDir)
	require.Equal(t, "eu-west-1", cfg.S3.Region)
}

func TestLoad_EnvironmentWins(t *testing.T) {
	t.Setenv(EnvURL, "duckdb:")
	t.Setenv(EnvMigrationsDir, "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	require.Equal(t, "duckdb:", cfg.Database.URL)
	require.Equal(t, "migrations", cfg.MigrationsDir)
}

func TestLoad_RequiresURL(t *testing.T) {
	t.Setenv(EnvURL, "")

	_, err := Load("")
	require.Error(t, err)
	require.Contains(t, err.Error(), EnvURL)
}

func TestLoad_BadNumber(t *testing.T) {
	t.Setenv(EnvURL, "duckdb:")
	t.Setenv(EnvMaxOpenConns, "many")

	_, err := Load("")
	require.Error(t, err)
}
