package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/TechXTT/sqlkit/pkg/migrate"
	"github.com/TechXTT/sqlkit/pkg/runtime"
	"github.com/joho/godotenv"
)

// Environment variables read by Load.
const (
	EnvURL             = "DATABASE_URL"
	EnvUser            = "DATABASE_USER"
	EnvPassword        = "DATABASE_PASSWORD"
	EnvDriver          = "DATABASE_DRIVER"
	EnvMaxOpenConns    = "DATABASE_MAX_OPEN_CONNS"
	EnvConnMaxLifetime = "DATABASE_CONN_MAX_LIFETIME"
	EnvMigrationsDir   = "MIGRATIONS_DIR"
	EnvAWSRegion       = "AWS_REGION"
	EnvS3Endpoint      = "S3_ENDPOINT"
	EnvS3AccessKey     = "S3_ACCESS_KEY_ID"
	EnvS3SecretKey     = "S3_SECRET_ACCESS_KEY"
)

// Config holds all settings for the CLI and migrations.
type Config struct {
	Database      runtime.Config
	MigrationsDir string
	S3            migrate.S3Config
}

// Load reads envFile (if it exists) into the environment and builds a Config
// from it. Variables already set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	url := os.Getenv(EnvURL)
	if url == "" {
		return nil, fmt.Errorf("%s is not set", EnvURL)
	}
	cfg := &Config{
		Database: runtime.Config{
			URL:      url,
			Username: os.Getenv(EnvUser),
			Password: os.Getenv(EnvPassword),
			Driver:   os.Getenv(EnvDriver),
		},
		MigrationsDir: "migrations",
		S3: migrate.S3Config{
			Region:    os.Getenv(EnvAWSRegion),
			Endpoint:  os.Getenv(EnvS3Endpoint),
			AccessKey: os.Getenv(EnvS3AccessKey),
			SecretKey: os.Getenv(EnvS3SecretKey),
		},
	}
	if dir := os.Getenv(EnvMigrationsDir); dir != "" {
		cfg.MigrationsDir = dir
	}
	if v := os.Getenv(EnvMaxOpenConns); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvMaxOpenConns, err)
		}
		cfg.Database.MaxOpenConns = n
	}
	if v := os.Getenv(EnvConnMaxLifetime); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvConnMaxLifetime, err)
		}
		cfg.Database.ConnMaxLifetime = d
	}
	return cfg, nil
}
