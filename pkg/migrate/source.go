package migrate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Source lists and reads migration files by base name.
type Source interface {
	List(ctx context.Context) ([]string, error)
	Read(ctx context.Context, name string) ([]byte, error)
}

// DirSource reads migrations from a local directory.
type DirSource struct {
	Dir string
}

func (s DirSource) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

func (s DirSource) Read(ctx context.Context, name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.Dir, name))
}

// OpenSource picks a Source for location: s3://bucket/prefix goes to S3,
// anything else is treated as a local directory.
func OpenSource(ctx context.Context, location string, cfg S3Config) (Source, error) {
	if strings.HasPrefix(location, "s3://") {
		rest := strings.TrimPrefix(location, "s3://")
		bucket, prefix, _ := strings.Cut(rest, "/")
		if bucket == "" {
			return nil, fmt.Errorf("invalid S3 location %q", location)
		}
		client, err := NewS3Client(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewS3Source(client, bucket, prefix), nil
	}
	return DirSource{Dir: strings.TrimPrefix(location, "file://")}, nil
}

var fileRe = regexp.MustCompile(`^(\d+)_(.+)\.(up|down)\.sql$`)

// loadMigrations reads .up.sql/.down.sql files and organizes them by version
func loadMigrations(ctx context.Context, src Source) ([]Migration, error) {
	names, err := src.List(ctx)
	if err != nil {
		return nil, err
	}
	tmp := map[int]*Migration{}
	for _, name := range names {
		matches := fileRe.FindStringSubmatch(name)
		if len(matches) != 4 {
			continue
		}
		ver, err := strconv.Atoi(matches[1])
		if err != nil {
			return nil, fmt.Errorf("parse version of %s: %w", name, err)
		}
		data, err := src.Read(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		mig, exists := tmp[ver]
		if !exists {
			mig = &Migration{Version: ver, Name: matches[2]}
			tmp[ver] = mig
		}
		if matches[3] == "up" {
			mig.UpSQL = string(data)
		} else {
			mig.DownSQL = string(data)
		}
	}

	versions := make([]int, 0, len(tmp))
	for v := range tmp {
		versions = append(versions, v)
	}
	sort.Ints(versions)
	result := make([]Migration, len(versions))
	for i, v := range versions {
		result[i] = *tmp[v]
	}
	return result, nil
}
