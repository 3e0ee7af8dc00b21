package auth

import (
	"embed"
	"io/fs"
	"sort"
	"strings"
)

// MigrationsDir is the goose directory inside MigrationsFS
const MigrationsDir = "data/sql/migrations"

//go:embed data/sql/migrations/*.sql
var migrationsFS embed.FS

// MigrationsFS returns the embedded student and schedule migrations
func MigrationsFS() fs.FS {
	return migrationsFS
}

// MigrationFiles lists the embedded migration file names in apply order
func MigrationFiles() ([]string, error) {
	entries, err := fs.ReadDir(migrationsFS, MigrationsDir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
