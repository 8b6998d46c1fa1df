package storage

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
)

//go:embed migrations/*
var migrationsFS embed.FS

func (p *ProviderSQL) Migrate() {
	files, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		p.logger.Error("failed to read embedded migrations", "error", err)
		return
	}
	// ReadDir sorts by name; the NNN_ prefix keeps order stable
	for _, file := range files {
		if !strings.HasSuffix(file.Name(), ".up.sql") {
			continue
		}
		if err := p.executeMigration(file.Name()); err != nil {
			p.logger.Error("migration failed", "file", file.Name(), "error", err)
			return
		}
	}
	p.logger.Info("migrations applied", "count", len(files))
}

func (p *ProviderSQL) executeMigration(fileName string) error {
	content, err := fs.ReadFile(migrationsFS, "migrations/"+fileName)
	if err != nil {
		return fmt.Errorf("failed to read migration file %s: %w", fileName, err)
	}
	if _, err := p.db.Exec(string(content)); err != nil {
		return fmt.Errorf("failed to execute SQL: %w", err)
	}
	return nil
}
