package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Amirali-Amirifar/goserve/internal/models"
	"github.com/Amirali-Amirifar/goserve/internal/repository"
	"github.com/Amirali-Amirifar/goserve/internal/repository/json"
	"github.com/Amirali-Amirifar/goserve/internal/repository/sqliteDb"
	log "github.com/sirupsen/logrus"
)

var ErrUnknownCatalogFormat = errors.New("unknown catalog file format")

// DefaultCatalog is the built-in download table. Paths are relative to the
// base directory.
func DefaultCatalog() []models.Entry {
	names := []string{
		"wekeza-stack-images.tar",
		"wekeza-postgres-volume.tgz",
		"wekeza-redis-volume.tgz",
		"wekeza-changed-files.zip",
		"wekeza-changes.patch",
	}
	entries := make([]models.Entry, 0, len(names))
	for _, name := range names {
		entries = append(entries, models.Entry{Name: name, Path: name})
	}
	return entries
}

// OpenCatalogRepository picks the repository implementation from the file
// extension. With mustExist set, a missing file is an error instead of
// being created empty.
func OpenCatalogRepository(path string, mustExist bool) (repository.CatalogRepository, error) {
	if mustExist {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("catalog file %s: %w", path, err)
		}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return json.New(path), nil
	case ".db", ".sqlite", ".sqlite3":
		repo, err := sqliteDb.New(path)
		if err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCatalogFormat, path)
	}
}

// LoadCatalog builds the immutable catalog for the server, from the
// configured catalog file or from the built-in table.
func LoadCatalog(cfg Config) (*models.Catalog, error) {
	entries := DefaultCatalog()
	if cfg.Catalog != "" {
		repo, err := OpenCatalogRepository(cfg.Catalog, true)
		if err != nil {
			return nil, err
		}
		defer repo.Close()

		entries, err = repo.LoadEntries()
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog from %s: %w", cfg.Catalog, err)
		}
		log.Infof("Loaded %d catalog entries from %s", len(entries), cfg.Catalog)
	}

	catalog, err := models.NewCatalog(cfg.BaseDir, entries)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return catalog, nil
}

// WriteDefaultCatalog seeds a catalog file with the built-in table.
func WriteDefaultCatalog(path string) error {
	repo, err := OpenCatalogRepository(path, false)
	if err != nil {
		return err
	}
	defer repo.Close()

	if err := repo.SaveEntries(DefaultCatalog()); err != nil {
		return fmt.Errorf("failed to write catalog to %s: %w", path, err)
	}
	return nil
}
