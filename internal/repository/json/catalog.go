package json

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Amirali-Amirifar/goserve/internal/models"
)

type catalogFile struct {
	Entries []models.Entry `json:"entries"`
}

// Repository reads and writes a catalog kept in a single JSON file.
type Repository struct {
	path string
}

func New(path string) *Repository {
	return &Repository{path: path}
}

func (r *Repository) LoadEntries() ([]models.Entry, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("error reading catalog file: %w", err)
	}

	var file catalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("error unmarshaling catalog: %w", err)
	}
	return file.Entries, nil
}

// SaveEntries replaces the whole file.
func (r *Repository) SaveEntries(entries []models.Entry) error {
	if entries == nil {
		entries = []models.Entry{}
	}
	data, err := json.MarshalIndent(catalogFile{Entries: entries}, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling catalog: %w", err)
	}

	if err := os.WriteFile(r.path, data, 0644); err != nil {
		return fmt.Errorf("error writing catalog file: %w", err)
	}
	return nil
}

func (r *Repository) Close() error {
	return nil
}
