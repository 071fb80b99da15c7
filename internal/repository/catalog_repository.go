package repository

import "github.com/Amirali-Amirifar/goserve/internal/models"

// CatalogRepository is an external source of catalog entries. It is read
// once at startup; SaveEntries exists for seeding the file.
type CatalogRepository interface {
	LoadEntries() ([]models.Entry, error)
	SaveEntries(entries []models.Entry) error
	Close() error
}
