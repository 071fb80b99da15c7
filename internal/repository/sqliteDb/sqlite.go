package sqliteDb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Amirali-Amirifar/goserve/internal/models"
	_ "github.com/mattn/go-sqlite3"
	log "github.com/sirupsen/logrus"
)

type SQLiteRepository struct {
	Db *sql.DB
}

func New(dbPath string) (*SQLiteRepository, error) {
	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %v", err)
	}

	// Open SQLite database with WAL journaling and timeout settings
	db, err := sql.Open("sqlite3", dbPath+"?_journal=WAL&_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	// Verify database connection
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %v", err)
	}

	if err := initDB(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	return &SQLiteRepository{Db: db}, nil
}

func initDB(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS catalog (
			position INTEGER NOT NULL,
			name TEXT PRIMARY KEY,
			path TEXT NOT NULL
		)
	`)
	return err
}

func (r *SQLiteRepository) Close() error {
	return r.Db.Close()
}

// LoadEntries returns the catalog ordered by position.
func (r *SQLiteRepository) LoadEntries() ([]models.Entry, error) {
	rows, err := r.Db.Query("SELECT name, path FROM catalog ORDER BY position, name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.Entry
	for rows.Next() {
		var entry models.Entry
		if err := rows.Scan(&entry.Name, &entry.Path); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	log.Debugf("Loaded %d catalog entries from sqlite", len(entries))
	return entries, nil
}

// SaveEntries replaces the stored catalog in a single transaction.
func (r *SQLiteRepository) SaveEntries(entries []models.Entry) error {
	tx, err := r.Db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Clear existing data
	if _, err := tx.Exec("DELETE FROM catalog"); err != nil {
		return err
	}

	for i, entry := range entries {
		_, err := tx.Exec(
			"INSERT INTO catalog (position, name, path) VALUES (?, ?, ?)",
			i, entry.Name, entry.Path,
		)
		if err != nil {
			log.Errorf("Error saving catalog entry %s: %v", entry.Name, err)
			return err
		}
	}

	return tx.Commit()
}
