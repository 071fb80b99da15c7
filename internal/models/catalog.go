package models

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// IndexName is the literal path that renders the index page alongside "/".
const IndexName = "index.html"

// BytesPerMiB converts byte counts to the binary megabytes shown in listings.
const BytesPerMiB = 1024 * 1024

var (
	ErrEmptyName     = errors.New("catalog entry has an empty name")
	ErrReservedName  = errors.New("catalog entry name is reserved")
	ErrDuplicateName = errors.New("duplicate catalog entry name")
	ErrEmptyPath     = errors.New("catalog entry has an empty path")
)

// Entry maps a public download name to a file on local storage.
type Entry struct {
	Name string `json:"name" sqliteDb:"name,primary"`
	Path string `json:"path" sqliteDb:"path"`
}

// EntryStatus is an entry as seen on disk at the moment it was inspected.
type EntryStatus struct {
	Entry
	Available bool
	Size      int64
}

// SizeMiB formats the size in MiB with two decimals.
func (s EntryStatus) SizeMiB() string {
	return FormatMiB(s.Size)
}

// Catalog is the fixed name -> path table. It is built once at startup and
// never mutated, so it is safe to share between request goroutines.
type Catalog struct {
	entries []Entry
	byName  map[string]int
}

// NewCatalog validates entries and resolves relative paths against baseDir.
// Entry order is kept and drives the index listing.
func NewCatalog(baseDir string, entries []Entry) (*Catalog, error) {
	c := &Catalog{
		entries: make([]Entry, 0, len(entries)),
		byName:  make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		switch {
		case e.Name == "":
			return nil, ErrEmptyName
		case e.Name == IndexName:
			return nil, fmt.Errorf("%w: %s", ErrReservedName, e.Name)
		case e.Path == "":
			return nil, fmt.Errorf("%w: %s", ErrEmptyPath, e.Name)
		}
		if _, exists := c.byName[e.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, e.Name)
		}

		path := e.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		c.byName[e.Name] = len(c.entries)
		c.entries = append(c.entries, Entry{Name: e.Name, Path: filepath.Clean(path)})
	}
	return c, nil
}

// Lookup returns the backing path for name. It says nothing about whether
// the file exists.
func (c *Catalog) Lookup(name string) (string, bool) {
	i, ok := c.byName[name]
	if !ok {
		return "", false
	}
	return c.entries[i].Path, true
}

// Entries returns a copy of the catalog in its original order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c *Catalog) Len() int {
	return len(c.entries)
}

// Inspect stats every backing file. Nothing is cached: each call sees the
// current state of the disk.
func (c *Catalog) Inspect() []EntryStatus {
	statuses := make([]EntryStatus, 0, len(c.entries))
	for _, e := range c.entries {
		size, ok := StatFile(e.Path)
		statuses = append(statuses, EntryStatus{Entry: e, Available: ok, Size: size})
	}
	return statuses
}

// Available returns only the entries whose files currently exist.
func (c *Catalog) Available() []EntryStatus {
	var out []EntryStatus
	for _, s := range c.Inspect() {
		if s.Available {
			out = append(out, s)
		}
	}
	return out
}

// StatFile reports the size of a regular file at path. Directories and
// anything that cannot be stat'ed count as missing.
func StatFile(path string) (int64, bool) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return 0, false
	}
	return info.Size(), true
}

// FormatMiB renders a byte count as binary megabytes with two decimals.
func FormatMiB(size int64) string {
	return fmt.Sprintf("%.2f", float64(size)/BytesPerMiB)
}
