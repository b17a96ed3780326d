package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	_ "modernc.org/sqlite"
)

// ErrBadName marks a database name that is unusable or protected.
var ErrBadName = errors.New("bad database name")

// validDBName keeps database names safe to use as file names.
var validDBName = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Registry owns one SQLite handle per logical database. Handles are opened
// lazily, cached for the life of the process, and closed together at
// shutdown. It replaces ad-hoc module-level connection maps: the registry is
// constructed once at startup and injected into whoever needs it.
type Registry struct {
	dataDir   string
	defaultDB string

	mu  sync.Mutex
	dbs map[string]*sql.DB
}

// NewRegistry creates the registry and ensures the data directory exists.
func NewRegistry(dataDir, defaultDB string) (*Registry, error) {
	if !validDBName.MatchString(defaultDB) {
		return nil, fmt.Errorf("invalid default database name %q", defaultDB)
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	return &Registry{
		dataDir:   dataDir,
		defaultDB: defaultDB,
		dbs:       make(map[string]*sql.DB),
	}, nil
}

// DefaultName returns the name of the default database.
func (r *Registry) DefaultName() string {
	return r.defaultDB
}

// Default returns the handle for the default database, opening it if needed.
func (r *Registry) Default() (*sql.DB, error) {
	return r.Open(r.defaultDB)
}

// Open returns the cached handle for name, creating the database file on
// first use. Foreign keys are enabled on every connection.
func (r *Registry) Open(name string) (*sql.DB, error) {
	if !validDBName.MatchString(name) {
		return nil, fmt.Errorf("%w: invalid database name %q", ErrBadName, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if db, ok := r.dbs[name]; ok {
		return db, nil
	}

	path := filepath.Join(r.dataDir, name+".db")
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %q: %w", name, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database %q: %w", name, err)
	}

	r.dbs[name] = db
	return db, nil
}

// List returns the names of all database files in the data directory.
func (r *Registry) List() ([]string, error) {
	entries, err := os.ReadDir(r.dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data dir: %w", err)
	}
	names := []string{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".db") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".db"))
	}
	sort.Strings(names)
	return names, nil
}

// Cached returns the names of databases with an open handle.
func (r *Registry) Cached() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.dbs))
	for name := range r.dbs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create opens (and thereby creates) a database file with the given name.
func (r *Registry) Create(name string) error {
	_, err := r.Open(name)
	return err
}

// Drop closes the handle for name and deletes its file. The default
// database is never dropped.
func (r *Registry) Drop(name string) error {
	if !validDBName.MatchString(name) {
		return fmt.Errorf("%w: invalid database name %q", ErrBadName, name)
	}
	if name == r.defaultDB {
		return fmt.Errorf("%w: cannot drop the default database", ErrBadName)
	}

	r.mu.Lock()
	if db, ok := r.dbs[name]; ok {
		db.Close()
		delete(r.dbs, name)
	}
	r.mu.Unlock()

	path := filepath.Join(r.dataDir, name+".db")
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete database %q: %w", name, err)
	}
	return nil
}

// Close closes every open handle.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var firstErr error
	for name, db := range r.dbs {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close database %q: %w", name, err)
		}
		delete(r.dbs, name)
	}
	return firstErr
}
