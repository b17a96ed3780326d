package service

import (
	"database/sql"

	"github.com/taxfree/card-wallet/internal/repository"
)

// Database-viewer operations. Every call resolves the logical database name
// through the registry; table names are resolved against the catalog inside
// the repository before any dynamic statement runs.

// ListDatabases returns all logical database names
func (s *Service) ListDatabases() ([]string, error) {
	return s.registry.List()
}

// CreateDatabase creates a new logical database
func (s *Service) CreateDatabase(name string) error {
	if err := s.registry.Create(name); err != nil {
		return err
	}
	s.log.Infof("Database created: %s", name)
	return nil
}

// DropDatabase deletes a logical database and its file
func (s *Service) DropDatabase(name string) error {
	if err := s.registry.Drop(name); err != nil {
		return err
	}
	s.log.Infof("Database deleted: %s", name)
	return nil
}

// Tables lists the tables of a logical database
func (s *Service) Tables(dbName string) ([]string, error) {
	db, err := s.openDB(dbName)
	if err != nil {
		return nil, err
	}
	return repository.Tables(db)
}

// TableStructure describes the columns of a table
func (s *Service) TableStructure(dbName, table string) ([]repository.Column, error) {
	db, err := s.openDB(dbName)
	if err != nil {
		return nil, err
	}
	return repository.TableInfo(db, table)
}

// TableData returns up to 1000 rows of a table
func (s *Service) TableData(dbName, table string) ([]map[string]any, error) {
	db, err := s.openDB(dbName)
	if err != nil {
		return nil, err
	}
	return repository.TableRows(db, table, 1000)
}

func (s *Service) openDB(name string) (*sql.DB, error) {
	if name == "" {
		name = s.registry.DefaultName()
	}
	return s.registry.Open(name)
}
