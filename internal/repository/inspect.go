package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/taxfree/card-wallet/internal/models"
)

// Schema inspection for the admin database viewer. Identifiers coming from
// the client are never interpolated directly: a name is first resolved
// against sqlite_master, and only a catalog-confirmed name is quoted into
// the dynamic statement.

// Column describes one column of an inspected table
type Column struct {
	Name    string  `json:"name"`
	Type    string  `json:"type"`
	NotNull bool    `json:"notnull"`
	Default *string `json:"dflt_value"`
	Primary bool    `json:"pk"`
}

// Tables returns the user table names of db, sorted
func Tables(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return names, nil
}

// TableInfo returns the column layout of a table, or ErrNotFound for an
// unknown name.
func TableInfo(db *sql.DB, table string) ([]Column, error) {
	if err := resolveTable(db, table); err != nil {
		return nil, err
	}

	rows, err := db.Query("SELECT name, type, [notnull], dflt_value, pk FROM pragma_table_info(?)", table)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect table %q: %w", table, err)
	}
	defer rows.Close()

	cols := []Column{}
	for rows.Next() {
		var c Column
		var notNull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&c.Name, &c.Type, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		c.NotNull = notNull == 1
		c.Primary = pk > 0
		if dflt.Valid {
			c.Default = &dflt.String
		}
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to inspect table %q: %w", table, err)
	}
	return cols, nil
}

// TableRows returns up to limit rows of a table as generic maps, or
// ErrNotFound for an unknown name.
func TableRows(db *sql.DB, table string, limit int) ([]map[string]any, error) {
	if err := resolveTable(db, table); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 1000 {
		limit = 1000
	}

	rows, err := db.Query(fmt.Sprintf("SELECT * FROM %s LIMIT ?", quoteIdent(table)), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read table %q: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %q: %w", table, err)
	}

	out := []map[string]any{}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row of %q: %w", table, err)
		}
		record := make(map[string]any, len(cols))
		for i, col := range cols {
			v := values[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			record[col] = v
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read table %q: %w", table, err)
	}
	return out, nil
}

// resolveTable confirms the table exists in the catalog.
func resolveTable(db *sql.DB, table string) error {
	var name string
	err := db.QueryRow(`
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name = ?`, table).Scan(&name)
	if err == sql.ErrNoRows {
		return models.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to resolve table %q: %w", table, err)
	}
	return nil
}

// quoteIdent double-quotes a SQL identifier, escaping embedded quotes.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
