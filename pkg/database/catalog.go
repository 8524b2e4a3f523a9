package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Column is one row of SQLite's table_info reflection, in declaration
// order. Default is NULL when the column has no default expression.
type Column struct {
	CID        int
	Name       string
	Type       string
	NotNull    bool
	Default    sql.NullString
	PrimaryKey bool
}

// ListTables returns the names of all tables in the catalog's own order,
// not re-sorted.
func (d *DB) ListTables(ctx context.Context) ([]string, error) {
	var names []string
	err := d.withConn(func(conn *sql.DB) error {
		rows, err := conn.QueryContext(ctx, "SELECT name FROM sqlite_master WHERE type='table'")
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				return err
			}
			names = append(names, name)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

// TableColumns reflects a table's schema via PRAGMA table_info. PRAGMA
// arguments cannot be bound, so the name is interpolated as-is; that makes
// this an injection surface for hostile table names, the same one the tool
// documents. A name matching no table yields zero columns rather than an
// error, indistinguishable from a table that truly has none.
func (d *DB) TableColumns(ctx context.Context, table string) ([]Column, error) {
	var cols []Column
	err := d.withConn(func(conn *sql.DB) error {
		rows, err := conn.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var (
				c           Column
				notnull, pk int
			)
			if err := rows.Scan(&c.CID, &c.Name, &c.Type, &notnull, &c.Default, &pk); err != nil {
				return err
			}
			c.NotNull = notnull != 0
			c.PrimaryKey = pk != 0
			cols = append(cols, c)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return cols, nil
}
