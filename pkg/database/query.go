package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// QueryOutcome is either a row set (Columns/Rows) or an affected-row
// count; Mutation selects which half is meaningful.
type QueryOutcome struct {
	Columns      []string
	Rows         [][]string
	Mutation     bool
	RowsAffected int64
}

// IsReadQuery classifies a statement by its leading keyword: trimmed,
// case-folded text starting with select or pragma is row-producing,
// everything else runs as a mutation. The heuristic is deliberately
// coarse: "insert ... returning" lands on the mutation path and a
// side-effecting pragma on the read path. That coarseness is part of the
// run_query contract.
func IsReadQuery(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	return strings.HasPrefix(q, "select") || strings.HasPrefix(q, "pragma")
}

// RunQuery executes the SQL text verbatim, with no parsing or binding.
func (d *DB) RunQuery(ctx context.Context, query string) (*QueryOutcome, error) {
	var out *QueryOutcome
	err := d.withConn(func(conn *sql.DB) error {
		if !IsReadQuery(query) {
			res, err := conn.ExecContext(ctx, query)
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			out = &QueryOutcome{Mutation: true, RowsAffected: n}
			return nil
		}

		rows, err := conn.QueryContext(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()

		cols, err := rows.Columns()
		if err != nil {
			return err
		}
		out = &QueryOutcome{Columns: cols}
		for rows.Next() {
			raw := make([]any, len(cols))
			ptrs := make([]any, len(cols))
			for i := range raw {
				ptrs[i] = &raw[i]
			}
			if err := rows.Scan(ptrs...); err != nil {
				return err
			}
			cells := make([]string, len(cols))
			for i, v := range raw {
				cells[i] = formatCell(v)
			}
			out.Rows = append(out.Rows, cells)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// formatCell renders a scanned value for the reply grid: NULL as None,
// text and blobs as their bytes, everything else through fmt.
func formatCell(v any) string {
	switch v := v.(type) {
	case nil:
		return "None"
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
