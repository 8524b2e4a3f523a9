package mcpserver

import (
	"fmt"
	"strings"

	"github.com/localtools/sqlite-mcp/pkg/database"
)

func renderTableList(tables []string) string {
	var b strings.Builder
	b.WriteString("Tables in database:\n")
	for i, name := range tables {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- " + name)
	}
	return b.String()
}

// renderSchema prints one line per column in declaration order. The
// suffix order is fixed: primary key, then not-null, then default.
func renderSchema(table string, cols []database.Column) string {
	if len(cols) == 0 {
		return fmt.Sprintf("Table '%s' not found", table)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Schema for table '%s':\n", table)
	for _, col := range cols {
		fmt.Fprintf(&b, "- %s: %s", col.Name, col.Type)
		if col.PrimaryKey {
			b.WriteString(" (PRIMARY KEY)")
		}
		if col.NotNull {
			b.WriteString(" NOT NULL")
		}
		if col.Default.Valid {
			b.WriteString(" DEFAULT " + col.Default.String)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderOutcome prints a mutation summary, or a grid whose dash rule is
// sized to the joined header line.
func renderOutcome(out *database.QueryOutcome) string {
	if out.Mutation {
		return fmt.Sprintf("Query executed successfully. %d rows affected.", out.RowsAffected)
	}
	if len(out.Rows) == 0 {
		return "Query executed successfully. No results returned."
	}
	header := strings.Join(out.Columns, " | ")
	var b strings.Builder
	b.WriteString("Query results:\n")
	b.WriteString(header + "\n")
	b.WriteString(strings.Repeat("-", len(header)) + "\n")
	for _, row := range out.Rows {
		b.WriteString(strings.Join(row, " | ") + "\n")
	}
	return b.String()
}
