package mcpserver_test

import (
	"context"
	"database/sql"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
	_ "github.com/mattn/go-sqlite3"

	"github.com/localtools/sqlite-mcp/pkg/database"
	"github.com/localtools/sqlite-mcp/pkg/mcpserver"
)

func newTestClient(t *testing.T, stmts ...string) *client.Client {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := conn.Exec("PRAGMA user_version = 1"); err != nil {
		t.Fatal(err)
	}
	for _, stmt := range stmts {
		if _, err := conn.Exec(stmt); err != nil {
			t.Fatalf("setup statement %q failed: %v", stmt, err)
		}
	}
	conn.Close()

	log := slog.New(slog.DiscardHandler)
	server := mcpserver.New(database.New(path, log), log, "test")
	tx := transport.NewInProcessTransport(server)
	mcpClient := client.NewClient(tx)
	if _, err := mcpClient.Initialize(context.Background(), mcp.InitializeRequest{}); err != nil {
		t.Fatal(err)
	}
	return mcpClient
}

func callTool(t *testing.T, c *client.Client, name string, args map[string]string) string {
	t.Helper()

	req := mcp.CallToolRequest{
		Request: mcp.Request{Method: "tools/call"},
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
	res, err := c.CallTool(context.Background(), req)
	if err != nil {
		t.Fatalf("%s failed: %v", name, err)
	}
	if len(res.Content) != 1 {
		t.Fatalf("expected exactly one content segment, got %d", len(res.Content))
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	if text.Text == "" {
		t.Fatal("expected a non-empty reply")
	}
	return text.Text
}

func TestToolDiscovery(t *testing.T) {
	mcpClient := newTestClient(t)

	res, err := mcpClient.ListTools(context.Background(), mcp.ListToolsRequest{})
	if err != nil {
		t.Fatalf("tools/list failed: %v", err)
	}

	want := map[string]string{
		"list_tables":    "List all tables in the database",
		"describe_table": "Get table structure/schema",
		"run_query":      "Execute SQL query",
	}
	if len(res.Tools) != len(want) {
		t.Fatalf("expected %d tools, got %d", len(want), len(res.Tools))
	}
	for _, tool := range res.Tools {
		desc, ok := want[tool.Name]
		if !ok {
			t.Errorf("unexpected tool %q", tool.Name)
			continue
		}
		if tool.Description != desc {
			t.Errorf("tool %q description: got %q, want %q", tool.Name, tool.Description, desc)
		}
	}
}

func TestListTablesTool(t *testing.T) {
	mcpClient := newTestClient(t,
		"CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT)",
		"CREATE TABLE orders (id INTEGER PRIMARY KEY)",
	)

	got := callTool(t, mcpClient, "list_tables", nil)
	want := "Tables in database:\n- users\n- orders"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestListTablesToolEmptyDatabase(t *testing.T) {
	mcpClient := newTestClient(t)

	got := callTool(t, mcpClient, "list_tables", nil)
	if want := "Tables in database:\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDescribeTableTool(t *testing.T) {
	mcpClient := newTestClient(t,
		"CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT NOT NULL, age INTEGER DEFAULT 30)",
	)

	got := callTool(t, mcpClient, "describe_table", map[string]string{"table_name": "users"})
	want := "Schema for table 'users':\n" +
		"- id: INTEGER (PRIMARY KEY)\n" +
		"- name: TEXT NOT NULL\n" +
		"- age: INTEGER DEFAULT 30\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDescribeTableToolNotFound(t *testing.T) {
	mcpClient := newTestClient(t)

	got := callTool(t, mcpClient, "describe_table", map[string]string{"table_name": "ghost"})
	if want := "Table 'ghost' not found"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRunQueryToolRoundTrip(t *testing.T) {
	mcpClient := newTestClient(t, "CREATE TABLE t (x INTEGER)")

	got := callTool(t, mcpClient, "run_query", map[string]string{
		"query": "INSERT INTO t (x) VALUES (1)",
	})
	if want := "Query executed successfully. 1 rows affected."; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	got = callTool(t, mcpClient, "run_query", map[string]string{
		"query": "SELECT count(*) AS n FROM t",
	})
	want := "Query results:\n" +
		"n\n" +
		"-\n" +
		"1\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRunQueryToolNoResults(t *testing.T) {
	mcpClient := newTestClient(t, "CREATE TABLE t (x INTEGER)")

	got := callTool(t, mcpClient, "run_query", map[string]string{
		"query": "SELECT * FROM t",
	})
	if want := "Query executed successfully. No results returned."; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRunQueryToolEngineError(t *testing.T) {
	mcpClient := newTestClient(t)

	got := callTool(t, mcpClient, "run_query", map[string]string{
		"query": "SELEC broken",
	})
	if !strings.HasPrefix(got, "SQLite error: ") {
		t.Errorf("got %q, want a SQLite error reply", got)
	}
}
