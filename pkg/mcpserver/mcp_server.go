// Package mcpserver registers the database tools on an MCP server and
// dispatches every call to a single text reply.
package mcpserver

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mattn/go-sqlite3"

	"github.com/localtools/sqlite-mcp/pkg/database"
)

// New builds the MCP server with the three database tools registered.
func New(db *database.DB, log *slog.Logger, version string) *server.MCPServer {
	h := &handlers{db: db, log: log}

	s := server.NewMCPServer("sqlite-mcp", version)
	s.AddTool(mcp.NewTool("list_tables",
		mcp.WithDescription("List all tables in the database"),
	), h.call)
	s.AddTool(mcp.NewTool("describe_table",
		mcp.WithDescription("Get table structure/schema"),
		mcp.WithString("table_name",
			mcp.Required(),
			mcp.Description("Name of the table to describe"),
		),
	), h.call)
	s.AddTool(mcp.NewTool("run_query",
		mcp.WithDescription("Execute SQL query"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("SQL statement to execute"),
		),
	), h.call)

	return s
}

type handlers struct {
	db  *database.DB
	log *slog.Logger
}

// call is the single entry point behind every registered tool. Every
// outcome, including engine failures, becomes a one-segment text reply;
// nothing reaches the transport as a protocol error and nothing can crash
// the serve loop.
func (h *handlers) call(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.log.Info("tool called", "tool", req.Params.Name, "arguments", req.GetArguments())
	return mcp.NewToolResultText(h.dispatch(ctx, req)), nil
}

func (h *handlers) dispatch(ctx context.Context, req mcp.CallToolRequest) string {
	var run func(context.Context) (string, error)

	switch req.Params.Name {
	case "list_tables":
		run = h.listTables
	case "describe_table":
		table := req.GetString("table_name", "")
		if table == "" {
			return "Error: table_name is required"
		}
		run = func(ctx context.Context) (string, error) { return h.describeTable(ctx, table) }
	case "run_query":
		query := req.GetString("query", "")
		if query == "" {
			return "Error: query is required"
		}
		run = func(ctx context.Context) (string, error) { return h.runQuery(ctx, query) }
	default:
		h.log.Warn("unknown tool requested", "tool", req.Params.Name)
		return "Unknown tool: " + req.Params.Name
	}

	if !h.db.Exists() {
		h.log.Error("database file not found", "path", h.db.Path())
		return "Error: Database file not found at " + h.db.Path()
	}

	text, err := run(ctx)
	if err != nil {
		return h.renderError(err)
	}
	h.log.Info("tool executed", "tool", req.Params.Name)
	return text
}

func (h *handlers) listTables(ctx context.Context) (string, error) {
	tables, err := h.db.ListTables(ctx)
	if err != nil {
		return "", err
	}
	return renderTableList(tables), nil
}

func (h *handlers) describeTable(ctx context.Context, table string) (string, error) {
	cols, err := h.db.TableColumns(ctx, table)
	if err != nil {
		return "", err
	}
	return renderSchema(table, cols), nil
}

func (h *handlers) runQuery(ctx context.Context, query string) (string, error) {
	out, err := h.db.RunQuery(ctx, query)
	if err != nil {
		return "", err
	}
	return renderOutcome(out), nil
}

func (h *handlers) renderError(err error) string {
	if errors.Is(err, database.ErrDatabaseMissing) {
		h.log.Error("database file not found", "path", h.db.Path())
		return "Error: Database file not found at " + h.db.Path()
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		h.log.Error("sqlite error", "error", err)
		return "SQLite error: " + sqliteErr.Error()
	}
	h.log.Error("unexpected error", "error", err)
	return "Error: " + err.Error()
}
