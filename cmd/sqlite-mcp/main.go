package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/mark3labs/mcp-go/server"
	flag "github.com/spf13/pflag"

	"github.com/localtools/sqlite-mcp/pkg/database"
	"github.com/localtools/sqlite-mcp/pkg/mcpserver"
)

var (
	// Set by LDFLAGS
	version = "dev"
	commit  = "none"
)

type config struct {
	ShowVersion bool
	Verbose     bool
	DBPath      string
	LogFile     string
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if cfg.ShowVersion {
		fmt.Printf("version: %s, commit: %s\n", version, commit)
		return nil
	}

	log, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	db := database.New(cfg.DBPath, log)

	log.Info("starting MCP SQLite server", "version", version)
	log.Info("database configured", "path", cfg.DBPath, "exists", db.Exists())

	srv := mcpserver.New(db, log, version)
	if err := server.ServeStdio(srv); err != nil {
		return fmt.Errorf("stdio server: %w", err)
	}
	return nil
}

func loadConfig() (config, error) {
	_ = godotenv.Load()

	var cfg config
	flag.BoolVar(&cfg.ShowVersion, "version", false, "show version and exit")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "verbose mode - show debug logs")
	flag.StringVar(&cfg.DBPath, "db", getenv("SQLITE_MCP_DB_PATH", ""), "path to the SQLite database file (env: SQLITE_MCP_DB_PATH)")
	flag.StringVar(&cfg.LogFile, "log-file", getenv("SQLITE_MCP_LOG_FILE", ""), "append logs to this file in addition to stderr (env: SQLITE_MCP_LOG_FILE)")
	flag.Parse()

	if cfg.ShowVersion {
		return cfg, nil
	}

	if cfg.DBPath == "" {
		return config{}, fmt.Errorf("database path is empty (set SQLITE_MCP_DB_PATH or --db)")
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

// newLogger writes to stderr; stdout carries the MCP framing and must stay
// clean. With a log file configured, output also appends there and color
// is disabled so the file stays readable.
func newLogger(cfg config) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}

	var w io.Writer = os.Stderr
	closeLog := func() {}
	noColor := false
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = io.MultiWriter(os.Stderr, f)
		closeLog = func() { _ = f.Close() }
		noColor = true
	}

	log := slog.New(tint.NewHandler(w, &tint.Options{
		Level:   level,
		NoColor: noColor,
	}))
	return log, closeLog, nil
}
