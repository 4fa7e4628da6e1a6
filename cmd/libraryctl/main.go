package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/AntonStoeckl/relational-library-store-go/config"
	"github.com/AntonStoeckl/relational-library-store-go/librarystore"
	"github.com/AntonStoeckl/relational-library-store-go/librarystore/promadapters"
	"github.com/AntonStoeckl/relational-library-store-go/librarystore/sqlengine"
)

const (
	exitOK = iota
	exitNotFound
	exitBlocked
	exitDatabaseError
	exitUsage
)

const (
	msgNotFound      = "not found"
	msgBlocked       = "operation blocked by business rule"
	msgDatabaseError = "database error"
)

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	os.Exit(code)
}

// cliConfig holds the global flags.
type cliConfig struct {
	adapter     string
	sqlitePath  string
	logLevel    string
	logFormat   string
	showMetrics bool
}

func run(ctx context.Context, args []string, stdout io.Writer, stderr io.Writer) int {
	cfg := cliConfig{}

	flags := flag.NewFlagSet("libraryctl", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&cfg.adapter, "adapter", config.AdapterType(config.AdapterSQLite),
		"database adapter: sqlite, sqlite.sqlx, pgx.pool, sql.db, sqlx.db")
	flags.StringVar(&cfg.sqlitePath, "sqlite", config.SQLitePath(), "SQLite database file")
	flags.StringVar(&cfg.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	flags.StringVar(&cfg.logFormat, "log-format", "text", "log format: text or json")
	flags.BoolVar(&cfg.showMetrics, "metrics", false, "write the collected metrics to stderr on exit")

	if err := flags.Parse(args); err != nil {
		return exitUsage
	}

	if flags.NArg() == 0 {
		_, _ = fmt.Fprintln(stderr, "missing command")
		flags.Usage()

		return exitUsage
	}

	registry := prometheus.NewRegistry()
	options := []sqlengine.Option{
		sqlengine.WithContextualLogger(config.NewLogger(stderr, cfg.logFormat, cfg.logLevel)),
		sqlengine.WithMetrics(promadapters.NewMetricsCollector(registry)),
	}

	store, closeDB, err := openStore(ctx, cfg, options...)
	if errors.Is(err, errUnsupportedAdapter) {
		_, _ = fmt.Fprintln(stderr, err)
		return exitUsage
	}

	if err != nil {
		_, _ = fmt.Fprintf(stderr, "%s: %v\n", msgDatabaseError, err)
		return exitDatabaseError
	}

	defer func() {
		store.Close()
		closeDB()
	}()

	code := report(execute(ctx, store, flags.Arg(0), flags.Args()[1:], stdout), stderr)

	if cfg.showMetrics {
		if err = writeMetrics(registry, stderr); err != nil {
			_, _ = fmt.Fprintf(stderr, "writing metrics: %v\n", err)
		}
	}

	return code
}

// report maps a command outcome to a message and an exit code.
func report(err error, stderr io.Writer) int {
	switch {
	case err == nil:
		return exitOK

	case errors.Is(err, errNotFound):
		_, _ = fmt.Fprintln(stderr, msgNotFound)
		return exitNotFound

	case errors.Is(err, errBlocked):
		_, _ = fmt.Fprintln(stderr, msgBlocked)
		return exitBlocked

	case errors.Is(err, librarystore.ErrDataAccess):
		_, _ = fmt.Fprintf(stderr, "%s: %v\n", msgDatabaseError, err)
		return exitDatabaseError

	default:
		_, _ = fmt.Fprintln(stderr, err)
		return exitUsage
	}
}
