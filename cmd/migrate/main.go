package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/infrastructure/config"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/infrastructure/logger"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/infrastructure/migration"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {
	var (
		dir      string
		logLevel string
	)
	flag.StringVar(&dir, "path", "migrations", "migrations directory")
	flag.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	absDir, err := filepath.Abs(dir)
	if err != nil {
		log.Fatal("Failed to resolve migrations directory", zap.Error(err))
	}

	if err := run(args, absDir, log); err != nil {
		log.Fatal("Migration command failed",
			zap.String("command", args[0]),
			zap.Error(err))
	}
}

func run(args []string, dir string, log *zap.Logger) error {
	command := args[0]

	// File-only commands, no database needed
	switch command {
	case "create":
		return runCreate(args[1:], dir, log)
	case "list":
		return runList(dir, log)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	runner, err := migration.New(db, dir, log)
	if err != nil {
		return err
	}
	defer runner.Close()

	switch command {
	case "up":
		return runner.Up()

	case "down":
		return runner.Down()

	case "step":
		n, err := intArg(args, "step count")
		if err != nil {
			return err
		}
		return runner.Steps(n)

	case "goto":
		n, err := intArg(args, "target version")
		if err != nil {
			return err
		}
		if n < 0 {
			return fmt.Errorf("target version must not be negative")
		}
		return runner.GoTo(uint(n))

	case "version":
		version, dirty, err := runner.Version()
		if err != nil {
			return err
		}
		if version == 0 {
			log.Info("No migrations applied yet")
			return nil
		}
		log.Info("Schema version",
			zap.Uint("version", version),
			zap.Bool("dirty", dirty))
		return nil

	case "force":
		n, err := intArg(args, "version")
		if err != nil {
			return err
		}
		return runner.Force(n)

	case "drop":
		if !confirmed(args[1:]) {
			return fmt.Errorf("refusing to drop all database objects without -confirm")
		}
		return runner.Drop()

	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func runCreate(args []string, dir string, log *zap.Logger) error {
	if len(args) == 0 {
		return fmt.Errorf("migration name required: migrate create <name> [description]")
	}
	name := args[0]
	description := ""
	if len(args) > 1 {
		description = args[1]
	}

	mf, err := migration.CreateMigration(dir, name, description)
	if err != nil {
		return err
	}

	log.Info("Migration pair created",
		zap.String("version", mf.Version),
		zap.String("up", mf.UpPath),
		zap.String("down", mf.DownPath))
	return nil
}

func runList(dir string, log *zap.Logger) error {
	migrations, err := migration.ListMigrations(dir)
	if err != nil {
		return err
	}
	if len(migrations) == 0 {
		log.Info("No migrations found", zap.String("dir", dir))
		return nil
	}

	log.Info("Available migrations", zap.Int("count", len(migrations)))
	for _, name := range migrations {
		fmt.Println("  -", name)
	}
	return nil
}

func intArg(args []string, what string) (int, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("%s required", what)
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", what, args[1])
	}
	return n, nil
}

func confirmed(args []string) bool {
	for _, arg := range args {
		if arg == "-confirm" || arg == "--confirm" {
			return true
		}
	}
	return false
}

func usage() {
	fmt.Println(`Freight ledger schema migration tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply every pending migration
  down                  Roll back every applied migration
  step <n>              Apply n migrations (negative rolls back)
  goto <version>        Migrate the schema to a specific version
  version               Print the current schema version
  force <version>       Stamp the schema version without running SQL
  drop -confirm         Drop every object in the database
  create <name> [desc]  Scaffold a new up/down migration pair
  list                  List the migration files on disk

Flags:
  -path string          Migrations directory (default "migrations")
  -log-level string     Log level: debug, info, warn, error (default "info")

The database connection is read from the FREIGHT_DATABASE_* environment
variables (HOST, PORT, USER, PASSWORD, DBNAME, SSLMODE) or config file.

Examples:
  migrate up
  migrate step -1
  migrate create add_adjustment_tables "per-manifest adjustment ledger"`)
}
