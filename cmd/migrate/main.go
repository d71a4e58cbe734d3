package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/storemate/backend/internal/infrastructure/config"
	"github.com/storemate/backend/internal/infrastructure/logger"
	"github.com/storemate/backend/internal/infrastructure/migration"
)

func main() {
	var (
		migrationsPath string
		logLevel       string
	)
	flag.StringVar(&migrationsPath, "path", "migrations", "Path to migrations directory")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	absPath, err := filepath.Abs(migrationsPath)
	if err != nil {
		log.Fatal("Failed to resolve migrations path", zap.Error(err))
	}

	switch command := args[0]; command {
	case "create":
		runCreate(log, absPath, args[1:])
	case "list":
		runList(log, absPath)
	case "up", "down", "step", "goto", "version", "force", "drop":
		m := openMigrator(log, absPath)
		defer m.Close()
		runAgainstDatabase(log, m, command, args[1:])
	default:
		log.Error("Unknown command", zap.String("command", command))
		printUsage()
		os.Exit(1)
	}
}

// runCreate scaffolds the next numbered up/down pair; no database needed
func runCreate(log *zap.Logger, path string, args []string) {
	if len(args) < 1 {
		log.Fatal("Migration name required. Usage: migrate create <name> [description]")
	}
	description := ""
	if len(args) > 1 {
		description = args[1]
	}

	mf, err := migration.CreateMigration(path, args[0], description)
	if err != nil {
		log.Fatal("Failed to create migration", zap.Error(err))
	}
	log.Info("Migration created",
		zap.String("version", mf.Version),
		zap.String("up_file", mf.UpPath),
		zap.String("down_file", mf.DownPath),
	)
}

func runList(log *zap.Logger, path string) {
	migrations, err := migration.ListMigrations(path)
	if err != nil {
		log.Fatal("Failed to list migrations", zap.Error(err))
	}
	if len(migrations) == 0 {
		log.Info("No migrations found", zap.String("path", path))
		return
	}
	for _, m := range migrations {
		fmt.Println("  -", m)
	}
}

func openMigrator(log *zap.Logger, path string) *migration.Migrator {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database", zap.Error(err))
	}

	m, err := migration.New(db, path, log)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	return m
}

func runAgainstDatabase(log *zap.Logger, m *migration.Migrator, command string, args []string) {
	switch command {
	case "up":
		if err := m.Up(); err != nil {
			log.Fatal("Migration up failed", zap.Error(err))
		}
	case "down":
		if err := m.Down(); err != nil {
			log.Fatal("Migration down failed", zap.Error(err))
		}
	case "step":
		n := intArg(log, args, "Step count required. Usage: migrate step <n>")
		if err := m.Steps(n); err != nil {
			log.Fatal("Migration step failed", zap.Error(err))
		}
	case "goto":
		v := intArg(log, args, "Version required. Usage: migrate goto <version>")
		if v < 0 {
			log.Fatal("Version must be non-negative", zap.Int("version", v))
		}
		if err := m.GoTo(uint(v)); err != nil {
			log.Fatal("Migration goto failed", zap.Error(err))
		}
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatal("Failed to get version", zap.Error(err))
		}
		if version == 0 {
			log.Info("No migrations applied")
		} else {
			log.Info("Current schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		}
	case "force":
		v := intArg(log, args, "Version required. Usage: migrate force <version>")
		log.Warn("Overriding the recorded schema version without running migrations")
		if err := m.Force(v); err != nil {
			log.Fatal("Force version failed", zap.Error(err))
		}
	case "drop":
		if len(args) == 0 || args[0] != "-confirm" {
			log.Fatal("Drop destroys all tables including the ledger. Re-run as 'migrate drop -confirm' to proceed.")
		}
		if err := m.Drop(); err != nil {
			log.Fatal("Drop failed", zap.Error(err))
		}
	}
}

func intArg(log *zap.Logger, args []string, usage string) int {
	if len(args) < 1 {
		log.Fatal(usage)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		log.Fatal("Not a number", zap.String("value", args[0]))
	}
	return n
}

func printUsage() {
	fmt.Println(`Schema migration tool for the billing database.

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations (negative rolls back)
  goto <version>        Migrate to a specific schema version
  version               Show current schema version
  force <version>       Override the recorded version (recovery only)
  drop -confirm         Drop every table, stock ledger included
  create <name> [desc]  Scaffold the next numbered migration pair
  list                  List migration files

Flags:
  -path string          Migrations directory (default: ./migrations)
  -log-level string     debug, info, warn, error (default: info)

The database connection comes from config.yaml or the STOREMATE_DATABASE_*
environment variables, same as the server.

Examples:
  migrate up
  migrate step -1
  migrate create add_supplier_returns "supplier return and damage tables"`)
}
