package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/config"
	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/logger"
	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/migration"
	"github.com/arghosts/affiliate-shop-sub000/migrations"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const defaultMigrationsDir = "migrations"

var errUsage = errors.New("invalid arguments")

// schemaCommand runs against a live migrator
type schemaCommand struct {
	usage string
	run   func(m *migration.Migrator, log *zap.Logger, args []string) error
}

// fileCommand works on the migrations directory only
type fileCommand struct {
	usage string
	run   func(dir string, log *zap.Logger, args []string) error
}

var schemaCommands = map[string]schemaCommand{
	"up": {"up                    Apply all pending migrations", func(m *migration.Migrator, _ *zap.Logger, _ []string) error {
		return m.Up()
	}},
	"down": {"down                  Roll back every migration", func(m *migration.Migrator, _ *zap.Logger, _ []string) error {
		return m.Down()
	}},
	"step":    {"step <n>              Apply n migrations, negative n rolls back", runStep},
	"redo":    {"redo                  Roll back the latest migration and apply it again", runRedo},
	"version": {"version               Show the applied version", runVersion},
	"force":   {"force <version>       Mark a version as applied without running it", runForce},
}

var fileCommands = map[string]fileCommand{
	"create": {"create <name> [desc]  Write a new up/down file pair", runCreate},
	"list":   {"list                  List migration files", runList},
}

func main() {
	dir := flag.String("path", "", "Read migrations from this directory instead of the embedded set")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(2)
	}

	log, err := logger.New(&logger.Config{
		Level:      *logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(args[0], args[1:], *dir, log); err != nil {
		if errors.Is(err, errUsage) {
			printUsage()
		}
		log.Fatal("Migration command failed", zap.String("command", args[0]), zap.Error(err))
	}
}

func run(name string, args []string, dir string, log *zap.Logger) error {
	if cmd, ok := fileCommands[name]; ok {
		if dir == "" {
			dir = defaultMigrationsDir
		}
		return cmd.run(dir, log, args)
	}

	cmd, ok := schemaCommands[name]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", errUsage, name)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	m, err := newMigrator(db, dir, log)
	if err != nil {
		return err
	}
	defer m.Close()

	return cmd.run(m, log, args)
}

// newMigrator reads migrations from dir, or from the embedded set when dir is empty
func newMigrator(db *sql.DB, dir string, log *zap.Logger) (*migration.Migrator, error) {
	if dir == "" {
		return migration.NewFromFS(db, migrations.FS, log)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve migrations path: %w", err)
	}
	log.Info("Using migrations directory", zap.String("path", abs))
	return migration.New(db, abs, log)
}

func intArg(args []string, what string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%w: %s required", errUsage, what)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number, got %q", errUsage, what, args[0])
	}
	return n, nil
}

func runStep(m *migration.Migrator, _ *zap.Logger, args []string) error {
	n, err := intArg(args, "step count")
	if err != nil {
		return err
	}
	return m.Steps(n)
}

func runRedo(m *migration.Migrator, _ *zap.Logger, _ []string) error {
	if err := m.Steps(-1); err != nil {
		return err
	}
	return m.Steps(1)
}

func runVersion(m *migration.Migrator, log *zap.Logger, _ []string) error {
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	if version == 0 {
		log.Info("No migrations applied")
		return nil
	}
	log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

func runForce(m *migration.Migrator, log *zap.Logger, args []string) error {
	version, err := intArg(args, "version")
	if err != nil {
		return err
	}
	log.Warn("Forcing migration version, no SQL is executed", zap.Int("version", version))
	return m.Force(version)
}

func runCreate(dir string, log *zap.Logger, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: migration name required", errUsage)
	}
	description := ""
	if len(args) > 1 {
		description = args[1]
	}

	p, err := migration.Create(dir, args[0], description)
	if err != nil {
		return err
	}
	log.Info("Migration created",
		zap.Uint64("version", p.Version),
		zap.String("up_file", filepath.Join(dir, p.Up)),
		zap.String("down_file", filepath.Join(dir, p.Down)),
	)
	return nil
}

func runList(dir string, log *zap.Logger, _ []string) error {
	pairs, err := migration.ScanDir(dir)
	if err != nil {
		return err
	}
	log.Info("Migration files", zap.String("dir", dir), zap.Int("count", len(pairs)))
	for _, p := range pairs {
		fmt.Println("  -", p)
	}
	return nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "JagoPilih schema migrations\n\nUsage:\n  migrate [flags] <command> [arguments]\n\nCommands:")
	for _, name := range []string{"up", "down", "step", "redo", "version", "force"} {
		fmt.Fprintln(os.Stderr, "  "+schemaCommands[name].usage)
	}
	for _, name := range []string{"create", "list"} {
		fmt.Fprintln(os.Stderr, "  "+fileCommands[name].usage)
	}
	fmt.Fprintln(os.Stderr, "\nFlags:")
	flag.PrintDefaults()
	fmt.Fprintln(os.Stderr, "\nThe database is read from JAGO_DATABASE_HOST, JAGO_DATABASE_PORT, JAGO_DATABASE_USER,\nJAGO_DATABASE_PASSWORD, JAGO_DATABASE_DBNAME and JAGO_DATABASE_SSLMODE.")
}
