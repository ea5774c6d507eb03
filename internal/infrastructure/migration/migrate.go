package migration

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// Runner drives schema migrations for the ledger database. It wraps
// golang-migrate with a file source pointing at the migrations directory.
type Runner struct {
	m   *migrate.Migrate
	log *zap.Logger
}

func New(db *sql.DB, dir string, log *zap.Logger) (*Runner, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("postgres migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+dir, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("migration source %s: %w", dir, err)
	}

	return &Runner{m: m, log: log}, nil
}

// Up applies every pending migration.
func (r *Runner) Up() error {
	return r.apply("apply pending migrations", r.m.Up)
}

// Down rolls back every applied migration.
func (r *Runner) Down() error {
	return r.apply("roll back all migrations", r.m.Down)
}

// Steps applies n migrations forward, or -n backward.
func (r *Runner) Steps(n int) error {
	return r.apply(fmt.Sprintf("step %d", n), func() error { return r.m.Steps(n) })
}

// GoTo migrates up or down until the schema sits at version.
func (r *Runner) GoTo(version uint) error {
	return r.apply(fmt.Sprintf("migrate to version %d", version), func() error {
		return r.m.Migrate(version)
	})
}

func (r *Runner) apply(op string, fn func() error) error {
	r.log.Info("Running schema migration", zap.String("operation", op))

	if err := fn(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			r.log.Info("Schema already up to date")
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	version, dirty, err := r.Version()
	if err != nil {
		return err
	}
	r.log.Info("Schema migration finished",
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
	)
	return nil
}

// Version reports the current schema version. A zero version means no
// migration has been applied yet.
func (r *Runner) Version() (uint, bool, error) {
	version, dirty, err := r.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read schema version: %w", err)
	}
	return version, dirty, nil
}

// Force stamps the schema version without running any SQL. Only for
// recovering a dirty version record after a failed migration.
func (r *Runner) Force(version int) error {
	r.log.Warn("Stamping schema version", zap.Int("version", version))

	if err := r.m.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	return nil
}

// Drop removes every object in the connected database.
func (r *Runner) Drop() error {
	r.log.Warn("Dropping all database objects")

	if err := r.m.Drop(); err != nil {
		return fmt.Errorf("drop database: %w", err)
	}
	return nil
}

// Close releases the migration source and database handles.
func (r *Runner) Close() error {
	srcErr, dbErr := r.m.Close()
	if srcErr != nil {
		return fmt.Errorf("close migration source: %w", srcErr)
	}
	if dbErr != nil {
		return fmt.Errorf("close migration database: %w", dbErr)
	}
	return nil
}
