package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Migrate applies pending schema migrations from the given directory.
// Safe to call on every startup; a database that is already up to date
// is not an error.
//
// Migrations run on a dedicated connection because closing the migrator
// closes the *sql.DB it was built on.
func Migrate(connStr, path string) error {
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return fmt.Errorf("opening migration connection: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		db.Close()

		return fmt.Errorf("creating migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", path), "postgres", driver)
	if err != nil {
		db.Close()

		return fmt.Errorf("creating migrator: %w", err)
	}

	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			slog.Warn("closing migration source", "error", srcErr)
		}

		if dbErr != nil {
			slog.Warn("closing migration database", "error", dbErr)
		}
	}()

	if err := m.Up(); err != nil {
		if err == migrate.ErrNoChange {
			return nil
		}

		return fmt.Errorf("applying migrations: %w", err)
	}

	version, _, _ := m.Version()
	slog.Info("applied migrations", "version", version)

	return nil
}
