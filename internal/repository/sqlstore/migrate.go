package sqlstore

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/mysql/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// NewMigrator returns a migrator with its own connection to the database
// described by driver and dsn. The caller must Close it.
//
// Used by cmd/migrate and by the MySQL path of DB.migrate.
func NewMigrator(driver, dsn string) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations/"+driver)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: loading %s migrations: %w", driver, err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, driver+"://"+dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: creating migrator: %w", err)
	}
	return m, nil
}

// migrate applies every pending "up" migration.
//
// SQLite reuses the pool's own *sql.DB: a second handle to ":memory:" would
// see an empty, different database. The migrator is intentionally not closed
// in that branch because closing it closes the shared pool.
func (db *DB) migrate() error {
	var (
		m   *migrate.Migrate
		err error
	)

	if db.driver == DriverSQLite {
		driver, derr := migratesqlite.WithInstance(db.conn.DB, &migratesqlite.Config{})
		if derr != nil {
			return fmt.Errorf("creating sqlite migration driver: %w", derr)
		}
		src, serr := iofs.New(migrationsFS, "migrations/"+DriverSQLite)
		if serr != nil {
			return fmt.Errorf("loading sqlite migrations: %w", serr)
		}
		m, err = migrate.NewWithInstance("iofs", src, DriverSQLite, driver)
		if err != nil {
			return fmt.Errorf("creating migrator: %w", err)
		}
	} else {
		m, err = NewMigrator(db.driver, db.dsn)
		if err != nil {
			return err
		}
		defer m.Close()
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}
