// Package sqlstore implements the repository interfaces on a relational
// database through sqlx.
//
// Two drivers are supported:
//   - "mysql"  (github.com/go-sql-driver/mysql) for deployments
//   - "sqlite" (modernc.org/sqlite, pure Go) for local development and tests;
//     ":memory:" gives every test its own throwaway database
//
// Both drivers use "?" placeholders, so every query in this package is shared.
// Only the DDL differs; it lives in migrations/<driver>/ and is applied with
// golang-migrate when the store opens.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	// Importing modernc.org/sqlite also registers the pure-Go driver under
	// the name "sqlite" with database/sql.
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/Reanooka-Kumar/TRACE--CIT/internal/config"
)

const (
	DriverMySQL  = config.DriverMySQL
	DriverSQLite = config.DriverSQLite

	memoryPath = ":memory:"
)

func init() {
	// sqlx knows "sqlite3" (mattn) but not modernc's "sqlite" name.
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// DB wraps a sqlx connection pool and provides repository methods.
// It implements repository.UserRepository (see user.go).
type DB struct {
	conn   *sqlx.DB
	driver string
	dsn    string
}

// Open builds the data source name from cfg and opens the store.
func Open(cfg config.DBConfig) (*DB, error) {
	driver, dsn := DSN(cfg)
	return New(driver, dsn)
}

// DSN returns the driver name and data source name for cfg.
//
// MySQL DSNs are produced by mysql.Config.FormatDSN so user names and
// passwords containing '@', ':' or '/' are escaped correctly.
func DSN(cfg config.DBConfig) (driver, dsn string) {
	if cfg.Driver == DriverSQLite {
		return DriverSQLite, cfg.Path
	}

	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	mc.DBName = cfg.Name
	mc.ParseTime = true
	mc.ClientFoundRows = true
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return DriverMySQL, mc.FormatDSN()
}

// New opens a connection pool, verifies it, and runs migrations.
func New(driver, dsn string) (*DB, error) {
	conn, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: opening %s database: %w", driver, err)
	}

	// Every connection to ":memory:" is a separate database, so the pool
	// must never grow beyond one connection.
	if driver == DriverSQLite && dsn == memoryPath {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlstore: pinging %s database: %w", driver, err)
	}

	if driver == DriverSQLite {
		if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
			conn.Close()
			return nil, fmt.Errorf("sqlstore: enabling foreign keys: %w", err)
		}
	}

	db := &DB{conn: conn, driver: driver, dsn: dsn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlstore: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping reports whether the database is reachable. Used by the health check.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Driver returns the name of the underlying database/sql driver.
func (db *DB) Driver() string {
	return db.driver
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure on
// either supported driver.
func isUniqueViolation(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062 // ER_DUP_ENTRY
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}

	return false
}
