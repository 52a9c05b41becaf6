package sqlstore

import (
	"context"
	"errors"
	"testing"

	"github.com/go-sql-driver/mysql"

	"github.com/Reanooka-Kumar/TRACE--CIT/internal/apperror"
	"github.com/Reanooka-Kumar/TRACE--CIT/internal/config"
	"github.com/Reanooka-Kumar/TRACE--CIT/internal/model"
	"github.com/Reanooka-Kumar/TRACE--CIT/internal/repository"
)

// newTestDB opens a fresh in-memory SQLite store with migrations applied.
// Each call gets its own database, so tests never see each other's rows.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(DriverSQLite, memoryPath)
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *DB, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username: username,
		Email:    username + "@example.com",
		FullName: "Test " + username,
	}
	if err := db.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func strPtr(s string) *string { return &s }

// =========================================================================
// OPEN TESTS
// =========================================================================

func TestDSN_SQLite(t *testing.T) {
	driver, dsn := DSN(config.DBConfig{Driver: config.DriverSQLite, Path: "data/trace.db"})
	if driver != DriverSQLite {
		t.Errorf("driver = %q, want %q", driver, DriverSQLite)
	}
	if dsn != "data/trace.db" {
		t.Errorf("dsn = %q, want %q", dsn, "data/trace.db")
	}
}

func TestDSN_MySQL(t *testing.T) {
	driver, dsn := DSN(config.DBConfig{
		Driver:   config.DriverMySQL,
		Host:     "db.internal",
		Port:     3307,
		User:     "trace",
		Password: "s3cret",
		Name:     "trace_db",
	})
	if driver != DriverMySQL {
		t.Errorf("driver = %q, want %q", driver, DriverMySQL)
	}

	parsed, err := mysql.ParseDSN(dsn)
	if err != nil {
		t.Fatalf("ParseDSN(%q) error = %v", dsn, err)
	}
	if parsed.User != "trace" || parsed.Passwd != "s3cret" {
		t.Errorf("credentials = %q/%q", parsed.User, parsed.Passwd)
	}
	if parsed.Addr != "db.internal:3307" {
		t.Errorf("Addr = %q, want %q", parsed.Addr, "db.internal:3307")
	}
	if parsed.DBName != "trace_db" {
		t.Errorf("DBName = %q, want %q", parsed.DBName, "trace_db")
	}
	if !parsed.ParseTime || !parsed.ClientFoundRows {
		t.Errorf("ParseTime = %v, ClientFoundRows = %v, want both true", parsed.ParseTime, parsed.ClientFoundRows)
	}
}

func TestNew_MigrationsAreIdempotent(t *testing.T) {
	db := newTestDB(t)

	// A second migrate on an up-to-date schema reports ErrNoChange, which
	// must be swallowed.
	if err := db.migrate(); err != nil {
		t.Fatalf("second migrate() error = %v", err)
	}
	if err := db.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
	if db.Driver() != DriverSQLite {
		t.Errorf("Driver() = %q, want %q", db.Driver(), DriverSQLite)
	}
}

// =========================================================================
// CREATE TESTS
// =========================================================================

func TestUserCreate(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{
		Username:       "demo@trace.ai",
		Email:          "demo@trace.ai",
		FullName:       "Demo User",
		HashedPassword: "$2a$04$hash",
	}
	if err := db.Create(context.Background(), user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if user.ID == "" {
		t.Error("Create() did not set user.ID")
	}
	if user.CreatedAt.IsZero() {
		t.Error("Create() did not set user.CreatedAt")
	}
	if !user.UpdatedAt.Equal(user.CreatedAt) {
		t.Errorf("UpdatedAt = %v, want %v", user.UpdatedAt, user.CreatedAt)
	}
}

func TestUserCreate_DuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "alice")

	dup := &model.User{Username: "alice", Email: "other@example.com"}
	err := db.Create(context.Background(), dup)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("Create() error = %v, want ErrConflict", err)
	}
}

func TestUserCreate_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "alice")

	dup := &model.User{Username: "alice2", Email: "alice@example.com"}
	err := db.Create(context.Background(), dup)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("Create() error = %v, want ErrConflict", err)
	}
}

// =========================================================================
// LOOKUP TESTS
// =========================================================================

func TestUserGetByEmail(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "bob")

	found, err := db.GetByEmail(context.Background(), "bob@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID = %q, want %q", found.ID, created.ID)
	}
	if found.FullName != "Test bob" {
		t.Errorf("FullName = %q, want %q", found.FullName, "Test bob")
	}
	if found.GitHubLink != nil || found.LinkedInLink != nil {
		t.Errorf("links = %v/%v, want nil/nil", found.GitHubLink, found.LinkedInLink)
	}
	if found.Disabled {
		t.Error("Disabled = true, want false")
	}
	if !found.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", found.CreatedAt, created.CreatedAt)
	}
}

func TestUserGetByUsername(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "carol")

	found, err := db.GetByUsername(context.Background(), "carol")
	if err != nil {
		t.Fatalf("GetByUsername() error = %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID = %q, want %q", found.ID, created.ID)
	}
}

func TestUserLookup_NotFound(t *testing.T) {
	db := newTestDB(t)

	if _, err := db.GetByEmail(context.Background(), "nobody@example.com"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByEmail() error = %v, want ErrNotFound", err)
	}
	if _, err := db.GetByUsername(context.Background(), "nobody"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByUsername() error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// UPDATE TESTS
// =========================================================================

func TestUserUpdateIdentity(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "dave")

	err := db.UpdateIdentity(context.Background(), created.ID, "Dave D.", "https://img.example.com/dave.png")
	if err != nil {
		t.Fatalf("UpdateIdentity() error = %v", err)
	}

	found, err := db.GetByUsername(context.Background(), "dave")
	if err != nil {
		t.Fatalf("GetByUsername() error = %v", err)
	}
	if found.FullName != "Dave D." {
		t.Errorf("FullName = %q, want %q", found.FullName, "Dave D.")
	}
	if found.Picture != "https://img.example.com/dave.png" {
		t.Errorf("Picture = %q", found.Picture)
	}
}

func TestUserUpdateIdentity_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.UpdateIdentity(context.Background(), "missing", "x", "y")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("UpdateIdentity() error = %v, want ErrNotFound", err)
	}
}

func TestUserUpdateLinks(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "erin")

	updated, err := db.UpdateLinks(context.Background(), created.ID, repository.ProfileLinks{
		GitHub:   strPtr("https://github.com/erin"),
		LinkedIn: strPtr("https://linkedin.com/in/erin"),
	})
	if err != nil {
		t.Fatalf("UpdateLinks() error = %v", err)
	}
	if updated.GitHubLink == nil || *updated.GitHubLink != "https://github.com/erin" {
		t.Errorf("GitHubLink = %v", updated.GitHubLink)
	}
	if updated.LinkedInLink == nil || *updated.LinkedInLink != "https://linkedin.com/in/erin" {
		t.Errorf("LinkedInLink = %v", updated.LinkedInLink)
	}
}

func TestUserUpdateLinks_NilLeavesFieldUntouched(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "frank")

	_, err := db.UpdateLinks(context.Background(), created.ID, repository.ProfileLinks{
		GitHub:   strPtr("https://github.com/frank"),
		LinkedIn: strPtr("https://linkedin.com/in/frank"),
	})
	if err != nil {
		t.Fatalf("first UpdateLinks() error = %v", err)
	}

	// Only LinkedIn this time; GitHub must survive.
	updated, err := db.UpdateLinks(context.Background(), created.ID, repository.ProfileLinks{
		LinkedIn: strPtr("https://linkedin.com/in/frank-2"),
	})
	if err != nil {
		t.Fatalf("second UpdateLinks() error = %v", err)
	}
	if updated.GitHubLink == nil || *updated.GitHubLink != "https://github.com/frank" {
		t.Errorf("GitHubLink = %v, want unchanged", updated.GitHubLink)
	}
	if updated.LinkedInLink == nil || *updated.LinkedInLink != "https://linkedin.com/in/frank-2" {
		t.Errorf("LinkedInLink = %v", updated.LinkedInLink)
	}
}

func TestUserUpdateLinks_EmptyUpdateIsNoop(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "gina")

	updated, err := db.UpdateLinks(context.Background(), created.ID, repository.ProfileLinks{})
	if err != nil {
		t.Fatalf("UpdateLinks() error = %v", err)
	}
	if updated.GitHubLink != nil || updated.LinkedInLink != nil {
		t.Errorf("links = %v/%v, want nil/nil", updated.GitHubLink, updated.LinkedInLink)
	}
}

func TestUserUpdateLinks_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.UpdateLinks(context.Background(), "missing", repository.ProfileLinks{
		GitHub: strPtr("https://github.com/nobody"),
	})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("UpdateLinks() error = %v, want ErrNotFound", err)
	}
}
