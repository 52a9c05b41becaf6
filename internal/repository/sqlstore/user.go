package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/Reanooka-Kumar/TRACE--CIT/internal/apperror"
	"github.com/Reanooka-Kumar/TRACE--CIT/internal/model"
	"github.com/Reanooka-Kumar/TRACE--CIT/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

const userColumns = `id, username, email, full_name, picture, hashed_password, disabled,
	github_link, linkedin_link, created_at, updated_at`

// Create inserts a new user. ID and timestamps are filled in on the passed
// struct. A duplicate username or email yields apperror.ErrConflict.
func (db *DB) Create(ctx context.Context, user *model.User) error {
	now := time.Now().UTC().Truncate(time.Second)
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := db.conn.NamedExecContext(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES (:id, :username, :email, :full_name, :picture, :hashed_password, :disabled,
		         :github_link, :linkedin_link, :created_at, :updated_at)`,
		user,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("user", user.Username)
		}
		return fmt.Errorf("sqlstore: inserting user %s: %w", user.Username, err)
	}

	return nil
}

// GetByEmail looks a user up by email address.
func (db *DB) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return db.getOne(ctx, "email", email)
}

// GetByUsername looks a user up by username (the JWT subject).
func (db *DB) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return db.getOne(ctx, "username", username)
}

// getOne runs a single-row lookup on a unique column. column is always a
// constant chosen by this package, never user input.
func (db *DB) getOne(ctx context.Context, column, value string) (*model.User, error) {
	var u model.User

	err := db.conn.GetContext(ctx, &u,
		`SELECT `+userColumns+` FROM users WHERE `+column+` = ?`,
		value,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", value)
		}
		return nil, fmt.Errorf("sqlstore: getting user by %s: %w", column, err)
	}

	return &u, nil
}

// UpdateIdentity overwrites the display name and picture.
func (db *DB) UpdateIdentity(ctx context.Context, id, fullName, picture string) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE users SET full_name = ?, picture = ?, updated_at = ? WHERE id = ?`,
		fullName, picture, time.Now().UTC().Truncate(time.Second), id,
	)
	if err != nil {
		return fmt.Errorf("sqlstore: updating identity of user %s: %w", id, err)
	}

	return requireOneRow(res, id)
}

// UpdateLinks sets the external profile links inside one transaction.
//
// TRANSACTION FLOW:
//  1. BEGIN
//  2. UPDATE only the links that are non-nil
//  3. SELECT the row back so the caller gets the committed state
//  4. COMMIT (any earlier failure rolls back)
//
// The deferred Rollback is a no-op after a successful Commit.
func (db *DB) UpdateLinks(ctx context.Context, id string, links repository.ProfileLinks) (*model.User, error) {
	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	set := "updated_at = ?"
	args := []any{time.Now().UTC().Truncate(time.Second)}
	if links.GitHub != nil {
		set += ", github_link = ?"
		args = append(args, *links.GitHub)
	}
	if links.LinkedIn != nil {
		set += ", linkedin_link = ?"
		args = append(args, *links.LinkedIn)
	}
	args = append(args, id)

	res, err := tx.ExecContext(ctx, `UPDATE users SET `+set+` WHERE id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: updating links of user %s: %w", id, err)
	}
	if err := requireOneRow(res, id); err != nil {
		return nil, err
	}

	var u model.User
	if err := tx.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("sqlstore: reloading user %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("sqlstore: committing link update of user %s: %w", id, err)
	}

	return &u, nil
}

// requireOneRow turns "no rows affected" into apperror.ErrNotFound.
// The MySQL DSN sets clientFoundRows, so an UPDATE that matches a row but
// changes nothing still counts as one row.
func requireOneRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlstore: reading affected rows: %w", err)
	}
	if n == 0 {
		return apperror.NotFound("user", id)
	}
	return nil
}
