// Package repository declares the persistence contracts used by the service
// layer. Concrete implementations live in sub-packages (see sqlstore).
package repository

import (
	"context"

	"github.com/Reanooka-Kumar/TRACE--CIT/internal/model"
)

// UserRepository stores user accounts.
//
// Lookups return an error wrapping apperror.ErrNotFound when no row matches;
// Create returns one wrapping apperror.ErrConflict when the username or email
// is already taken.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)

	// UpdateIdentity refreshes the name and picture reported by an identity
	// provider on re-login.
	UpdateIdentity(ctx context.Context, id, fullName, picture string) error

	// UpdateLinks sets the external profile links. A nil link is left
	// unchanged. The update is applied in a single transaction.
	UpdateLinks(ctx context.Context, id string, links ProfileLinks) (*model.User, error)
}

// ProfileLinks carries an optional update for each external profile link.
type ProfileLinks struct {
	GitHub   *string
	LinkedIn *string
}
