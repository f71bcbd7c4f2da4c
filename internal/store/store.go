// Package store holds the credential store, the only component that
// persists user records
package store

import (
	"bitwise74/auth-api/internal/model"
	"context"
)

// Store reads and writes user records. Lookups for a missing record return
// apierr.ErrUserNotFound.
type Store interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Create inserts a new record and fails with apierr.ErrUserAlreadyExists
	// when the email is taken
	Create(ctx context.Context, u *model.User) (*model.User, error)

	// Save inserts u when it has no ID and updates it otherwise. Updates
	// only apply when the stored version matches u.Version.
	Save(ctx context.Context, u *model.User) (*model.User, error)

	Count(ctx context.Context) (int64, error)
}
