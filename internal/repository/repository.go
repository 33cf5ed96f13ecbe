package repository

import (
	"context"
	"database/sql"

	"user_accounts/internal/models"
)

// UserPatch is a storage-level partial update. Pointer fields left nil are
// not touched. PasswordHash is already hashed by the caller; plaintext
// never crosses this boundary.
type UserPatch struct {
	ID           int
	Email        *string
	PasswordHash *string
	IsAdmin      *bool
}

// Users is the persistence contract the service layer consumes. Lookups
// return (nil, nil) when no record matches; uniqueness of email is
// ultimately enforced by the storage constraint, not by callers.
type Users interface {
	Insert(ctx context.Context, email, passwordHash string) (int, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	Update(ctx context.Context, patch UserPatch) (*models.User, error)
	Delete(ctx context.Context, id int) (bool, error)
	List(ctx context.Context, emailSubstr string) ([]models.User, error)
}

type Repository struct {
	Users Users
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Users: NewUserSQLite(db),
	}
}
