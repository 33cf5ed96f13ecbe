package service

import (
	"context"

	"user_accounts/internal/hash"
	"user_accounts/internal/models"
	"user_accounts/internal/repository"
	"user_accounts/internal/token"
)

// Users exposes the account lifecycle: registration, login, token
// resolution and member CRUD.
type Users interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	CurrentUser(ctx context.Context, accessToken string) (*models.User, error)
	Update(ctx context.Context, upd models.UserUpdate) (*models.User, error)
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, emailSubstr string) ([]models.User, error)
}

type Service struct {
	Users
}

// NewService wires the repository, hasher and token manager into concrete
// services. Dependencies are constructed in main and passed down; there are
// no package-level singletons.
func NewService(repos *repository.Repository, hasher *hash.Hasher, tokens *token.Manager) *Service {
	return &Service{
		Users: NewUserService(repos.Users, hasher, tokens),
	}
}
