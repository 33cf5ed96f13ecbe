package service

import (
	"context"
	"errors"
	"fmt"

	"user_accounts/internal/hash"
	"user_accounts/internal/models"
	"user_accounts/internal/repository"
	"user_accounts/internal/token"
)

// Domain errors for account flows. The transport layer maps these to
// status codes; anything else is an internal failure.
var (
	ErrDuplicateEmail     = errors.New("a user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotFound           = errors.New("user not found")
	ErrInvalidInput       = errors.New("invalid input")
)

// dummyHash is a valid bcrypt hash compared against when login hits an
// unknown email, so both failure paths pay the same bcrypt cost.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserService orchestrates registration, login and member CRUD against the
// repository, the password hasher and the token manager.
type UserService struct {
	users  repository.Users
	hasher *hash.Hasher
	tokens *token.Manager
}

func NewUserService(users repository.Users, hasher *hash.Hasher, tokens *token.Manager) *UserService {
	return &UserService{users: users, hasher: hasher, tokens: tokens}
}

var _ Users = (*UserService)(nil)

// Register hashes the password and creates a new user. The duplicate check
// here is best-effort; the storage UNIQUE constraint is the real guarantee
// against concurrent registrations of the same email.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	id, err := s.users.Insert(ctx, email, passwordHash)
	if err != nil {
		return nil, err
	}
	return &models.User{ID: id, Email: email, PasswordHash: passwordHash}, nil
}

// Login validates credentials and issues a bearer token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if u == nil {
		// burn a compare anyway to keep timing uniform
		s.hasher.Verify(password, dummyHash)
		return "", ErrInvalidCredentials
	}
	if !s.hasher.Verify(password, u.PasswordHash) {
		return "", ErrInvalidCredentials
	}
	return s.tokens.Issue(u.Email)
}

// CurrentUser resolves a bearer token to the stored user. Token failures
// and a since-deleted subject collapse into ErrInvalidCredentials.
func (s *UserService) CurrentUser(ctx context.Context, accessToken string) (*models.User, error) {
	email, err := s.tokens.Validate(accessToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Update applies the supplied fields only; a present password is hashed
// before it reaches storage.
func (s *UserService) Update(ctx context.Context, upd models.UserUpdate) (*models.User, error) {
	patch := repository.UserPatch{
		ID:      upd.ID,
		Email:   upd.Email,
		IsAdmin: upd.IsAdmin,
	}
	if upd.Password != nil {
		passwordHash, err := s.hasher.Hash(*upd.Password)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		patch.PasswordHash = &passwordHash
	}

	u, err := s.users.Update(ctx, patch)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}
	return u, nil
}

// Delete removes a user by id.
func (s *UserService) Delete(ctx context.Context, id int) error {
	removed, err := s.users.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotFound
	}
	return nil
}

// List returns all users, optionally filtered by an email substring.
func (s *UserService) List(ctx context.Context, emailSubstr string) ([]models.User, error) {
	return s.users.List(ctx, emailSubstr)
}
