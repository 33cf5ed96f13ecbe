package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"user_accounts/internal/hash"
	"user_accounts/internal/models"
	"user_accounts/internal/repository"
	"user_accounts/internal/token"

	"golang.org/x/crypto/bcrypt"
)

// mockUserRepo is a lightweight in-test mock for repository.Users.
type mockUserRepo struct {
	InsertFn     func(email, passwordHash string) (int, error)
	GetByEmailFn func(email string) (*models.User, error)
	GetByIDFn    func(id int) (*models.User, error)
	UpdateFn     func(patch repository.UserPatch) (*models.User, error)
	DeleteFn     func(id int) (bool, error)
	ListFn       func(emailSubstr string) ([]models.User, error)

	insertCalls []struct {
		email string
		hash  string
	}
	updateCalls []repository.UserPatch
	listCalls   []string
}

func (m *mockUserRepo) Insert(_ context.Context, email, passwordHash string) (int, error) {
	m.insertCalls = append(m.insertCalls, struct {
		email string
		hash  string
	}{email: email, hash: passwordHash})
	return m.InsertFn(email, passwordHash)
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return m.GetByEmailFn(email)
}

func (m *mockUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	return m.GetByIDFn(id)
}

func (m *mockUserRepo) Update(_ context.Context, patch repository.UserPatch) (*models.User, error) {
	m.updateCalls = append(m.updateCalls, patch)
	return m.UpdateFn(patch)
}

func (m *mockUserRepo) Delete(_ context.Context, id int) (bool, error) {
	return m.DeleteFn(id)
}

func (m *mockUserRepo) List(_ context.Context, emailSubstr string) ([]models.User, error) {
	m.listCalls = append(m.listCalls, emailSubstr)
	return m.ListFn(emailSubstr)
}

func newTestService(t *testing.T, repo *mockUserRepo) *UserService {
	t.Helper()
	tokens, err := token.New("service-test-key", time.Hour)
	if err != nil {
		t.Fatalf("token.New failed: %v", err)
	}
	return NewUserService(repo, hash.New(bcrypt.MinCost), tokens)
}

// --- Register tests ---

func TestUserService_Register_HashesPasswordAndInserts(t *testing.T) {
	repo := &mockUserRepo{
		GetByEmailFn: func(email string) (*models.User, error) { return nil, nil },
		InsertFn:     func(email, passwordHash string) (int, error) { return 1, nil },
	}
	svc := newTestService(t, repo)

	u, err := svc.Register(context.Background(), "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if u.ID != 1 || u.Email != "a@x.com" || u.IsAdmin {
		t.Fatalf("unexpected user: %+v", u)
	}

	if len(repo.insertCalls) != 1 {
		t.Fatalf("expected 1 Insert call, got %d", len(repo.insertCalls))
	}
	call := repo.insertCalls[0]
	if call.hash == "secret1" {
		t.Errorf("plaintext password reached the repository")
	}
	if !hash.New(bcrypt.MinCost).Verify("secret1", call.hash) {
		t.Errorf("stored hash does not verify with original password")
	}
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	repo := &mockUserRepo{
		GetByEmailFn: func(email string) (*models.User, error) {
			return &models.User{ID: 1, Email: email, PasswordHash: "h"}, nil
		},
		InsertFn: func(email, passwordHash string) (int, error) {
			t.Fatal("Insert should not be called for duplicate email")
			return 0, nil
		},
	}
	svc := newTestService(t, repo)

	_, err := svc.Register(context.Background(), "a@x.com", "secret1")
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	if len(repo.insertCalls) != 0 {
		t.Fatalf("expected no Insert calls, got %d", len(repo.insertCalls))
	}
}

func TestUserService_Register_EmptyPassword(t *testing.T) {
	repo := &mockUserRepo{
		GetByEmailFn: func(email string) (*models.User, error) { return nil, nil },
		InsertFn: func(email, passwordHash string) (int, error) {
			t.Fatal("Insert should not be called for empty password")
			return 0, nil
		},
	}
	svc := newTestService(t, repo)

	_, err := svc.Register(context.Background(), "a@x.com", "   ")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUserService_Register_RepoError(t *testing.T) {
	repo := &mockUserRepo{
		GetByEmailFn: func(email string) (*models.User, error) { return nil, nil },
		InsertFn: func(email, passwordHash string) (int, error) {
			return 0, errors.New("constraint failed")
		},
	}
	svc := newTestService(t, repo)

	if _, err := svc.Register(context.Background(), "a@x.com", "secret1"); err == nil {
		t.Fatalf("expected repo error, got nil")
	}
}

// --- Login tests ---

func TestUserService_Login_RoundTripsThroughCurrentUser(t *testing.T) {
	hashed, err := hash.New(bcrypt.MinCost).Hash("secret1")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	stored := &models.User{ID: 1, Email: "a@x.com", PasswordHash: hashed}
	repo := &mockUserRepo{
		GetByEmailFn: func(email string) (*models.User, error) {
			if email != "a@x.com" {
				return nil, nil
			}
			return stored, nil
		},
	}
	svc := newTestService(t, repo)

	tok, err := svc.Login(context.Background(), "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if tok == "" {
		t.Fatalf("expected non-empty token")
	}

	u, err := svc.CurrentUser(context.Background(), tok)
	if err != nil {
		t.Fatalf("CurrentUser returned error: %v", err)
	}
	if u.Email != "a@x.com" || u.IsAdmin {
		t.Fatalf("unexpected resolved user: %+v", u)
	}
}

func TestUserService_Login_FailuresAreIndistinguishable(t *testing.T) {
	hashed, err := hash.New(bcrypt.MinCost).Hash("correct")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	repo := &mockUserRepo{
		GetByEmailFn: func(email string) (*models.User, error) {
			if email == "known@x.com" {
				return &models.User{ID: 1, Email: email, PasswordHash: hashed}, nil
			}
			return nil, nil
		},
	}
	svc := newTestService(t, repo)

	_, unknownErr := svc.Login(context.Background(), "ghost@x.com", "whatever")
	_, wrongPassErr := svc.Login(context.Background(), "known@x.com", "wrong")

	if !errors.Is(unknownErr, ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", unknownErr)
	}
	if !errors.Is(wrongPassErr, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPassErr)
	}
	if unknownErr.Error() != wrongPassErr.Error() {
		t.Fatalf("error content differs between failure modes: %q vs %q", unknownErr, wrongPassErr)
	}
}

func TestUserService_Login_RepoError(t *testing.T) {
	repo := &mockUserRepo{
		GetByEmailFn: func(email string) (*models.User, error) {
			return nil, errors.New("query failed")
		},
	}
	svc := newTestService(t, repo)

	if _, err := svc.Login(context.Background(), "a@x.com", "pw"); errors.Is(err, ErrInvalidCredentials) || err == nil {
		t.Fatalf("expected raw repo error, got %v", err)
	}
}

// --- CurrentUser tests ---

func TestUserService_CurrentUser_InvalidToken(t *testing.T) {
	repo := &mockUserRepo{
		GetByEmailFn: func(email string) (*models.User, error) {
			t.Fatal("repo should not be consulted for an invalid token")
			return nil, nil
		},
	}
	svc := newTestService(t, repo)

	_, err := svc.CurrentUser(context.Background(), "not-a-jwt")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestUserService_CurrentUser_SubjectDeleted(t *testing.T) {
	repo := &mockUserRepo{
		GetByEmailFn: func(email string) (*models.User, error) { return nil, nil },
	}
	svc := newTestService(t, repo)

	tok, err := svc.tokens.Issue("gone@x.com")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	_, err = svc.CurrentUser(context.Background(), tok)
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for deleted subject, got %v", err)
	}
}

// --- Update tests ---

func TestUserService_Update_PartialPatchPassesThrough(t *testing.T) {
	email := "new@x.com"
	repo := &mockUserRepo{
		UpdateFn: func(patch repository.UserPatch) (*models.User, error) {
			return &models.User{ID: patch.ID, Email: *patch.Email, PasswordHash: "keep", IsAdmin: true}, nil
		},
	}
	svc := newTestService(t, repo)

	u, err := svc.Update(context.Background(), models.UserUpdate{ID: 5, Email: &email})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if u.Email != "new@x.com" {
		t.Fatalf("unexpected user: %+v", u)
	}

	if len(repo.updateCalls) != 1 {
		t.Fatalf("expected 1 Update call, got %d", len(repo.updateCalls))
	}
	patch := repo.updateCalls[0]
	if patch.PasswordHash != nil || patch.IsAdmin != nil {
		t.Fatalf("unset fields must stay nil in the patch: %+v", patch)
	}
}

func TestUserService_Update_HashesNewPassword(t *testing.T) {
	password := "n3w-pass"
	repo := &mockUserRepo{
		UpdateFn: func(patch repository.UserPatch) (*models.User, error) {
			return &models.User{ID: patch.ID, Email: "a@x.com", PasswordHash: *patch.PasswordHash}, nil
		},
	}
	svc := newTestService(t, repo)

	if _, err := svc.Update(context.Background(), models.UserUpdate{ID: 5, Password: &password}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	patch := repo.updateCalls[0]
	if patch.PasswordHash == nil {
		t.Fatalf("expected password hash in patch")
	}
	if *patch.PasswordHash == password {
		t.Fatalf("plaintext password reached the repository")
	}
	if !hash.New(bcrypt.MinCost).Verify(password, *patch.PasswordHash) {
		t.Fatalf("patched hash does not verify with supplied password")
	}
}

func TestUserService_Update_NotFound(t *testing.T) {
	repo := &mockUserRepo{
		UpdateFn: func(patch repository.UserPatch) (*models.User, error) { return nil, nil },
	}
	svc := newTestService(t, repo)

	email := "new@x.com"
	_, err := svc.Update(context.Background(), models.UserUpdate{ID: 404, Email: &email})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// --- Delete tests ---

func TestUserService_Delete(t *testing.T) {
	existing := map[int]bool{1: true}
	repo := &mockUserRepo{
		DeleteFn: func(id int) (bool, error) {
			if existing[id] {
				delete(existing, id)
				return true, nil
			}
			return false, nil
		},
	}
	svc := newTestService(t, repo)

	if err := svc.Delete(context.Background(), 1); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	// deleting the same id again must report not found
	if err := svc.Delete(context.Background(), 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double delete, got %v", err)
	}
}

// --- List tests ---

func TestUserService_List_PassesFilter(t *testing.T) {
	repo := &mockUserRepo{
		ListFn: func(emailSubstr string) ([]models.User, error) {
			return []models.User{{ID: 1, Email: "a@x.com"}}, nil
		},
	}
	svc := newTestService(t, repo)

	users, err := svc.List(context.Background(), "a@")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(users) != 1 || users[0].Email != "a@x.com" {
		t.Fatalf("unexpected users: %+v", users)
	}
	if len(repo.listCalls) != 1 || repo.listCalls[0] != "a@" {
		t.Fatalf("filter not passed through: %v", repo.listCalls)
	}
}
