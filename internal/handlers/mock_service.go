package handlers

import (
	"context"

	"user_accounts/internal/models"
	"user_accounts/internal/service"
)

// ---- Service Mocks ----

type mockUsers struct {
	registerUser *models.User
	registerErr  error
	loginToken   string
	loginErr     error
	currentUser  *models.User
	currentErr   error
	updateUser   *models.User
	updateErr    error
	deleteErr    error
	listUsers    []models.User
	listErr      error

	lastRegisterEmail    string
	lastRegisterPassword string
	lastLoginEmail       string
	lastLoginPassword    string
	lastCurrentToken     string
	lastUpdate           models.UserUpdate
	lastDeleteID         int
	lastListFilter       string
}

var _ service.Users = (*mockUsers)(nil)

func (m *mockUsers) Register(_ context.Context, email, password string) (*models.User, error) {
	m.lastRegisterEmail = email
	m.lastRegisterPassword = password
	return m.registerUser, m.registerErr
}

func (m *mockUsers) Login(_ context.Context, email, password string) (string, error) {
	m.lastLoginEmail = email
	m.lastLoginPassword = password
	return m.loginToken, m.loginErr
}

func (m *mockUsers) CurrentUser(_ context.Context, accessToken string) (*models.User, error) {
	m.lastCurrentToken = accessToken
	return m.currentUser, m.currentErr
}

func (m *mockUsers) Update(_ context.Context, upd models.UserUpdate) (*models.User, error) {
	m.lastUpdate = upd
	return m.updateUser, m.updateErr
}

func (m *mockUsers) Delete(_ context.Context, id int) error {
	m.lastDeleteID = id
	return m.deleteErr
}

func (m *mockUsers) List(_ context.Context, emailSubstr string) ([]models.User, error) {
	m.lastListFilter = emailSubstr
	return m.listUsers, m.listErr
}
