package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"user_accounts/internal/models"
)

type UserSQLite struct {
	db *sql.DB
}

func NewUserSQLite(db *sql.DB) *UserSQLite {
	return &UserSQLite{db: db}
}

// Ensure implementation of Users interface at compile time.
var _ Users = (*UserSQLite)(nil)

const (
	insertUserSQL        = `INSERT INTO users (email, password_hash) VALUES (?, ?)`
	selectUserByEmailSQL = `SELECT id, email, password_hash, is_admin FROM users WHERE email = ?`
	selectUserByIDSQL    = `SELECT id, email, password_hash, is_admin FROM users WHERE id = ?`
	updateUserSQL        = `UPDATE users SET email = ?, password_hash = ?, is_admin = ? WHERE id = ?`
	deleteUserSQL        = `DELETE FROM users WHERE id = ?`
	// instr keeps the substring match case-sensitive; LIKE folds ASCII case.
	listUsersSQL         = `SELECT id, email, password_hash, is_admin FROM users ORDER BY id`
	listUsersFilteredSQL = `SELECT id, email, password_hash, is_admin FROM users WHERE instr(email, ?) > 0 ORDER BY id`
)

// Insert creates a new user row and returns its ID. A duplicate email
// surfaces as the storage UNIQUE constraint error.
func (r *UserSQLite) Insert(ctx context.Context, email, passwordHash string) (int, error) {
	res, err := r.db.ExecContext(ctx, insertUserSQL, email, passwordHash)
	if err != nil {
		return 0, fmt.Errorf("insert user %q: %w", email, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for user %q: %w", email, err)
	}
	return int(lastID), nil
}

// GetByEmail fetches a user by email. Returns (nil, nil) if not found.
func (r *UserSQLite) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := r.scanOne(r.db.QueryRowContext(ctx, selectUserByEmailSQL, email))
	if err != nil {
		return nil, fmt.Errorf("select user %q: %w", email, err)
	}
	return u, nil
}

// GetByID fetches a user by id. Returns (nil, nil) if not found.
func (r *UserSQLite) GetByID(ctx context.Context, id int) (*models.User, error) {
	u, err := r.scanOne(r.db.QueryRowContext(ctx, selectUserByIDSQL, id))
	if err != nil {
		return nil, fmt.Errorf("select user id=%d: %w", id, err)
	}
	return u, nil
}

// Update applies the non-nil patch fields and returns the updated record,
// or (nil, nil) when the id does not exist. The read and the write share a
// transaction so the call stays atomic, and a write that matches no row
// (the record vanished between statements) reports not-found rather than
// success.
func (r *UserSQLite) Update(ctx context.Context, patch UserPatch) (*models.User, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update tx for id=%d: %w", patch.ID, err)
	}
	defer func() {
		// no-op after a successful commit
		_ = tx.Rollback()
	}()

	u, err := r.scanOne(tx.QueryRowContext(ctx, selectUserByIDSQL, patch.ID))
	if err != nil {
		return nil, fmt.Errorf("select user id=%d: %w", patch.ID, err)
	}
	if u == nil {
		return nil, nil
	}

	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.PasswordHash != nil {
		u.PasswordHash = *patch.PasswordHash
	}
	if patch.IsAdmin != nil {
		u.IsAdmin = *patch.IsAdmin
	}

	res, err := tx.ExecContext(ctx, updateUserSQL, u.Email, u.PasswordHash, u.IsAdmin, u.ID)
	if err != nil {
		return nil, fmt.Errorf("update user id=%d: %w", patch.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected for update id=%d: %w", patch.ID, err)
	}
	if affected == 0 {
		return nil, nil
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update tx for id=%d: %w", patch.ID, err)
	}
	return u, nil
}

// Delete removes a user row. Returns false when no row matched the id.
func (r *UserSQLite) Delete(ctx context.Context, id int) (bool, error) {
	res, err := r.db.ExecContext(ctx, deleteUserSQL, id)
	if err != nil {
		return false, fmt.Errorf("delete user id=%d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected for delete id=%d: %w", id, err)
	}
	return affected > 0, nil
}

// List returns all users, or those whose email contains emailSubstr.
func (r *UserSQLite) List(ctx context.Context, emailSubstr string) ([]models.User, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if emailSubstr == "" {
		rows, err = r.db.QueryContext(ctx, listUsersSQL)
	} else {
		rows, err = r.db.QueryContext(ctx, listUsersFilteredSQL, emailSubstr)
	}
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.IsAdmin); err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user rows: %w", err)
	}
	return users, nil
}

func (r *UserSQLite) scanOne(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.IsAdmin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
