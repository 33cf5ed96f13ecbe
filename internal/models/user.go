package models

// User is a stored account record.
type User struct {
	ID           int    `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // don’t expose hash
	IsAdmin      bool   `json:"is_admin"`
}

// UserUpdate is a partial update request. Nil pointer fields are left
// untouched; Password carries the new plaintext and is hashed by the
// service before it reaches storage.
type UserUpdate struct {
	ID       int     `json:"id" binding:"required"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	IsAdmin  *bool   `json:"is_admin,omitempty"`
}

// Role names derived from the admin flag.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// Role maps the boolean admin flag to the role string clients consume.
func (u *User) Role() string {
	if u.IsAdmin {
		return RoleAdmin
	}
	return RoleEditor
}
