package domain

import "errors"

// Role is the authorization level of a user account.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User models an account in the portal's own credential store.
type User struct {
	ID           int64  `json:"id" bson:"_id"`
	Username     string `json:"username" bson:"username"`
	Email        string `json:"email" bson:"email"`
	PasswordHash string `json:"-" bson:"password_hash"`
	Role         Role   `json:"role" bson:"role"`
	IsActive     bool   `json:"is_active" bson:"is_active"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

var (
	// ErrInvalidCredentials covers every login failure the caller is allowed
	// to see: unknown username, wrong password, or deactivated account. The
	// distinct reason is logged server-side only.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already registered")
	ErrEmailTaken    = errors.New("email already registered")
	ErrSelfDelete    = errors.New("cannot delete your own account")

	// ErrPasswordMismatch is returned when a self password reset supplies a
	// current password that does not verify against the stored hash.
	ErrPasswordMismatch = errors.New("current password is incorrect")

	ErrForbidden = errors.New("access forbidden")
)
