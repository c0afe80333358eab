package domain

import (
	"errors"
	"time"
)

const (
	RolePatient = "patient"
	RoleMedic   = "medic"
	RoleAdmin   = "admin"
)

var ErrInvalidCredentials = errors.New("invalid username or password")
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrSelfDelete = errors.New("cannot delete own account")

// ValidRole reports whether role is one of the three portal roles.
func ValidRole(role string) bool {
	return role == RolePatient || role == RoleMedic || role == RoleAdmin
}

// User models an authenticated actor in the portal.
//
// FullName and Email hold ciphertext produced by the field cipher; the
// plaintext never reaches a repository. PasswordHash is a bcrypt hash and
// is never serialised to clients.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	FullName     string    `json:"-"`
	Email        string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PersonalData is the decrypted-for-display view of a user's PII. Fields
// that failed decryption carry the fallback sentinel instead of plaintext.
type PersonalData struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}
