package ports

import (
	"context"
	"time"

	"github.com/medivault/clinical-portal/internal/core/domain"
)

// UserView is the decrypted-for-display representation of a user.
type UserView struct {
	ID        string              `json:"id"`
	Username  string              `json:"username"`
	Role      string              `json:"role"`
	Personal  domain.PersonalData `json:"personal"`
	CreatedAt time.Time           `json:"created_at"`
}

// CreateUserInput carries the plaintext fields for a new user. The
// service hashes the password and encrypts FullName/Email before any
// repository call.
type CreateUserInput struct {
	Username string
	Password string
	FullName string
	Email    string
	Role     string
}

// UpdateUserInput carries the mutable fields of an existing user.
type UpdateUserInput struct {
	FullName string
	Email    string
	Role     string
}

// UserService defines the admin-facing user management operations.
type UserService interface {
	List(ctx context.Context) ([]UserView, error)
	Create(ctx context.Context, input CreateUserInput) (*UserView, error)
	Update(ctx context.Context, id string, input UpdateUserInput) error
	// Delete removes a user. actorID is the caller's own ID; deleting
	// yourself is refused with domain.ErrSelfDelete.
	Delete(ctx context.Context, actorID, id string) error
}
