package ports

import (
	"context"

	"github.com/medivault/clinical-portal/internal/core/domain"
)

// UserRepository defines persistence operations for portal users.
//
// Implementations receive records whose PII fields are already encrypted
// and whose password is already hashed; the repository never sees
// plaintext secrets.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
}
