package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/medivault/clinical-portal/internal/core/domain"
	"github.com/medivault/clinical-portal/internal/core/ports"
)

// UserService implements the admin-facing user management operations.
// PII is encrypted and the password hashed before any repository call;
// the read side decrypts per field with the shared fallback.
type UserService struct {
	users  ports.UserRepository
	cipher ports.FieldCipher
	audit  ports.AuditSink
}

func NewUserService(users ports.UserRepository, cipher ports.FieldCipher, audit ports.AuditSink) *UserService {
	return &UserService{users: users, cipher: cipher, audit: audit}
}

// List returns every user with PII decrypted for display.
func (s *UserService) List(ctx context.Context) ([]ports.UserView, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		s.audit.Record(fmt.Sprintf("error fetching users: %v", err), domain.AuditError)
		return nil, fmt.Errorf("%w: %v", domain.ErrDatastore, err)
	}

	views := make([]ports.UserView, 0, len(users))
	for _, u := range users {
		views = append(views, ports.UserView{
			ID:        u.ID,
			Username:  u.Username,
			Role:      u.Role,
			Personal:  decryptPersonal(s.cipher, s.audit, u),
			CreatedAt: u.CreatedAt,
		})
	}
	return views, nil
}

// Create hashes the password, encrypts the PII, and persists the user.
func (s *UserService) Create(ctx context.Context, input ports.CreateUserInput) (*ports.UserView, error) {
	if input.Username == "" || input.Password == "" || input.FullName == "" || input.Email == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if !domain.ValidRole(input.Role) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidCredentials, input.Role)
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	encName, err := s.cipher.Encrypt(input.FullName)
	if err != nil {
		return nil, fmt.Errorf("encrypt full_name: %w", err)
	}
	encEmail, err := s.cipher.Encrypt(input.Email)
	if err != nil {
		return nil, fmt.Errorf("encrypt email: %w", err)
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Username:     input.Username,
		PasswordHash: hash,
		Role:         input.Role,
		FullName:     encName,
		Email:        encEmail,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, err
		}
		return nil, failDatastore(s.audit, "creating user "+input.Username, err)
	}

	s.audit.Record(fmt.Sprintf("admin created user %s (role=%s)", created.Username, created.Role), domain.AuditInfo)
	return &ports.UserView{
		ID:       created.ID,
		Username: created.Username,
		Role:     created.Role,
		Personal: domain.PersonalData{
			FullName: input.FullName,
			Email:    input.Email,
		},
		CreatedAt: created.CreatedAt,
	}, nil
}

// Update re-encrypts any supplied PII and stores the new role. Empty
// input fields keep their current value.
func (s *UserService) Update(ctx context.Context, id string, input ports.UpdateUserInput) error {
	if input.Role != "" && !domain.ValidRole(input.Role) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidCredentials, input.Role)
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		return failDatastore(s.audit, "fetching user id="+id, err)
	}

	if input.FullName != "" {
		encName, err := s.cipher.Encrypt(input.FullName)
		if err != nil {
			return fmt.Errorf("encrypt full_name: %w", err)
		}
		user.FullName = encName
	}
	if input.Email != "" {
		encEmail, err := s.cipher.Encrypt(input.Email)
		if err != nil {
			return fmt.Errorf("encrypt email: %w", err)
		}
		user.Email = encEmail
	}
	if input.Role != "" {
		user.Role = input.Role
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		return failDatastore(s.audit, "updating user "+user.Username, err)
	}

	s.audit.Record(fmt.Sprintf("admin updated user %s", user.Username), domain.AuditInfo)
	return nil
}

// Delete removes a user. Admins cannot delete their own account.
func (s *UserService) Delete(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return domain.ErrSelfDelete
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		return failDatastore(s.audit, "deleting user id="+id, err)
	}
	s.audit.Record(fmt.Sprintf("admin deleted user id=%s", id), domain.AuditInfo)
	return nil
}
