package ports

import (
	"context"

	"github.com/clientdesk/portal/internal/core/domain"
)

// CreateUserInput carries the fields of a new account. PasswordHash is already
// hashed by the credential collaborator; the store treats it as opaque.
type CreateUserInput struct {
	Name         string
	Email        string
	PasswordHash string
	Role         domain.Role
	Permissions  []string
	Active       *bool // nil defaults to true
}

// UserPatch is a shallow partial update. Nil fields are left unchanged.
type UserPatch struct {
	Name         *string
	Email        *string
	PasswordHash *string
	Role         *domain.Role
	Permissions  *[]string
	Active       *bool
}

// UserService manages user accounts.
type UserService interface {
	GetAll(ctx context.Context) ([]domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
	Create(ctx context.Context, in CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, id string, patch UserPatch) (*domain.User, error)
	SetActive(ctx context.Context, id string, active bool) (*domain.User, error)
	SetPermissions(ctx context.Context, id string, perms []string) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
