package ports

import (
	"context"

	"github.com/clientdesk/portal/internal/core/domain"
)

// CreateClientInput carries the fields of a new client.
type CreateClientInput struct {
	Name        string
	CompanyName string
	Email       string
	Phone       string
	Address     string
	LogoURL     string
	Status      domain.ClientStatus // empty defaults to onboarding
	UserID      string
}

// ClientPatch is a shallow partial update. Nil fields are left unchanged;
// a pointer to "" clears an optional field.
type ClientPatch struct {
	Name        *string
	CompanyName *string
	Email       *string
	Phone       *string
	Address     *string
	LogoURL     *string
	Status      *domain.ClientStatus
	UserID      *string
}

// ClientService manages client organisations.
type ClientService interface {
	GetAll(ctx context.Context) ([]domain.Client, error)
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	GetByEmail(ctx context.Context, email string) (*domain.Client, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Client, error)
	GetByStatus(ctx context.Context, status domain.ClientStatus) ([]domain.Client, error)
	Create(ctx context.Context, in CreateClientInput) (*domain.Client, error)
	// CreateWithAccount creates the portal user first, then the client referencing it.
	CreateWithAccount(ctx context.Context, in CreateClientInput, account CreateUserInput) (*domain.Client, *domain.User, error)
	Update(ctx context.Context, id string, patch ClientPatch) (*domain.Client, error)
	UpdateStatus(ctx context.Context, id string, status domain.ClientStatus) (*domain.Client, error)
	Delete(ctx context.Context, id string) error
}
