package ports

import (
	"context"

	"github.com/clientdesk/portal/internal/core/domain"
)

// CreateResourceInput carries the fields of a new resource. An empty ClientID
// makes the resource global.
type CreateResourceInput struct {
	Title       string
	Description string
	URL         string
	Type        domain.ResourceType
	ClientID    string
}

// ResourcePatch is a shallow partial update. Nil fields are left unchanged.
type ResourcePatch struct {
	Title       *string
	Description *string
	URL         *string
	Type        *domain.ResourceType
	ClientID    *string
}

// ResourceService manages shared resources.
type ResourceService interface {
	GetAll(ctx context.Context) ([]domain.Resource, error)
	GetByID(ctx context.Context, id string) (*domain.Resource, error)
	GetByClientID(ctx context.Context, clientID string) ([]domain.Resource, error)
	GetGlobal(ctx context.Context) ([]domain.Resource, error)
	Create(ctx context.Context, in CreateResourceInput) (*domain.Resource, error)
	Update(ctx context.Context, id string, patch ResourcePatch) (*domain.Resource, error)
	Delete(ctx context.Context, id string) error
}
