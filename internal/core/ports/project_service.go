package ports

import (
	"context"
	"time"

	"github.com/clientdesk/portal/internal/core/domain"
)

// CreateProjectInput carries the fields of a new project. ClientID is required.
type CreateProjectInput struct {
	Name        string
	Description string
	Status      domain.ProjectStatus // empty defaults to planning
	ClientID    string
	StartDate   *time.Time
	EndDate     *time.Time
	Budget      *float64
	ManagerID   string
}

// ProjectPatch is a shallow partial update. Nil fields are left unchanged.
type ProjectPatch struct {
	Name        *string
	Description *string
	Status      *domain.ProjectStatus
	ClientID    *string
	StartDate   *time.Time
	EndDate     *time.Time
	Budget      *float64
	ManagerID   *string
}

// ProjectService manages projects.
type ProjectService interface {
	GetAll(ctx context.Context) ([]domain.Project, error)
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByClientID(ctx context.Context, clientID string) ([]domain.Project, error)
	GetByStatus(ctx context.Context, status domain.ProjectStatus) ([]domain.Project, error)
	Create(ctx context.Context, in CreateProjectInput) (*domain.Project, error)
	Update(ctx context.Context, id string, patch ProjectPatch) (*domain.Project, error)
	Delete(ctx context.Context, id string) error
}
