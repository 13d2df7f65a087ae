package ports

import (
	"context"

	"github.com/clientdesk/portal/internal/core/domain"
)

// ActivityInput is an audit entry before the log assigns its id and timestamp.
type ActivityInput struct {
	Action     string
	EntityType domain.EntityType
	EntityID   string
	UserID     string
	ClientID   string
	ProjectID  string
	Details    *domain.ActivityDetails
}

// ActivityLog is the append-only audit trail.
type ActivityLog interface {
	Append(ctx context.Context, in ActivityInput) (*domain.Activity, error)
	ByEntity(ctx context.Context, entityType domain.EntityType, entityID string) ([]domain.Activity, error)
	ByClient(ctx context.Context, clientID string) ([]domain.Activity, error)
	ByUser(ctx context.Context, userID string) ([]domain.Activity, error)
	// Recent returns the newest entries first.
	Recent(ctx context.Context, limit int) ([]domain.Activity, error)
}
