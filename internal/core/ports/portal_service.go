package ports

import (
	"context"

	"github.com/clientdesk/portal/internal/core/domain"
)

// PortalDataService is the server-side data path used by the client portal.
// Every method fails fast with domain.ErrUnavailable once the database has
// been declared unreachable.
type PortalDataService interface {
	Available() bool
	ListClients(ctx context.Context) ([]domain.Client, error)
	GetClient(ctx context.Context, id string) (*domain.Client, error)
	CreateClient(ctx context.Context, c *domain.Client) error
	DeleteClient(ctx context.Context, id string) error
	ProjectsByClient(ctx context.Context, clientID string) ([]domain.Project, error)
	CreateProject(ctx context.Context, p *domain.Project) error
	LogActivity(ctx context.Context, a *domain.Activity) error
	RecentActivities(ctx context.Context, clientID string, limit int) ([]domain.Activity, error)
	CreateNotification(ctx context.Context, n *domain.Notification) error
	NotificationsByUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error)
	MarkNotificationRead(ctx context.Context, userID, id string) error
	ClientStats(ctx context.Context) (domain.ClientStats, error)
}
