package ports

import (
	"context"

	"github.com/clientdesk/portal/internal/core/domain"
)

// StatsService computes breakdowns on demand from the current collections.
type StatsService interface {
	ClientStats(ctx context.Context) (domain.ClientStats, error)
	ProjectStats(ctx context.Context) (domain.ProjectStats, error)
	ResourceStats(ctx context.Context) (domain.ResourceStats, error)
	UserStats(ctx context.Context) (domain.UserStats, error)
	Dashboard(ctx context.Context) (domain.Dashboard, error)
}
