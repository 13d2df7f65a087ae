package ports

import (
	"context"

	"github.com/clientdesk/portal/internal/core/domain"
)

// CreateNotificationInput carries a new inbox alert.
type CreateNotificationInput struct {
	UserID   string
	ClientID string
	Title    string
	Message  string
	Type     string
	Link     string
}

// NotificationService manages per-user and per-client inboxes.
type NotificationService interface {
	Create(ctx context.Context, in CreateNotificationInput) (*domain.Notification, error)
	ByUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error)
	ByClient(ctx context.Context, clientID string, limit int) ([]domain.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, id string) (*domain.Notification, error)
	MarkAllReadForUser(ctx context.Context, userID string) (int, error)
	MarkAllReadForClient(ctx context.Context, clientID string) (int, error)
}
