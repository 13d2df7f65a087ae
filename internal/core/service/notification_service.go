package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/clientdesk/portal/internal/api/metrics"
	"github.com/clientdesk/portal/internal/core/domain"
	"github.com/clientdesk/portal/internal/core/ports"
	"github.com/clientdesk/portal/internal/pkg/ids"
)

type notificationService struct {
	mu  sync.Mutex
	col ports.Collection[domain.Notification]
	now func() time.Time
}

// NewNotificationService returns a NotificationService over col.
func NewNotificationService(col ports.Collection[domain.Notification]) ports.NotificationService {
	return &notificationService{col: col, now: func() time.Time { return time.Now().UTC() }}
}

// Create stores an unread notification. An empty type defaults to info.
func (s *notificationService) Create(ctx context.Context, in ports.CreateNotificationInput) (*domain.Notification, error) {
	if in.UserID == "" || strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("create notification: user and title are required: %w", domain.ErrInvalidInput)
	}
	typ := in.Type
	if typ == "" {
		typ = domain.NotificationInfo
	}

	now := s.now()
	n := domain.Notification{
		ID:        ids.New(),
		UserID:    in.UserID,
		ClientID:  in.ClientID,
		Title:     in.Title,
		Message:   in.Message,
		Type:      typ,
		Link:      in.Link,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.col.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	if err := s.col.ReplaceAll(ctx, append(all, n)); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	metrics.NotificationsCreatedTotal.WithLabelValues(typ).Inc()
	return &n, nil
}

// ByUser returns the user's notifications, newest first, at most limit.
// A non-positive limit returns all of them.
func (s *notificationService) ByUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	return s.inbox(ctx, limit, func(n domain.Notification) bool { return n.UserID == userID })
}

// ByClient returns the client's notifications, newest first, at most limit.
func (s *notificationService) ByClient(ctx context.Context, clientID string, limit int) ([]domain.Notification, error) {
	return s.inbox(ctx, limit, func(n domain.Notification) bool { return n.ClientID == clientID })
}

// UnreadCount returns how many of userID's notifications are unread.
func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	all, err := s.col.ReadAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("unread count: %w", err)
	}
	count := 0
	for _, n := range all {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

// MarkRead flags one notification as read. Marking an already-read
// notification changes nothing.
func (s *notificationService) MarkRead(ctx context.Context, id string) (*domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.col.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("mark read: %w", err)
	}
	for i := range all {
		if all[i].ID != id {
			continue
		}
		if all[i].Read {
			n := all[i]
			return &n, nil
		}
		all[i].Read = true
		all[i].UpdatedAt = s.now()
		if err := s.col.ReplaceAll(ctx, all); err != nil {
			return nil, fmt.Errorf("mark read: %w", err)
		}
		n := all[i]
		return &n, nil
	}
	return nil, fmt.Errorf("mark read %s: %w", id, domain.ErrNotFound)
}

// MarkAllReadForUser marks userID's inbox read and returns how many changed.
func (s *notificationService) MarkAllReadForUser(ctx context.Context, userID string) (int, error) {
	return s.markAll(ctx, func(n domain.Notification) bool { return n.UserID == userID })
}

// MarkAllReadForClient does the same for every notification tagged with
// clientID.
func (s *notificationService) MarkAllReadForClient(ctx context.Context, clientID string) (int, error) {
	return s.markAll(ctx, func(n domain.Notification) bool { return n.ClientID == clientID })
}

// markAll flags every matching unread notification and reports how many
// changed. Nothing is written when none did.
func (s *notificationService) markAll(ctx context.Context, match func(domain.Notification) bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.col.ReadAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("mark all read: %w", err)
	}
	now := s.now()
	changed := 0
	for i := range all {
		if all[i].Read || !match(all[i]) {
			continue
		}
		all[i].Read = true
		all[i].UpdatedAt = now
		changed++
	}
	if changed == 0 {
		return 0, nil
	}
	if err := s.col.ReplaceAll(ctx, all); err != nil {
		return 0, fmt.Errorf("mark all read: %w", err)
	}
	return changed, nil
}

func (s *notificationService) inbox(ctx context.Context, limit int, keep func(domain.Notification) bool) ([]domain.Notification, error) {
	all, err := s.col.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	matched := make([]domain.Notification, 0)
	for _, n := range all {
		if keep(n) {
			matched = append(matched, n)
		}
	}
	return newestFirst(matched, limit), nil
}
