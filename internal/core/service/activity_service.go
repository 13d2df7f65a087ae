package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/clientdesk/portal/internal/core/domain"
	"github.com/clientdesk/portal/internal/core/ports"
	"github.com/clientdesk/portal/internal/pkg/ids"
)

const defaultRecentLimit = 10

// activityService is the append-only audit trail.
type activityService struct {
	mu  sync.Mutex
	col ports.Collection[domain.Activity]
	now func() time.Time
}

// NewActivityLog returns an ActivityLog over col.
func NewActivityLog(col ports.Collection[domain.Activity]) ports.ActivityLog {
	return &activityService{col: col, now: func() time.Time { return time.Now().UTC() }}
}

// Append stores a new entry with a fresh id and the current time.
func (s *activityService) Append(ctx context.Context, in ports.ActivityInput) (*domain.Activity, error) {
	if strings.TrimSpace(in.Action) == "" || in.UserID == "" {
		return nil, fmt.Errorf("append activity: action and user are required: %w", domain.ErrInvalidInput)
	}

	entry := domain.Activity{
		ID:         ids.New(),
		Action:     in.Action,
		Timestamp:  s.now(),
		EntityType: in.EntityType,
		EntityID:   in.EntityID,
		UserID:     in.UserID,
		ClientID:   in.ClientID,
		ProjectID:  in.ProjectID,
		Details:    in.Details,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.col.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("append activity: %w", err)
	}
	if err := s.col.ReplaceAll(ctx, append(all, entry)); err != nil {
		return nil, fmt.Errorf("append activity: %w", err)
	}
	return &entry, nil
}

// ByEntity returns the history of one record in the order it was written.
func (s *activityService) ByEntity(ctx context.Context, entityType domain.EntityType, entityID string) ([]domain.Activity, error) {
	return s.filter(ctx, func(a domain.Activity) bool {
		return a.EntityType == entityType && a.EntityID == entityID
	})
}

// ByClient returns every entry tagged with clientID, oldest first.
func (s *activityService) ByClient(ctx context.Context, clientID string) ([]domain.Activity, error) {
	return s.filter(ctx, func(a domain.Activity) bool { return a.ClientID == clientID })
}

// ByUser returns every entry made by the acting user userID, oldest first.
func (s *activityService) ByUser(ctx context.Context, userID string) ([]domain.Activity, error) {
	return s.filter(ctx, func(a domain.Activity) bool { return a.UserID == userID })
}

// Recent returns up to limit entries, newest first. A non-positive limit
// means 10.
func (s *activityService) Recent(ctx context.Context, limit int) ([]domain.Activity, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	all, err := s.col.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("recent activities: %w", err)
	}
	return newestFirst(all, limit), nil
}

func (s *activityService) filter(ctx context.Context, keep func(domain.Activity) bool) ([]domain.Activity, error) {
	all, err := s.col.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	out := make([]domain.Activity, 0)
	for _, a := range all {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out, nil
}

// newestFirst reverses insertion order and truncates to limit. Entries are
// appended in time order, so the tail is always the most recent.
func newestFirst[T any](items []T, limit int) []T {
	n := len(items)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]T, 0, n)
	for i := len(items) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, items[i])
	}
	return out
}
