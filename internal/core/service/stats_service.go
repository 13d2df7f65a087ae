package service

import (
	"context"
	"fmt"

	"github.com/clientdesk/portal/internal/core/domain"
	"github.com/clientdesk/portal/internal/core/ports"
)

// statsService scans the collections on every call; nothing is cached.
type statsService struct {
	cols Collections
}

// NewStatsService returns a StatsService over cols.
func NewStatsService(cols Collections) ports.StatsService {
	return &statsService{cols: cols}
}

// ClientStats counts clients by status.
func (s *statsService) ClientStats(ctx context.Context) (domain.ClientStats, error) {
	var st domain.ClientStats
	clients, err := s.cols.Clients.ReadAll(ctx)
	if err != nil {
		return st, fmt.Errorf("client stats: %w", err)
	}
	st.Total = len(clients)
	for _, c := range clients {
		switch c.Status {
		case domain.ClientActive:
			st.Active++
		case domain.ClientInactive:
			st.Inactive++
		case domain.ClientOnboarding:
			st.Onboarding++
		}
	}
	return st, nil
}

// ProjectStats counts projects by status.
func (s *statsService) ProjectStats(ctx context.Context) (domain.ProjectStats, error) {
	var st domain.ProjectStats
	projects, err := s.cols.Projects.ReadAll(ctx)
	if err != nil {
		return st, fmt.Errorf("project stats: %w", err)
	}
	st.Total = len(projects)
	for _, p := range projects {
		switch p.Status {
		case domain.ProjectPlanning:
			st.Planning++
		case domain.ProjectActive:
			st.Active++
		case domain.ProjectOnHold:
			st.OnHold++
		case domain.ProjectCompleted:
			st.Completed++
		case domain.ProjectCancelled:
			st.Cancelled++
		}
	}
	return st, nil
}

// ResourceStats counts resources by type.
func (s *statsService) ResourceStats(ctx context.Context) (domain.ResourceStats, error) {
	var st domain.ResourceStats
	resources, err := s.cols.Resources.ReadAll(ctx)
	if err != nil {
		return st, fmt.Errorf("resource stats: %w", err)
	}
	st.Total = len(resources)
	for _, r := range resources {
		switch r.Type {
		case domain.ResourceDocument:
			st.Document++
		case domain.ResourceImage:
			st.Image++
		case domain.ResourceVideo:
			st.Video++
		case domain.ResourceLink:
			st.Link++
		case domain.ResourceOther:
			st.Other++
		}
	}
	return st, nil
}

// UserStats counts users by role.
func (s *statsService) UserStats(ctx context.Context) (domain.UserStats, error) {
	var st domain.UserStats
	users, err := s.cols.Users.ReadAll(ctx)
	if err != nil {
		return st, fmt.Errorf("user stats: %w", err)
	}
	st.Total = len(users)
	for _, u := range users {
		switch u.Role {
		case domain.RoleAdmin:
			st.Admin++
		case domain.RoleManager:
			st.Manager++
		case domain.RoleUser:
			st.User++
		case domain.RoleClient:
			st.Client++
		}
	}
	return st, nil
}

// Dashboard gathers all four breakdowns. The first failing scan aborts it.
func (s *statsService) Dashboard(ctx context.Context) (domain.Dashboard, error) {
	var (
		d   domain.Dashboard
		err error
	)
	if d.Clients, err = s.ClientStats(ctx); err != nil {
		return d, err
	}
	if d.Projects, err = s.ProjectStats(ctx); err != nil {
		return d, err
	}
	if d.Resources, err = s.ResourceStats(ctx); err != nil {
		return d, err
	}
	if d.Users, err = s.UserStats(ctx); err != nil {
		return d, err
	}
	return d, nil
}
