package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/clientdesk/portal/internal/core/domain"
	"github.com/clientdesk/portal/internal/core/ports"
	"github.com/clientdesk/portal/internal/pkg/ids"
)

type projectService struct {
	*core
}

// GetAll returns every project in insertion order.
func (s *projectService) GetAll(ctx context.Context) ([]domain.Project, error) {
	projects, err := s.cols.Projects.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// GetByID returns the project with id or domain.ErrNotFound.
func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	projects, err := s.cols.Projects.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("get project %s: %w", id, err)
	}
	for i := range projects {
		if projects[i].ID == id {
			return &projects[i], nil
		}
	}
	return nil, fmt.Errorf("get project %s: %w", id, domain.ErrNotFound)
}

// GetByClientID returns the projects owned by clientID.
func (s *projectService) GetByClientID(ctx context.Context, clientID string) ([]domain.Project, error) {
	return s.filter(ctx, func(p domain.Project) bool { return p.ClientID == clientID })
}

// GetByStatus returns the projects in status.
func (s *projectService) GetByStatus(ctx context.Context, status domain.ProjectStatus) ([]domain.Project, error) {
	return s.filter(ctx, func(p domain.Project) bool { return p.Status == status })
}

func (s *projectService) filter(ctx context.Context, keep func(domain.Project) bool) ([]domain.Project, error) {
	projects, err := s.cols.Projects.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	out := make([]domain.Project, 0)
	for _, p := range projects {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Create stores a project under an existing client. The status defaults to
// planning, an end date before the start date is rejected, and the client's
// portal user is notified when it has one.
func (s *projectService) Create(ctx context.Context, in ports.CreateProjectInput) (*domain.Project, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, failed(fmt.Errorf("create project: %w", err))
	}
	if strings.TrimSpace(in.Name) == "" || in.ClientID == "" {
		return nil, failed(fmt.Errorf("create project: name and client are required: %w", domain.ErrInvalidInput))
	}
	status := in.Status
	if status == "" {
		status = domain.ProjectPlanning
	}
	if !status.Valid() {
		return nil, failed(fmt.Errorf("create project: status %q: %w", status, domain.ErrInvalidInput))
	}
	if err := checkDates(in.StartDate, in.EndDate); err != nil {
		return nil, failed(fmt.Errorf("create project: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkClientRef(ctx, "client_id", in.ClientID); err != nil {
		return nil, failed(fmt.Errorf("create project: %w", err))
	}
	if err := s.checkUserRef(ctx, "manager_id", in.ManagerID); err != nil {
		return nil, failed(fmt.Errorf("create project: %w", err))
	}

	projects, err := s.cols.Projects.ReadAll(ctx)
	if err != nil {
		return nil, failed(fmt.Errorf("create project: %w", err))
	}
	now := s.now()
	p := domain.Project{
		ID:          ids.New(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Status:      status,
		ClientID:    in.ClientID,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Budget:      in.Budget,
		ManagerID:   in.ManagerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.cols.Projects.ReplaceAll(ctx, append(projects, p)); err != nil {
		return nil, failed(fmt.Errorf("create project: %w", err))
	}

	s.record(ctx, ports.ActivityInput{
		Action:     domain.ActionTag(domain.VerbCreate, domain.EntityProject),
		EntityType: domain.EntityProject,
		EntityID:   p.ID,
		UserID:     actor,
		ClientID:   p.ClientID,
		ProjectID:  p.ID,
		Details:    domain.CreatedDetails(projectSnapshot(&p)),
	})
	s.alert(ctx, ports.CreateNotificationInput{
		UserID:   s.portalUserOf(ctx, p.ClientID),
		ClientID: p.ClientID,
		Title:    "New project",
		Message:  fmt.Sprintf("Project %q has been created for you.", p.Name),
		Type:     domain.NotificationProject,
		Link:     projectLink(p.ID),
	})
	mutated(domain.EntityProject, domain.VerbCreate)
	s.log.Info().Str("project_id", p.ID).Str("client_id", p.ClientID).Str("actor", actor).Msg("project created")
	return &p, nil
}

// Update applies patch. ClientID may be re-pointed to another live client.
// A status change notifies the client's portal user.
func (s *projectService) Update(ctx context.Context, id string, patch ports.ProjectPatch) (*domain.Project, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, failed(fmt.Errorf("update project: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	projects, err := s.cols.Projects.ReadAll(ctx)
	if err != nil {
		return nil, failed(fmt.Errorf("update project: %w", err))
	}
	idx := slices.IndexFunc(projects, func(p domain.Project) bool { return p.ID == id })
	if idx < 0 {
		return nil, failed(fmt.Errorf("update project %s: %w", id, domain.ErrNotFound))
	}

	p := projects[idx]
	prevStatus := p.Status
	var changed []string
	if patch.Name != nil && *patch.Name != p.Name {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, failed(fmt.Errorf("update project: name is required: %w", domain.ErrInvalidInput))
		}
		p.Name = strings.TrimSpace(*patch.Name)
		changed = append(changed, "name")
	}
	if patch.Description != nil && *patch.Description != p.Description {
		p.Description = *patch.Description
		changed = append(changed, "description")
	}
	if patch.Status != nil && *patch.Status != p.Status {
		if !patch.Status.Valid() {
			return nil, failed(fmt.Errorf("update project: status %q: %w", *patch.Status, domain.ErrInvalidInput))
		}
		p.Status = *patch.Status
		changed = append(changed, "status")
	}
	if patch.ClientID != nil && *patch.ClientID != p.ClientID {
		if *patch.ClientID == "" {
			return nil, failed(fmt.Errorf("update project: client is required: %w", domain.ErrInvalidInput))
		}
		if err := s.checkClientRef(ctx, "client_id", *patch.ClientID); err != nil {
			return nil, failed(fmt.Errorf("update project: %w", err))
		}
		p.ClientID = *patch.ClientID
		changed = append(changed, "client_id")
	}
	if patch.StartDate != nil && !sameTime(patch.StartDate, p.StartDate) {
		p.StartDate = patch.StartDate
		changed = append(changed, "start_date")
	}
	if patch.EndDate != nil && !sameTime(patch.EndDate, p.EndDate) {
		p.EndDate = patch.EndDate
		changed = append(changed, "end_date")
	}
	if err := checkDates(p.StartDate, p.EndDate); err != nil {
		return nil, failed(fmt.Errorf("update project: %w", err))
	}
	if patch.Budget != nil && (p.Budget == nil || *patch.Budget != *p.Budget) {
		p.Budget = patch.Budget
		changed = append(changed, "budget")
	}
	if patch.ManagerID != nil && *patch.ManagerID != p.ManagerID {
		if err := s.checkUserRef(ctx, "manager_id", *patch.ManagerID); err != nil {
			return nil, failed(fmt.Errorf("update project: %w", err))
		}
		p.ManagerID = *patch.ManagerID
		changed = append(changed, "manager_id")
	}
	p.UpdatedAt = s.now()
	projects[idx] = p

	if err := s.cols.Projects.ReplaceAll(ctx, projects); err != nil {
		return nil, failed(fmt.Errorf("update project: %w", err))
	}

	s.record(ctx, ports.ActivityInput{
		Action:     domain.ActionTag(domain.VerbUpdate, domain.EntityProject),
		EntityType: domain.EntityProject,
		EntityID:   p.ID,
		UserID:     actor,
		ClientID:   p.ClientID,
		ProjectID:  p.ID,
		Details:    domain.ChangedDetails(changed),
	})
	if p.Status != prevStatus {
		s.alert(ctx, ports.CreateNotificationInput{
			UserID:   s.portalUserOf(ctx, p.ClientID),
			ClientID: p.ClientID,
			Title:    "Project status changed",
			Message:  fmt.Sprintf("Project %q moved from %s to %s.", p.Name, prevStatus, p.Status),
			Type:     domain.NotificationProject,
			Link:     projectLink(p.ID),
		})
	}
	mutated(domain.EntityProject, domain.VerbUpdate)
	return &p, nil
}

// Delete removes the project. Its activity history is kept.
func (s *projectService) Delete(ctx context.Context, id string) error {
	actor, err := requireActor(ctx)
	if err != nil {
		return failed(fmt.Errorf("delete project: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	projects, err := s.cols.Projects.ReadAll(ctx)
	if err != nil {
		return failed(fmt.Errorf("delete project: %w", err))
	}
	idx := slices.IndexFunc(projects, func(p domain.Project) bool { return p.ID == id })
	if idx < 0 {
		return failed(fmt.Errorf("delete project %s: %w", id, domain.ErrNotFound))
	}

	removed := projects[idx]
	if err := s.cols.Projects.ReplaceAll(ctx, slices.Delete(projects, idx, idx+1)); err != nil {
		return failed(fmt.Errorf("delete project: %w", err))
	}

	s.record(ctx, ports.ActivityInput{
		Action:     domain.ActionTag(domain.VerbDelete, domain.EntityProject),
		EntityType: domain.EntityProject,
		EntityID:   id,
		UserID:     actor,
		ClientID:   removed.ClientID,
		ProjectID:  id,
		Details:    domain.DeletedDetails(projectSnapshot(&removed)),
	})
	mutated(domain.EntityProject, domain.VerbDelete)
	s.log.Info().Str("project_id", id).Str("actor", actor).Msg("project deleted")
	return nil
}

func checkDates(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return fmt.Errorf("end date before start date: %w", domain.ErrInvalidInput)
	}
	return nil
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func projectLink(id string) string {
	return "/portal/projects/" + id
}

func projectSnapshot(p *domain.Project) domain.EntitySnapshot {
	return domain.EntitySnapshot{Name: p.Name, Label: string(p.Status)}
}
