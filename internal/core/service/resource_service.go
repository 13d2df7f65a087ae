package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/clientdesk/portal/internal/core/domain"
	"github.com/clientdesk/portal/internal/core/ports"
	"github.com/clientdesk/portal/internal/pkg/ids"
)

type resourceService struct {
	*core
}

// GetAll returns every resource, global and client-scoped.
func (s *resourceService) GetAll(ctx context.Context) ([]domain.Resource, error) {
	resources, err := s.cols.Resources.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	return resources, nil
}

// GetByID returns the resource with id or domain.ErrNotFound.
func (s *resourceService) GetByID(ctx context.Context, id string) (*domain.Resource, error) {
	resources, err := s.cols.Resources.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("get resource %s: %w", id, err)
	}
	for i := range resources {
		if resources[i].ID == id {
			return &resources[i], nil
		}
	}
	return nil, fmt.Errorf("get resource %s: %w", id, domain.ErrNotFound)
}

// GetByClientID returns the client's own resources. Global resources are not
// included; use GetGlobal for those.
func (s *resourceService) GetByClientID(ctx context.Context, clientID string) ([]domain.Resource, error) {
	return s.filter(ctx, func(r domain.Resource) bool { return r.ClientID == clientID })
}

// GetGlobal returns the resources shared with every client.
func (s *resourceService) GetGlobal(ctx context.Context) ([]domain.Resource, error) {
	return s.filter(ctx, func(r domain.Resource) bool { return r.ClientID == "" })
}

func (s *resourceService) filter(ctx context.Context, keep func(domain.Resource) bool) ([]domain.Resource, error) {
	resources, err := s.cols.Resources.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	out := make([]domain.Resource, 0)
	for _, r := range resources {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Create stores a resource. A resource with a ClientID must point at a live
// client, whose portal user is notified.
func (s *resourceService) Create(ctx context.Context, in ports.CreateResourceInput) (*domain.Resource, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, failed(fmt.Errorf("create resource: %w", err))
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, failed(fmt.Errorf("create resource: title is required: %w", domain.ErrInvalidInput))
	}
	if !in.Type.Valid() {
		return nil, failed(fmt.Errorf("create resource: type %q: %w", in.Type, domain.ErrInvalidInput))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkClientRef(ctx, "client_id", in.ClientID); err != nil {
		return nil, failed(fmt.Errorf("create resource: %w", err))
	}
	resources, err := s.cols.Resources.ReadAll(ctx)
	if err != nil {
		return nil, failed(fmt.Errorf("create resource: %w", err))
	}

	now := s.now()
	r := domain.Resource{
		ID:          ids.New(),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		URL:         strings.TrimSpace(in.URL),
		Type:        in.Type,
		ClientID:    in.ClientID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.cols.Resources.ReplaceAll(ctx, append(resources, r)); err != nil {
		return nil, failed(fmt.Errorf("create resource: %w", err))
	}

	s.record(ctx, ports.ActivityInput{
		Action:     domain.ActionTag(domain.VerbCreate, domain.EntityResource),
		EntityType: domain.EntityResource,
		EntityID:   r.ID,
		UserID:     actor,
		ClientID:   r.ClientID,
		Details:    domain.CreatedDetails(resourceSnapshot(&r)),
	})
	if r.ClientID != "" {
		s.alert(ctx, ports.CreateNotificationInput{
			UserID:   s.portalUserOf(ctx, r.ClientID),
			ClientID: r.ClientID,
			Title:    "New resource",
			Message:  fmt.Sprintf("%q has been shared with you.", r.Title),
			Type:     domain.NotificationResource,
			Link:     "/portal/resources/" + r.ID,
		})
	}
	mutated(domain.EntityResource, domain.VerbCreate)
	return &r, nil
}

// Update applies the non-nil fields of patch. Re-scoping to another client
// is checked like Create.
func (s *resourceService) Update(ctx context.Context, id string, patch ports.ResourcePatch) (*domain.Resource, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, failed(fmt.Errorf("update resource: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	resources, err := s.cols.Resources.ReadAll(ctx)
	if err != nil {
		return nil, failed(fmt.Errorf("update resource: %w", err))
	}
	idx := slices.IndexFunc(resources, func(r domain.Resource) bool { return r.ID == id })
	if idx < 0 {
		return nil, failed(fmt.Errorf("update resource %s: %w", id, domain.ErrNotFound))
	}

	r := resources[idx]
	var changed []string
	if patch.Title != nil && *patch.Title != r.Title {
		if strings.TrimSpace(*patch.Title) == "" {
			return nil, failed(fmt.Errorf("update resource: title is required: %w", domain.ErrInvalidInput))
		}
		r.Title = strings.TrimSpace(*patch.Title)
		changed = append(changed, "title")
	}
	if patch.Description != nil && *patch.Description != r.Description {
		r.Description = *patch.Description
		changed = append(changed, "description")
	}
	if patch.URL != nil && *patch.URL != r.URL {
		r.URL = strings.TrimSpace(*patch.URL)
		changed = append(changed, "url")
	}
	if patch.Type != nil && *patch.Type != r.Type {
		if !patch.Type.Valid() {
			return nil, failed(fmt.Errorf("update resource: type %q: %w", *patch.Type, domain.ErrInvalidInput))
		}
		r.Type = *patch.Type
		changed = append(changed, "type")
	}
	if patch.ClientID != nil && *patch.ClientID != r.ClientID {
		if err := s.checkClientRef(ctx, "client_id", *patch.ClientID); err != nil {
			return nil, failed(fmt.Errorf("update resource: %w", err))
		}
		r.ClientID = *patch.ClientID
		changed = append(changed, "client_id")
	}
	r.UpdatedAt = s.now()
	resources[idx] = r

	if err := s.cols.Resources.ReplaceAll(ctx, resources); err != nil {
		return nil, failed(fmt.Errorf("update resource: %w", err))
	}

	s.record(ctx, ports.ActivityInput{
		Action:     domain.ActionTag(domain.VerbUpdate, domain.EntityResource),
		EntityType: domain.EntityResource,
		EntityID:   r.ID,
		UserID:     actor,
		ClientID:   r.ClientID,
		Details:    domain.ChangedDetails(changed),
	})
	mutated(domain.EntityResource, domain.VerbUpdate)
	return &r, nil
}

// Delete removes the resource. Its activity history is kept.
func (s *resourceService) Delete(ctx context.Context, id string) error {
	actor, err := requireActor(ctx)
	if err != nil {
		return failed(fmt.Errorf("delete resource: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	resources, err := s.cols.Resources.ReadAll(ctx)
	if err != nil {
		return failed(fmt.Errorf("delete resource: %w", err))
	}
	idx := slices.IndexFunc(resources, func(r domain.Resource) bool { return r.ID == id })
	if idx < 0 {
		return failed(fmt.Errorf("delete resource %s: %w", id, domain.ErrNotFound))
	}

	removed := resources[idx]
	if err := s.cols.Resources.ReplaceAll(ctx, slices.Delete(resources, idx, idx+1)); err != nil {
		return failed(fmt.Errorf("delete resource: %w", err))
	}

	s.record(ctx, ports.ActivityInput{
		Action:     domain.ActionTag(domain.VerbDelete, domain.EntityResource),
		EntityType: domain.EntityResource,
		EntityID:   id,
		UserID:     actor,
		ClientID:   removed.ClientID,
		Details:    domain.DeletedDetails(resourceSnapshot(&removed)),
	})
	mutated(domain.EntityResource, domain.VerbDelete)
	return nil
}

func resourceSnapshot(r *domain.Resource) domain.EntitySnapshot {
	return domain.EntitySnapshot{Name: r.Title, Label: string(r.Type)}
}
