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

type clientService struct {
	*core
}

// GetAll returns every client in insertion order.
func (s *clientService) GetAll(ctx context.Context) ([]domain.Client, error) {
	clients, err := s.cols.Clients.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return clients, nil
}

// GetByID returns the client with id or domain.ErrNotFound.
func (s *clientService) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	c, err := s.findClient(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get client %s: %w", id, err)
	}
	return c, nil
}

// GetByEmail matches the email case-insensitively.
func (s *clientService) GetByEmail(ctx context.Context, email string) (*domain.Client, error) {
	return s.first(ctx, "get client by email", func(c domain.Client) bool {
		return normalizeEmail(c.Email) == normalizeEmail(email)
	})
}

// GetByUserID returns the client whose portal account is userID.
func (s *clientService) GetByUserID(ctx context.Context, userID string) (*domain.Client, error) {
	if userID == "" {
		return nil, fmt.Errorf("get client by user: %w", domain.ErrNotFound)
	}
	return s.first(ctx, "get client by user", func(c domain.Client) bool { return c.UserID == userID })
}

// GetByStatus returns the clients in status, in insertion order.
func (s *clientService) GetByStatus(ctx context.Context, status domain.ClientStatus) ([]domain.Client, error) {
	clients, err := s.cols.Clients.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clients by status: %w", err)
	}
	out := make([]domain.Client, 0)
	for _, c := range clients {
		if c.Status == status {
			out = append(out, c)
		}
	}
	return out, nil
}

// Create validates the input, rejects a taken email with
// domain.ErrDuplicateKey and an unknown UserID with domain.ErrInvalidReference,
// then stores the client with status onboarding unless one was given.
func (s *clientService) Create(ctx context.Context, in ports.CreateClientInput) (*domain.Client, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, failed(fmt.Errorf("create client: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkUserRef(ctx, "user_id", in.UserID); err != nil {
		return nil, failed(fmt.Errorf("create client: %w", err))
	}
	c, err := s.insertClient(ctx, in)
	if err != nil {
		return nil, failed(fmt.Errorf("create client: %w", err))
	}

	s.recordClientCreated(ctx, actor, c)
	return c, nil
}

// CreateWithAccount creates a client-role user and then the client linked to
// it. Both inputs are validated before anything is written. If the client
// write fails the new user is removed again; that cleanup is best-effort.
func (s *clientService) CreateWithAccount(ctx context.Context, in ports.CreateClientInput, account ports.CreateUserInput) (*domain.Client, *domain.User, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, nil, failed(fmt.Errorf("create client with account: %w", err))
	}
	account.Role = domain.RoleClient
	if account.Name == "" {
		account.Name = in.Name
	}
	if account.Email == "" {
		account.Email = in.Email
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validateNewClient(ctx, in); err != nil {
		return nil, nil, failed(fmt.Errorf("create client with account: %w", err))
	}

	u, err := s.insertUser(ctx, account)
	if err != nil {
		return nil, nil, failed(fmt.Errorf("create client with account: user: %w", err))
	}

	in.UserID = u.ID
	c, err := s.insertClient(ctx, in)
	if err != nil {
		s.removeUser(ctx, u.ID)
		return nil, nil, failed(fmt.Errorf("create client with account: client: %w", err))
	}

	s.record(ctx, ports.ActivityInput{
		Action:     domain.ActionTag(domain.VerbCreate, domain.EntityUser),
		EntityType: domain.EntityUser,
		EntityID:   u.ID,
		UserID:     actor,
		ClientID:   c.ID,
		Details:    domain.CreatedDetails(userSnapshot(u)),
	})
	mutated(domain.EntityUser, domain.VerbCreate)
	s.recordClientCreated(ctx, actor, c)
	return c, u, nil
}

func (s *clientService) recordClientCreated(ctx context.Context, actor string, c *domain.Client) {
	s.record(ctx, ports.ActivityInput{
		Action:     domain.ActionTag(domain.VerbCreate, domain.EntityClient),
		EntityType: domain.EntityClient,
		EntityID:   c.ID,
		UserID:     actor,
		ClientID:   c.ID,
		Details:    domain.CreatedDetails(clientSnapshot(c)),
	})
	mutated(domain.EntityClient, domain.VerbCreate)
	s.log.Info().Str("client_id", c.ID).Str("company", c.CompanyName).Str("actor", actor).Msg("client created")
}

// removeUser undoes insertUser after a failed composite create.
func (s *clientService) removeUser(ctx context.Context, id string) {
	users, err := s.cols.Users.ReadAll(ctx)
	if err == nil {
		users = slices.DeleteFunc(users, func(u domain.User) bool { return u.ID == id })
		err = s.cols.Users.ReplaceAll(ctx, users)
	}
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", id).Msg("failed to remove account after client create failed")
	}
}

func (s *clientService) validateNewClient(ctx context.Context, in ports.CreateClientInput) error {
	email := normalizeEmail(in.Email)
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.CompanyName) == "" || email == "" {
		return fmt.Errorf("name, company name and email are required: %w", domain.ErrInvalidInput)
	}
	if in.Status != "" && !in.Status.Valid() {
		return fmt.Errorf("status %q: %w", in.Status, domain.ErrInvalidInput)
	}
	clients, err := s.cols.Clients.ReadAll(ctx)
	if err != nil {
		return err
	}
	if clientEmailTaken(clients, email, "") {
		return fmt.Errorf("email %s: %w", email, domain.ErrDuplicateKey)
	}
	return nil
}

// insertClient validates and appends a client. The caller holds the writer
// lock and has already checked in.UserID.
func (s *clientService) insertClient(ctx context.Context, in ports.CreateClientInput) (*domain.Client, error) {
	if err := s.validateNewClient(ctx, in); err != nil {
		return nil, err
	}
	clients, err := s.cols.Clients.ReadAll(ctx)
	if err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = domain.ClientOnboarding
	}
	now := s.now()
	c := domain.Client{
		ID:          ids.New(),
		Name:        strings.TrimSpace(in.Name),
		CompanyName: strings.TrimSpace(in.CompanyName),
		Email:       normalizeEmail(in.Email),
		Phone:       in.Phone,
		Address:     in.Address,
		LogoURL:     in.LogoURL,
		Status:      status,
		UserID:      in.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.cols.Clients.ReplaceAll(ctx, append(clients, c)); err != nil {
		return nil, err
	}
	return &c, nil
}

// Update applies the non-nil fields of patch and records which fields
// changed. A new email must still be unique among clients.
func (s *clientService) Update(ctx context.Context, id string, patch ports.ClientPatch) (*domain.Client, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, failed(fmt.Errorf("update client: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	clients, err := s.cols.Clients.ReadAll(ctx)
	if err != nil {
		return nil, failed(fmt.Errorf("update client: %w", err))
	}
	idx := slices.IndexFunc(clients, func(c domain.Client) bool { return c.ID == id })
	if idx < 0 {
		return nil, failed(fmt.Errorf("update client %s: %w", id, domain.ErrNotFound))
	}

	c := clients[idx]
	var changed []string
	setString := func(field string, dst *string, v *string, required bool) error {
		if v == nil || *v == *dst {
			return nil
		}
		if required && strings.TrimSpace(*v) == "" {
			return fmt.Errorf("%s is required: %w", field, domain.ErrInvalidInput)
		}
		*dst = *v
		changed = append(changed, field)
		return nil
	}
	for _, f := range []struct {
		field    string
		dst      *string
		v        *string
		required bool
	}{
		{"name", &c.Name, patch.Name, true},
		{"company_name", &c.CompanyName, patch.CompanyName, true},
		{"phone", &c.Phone, patch.Phone, false},
		{"address", &c.Address, patch.Address, false},
		{"logo_url", &c.LogoURL, patch.LogoURL, false},
	} {
		if err := setString(f.field, f.dst, f.v, f.required); err != nil {
			return nil, failed(fmt.Errorf("update client: %w", err))
		}
	}
	if patch.Email != nil {
		email := normalizeEmail(*patch.Email)
		if email == "" {
			return nil, failed(fmt.Errorf("update client: email is required: %w", domain.ErrInvalidInput))
		}
		if email != c.Email {
			if clientEmailTaken(clients, email, id) {
				return nil, failed(fmt.Errorf("update client: email %s: %w", email, domain.ErrDuplicateKey))
			}
			c.Email = email
			changed = append(changed, "email")
		}
	}
	if patch.Status != nil && *patch.Status != c.Status {
		if !patch.Status.Valid() {
			return nil, failed(fmt.Errorf("update client: status %q: %w", *patch.Status, domain.ErrInvalidInput))
		}
		c.Status = *patch.Status
		changed = append(changed, "status")
	}
	if patch.UserID != nil && *patch.UserID != c.UserID {
		if err := s.checkUserRef(ctx, "user_id", *patch.UserID); err != nil {
			return nil, failed(fmt.Errorf("update client: %w", err))
		}
		c.UserID = *patch.UserID
		changed = append(changed, "user_id")
	}
	c.UpdatedAt = s.now()
	clients[idx] = c

	if err := s.cols.Clients.ReplaceAll(ctx, clients); err != nil {
		return nil, failed(fmt.Errorf("update client: %w", err))
	}

	s.record(ctx, ports.ActivityInput{
		Action:     domain.ActionTag(domain.VerbUpdate, domain.EntityClient),
		EntityType: domain.EntityClient,
		EntityID:   c.ID,
		UserID:     actor,
		ClientID:   c.ID,
		Details:    domain.ChangedDetails(changed),
	})
	mutated(domain.EntityClient, domain.VerbUpdate)
	return &c, nil
}

// UpdateStatus moves the client to status. Any transition is allowed.
func (s *clientService) UpdateStatus(ctx context.Context, id string, status domain.ClientStatus) (*domain.Client, error) {
	return s.Update(ctx, id, ports.ClientPatch{Status: &status})
}

// Delete removes the client together with its projects and client-scoped
// resources, writing one delete entry per removed record. The portal user and
// the activity history are kept. Children are removed before the client, so a
// storage failure part way leaves the client in place for a retry.
func (s *clientService) Delete(ctx context.Context, id string) error {
	actor, err := requireActor(ctx)
	if err != nil {
		return failed(fmt.Errorf("delete client: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	clients, err := s.cols.Clients.ReadAll(ctx)
	if err != nil {
		return failed(fmt.Errorf("delete client: %w", err))
	}
	idx := slices.IndexFunc(clients, func(c domain.Client) bool { return c.ID == id })
	if idx < 0 {
		return failed(fmt.Errorf("delete client %s: %w", id, domain.ErrNotFound))
	}
	removed := clients[idx]

	projects, err := s.removeClientProjects(ctx, id)
	s.recordCascade(ctx, actor, projects, nil)
	if err != nil {
		return failed(fmt.Errorf("delete client %s: projects: %w", id, err))
	}
	resources, err := s.removeClientResources(ctx, id)
	s.recordCascade(ctx, actor, nil, resources)
	if err != nil {
		return failed(fmt.Errorf("delete client %s: resources: %w", id, err))
	}

	if err := s.cols.Clients.ReplaceAll(ctx, slices.Delete(clients, idx, idx+1)); err != nil {
		return failed(fmt.Errorf("delete client: %w", err))
	}

	s.record(ctx, ports.ActivityInput{
		Action:     domain.ActionTag(domain.VerbDelete, domain.EntityClient),
		EntityType: domain.EntityClient,
		EntityID:   id,
		UserID:     actor,
		ClientID:   id,
		Details:    domain.DeletedDetails(clientSnapshot(&removed)),
	})
	mutated(domain.EntityClient, domain.VerbDelete)
	s.log.Info().
		Str("client_id", id).
		Int("projects", len(projects)).
		Int("resources", len(resources)).
		Str("actor", actor).
		Msg("client deleted")
	return nil
}

// removeClientProjects drops every project owned by clientID and returns them.
// The caller holds the writer lock.
func (s *clientService) removeClientProjects(ctx context.Context, clientID string) ([]domain.Project, error) {
	projects, err := s.cols.Projects.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	var gone []domain.Project
	kept := slices.DeleteFunc(projects, func(p domain.Project) bool {
		if p.ClientID == clientID {
			gone = append(gone, p)
			return true
		}
		return false
	})
	if len(gone) == 0 {
		return nil, nil
	}
	if err := s.cols.Projects.ReplaceAll(ctx, kept); err != nil {
		return nil, err
	}
	return gone, nil
}

// removeClientResources drops every resource scoped to clientID and returns
// them. Global resources are untouched. The caller holds the writer lock.
func (s *clientService) removeClientResources(ctx context.Context, clientID string) ([]domain.Resource, error) {
	resources, err := s.cols.Resources.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	var gone []domain.Resource
	kept := slices.DeleteFunc(resources, func(r domain.Resource) bool {
		if r.ClientID == clientID {
			gone = append(gone, r)
			return true
		}
		return false
	})
	if len(gone) == 0 {
		return nil, nil
	}
	if err := s.cols.Resources.ReplaceAll(ctx, kept); err != nil {
		return nil, err
	}
	return gone, nil
}

func (s *clientService) recordCascade(ctx context.Context, actor string, projects []domain.Project, resources []domain.Resource) {
	for i := range projects {
		p := &projects[i]
		s.record(ctx, ports.ActivityInput{
			Action:     domain.ActionTag(domain.VerbDelete, domain.EntityProject),
			EntityType: domain.EntityProject,
			EntityID:   p.ID,
			UserID:     actor,
			ClientID:   p.ClientID,
			ProjectID:  p.ID,
			Details:    domain.DeletedDetails(projectSnapshot(p)),
		})
		mutated(domain.EntityProject, domain.VerbDelete)
	}
	for i := range resources {
		r := &resources[i]
		s.record(ctx, ports.ActivityInput{
			Action:     domain.ActionTag(domain.VerbDelete, domain.EntityResource),
			EntityType: domain.EntityResource,
			EntityID:   r.ID,
			UserID:     actor,
			ClientID:   r.ClientID,
			Details:    domain.DeletedDetails(resourceSnapshot(r)),
		})
		mutated(domain.EntityResource, domain.VerbDelete)
	}
}

func (s *clientService) first(ctx context.Context, op string, match func(domain.Client) bool) (*domain.Client, error) {
	clients, err := s.cols.Clients.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for i := range clients {
		if match(clients[i]) {
			return &clients[i], nil
		}
	}
	return nil, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
}

func clientEmailTaken(clients []domain.Client, email, exceptID string) bool {
	for _, c := range clients {
		if c.ID != exceptID && normalizeEmail(c.Email) == email {
			return true
		}
	}
	return false
}

func clientSnapshot(c *domain.Client) domain.EntitySnapshot {
	return domain.EntitySnapshot{Name: c.Name, Email: c.Email, Label: c.CompanyName}
}
