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

type userService struct {
	*core
}

// GetAll returns every user in insertion order.
func (s *userService) GetAll(ctx context.Context) ([]domain.User, error) {
	users, err := s.cols.Users.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// GetByID returns the user with id or domain.ErrNotFound.
func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.findUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return u, nil
}

// GetByEmail matches case-insensitively.
func (s *userService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	users, err := s.cols.Users.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	email = normalizeEmail(email)
	for i := range users {
		if normalizeEmail(users[i].Email) == email {
			return &users[i], nil
		}
	}
	return nil, fmt.Errorf("get user by email: %w", domain.ErrNotFound)
}

// GetByRole returns the users holding role.
func (s *userService) GetByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	users, err := s.cols.Users.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users by role: %w", err)
	}
	out := make([]domain.User, 0)
	for _, u := range users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

// Create validates the input and stores a new user, active unless the input
// says otherwise. The email is trimmed and lowercased and must not belong to
// another user.
func (s *userService) Create(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, failed(fmt.Errorf("create user: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.insertUser(ctx, in)
	if err != nil {
		return nil, failed(fmt.Errorf("create user: %w", err))
	}

	s.record(ctx, ports.ActivityInput{
		Action:     domain.ActionTag(domain.VerbCreate, domain.EntityUser),
		EntityType: domain.EntityUser,
		EntityID:   u.ID,
		UserID:     actor,
		Details:    domain.CreatedDetails(userSnapshot(u)),
	})
	mutated(domain.EntityUser, domain.VerbCreate)
	s.log.Info().Str("user_id", u.ID).Str("role", string(u.Role)).Str("actor", actor).Msg("user created")
	return u, nil
}

// insertUser validates and appends a user. The caller holds the writer lock.
func (s *core) insertUser(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	email := normalizeEmail(in.Email)
	if strings.TrimSpace(in.Name) == "" || email == "" {
		return nil, fmt.Errorf("name and email are required: %w", domain.ErrInvalidInput)
	}
	if !in.Role.Valid() {
		return nil, fmt.Errorf("role %q: %w", in.Role, domain.ErrInvalidInput)
	}

	users, err := s.cols.Users.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	if emailTaken(users, email, "") {
		return nil, fmt.Errorf("email %s: %w", email, domain.ErrDuplicateKey)
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}
	perms := in.Permissions
	if perms == nil {
		perms = []string{}
	}

	now := s.now()
	u := domain.User{
		ID:           ids.New(),
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: in.PasswordHash,
		Role:         in.Role,
		Permissions:  perms,
		Active:       active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.cols.Users.ReplaceAll(ctx, append(users, u)); err != nil {
		return nil, err
	}
	return &u, nil
}

// Update applies the non-nil fields of patch and records which fields
// changed. A new email is checked for uniqueness excluding the user itself.
func (s *userService) Update(ctx context.Context, id string, patch ports.UserPatch) (*domain.User, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, failed(fmt.Errorf("update user: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.cols.Users.ReadAll(ctx)
	if err != nil {
		return nil, failed(fmt.Errorf("update user: %w", err))
	}
	idx := slices.IndexFunc(users, func(u domain.User) bool { return u.ID == id })
	if idx < 0 {
		return nil, failed(fmt.Errorf("update user %s: %w", id, domain.ErrNotFound))
	}

	u := users[idx]
	var changed []string
	if patch.Name != nil && *patch.Name != u.Name {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, failed(fmt.Errorf("update user: name is required: %w", domain.ErrInvalidInput))
		}
		u.Name = strings.TrimSpace(*patch.Name)
		changed = append(changed, "name")
	}
	if patch.Email != nil {
		email := normalizeEmail(*patch.Email)
		if email == "" {
			return nil, failed(fmt.Errorf("update user: email is required: %w", domain.ErrInvalidInput))
		}
		if email != u.Email {
			if emailTaken(users, email, id) {
				return nil, failed(fmt.Errorf("update user: email %s: %w", email, domain.ErrDuplicateKey))
			}
			u.Email = email
			changed = append(changed, "email")
		}
	}
	if patch.PasswordHash != nil && *patch.PasswordHash != u.PasswordHash {
		u.PasswordHash = *patch.PasswordHash
		changed = append(changed, "password_hash")
	}
	if patch.Role != nil && *patch.Role != u.Role {
		if !patch.Role.Valid() {
			return nil, failed(fmt.Errorf("update user: role %q: %w", *patch.Role, domain.ErrInvalidInput))
		}
		u.Role = *patch.Role
		changed = append(changed, "role")
	}
	if patch.Permissions != nil && !slices.Equal(*patch.Permissions, u.Permissions) {
		u.Permissions = slices.Clone(*patch.Permissions)
		if u.Permissions == nil {
			u.Permissions = []string{}
		}
		changed = append(changed, "permissions")
	}
	if patch.Active != nil && *patch.Active != u.Active {
		u.Active = *patch.Active
		changed = append(changed, "active")
	}
	u.UpdatedAt = s.now()
	users[idx] = u

	if err := s.cols.Users.ReplaceAll(ctx, users); err != nil {
		return nil, failed(fmt.Errorf("update user: %w", err))
	}

	s.record(ctx, ports.ActivityInput{
		Action:     domain.ActionTag(domain.VerbUpdate, domain.EntityUser),
		EntityType: domain.EntityUser,
		EntityID:   u.ID,
		UserID:     actor,
		Details:    domain.ChangedDetails(changed),
	})
	mutated(domain.EntityUser, domain.VerbUpdate)
	return &u, nil
}

// SetActive enables or disables the account.
func (s *userService) SetActive(ctx context.Context, id string, active bool) (*domain.User, error) {
	return s.Update(ctx, id, ports.UserPatch{Active: &active})
}

// SetPermissions replaces the permission list.
func (s *userService) SetPermissions(ctx context.Context, id string, perms []string) (*domain.User, error) {
	return s.Update(ctx, id, ports.UserPatch{Permissions: &perms})
}

// Delete removes a user for good. Only an administrator may do it.
func (s *userService) Delete(ctx context.Context, id string) error {
	actor, err := requireActor(ctx)
	if err != nil {
		return failed(fmt.Errorf("delete user: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.cols.Users.ReadAll(ctx)
	if err != nil {
		return failed(fmt.Errorf("delete user: %w", err))
	}
	actorIdx := slices.IndexFunc(users, func(u domain.User) bool { return u.ID == actor })
	if actorIdx < 0 || users[actorIdx].Role != domain.RoleAdmin {
		return failed(fmt.Errorf("delete user: %w", domain.ErrForbidden))
	}
	idx := slices.IndexFunc(users, func(u domain.User) bool { return u.ID == id })
	if idx < 0 {
		return failed(fmt.Errorf("delete user %s: %w", id, domain.ErrNotFound))
	}

	removed := users[idx]
	if err := s.cols.Users.ReplaceAll(ctx, slices.Delete(users, idx, idx+1)); err != nil {
		return failed(fmt.Errorf("delete user: %w", err))
	}

	s.record(ctx, ports.ActivityInput{
		Action:     domain.ActionTag(domain.VerbDelete, domain.EntityUser),
		EntityType: domain.EntityUser,
		EntityID:   id,
		UserID:     actor,
		Details:    domain.DeletedDetails(userSnapshot(&removed)),
	})
	mutated(domain.EntityUser, domain.VerbDelete)
	s.log.Info().Str("user_id", id).Str("actor", actor).Msg("user deleted")
	return nil
}

// emailTaken reports whether another user (not exceptID) already uses email.
func emailTaken(users []domain.User, email, exceptID string) bool {
	for _, u := range users {
		if u.ID != exceptID && normalizeEmail(u.Email) == email {
			return true
		}
	}
	return false
}

func userSnapshot(u *domain.User) domain.EntitySnapshot {
	return domain.EntitySnapshot{Name: u.Name, Email: u.Email, Label: string(u.Role)}
}
