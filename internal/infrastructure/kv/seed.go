package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/clientdesk/portal/internal/core/domain"
	"github.com/clientdesk/portal/internal/pkg/ids"
)

const initializedValue = "true"

// BootstrapAdmin describes the administrator written on first use.
// PasswordHash must already be hashed.
type BootstrapAdmin struct {
	Name         string
	Email        string
	PasswordHash string
}

// Seeder prepares an empty substrate for first use.
type Seeder struct {
	sub   Substrate
	keys  Keys
	admin BootstrapAdmin
	log   zerolog.Logger
	now   func() time.Time
}

// NewSeeder returns a Seeder writing under keys.
func NewSeeder(sub Substrate, keys Keys, admin BootstrapAdmin, log zerolog.Logger) *Seeder {
	return &Seeder{
		sub:   sub,
		keys:  keys,
		admin: admin,
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// EnsureSeeded writes an empty list for every collection and a single
// bootstrap administrator into users, then records the initialized marker.
// Once the marker exists it does nothing. Collections that already hold data
// are never overwritten. It reports whether seeding ran.
func (s *Seeder) EnsureSeeded(ctx context.Context) (bool, error) {
	_, err := s.sub.Get(ctx, s.keys.Initialized)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, ErrKeyNotFound) {
		return false, fmt.Errorf("seed: read marker: %w", err)
	}

	for _, key := range s.keys.Collections() {
		if _, err := s.sub.Get(ctx, key); err == nil {
			continue
		} else if !errors.Is(err, ErrKeyNotFound) {
			return false, fmt.Errorf("seed: read %s: %w", key, err)
		}

		value := []byte("[]")
		if key == s.keys.Users {
			value, err = json.Marshal([]domain.User{s.bootstrapUser()})
			if err != nil {
				return false, fmt.Errorf("seed: encode admin: %w", err)
			}
		}
		if err := s.sub.Set(ctx, key, value); err != nil {
			return false, fmt.Errorf("seed: write %s: %w", key, err)
		}
	}

	if err := s.sub.Set(ctx, s.keys.Initialized, []byte(initializedValue)); err != nil {
		return false, fmt.Errorf("seed: write marker: %w", err)
	}

	s.log.Info().
		Str("backend", s.sub.Name()).
		Str("admin_email", s.admin.Email).
		Msg("store seeded with bootstrap administrator")
	return true, nil
}

// ClearAllData deletes every collection and the marker, then seeds again.
// Intended for test harnesses; nothing in the serving path calls it.
func (s *Seeder) ClearAllData(ctx context.Context) error {
	keys := append(s.keys.Collections(), s.keys.Initialized)
	for _, key := range keys {
		if err := s.sub.Delete(ctx, key); err != nil {
			return fmt.Errorf("clear %s: %w", key, err)
		}
	}
	_, err := s.EnsureSeeded(ctx)
	return err
}

func (s *Seeder) bootstrapUser() domain.User {
	now := s.now()
	return domain.User{
		ID:           ids.New(),
		Name:         s.admin.Name,
		Email:        domain.NormalizeEmail(s.admin.Email),
		PasswordHash: s.admin.PasswordHash,
		Role:         domain.RoleAdmin,
		Permissions:  []string{domain.PermissionAll},
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
