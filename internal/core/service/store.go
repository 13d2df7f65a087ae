package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/clientdesk/portal/internal/api/metrics"
	"github.com/clientdesk/portal/internal/core/domain"
	"github.com/clientdesk/portal/internal/core/ports"
)

// Collections is the persisted state the store works over, one list per entity.
type Collections struct {
	Users         ports.Collection[domain.User]
	Clients       ports.Collection[domain.Client]
	Projects      ports.Collection[domain.Project]
	Resources     ports.Collection[domain.Resource]
	Activities    ports.Collection[domain.Activity]
	Notifications ports.Collection[domain.Notification]
}

// Store bundles every service that shares one set of collections. Build it
// once at startup and pass it to whatever needs data access.
type Store struct {
	Users         ports.UserService
	Clients       ports.ClientService
	Projects      ports.ProjectService
	Resources     ports.ResourceService
	Activities    ports.ActivityLog
	Notifications ports.NotificationService
	Stats         ports.StatsService
}

// NewStore wires the services over cols. Entity mutations are serialised by a
// single writer lock so read-modify-write cycles never interleave in-process.
func NewStore(cols Collections, log zerolog.Logger) *Store {
	c := newCore(cols, log)
	return &Store{
		Users:         &userService{core: c},
		Clients:       &clientService{core: c},
		Projects:      &projectService{core: c},
		Resources:     &resourceService{core: c},
		Activities:    c.activity,
		Notifications: c.notify,
		Stats:         NewStatsService(cols),
	}
}

// core is the state shared by the entity services.
type core struct {
	mu       *sync.Mutex
	cols     Collections
	activity *activityService
	notify   *notificationService
	log      zerolog.Logger
	now      func() time.Time
}

func newCore(cols Collections, log zerolog.Logger) *core {
	now := func() time.Time { return time.Now().UTC() }
	return &core{
		mu:       &sync.Mutex{},
		cols:     cols,
		activity: &activityService{col: cols.Activities, now: now},
		notify:   &notificationService{col: cols.Notifications, now: now},
		log:      log,
		now:      now,
	}
}

// requireActor returns the acting user id or ErrUnauthenticated.
func requireActor(ctx context.Context) (string, error) {
	actor, ok := domain.ActorFromContext(ctx)
	if !ok {
		return "", domain.ErrUnauthenticated
	}
	return actor, nil
}

// record appends an audit entry. A failure is logged and counted but never
// returned: the mutation it describes has already been persisted.
func (c *core) record(ctx context.Context, in ports.ActivityInput) {
	if _, err := c.activity.Append(ctx, in); err != nil {
		metrics.SideEffectFailuresTotal.WithLabelValues("activity").Inc()
		c.log.Warn().Err(err).
			Str("action", in.Action).
			Str("entity_id", in.EntityID).
			Msg("failed to append activity")
	}
}

// alert creates a notification on the same best-effort terms as record.
func (c *core) alert(ctx context.Context, in ports.CreateNotificationInput) {
	if in.UserID == "" {
		return
	}
	if _, err := c.notify.Create(ctx, in); err != nil {
		metrics.SideEffectFailuresTotal.WithLabelValues("notification").Inc()
		c.log.Warn().Err(err).
			Str("user_id", in.UserID).
			Str("type", in.Type).
			Msg("failed to create notification")
	}
}

// mutated counts a successful mutation.
func mutated(entity domain.EntityType, verb string) {
	metrics.StoreMutationsTotal.WithLabelValues(string(entity), verb).Inc()
}

// failed counts a rejected mutation and passes err through.
func failed(err error) error {
	metrics.StoreErrorsTotal.WithLabelValues(errorReason(err)).Inc()
	return err
}

func errorReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrDuplicateKey):
		return "duplicate"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domain.ErrInvalidReference):
		return "invalid_reference"
	case errors.Is(err, domain.ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	default:
		return "storage"
	}
}

func normalizeEmail(email string) string { return domain.NormalizeEmail(email) }

// findUser returns the user with id from a fresh snapshot.
func (c *core) findUser(ctx context.Context, id string) (*domain.User, error) {
	users, err := c.cols.Users.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

// findClient returns the client with id from a fresh snapshot.
func (c *core) findClient(ctx context.Context, id string) (*domain.Client, error) {
	clients, err := c.cols.Clients.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range clients {
		if clients[i].ID == id {
			return &clients[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

// checkUserRef verifies that a non-empty user id names a live user.
func (c *core) checkUserRef(ctx context.Context, field, id string) error {
	if id == "" {
		return nil
	}
	if _, err := c.findUser(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%s %q: %w", field, id, domain.ErrInvalidReference)
		}
		return err
	}
	return nil
}

// checkClientRef verifies that a non-empty client id names a live client.
func (c *core) checkClientRef(ctx context.Context, field, id string) error {
	if id == "" {
		return nil
	}
	if _, err := c.findClient(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%s %q: %w", field, id, domain.ErrInvalidReference)
		}
		return err
	}
	return nil
}

// portalUserOf returns the portal account linked to clientID, or "" when the
// client has none or cannot be read.
func (c *core) portalUserOf(ctx context.Context, clientID string) string {
	if clientID == "" {
		return ""
	}
	client, err := c.findClient(ctx, clientID)
	if err != nil {
		return ""
	}
	return client.UserID
}
