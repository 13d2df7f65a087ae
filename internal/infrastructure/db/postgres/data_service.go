package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/clientdesk/portal/internal/core/domain"
	"github.com/clientdesk/portal/internal/core/ports"
	"github.com/clientdesk/portal/internal/pkg/ids"
)

const defaultListLimit = 20

const clientColumns = `id, name, company_name, email, phone, address, logo_url, status, user_id, created_at, updated_at`

// DataService implements ports.PortalDataService over a Gateway.
type DataService struct {
	gw  *Gateway
	now func() time.Time
}

var _ ports.PortalDataService = (*DataService)(nil)

// NewDataService returns a DataService that issues every call through gw.
func NewDataService(gw *Gateway) *DataService {
	return &DataService{gw: gw, now: func() time.Time { return time.Now().UTC() }}
}

// Available reports whether the database is still considered reachable.
func (s *DataService) Available() bool { return !s.gw.InFallback() }

func (s *DataService) ListClients(ctx context.Context) ([]domain.Client, error) {
	out := make([]domain.Client, 0)
	err := s.gw.Query(ctx, func(rows *sql.Rows) error {
		for rows.Next() {
			c, err := scanClient(rows)
			if err != nil {
				return err
			}
			out = append(out, c)
		}
		return nil
	}, `SELECT `+clientColumns+` FROM clients ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return out, nil
}

func (s *DataService) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	var c domain.Client
	err := s.gw.QueryRow(ctx, func(row *sql.Row) error {
		var err error
		c, err = scanClient(row)
		return err
	}, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get client %s: %w", id, err)
	}
	return &c, nil
}

// CreateClient inserts c, filling in the id, status and timestamps when unset.
// A non-empty UserID must name an existing user.
func (s *DataService) CreateClient(ctx context.Context, c *domain.Client) error {
	if err := s.requireRow(ctx, "users", "user_id", c.UserID); err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	if c.ID == "" {
		c.ID = ids.New()
	}
	if c.Status == "" {
		c.Status = domain.ClientOnboarding
	}
	now := s.now()
	c.CreatedAt, c.UpdatedAt = now, now

	_, err := s.gw.Exec(ctx, `
		INSERT INTO clients (`+clientColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		c.ID, c.Name, c.CompanyName, c.Email, c.Phone, c.Address, c.LogoURL, string(c.Status), c.UserID, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	return nil
}

func (s *DataService) DeleteClient(ctx context.Context, id string) error {
	res, err := s.gw.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete client %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("delete client %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (s *DataService) ProjectsByClient(ctx context.Context, clientID string) ([]domain.Project, error) {
	out := make([]domain.Project, 0)
	err := s.gw.Query(ctx, func(rows *sql.Rows) error {
		for rows.Next() {
			var (
				p          domain.Project
				status     string
				start, end sql.NullTime
				budget     sql.NullFloat64
			)
			if err := rows.Scan(&p.ID, &p.Name, &p.Description, &status, &p.ClientID,
				&start, &end, &budget, &p.ManagerID, &p.CreatedAt, &p.UpdatedAt); err != nil {
				return err
			}
			p.Status = domain.ProjectStatus(status)
			if start.Valid {
				p.StartDate = &start.Time
			}
			if end.Valid {
				p.EndDate = &end.Time
			}
			if budget.Valid {
				p.Budget = &budget.Float64
			}
			out = append(out, p)
		}
		return nil
	}, `SELECT id, name, description, status, client_id, start_date, end_date, budget, manager_id, created_at, updated_at
		FROM projects WHERE client_id = $1 ORDER BY created_at`, clientID)
	if err != nil {
		return nil, fmt.Errorf("projects by client: %w", err)
	}
	return out, nil
}

// CreateProject inserts p, filling in the id, status and timestamps when unset.
// ClientID must name an existing client, and ManagerID an existing user when
// set.
func (s *DataService) CreateProject(ctx context.Context, p *domain.Project) error {
	if p.ClientID == "" {
		return fmt.Errorf("create project: client_id is required: %w", domain.ErrInvalidInput)
	}
	if err := s.requireRow(ctx, "clients", "client_id", p.ClientID); err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	if err := s.requireRow(ctx, "users", "manager_id", p.ManagerID); err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	if p.ID == "" {
		p.ID = ids.New()
	}
	if p.Status == "" {
		p.Status = domain.ProjectPlanning
	}
	now := s.now()
	p.CreatedAt, p.UpdatedAt = now, now

	_, err := s.gw.Exec(ctx, `
		INSERT INTO projects (id, name, description, status, client_id, start_date, end_date, budget, manager_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.ID, p.Name, p.Description, string(p.Status), p.ClientID,
		nullTime(p.StartDate), nullTime(p.EndDate), nullFloat(p.Budget), p.ManagerID, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

// LogActivity appends an audit entry. The id and timestamp are set when unset.
func (s *DataService) LogActivity(ctx context.Context, a *domain.Activity) error {
	if a.ID == "" {
		a.ID = ids.New()
	}
	if a.Timestamp.IsZero() {
		a.Timestamp = s.now()
	}
	var details []byte
	if a.Details != nil {
		var err error
		if details, err = json.Marshal(a.Details); err != nil {
			return fmt.Errorf("log activity: encode details: %w", err)
		}
	}

	_, err := s.gw.Exec(ctx, `
		INSERT INTO activities (id, action, timestamp, entity_type, entity_id, user_id, client_id, project_id, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		a.ID, a.Action, a.Timestamp, string(a.EntityType), a.EntityID, a.UserID, a.ClientID, a.ProjectID, details)
	if err != nil {
		return fmt.Errorf("log activity: %w", err)
	}
	return nil
}

// RecentActivities returns the newest entries first. An empty clientID spans
// every client.
func (s *DataService) RecentActivities(ctx context.Context, clientID string, limit int) ([]domain.Activity, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `SELECT id, action, timestamp, entity_type, entity_id, user_id, client_id, project_id, details
		FROM activities`
	args := []any{}
	if clientID != "" {
		query += ` WHERE client_id = $1 ORDER BY timestamp DESC LIMIT $2`
		args = append(args, clientID, limit)
	} else {
		query += ` ORDER BY timestamp DESC LIMIT $1`
		args = append(args, limit)
	}

	out := make([]domain.Activity, 0)
	err := s.gw.Query(ctx, func(rows *sql.Rows) error {
		for rows.Next() {
			var (
				a          domain.Activity
				entityType string
				details    []byte
			)
			if err := rows.Scan(&a.ID, &a.Action, &a.Timestamp, &entityType, &a.EntityID,
				&a.UserID, &a.ClientID, &a.ProjectID, &details); err != nil {
				return err
			}
			a.EntityType = domain.EntityType(entityType)
			if len(details) > 0 {
				var d domain.ActivityDetails
				// An unreadable payload is dropped rather than failing the page.
				if json.Unmarshal(details, &d) == nil {
					a.Details = &d
				}
			}
			out = append(out, a)
		}
		return nil
	}, query, args...)
	if err != nil {
		return nil, fmt.Errorf("recent activities: %w", err)
	}
	return out, nil
}

// CreateNotification inserts an unread notification.
func (s *DataService) CreateNotification(ctx context.Context, n *domain.Notification) error {
	if n.ID == "" {
		n.ID = ids.New()
	}
	if n.Type == "" {
		n.Type = domain.NotificationInfo
	}
	now := s.now()
	n.CreatedAt, n.UpdatedAt = now, now
	n.Read = false

	_, err := s.gw.Exec(ctx, `
		INSERT INTO notifications (id, user_id, client_id, title, message, type, is_read, link, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		n.ID, n.UserID, n.ClientID, n.Title, n.Message, n.Type, n.Read, n.Link, n.CreatedAt, n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

func (s *DataService) NotificationsByUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	out := make([]domain.Notification, 0)
	err := s.gw.Query(ctx, func(rows *sql.Rows) error {
		for rows.Next() {
			var n domain.Notification
			if err := rows.Scan(&n.ID, &n.UserID, &n.ClientID, &n.Title, &n.Message, &n.Type,
				&n.Read, &n.Link, &n.CreatedAt, &n.UpdatedAt); err != nil {
				return err
			}
			out = append(out, n)
		}
		return nil
	}, `SELECT id, user_id, client_id, title, message, type, is_read, link, created_at, updated_at
		FROM notifications WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("notifications by user: %w", err)
	}
	return out, nil
}

// MarkNotificationRead flags one of userID's notifications. Marking it again is
// not an error; a notification owned by someone else reads as not found.
func (s *DataService) MarkNotificationRead(ctx context.Context, userID, id string) error {
	res, err := s.gw.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE, updated_at = $2 WHERE id = $1 AND user_id = $3`,
		id, s.now(), userID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("mark notification read %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (s *DataService) ClientStats(ctx context.Context) (domain.ClientStats, error) {
	var st domain.ClientStats
	err := s.gw.Query(ctx, func(rows *sql.Rows) error {
		for rows.Next() {
			var (
				status string
				count  int
			)
			if err := rows.Scan(&status, &count); err != nil {
				return err
			}
			st.Total += count
			switch domain.ClientStatus(status) {
			case domain.ClientActive:
				st.Active = count
			case domain.ClientInactive:
				st.Inactive = count
			case domain.ClientOnboarding:
				st.Onboarding = count
			}
		}
		return nil
	}, `SELECT status, COUNT(*) FROM clients GROUP BY status`)
	if err != nil {
		return domain.ClientStats{}, fmt.Errorf("client stats: %w", err)
	}
	return st, nil
}

// requireRow checks that a non-empty id exists in table. table is always one
// of the package's own table names.
func (s *DataService) requireRow(ctx context.Context, table, field, id string) error {
	if id == "" {
		return nil
	}
	var found bool
	err := s.gw.QueryRow(ctx, func(row *sql.Row) error {
		return row.Scan(&found)
	}, `SELECT EXISTS (SELECT 1 FROM `+table+` WHERE id = $1)`, id)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%s %q: %w", field, id, domain.ErrInvalidReference)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanClient(r scanner) (domain.Client, error) {
	var (
		c      domain.Client
		status string
	)
	err := r.Scan(&c.ID, &c.Name, &c.CompanyName, &c.Email, &c.Phone, &c.Address,
		&c.LogoURL, &status, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	c.Status = domain.ClientStatus(status)
	return c, err
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
