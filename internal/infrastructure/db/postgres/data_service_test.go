package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/clientdesk/portal/internal/core/domain"
)

var clientCols = []string{"id", "name", "company_name", "email", "phone", "address", "logo_url", "status", "user_id", "created_at", "updated_at"}

func TestDataService_ListClients(t *testing.T) {
	gw, mock := newMockGateway(t)
	svc := NewDataService(gw)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM clients ORDER BY created_at").WillReturnRows(
		sqlmock.NewRows(clientCols).
			AddRow("c1", "Ana", "Acme", "ana@acme.com", "", "", "", "onboarding", "", now, now).
			AddRow("c2", "Bo", "Beta", "bo@beta.io", "555", "Main St", "", "active", "u2", now, now),
	)

	clients, err := svc.ListClients(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(clients) != 2 || clients[0].Status != domain.ClientOnboarding || clients[1].UserID != "u2" {
		t.Errorf("unexpected clients: %+v", clients)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDataService_GetClient_NotFound(t *testing.T) {
	gw, mock := newMockGateway(t)
	svc := NewDataService(gw)
	mock.ExpectQuery("FROM clients WHERE id").WithArgs("missing").WillReturnRows(sqlmock.NewRows(clientCols))

	_, err := svc.GetClient(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
	if !svc.Available() {
		t.Fatal("expected a missing row not to affect availability")
	}
}

func TestDataService_CreateClient(t *testing.T) {
	gw, mock := newMockGateway(t)
	svc := NewDataService(gw)
	mock.ExpectExec("INSERT INTO clients").
		WithArgs(sqlmock.AnyArg(), "Ana", "Acme", "ana@acme.com", "", "", "", "onboarding", "", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	c := &domain.Client{Name: "Ana", CompanyName: "Acme", Email: "ana@acme.com"}
	if err := svc.CreateClient(context.Background(), c); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if c.ID == "" || c.CreatedAt.IsZero() || c.Status != domain.ClientOnboarding {
		t.Errorf("expected id, timestamps and default status, got: %+v", c)
	}
}

func TestDataService_CreateClient_Duplicate(t *testing.T) {
	gw, mock := newMockGateway(t)
	svc := NewDataService(gw)
	mock.ExpectExec("INSERT INTO clients").WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "clients_email_key"})

	err := svc.CreateClient(context.Background(), &domain.Client{Name: "Ana", CompanyName: "Acme", Email: "ana@acme.com"})
	if !errors.Is(err, domain.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got: %v", err)
	}
}

func TestDataService_DeleteClient(t *testing.T) {
	gw, mock := newMockGateway(t)
	svc := NewDataService(gw)
	mock.ExpectExec("DELETE FROM clients").WithArgs("c1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM clients").WithArgs("c1").WillReturnResult(sqlmock.NewResult(0, 0))

	if err := svc.DeleteClient(context.Background(), "c1"); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if err := svc.DeleteClient(context.Background(), "c1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got: %v", err)
	}
}

func existsRows(found bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"exists"}).AddRow(found)
}

func TestDataService_CreateProject(t *testing.T) {
	gw, mock := newMockGateway(t)
	svc := NewDataService(gw)
	mock.ExpectQuery("SELECT EXISTS \\(SELECT 1 FROM clients WHERE id").WithArgs("c1").WillReturnRows(existsRows(true))
	mock.ExpectQuery("SELECT EXISTS \\(SELECT 1 FROM users WHERE id").WithArgs("u1").WillReturnRows(existsRows(true))
	mock.ExpectExec("INSERT INTO projects").WillReturnResult(sqlmock.NewResult(1, 1))

	p := &domain.Project{Name: "Website", ClientID: "c1", ManagerID: "u1"}
	if err := svc.CreateProject(context.Background(), p); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if p.ID == "" || p.Status != domain.ProjectPlanning {
		t.Errorf("expected id and default status, got: %+v", p)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDataService_CreateProject_UnknownReferences(t *testing.T) {
	t.Run("client", func(t *testing.T) {
		gw, mock := newMockGateway(t)
		svc := NewDataService(gw)
		mock.ExpectQuery("SELECT EXISTS \\(SELECT 1 FROM clients WHERE id").WithArgs("no-such-client").WillReturnRows(existsRows(false))

		err := svc.CreateProject(context.Background(), &domain.Project{Name: "X", ClientID: "no-such-client"})
		if !errors.Is(err, domain.ErrInvalidReference) {
			t.Fatalf("expected ErrInvalidReference, got: %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("expected no insert, got: %v", err)
		}
	})

	t.Run("manager", func(t *testing.T) {
		gw, mock := newMockGateway(t)
		svc := NewDataService(gw)
		mock.ExpectQuery("FROM clients WHERE id").WithArgs("c1").WillReturnRows(existsRows(true))
		mock.ExpectQuery("FROM users WHERE id").WithArgs("ghost").WillReturnRows(existsRows(false))

		err := svc.CreateProject(context.Background(), &domain.Project{Name: "X", ClientID: "c1", ManagerID: "ghost"})
		if !errors.Is(err, domain.ErrInvalidReference) {
			t.Fatalf("expected ErrInvalidReference, got: %v", err)
		}
	})

	t.Run("missing client id", func(t *testing.T) {
		gw, mock := newMockGateway(t)
		svc := NewDataService(gw)

		err := svc.CreateProject(context.Background(), &domain.Project{Name: "X"})
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got: %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unexpected database traffic: %v", err)
		}
	})

	t.Run("foreign key race", func(t *testing.T) {
		gw, mock := newMockGateway(t)
		svc := NewDataService(gw)
		mock.ExpectQuery("FROM clients WHERE id").WithArgs("c1").WillReturnRows(existsRows(true))
		mock.ExpectExec("INSERT INTO projects").WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "projects_client_id_fkey"})

		err := svc.CreateProject(context.Background(), &domain.Project{Name: "X", ClientID: "c1"})
		if !errors.Is(err, domain.ErrInvalidReference) {
			t.Fatalf("expected ErrInvalidReference, got: %v", err)
		}
		if !svc.Available() {
			t.Fatal("expected a constraint violation not to affect availability")
		}
	})
}

func TestDataService_CreateClient_UnknownUser(t *testing.T) {
	gw, mock := newMockGateway(t)
	svc := NewDataService(gw)
	mock.ExpectQuery("SELECT EXISTS \\(SELECT 1 FROM users WHERE id").WithArgs("ghost").WillReturnRows(existsRows(false))

	err := svc.CreateClient(context.Background(), &domain.Client{Name: "Ana", CompanyName: "Acme", Email: "ana@acme.com", UserID: "ghost"})
	if !errors.Is(err, domain.ErrInvalidReference) {
		t.Fatalf("expected ErrInvalidReference, got: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expected no insert, got: %v", err)
	}
}

func TestDataService_ProjectsByClient_NullableColumns(t *testing.T) {
	gw, mock := newMockGateway(t)
	svc := NewDataService(gw)
	now := time.Now().UTC()
	cols := []string{"id", "name", "description", "status", "client_id", "start_date", "end_date", "budget", "manager_id", "created_at", "updated_at"}
	mock.ExpectQuery("FROM projects WHERE client_id").WithArgs("c1").WillReturnRows(
		sqlmock.NewRows(cols).
			AddRow("p1", "Website", "", "active", "c1", now, nil, 1500.5, "", now, now).
			AddRow("p2", "Audit", "", "planning", "c1", nil, nil, nil, "u1", now, now),
	)

	projects, err := svc.ProjectsByClient(context.Background(), "c1")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("expected 2 projects, got: %d", len(projects))
	}
	if projects[0].StartDate == nil || projects[0].EndDate != nil || projects[0].Budget == nil || *projects[0].Budget != 1500.5 {
		t.Errorf("unexpected nullable mapping: %+v", projects[0])
	}
	if projects[1].StartDate != nil || projects[1].Budget != nil {
		t.Errorf("expected NULLs to map to nil, got: %+v", projects[1])
	}
}

func TestDataService_LogAndReadActivities(t *testing.T) {
	gw, mock := newMockGateway(t)
	svc := NewDataService(gw)
	now := time.Now().UTC()

	mock.ExpectExec("INSERT INTO activities").WillReturnResult(sqlmock.NewResult(1, 1))
	a := &domain.Activity{Action: "create_project", UserID: "u1", ClientID: "c1", Details: domain.ChangedDetails([]string{"name"})}
	if err := svc.LogActivity(context.Background(), a); err != nil {
		t.Fatalf("log: %v", err)
	}
	if a.ID == "" || a.Timestamp.IsZero() {
		t.Errorf("expected id and timestamp, got: %+v", a)
	}

	cols := []string{"id", "action", "timestamp", "entity_type", "entity_id", "user_id", "client_id", "project_id", "details"}
	mock.ExpectQuery("FROM activities WHERE client_id = \\$1 ORDER BY timestamp DESC LIMIT \\$2").WithArgs("c1", 5).WillReturnRows(
		sqlmock.NewRows(cols).
			AddRow("a2", "update_project", now, "project", "p1", "u1", "c1", "p1", []byte(`{"kind":"changes","changed":["status"]}`)).
			AddRow("a1", "create_project", now, "project", "p1", "u1", "c1", "p1", nil),
	)

	recent, err := svc.RecentActivities(context.Background(), "c1", 5)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 || recent[0].ID != "a2" {
		t.Fatalf("unexpected activities: %+v", recent)
	}
	if recent[0].Details == nil || recent[0].Details.Kind != domain.DetailChanges || recent[0].Details.Changed[0] != "status" {
		t.Errorf("expected decoded details, got: %+v", recent[0].Details)
	}
	if recent[1].Details != nil {
		t.Errorf("expected nil details, got: %+v", recent[1].Details)
	}
}

func TestDataService_Notifications(t *testing.T) {
	gw, mock := newMockGateway(t)
	svc := NewDataService(gw)
	now := time.Now().UTC()

	mock.ExpectExec("INSERT INTO notifications").WillReturnResult(sqlmock.NewResult(1, 1))
	n := &domain.Notification{UserID: "u1", Title: "Hello"}
	if err := svc.CreateNotification(context.Background(), n); err != nil {
		t.Fatalf("create: %v", err)
	}
	if n.Type != domain.NotificationInfo || n.Read {
		t.Errorf("expected unread info notification, got: %+v", n)
	}

	cols := []string{"id", "user_id", "client_id", "title", "message", "type", "is_read", "link", "created_at", "updated_at"}
	mock.ExpectQuery("FROM notifications WHERE user_id").WithArgs("u1", defaultListLimit).WillReturnRows(
		sqlmock.NewRows(cols).AddRow(n.ID, "u1", "", "Hello", "", "info", false, "", now, now),
	)
	inbox, err := svc.NotificationsByUser(context.Background(), "u1", 0)
	if err != nil || len(inbox) != 1 {
		t.Fatalf("expected one notification, got: %v, %v", inbox, err)
	}

	markRead := "UPDATE notifications SET is_read = TRUE, updated_at = \\$2 WHERE id = \\$1 AND user_id = \\$3"
	mock.ExpectExec(markRead).WithArgs(n.ID, sqlmock.AnyArg(), "u1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(markRead).WithArgs(n.ID, sqlmock.AnyArg(), "u1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(markRead).WithArgs("missing", sqlmock.AnyArg(), "u1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(markRead).WithArgs(n.ID, sqlmock.AnyArg(), "u2").WillReturnResult(sqlmock.NewResult(0, 0))
	if err := svc.MarkNotificationRead(context.Background(), "u1", n.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if err := svc.MarkNotificationRead(context.Background(), "u1", n.ID); err != nil {
		t.Fatalf("expected marking twice to succeed, got: %v", err)
	}
	if err := svc.MarkNotificationRead(context.Background(), "u1", "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
	if err := svc.MarkNotificationRead(context.Background(), "u2", n.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected another user's notification to read as not found, got: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDataService_ClientStats(t *testing.T) {
	gw, mock := newMockGateway(t)
	svc := NewDataService(gw)
	mock.ExpectQuery("SELECT status, COUNT").WillReturnRows(
		sqlmock.NewRows([]string{"status", "count"}).AddRow("onboarding", 1),
	)

	st, err := svc.ClientStats(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if st != (domain.ClientStats{Total: 1, Onboarding: 1}) {
		t.Errorf("expected {1,0,0,1}, got: %+v", st)
	}
}

func TestDataService_FallbackAcrossTables(t *testing.T) {
	gw, mock := newMockGateway(t)
	svc := NewDataService(gw)
	mock.ExpectQuery("FROM clients").WillReturnError(connRefused())

	if _, err := svc.ListClients(context.Background()); !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got: %v", err)
	}
	if svc.Available() {
		t.Fatal("expected data service to report unavailable")
	}
	if _, err := svc.ProjectsByClient(context.Background(), "c1"); !errors.Is(err, domain.ErrUnavailable) {
		t.Errorf("expected projects to fail fast, got: %v", err)
	}
	if err := svc.CreateNotification(context.Background(), &domain.Notification{UserID: "u1", Title: "x"}); !errors.Is(err, domain.ErrUnavailable) {
		t.Errorf("expected notifications to fail fast, got: %v", err)
	}
	if _, err := svc.ClientStats(context.Background()); !errors.Is(err, domain.ErrUnavailable) {
		t.Errorf("expected stats to fail fast, got: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected database traffic: %v", err)
	}
}
