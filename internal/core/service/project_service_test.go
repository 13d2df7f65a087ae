package service

import (
	"errors"
	"testing"
	"time"

	"github.com/clientdesk/portal/internal/core/domain"
	"github.com/clientdesk/portal/internal/core/ports"
)

func TestProjectService_Create(t *testing.T) {
	store, _, ctx := newTestStore(t)
	c := mustCreateClient(t, store, ctx, ports.CreateClientInput{Name: "Ana", CompanyName: "Acme", Email: "ana@acme.com"})

	budget := 12500.0
	p, err := store.Projects.Create(ctx, ports.CreateProjectInput{
		Name:      "Website",
		ClientID:  c.ID,
		Budget:    &budget,
		ManagerID: adminID,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if p.Status != domain.ProjectPlanning {
		t.Errorf("expected default status planning, got: %s", p.Status)
	}
	if p.Budget == nil || *p.Budget != budget {
		t.Errorf("expected budget %v, got: %v", budget, p.Budget)
	}
}

func TestProjectService_Create_References(t *testing.T) {
	store, _, ctx := newTestStore(t)
	c := mustCreateClient(t, store, ctx, ports.CreateClientInput{Name: "Ana", CompanyName: "Acme", Email: "ana@acme.com"})

	tests := []struct {
		name string
		in   ports.CreateProjectInput
		want error
	}{
		{"missing client id", ports.CreateProjectInput{Name: "X"}, domain.ErrInvalidInput},
		{"dangling client", ports.CreateProjectInput{Name: "X", ClientID: "ghost"}, domain.ErrInvalidReference},
		{"dangling manager", ports.CreateProjectInput{Name: "X", ClientID: c.ID, ManagerID: "ghost"}, domain.ErrInvalidReference},
		{"unknown status", ports.CreateProjectInput{Name: "X", ClientID: c.ID, Status: "paused"}, domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Projects.Create(ctx, tt.in)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got: %v", tt.want, err)
			}
		})
	}
}

func TestProjectService_Create_RejectsInvertedDates(t *testing.T) {
	store, _, ctx := newTestStore(t)
	c := mustCreateClient(t, store, ctx, ports.CreateClientInput{Name: "Ana", CompanyName: "Acme", Email: "ana@acme.com"})

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -1)
	_, err := store.Projects.Create(ctx, ports.CreateProjectInput{Name: "X", ClientID: c.ID, StartDate: &start, EndDate: &end})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got: %v", err)
	}
}

func TestProjectService_Create_NotifiesPortalUser(t *testing.T) {
	store, _, ctx := newTestStore(t)
	c, u, err := store.Clients.CreateWithAccount(ctx,
		ports.CreateClientInput{Name: "Ana", CompanyName: "Acme", Email: "ana@acme.com"},
		ports.CreateUserInput{},
	)
	if err != nil {
		t.Fatalf("create client: %v", err)
	}

	p, err := store.Projects.Create(ctx, ports.CreateProjectInput{Name: "Website", ClientID: c.ID})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	inbox, _ := store.Notifications.ByUser(ctx, u.ID, 10)
	if len(inbox) != 1 {
		t.Fatalf("expected one notification, got: %d", len(inbox))
	}
	n := inbox[0]
	if n.Type != domain.NotificationProject || n.ClientID != c.ID || n.Read {
		t.Errorf("unexpected notification: %+v", n)
	}
	if n.Link != "/portal/projects/"+p.ID {
		t.Errorf("expected deep link to the project, got: %s", n.Link)
	}
}

func TestProjectService_Create_ClientWithoutAccountIsNotNotified(t *testing.T) {
	store, tc, ctx := newTestStore(t)
	c := mustCreateClient(t, store, ctx, ports.CreateClientInput{Name: "Ana", CompanyName: "Acme", Email: "ana@acme.com"})

	if _, err := store.Projects.Create(ctx, ports.CreateProjectInput{Name: "Website", ClientID: c.ID}); err != nil {
		t.Fatalf("create project: %v", err)
	}
	if tc.notifications.writes != 0 {
		t.Errorf("expected no notification, got %d writes", tc.notifications.writes)
	}
}

func TestProjectService_Update_StatusChangeNotifies(t *testing.T) {
	store, _, ctx := newTestStore(t)
	c, u, _ := store.Clients.CreateWithAccount(ctx,
		ports.CreateClientInput{Name: "Ana", CompanyName: "Acme", Email: "ana@acme.com"},
		ports.CreateUserInput{},
	)
	p, _ := store.Projects.Create(ctx, ports.CreateProjectInput{Name: "Website", ClientID: c.ID})

	if _, err := store.Projects.Update(ctx, p.ID, ports.ProjectPatch{Description: ptr("scope")}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if count, _ := store.Notifications.UnreadCount(ctx, u.ID); count != 1 {
		t.Fatalf("expected description change to stay silent, got %d unread", count)
	}

	updated, err := store.Projects.Update(ctx, p.ID, ports.ProjectPatch{Status: ptr(domain.ProjectActive)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != domain.ProjectActive || updated.Description != "scope" {
		t.Errorf("unexpected merge result: %+v", updated)
	}
	inbox, _ := store.Notifications.ByUser(ctx, u.ID, 0)
	if len(inbox) != 2 || inbox[0].Title != "Project status changed" {
		t.Errorf("expected newest notification to report the status change, got: %+v", inbox)
	}
}

func TestProjectService_Update_RepointClient(t *testing.T) {
	store, _, ctx := newTestStore(t)
	a := mustCreateClient(t, store, ctx, ports.CreateClientInput{Name: "A", CompanyName: "A", Email: "a@a.com"})
	b := mustCreateClient(t, store, ctx, ports.CreateClientInput{Name: "B", CompanyName: "B", Email: "b@b.com"})
	p, _ := store.Projects.Create(ctx, ports.CreateProjectInput{Name: "Website", ClientID: a.ID})

	if _, err := store.Projects.Update(ctx, p.ID, ports.ProjectPatch{ClientID: ptr("ghost")}); !errors.Is(err, domain.ErrInvalidReference) {
		t.Fatalf("expected ErrInvalidReference, got: %v", err)
	}
	moved, err := store.Projects.Update(ctx, p.ID, ports.ProjectPatch{ClientID: ptr(b.ID)})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if moved.ClientID != b.ID {
		t.Errorf("expected client %s, got: %s", b.ID, moved.ClientID)
	}
	if left, _ := store.Projects.GetByClientID(ctx, a.ID); len(left) != 0 {
		t.Errorf("expected no projects left under the old client, got: %d", len(left))
	}
}

func TestProjectService_DeleteThenLookup(t *testing.T) {
	store, _, ctx := newTestStore(t)
	c := mustCreateClient(t, store, ctx, ports.CreateClientInput{Name: "Ana", CompanyName: "Acme", Email: "ana@acme.com"})
	p, _ := store.Projects.Create(ctx, ports.CreateProjectInput{Name: "Website", ClientID: c.ID})

	if err := store.Projects.Delete(ctx, p.ID); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if _, err := store.Projects.GetByID(ctx, p.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
	if projects, _ := store.Projects.GetByClientID(ctx, c.ID); len(projects) != 0 {
		t.Errorf("expected the client's project list to be empty, got: %d", len(projects))
	}

	history, _ := store.Activities.ByEntity(ctx, domain.EntityProject, p.ID)
	if len(history) != 2 || history[0].Action != "create_project" || history[1].Action != "delete_project" {
		t.Errorf("expected create and delete to remain in history, got: %+v", history)
	}
	if history[1].ProjectID != p.ID {
		t.Errorf("expected delete entry to keep the project id, got: %s", history[1].ProjectID)
	}
}
