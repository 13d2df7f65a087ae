package service

import (
	"errors"
	"testing"

	"github.com/clientdesk/portal/internal/core/domain"
	"github.com/clientdesk/portal/internal/core/ports"
)

func TestResourceService_GlobalAndClientScoped(t *testing.T) {
	store, _, ctx := newTestStore(t)
	c, u, _ := store.Clients.CreateWithAccount(ctx,
		ports.CreateClientInput{Name: "Ana", CompanyName: "Acme", Email: "ana@acme.com"},
		ports.CreateUserInput{},
	)

	global, err := store.Resources.Create(ctx, ports.CreateResourceInput{Title: "Brand guide", Type: domain.ResourceDocument})
	if err != nil {
		t.Fatalf("create global: %v", err)
	}
	scoped, err := store.Resources.Create(ctx, ports.CreateResourceInput{Title: "Kickoff deck", Type: domain.ResourceLink, URL: "https://example.com/deck", ClientID: c.ID})
	if err != nil {
		t.Fatalf("create scoped: %v", err)
	}

	byClient, _ := store.Resources.GetByClientID(ctx, c.ID)
	if len(byClient) != 1 || byClient[0].ID != scoped.ID {
		t.Errorf("expected only the scoped resource, got: %+v", byClient)
	}
	globals, _ := store.Resources.GetGlobal(ctx)
	if len(globals) != 1 || globals[0].ID != global.ID {
		t.Errorf("expected only the global resource, got: %+v", globals)
	}

	inbox, _ := store.Notifications.ByUser(ctx, u.ID, 10)
	if len(inbox) != 1 || inbox[0].Type != domain.NotificationResource {
		t.Errorf("expected one resource notification for the client, got: %+v", inbox)
	}
}

func TestResourceService_Create_Validation(t *testing.T) {
	store, _, ctx := newTestStore(t)

	tests := []struct {
		name string
		in   ports.CreateResourceInput
		want error
	}{
		{"missing title", ports.CreateResourceInput{Type: domain.ResourceImage}, domain.ErrInvalidInput},
		{"unknown type", ports.CreateResourceInput{Title: "X", Type: "audio"}, domain.ErrInvalidInput},
		{"dangling client", ports.CreateResourceInput{Title: "X", Type: domain.ResourceOther, ClientID: "ghost"}, domain.ErrInvalidReference},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Resources.Create(ctx, tt.in)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got: %v", tt.want, err)
			}
		})
	}
}

func TestResourceService_UpdateAndDelete(t *testing.T) {
	store, tc, ctx := newTestStore(t)
	r, _ := store.Resources.Create(ctx, ports.CreateResourceInput{Title: "Logo", Type: domain.ResourceImage})

	updated, err := store.Resources.Update(ctx, r.ID, ports.ResourcePatch{Type: ptr(domain.ResourceDocument)})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if updated.Type != domain.ResourceDocument || updated.Title != "Logo" {
		t.Errorf("unexpected merge result: %+v", updated)
	}
	if _, err := store.Resources.Update(ctx, r.ID, ports.ResourcePatch{ClientID: ptr("ghost")}); !errors.Is(err, domain.ErrInvalidReference) {
		t.Errorf("expected ErrInvalidReference, got: %v", err)
	}

	if err := store.Resources.Delete(ctx, r.ID); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if _, err := store.Resources.GetByID(ctx, r.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}

	got := activityActions(t, tc)
	want := []string{"create_resource", "update_resource", "delete_resource"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got: %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("activity %d: expected %s, got: %s", i, want[i], got[i])
		}
	}
}
