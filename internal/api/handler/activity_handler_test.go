package handler

import (
	"net/http"
	"testing"

	"github.com/clientdesk/portal/internal/core/domain"
)

func TestActivityHandler_ReadsTrail(t *testing.T) {
	store, admin := newTestStore(t)
	clients := NewClientHandler(store.Clients)
	cl := createClient(t, clients, admin, acmeBody)

	c, _ := newContext(request{method: http.MethodPut, target: "/", actor: admin, params: map[string]string{"id": cl.ID}, body: `{"status":"active"}`})
	if err := clients.UpdateStatus(c); err != nil {
		t.Fatalf("update status: %v", err)
	}

	h := NewActivityHandler(store.Activities)

	c, rec := newContext(request{method: http.MethodGet, target: "/v1/activities?limit=1", actor: admin})
	if err := h.List(c); err != nil {
		t.Fatalf("list: %v", err)
	}
	recent := decode[[]domain.Activity](t, rec)
	if len(recent) != 1 || recent[0].Action != "update_client" {
		t.Fatalf("expected the newest entry only, got %+v", recent)
	}

	c, rec = newContext(request{method: http.MethodGet, target: "/", actor: admin,
		params: map[string]string{"entity_type": "client", "entity_id": cl.ID}})
	if err := h.ByEntity(c); err != nil {
		t.Fatalf("by entity: %v", err)
	}
	if got := decode[[]domain.Activity](t, rec); len(got) != 2 {
		t.Fatalf("expected create and update entries, got %d", len(got))
	}

	c, rec = newContext(request{method: http.MethodGet, target: "/v1/activities?user_id=" + admin, actor: admin})
	_ = h.List(c)
	if got := decode[[]domain.Activity](t, rec); len(got) != 2 {
		t.Fatalf("expected the admin's two entries, got %d", len(got))
	}
}

func TestActivityHandler_RejectsBadLimit(t *testing.T) {
	store, admin := newTestStore(t)
	h := NewActivityHandler(store.Activities)

	for _, target := range []string{"/v1/activities?limit=ten", "/v1/activities?limit=-2"} {
		c, _ := newContext(request{method: http.MethodGet, target: target, actor: admin})
		expectHTTPError(t, h.List(c), http.StatusBadRequest)
	}
}
