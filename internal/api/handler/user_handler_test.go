package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/clientdesk/portal/internal/core/domain"
	"github.com/clientdesk/portal/internal/core/ports"
	"github.com/clientdesk/portal/internal/pkg/credential"
)

func TestUserHandler_Create_Success(t *testing.T) {
	store, admin := newTestStore(t)
	h := NewUserHandler(store.Users)

	c, rec := newContext(request{
		method: http.MethodPost, target: "/v1/users", actor: admin,
		body: `{"name":"Bob","email":" Bob@Example.com ","password":"supersecret","role":"manager"}`,
	})
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, http.StatusCreated)

	if strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("response leaks the credential: %s", rec.Body.String())
	}
	resp := decode[userResponse](t, rec)
	if resp.Email != "bob@example.com" || resp.Role != "manager" || !resp.Active {
		t.Fatalf("unexpected user payload: %+v", resp)
	}

	stored, err := store.Users.GetByID(context.Background(), resp.ID)
	if err != nil {
		t.Fatalf("load user: %v", err)
	}
	if err := credential.Verify(stored.PasswordHash, "supersecret"); err != nil {
		t.Fatalf("expected stored hash to verify, got: %v", err)
	}
}

func TestUserHandler_Create_DuplicateEmail(t *testing.T) {
	store, admin := newTestStore(t)
	h := NewUserHandler(store.Users)

	c, _ := newContext(request{
		method: http.MethodPost, target: "/v1/users", actor: admin,
		body: `{"name":"Again","email":"ADMIN@example.com","role":"user"}`,
	})
	expectErr(t, h.Create(c), domain.ErrDuplicateKey)

	users, _ := store.Users.GetAll(context.Background())
	if len(users) != 1 {
		t.Fatalf("expected exactly one user to remain, got %d", len(users))
	}
}

func TestUserHandler_Create_RejectsBadInput(t *testing.T) {
	store, admin := newTestStore(t)
	h := NewUserHandler(store.Users)

	tests := []struct {
		name string
		body string
		code int
	}{
		{"malformed json", `{"name":`, http.StatusBadRequest},
		{"missing name", `{"email":"x@example.com","role":"user"}`, http.StatusUnprocessableEntity},
		{"bad email", `{"name":"X","email":"nope","role":"user"}`, http.StatusUnprocessableEntity},
		{"unknown role", `{"name":"X","email":"x@example.com","role":"root"}`, http.StatusUnprocessableEntity},
		{"short password", `{"name":"X","email":"x@example.com","role":"user","password":"abc"}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newContext(request{method: http.MethodPost, target: "/v1/users", actor: admin, body: tt.body})
			expectHTTPError(t, h.Create(c), tt.code)
		})
	}
}

func TestUserHandler_Create_RequiresActor(t *testing.T) {
	store, _ := newTestStore(t)
	h := NewUserHandler(store.Users)

	c, _ := newContext(request{
		method: http.MethodPost, target: "/v1/users",
		body: `{"name":"Bob","email":"bob@example.com","role":"user"}`,
	})
	expectErr(t, h.Create(c), domain.ErrUnauthenticated)
}

func TestUserHandler_List_FiltersByRole(t *testing.T) {
	store, admin := newTestStore(t)
	ctx := domain.WithActor(context.Background(), admin)
	if _, err := store.Users.Create(ctx, ports.CreateUserInput{Name: "M", Email: "m@example.com", Role: domain.RoleManager}); err != nil {
		t.Fatalf("create: %v", err)
	}
	h := NewUserHandler(store.Users)

	c, rec := newContext(request{method: http.MethodGet, target: "/v1/users?role=manager", actor: admin})
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, http.StatusOK)
	got := decode[[]userResponse](t, rec)
	if len(got) != 1 || got[0].Email != "m@example.com" {
		t.Fatalf("expected only the manager, got %+v", got)
	}

	c, rec = newContext(request{method: http.MethodGet, target: "/v1/users", actor: admin})
	_ = h.List(c)
	if got := decode[[]userResponse](t, rec); len(got) != 2 {
		t.Fatalf("expected both users, got %d", len(got))
	}
}

func TestUserHandler_Get_NotFound(t *testing.T) {
	store, admin := newTestStore(t)
	h := NewUserHandler(store.Users)

	c, _ := newContext(request{method: http.MethodGet, target: "/v1/users/nope", actor: admin, params: map[string]string{"id": "nope"}})
	expectErr(t, h.Get(c), domain.ErrNotFound)
}

func TestUserHandler_Update_RehashesPassword(t *testing.T) {
	store, admin := newTestStore(t)
	h := NewUserHandler(store.Users)

	c, rec := newContext(request{
		method: http.MethodPatch, target: "/v1/users/" + admin, actor: admin,
		params: map[string]string{"id": admin},
		body:   `{"name":"Root","password":"new-password"}`,
	})
	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, http.StatusOK)
	if resp := decode[userResponse](t, rec); resp.Name != "Root" {
		t.Fatalf("expected renamed user, got %+v", resp)
	}

	stored, _ := store.Users.GetByID(context.Background(), admin)
	if err := credential.Verify(stored.PasswordHash, "new-password"); err != nil {
		t.Fatalf("expected new password to verify, got: %v", err)
	}
}

func TestUserHandler_SetActive(t *testing.T) {
	store, admin := newTestStore(t)
	h := NewUserHandler(store.Users)

	c, _ := newContext(request{
		method: http.MethodPut, target: "/", actor: admin,
		params: map[string]string{"id": admin}, body: `{}`,
	})
	expectHTTPError(t, h.SetActive(c), http.StatusUnprocessableEntity)

	c, rec := newContext(request{
		method: http.MethodPut, target: "/", actor: admin,
		params: map[string]string{"id": admin}, body: `{"active":false}`,
	})
	if err := h.SetActive(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if resp := decode[userResponse](t, rec); resp.Active {
		t.Fatal("expected user to be deactivated")
	}
}

func TestUserHandler_Delete(t *testing.T) {
	store, admin := newTestStore(t)
	ctx := domain.WithActor(context.Background(), admin)
	manager, err := store.Users.Create(ctx, ports.CreateUserInput{Name: "M", Email: "m@example.com", Role: domain.RoleManager})
	if err != nil {
		t.Fatalf("create manager: %v", err)
	}
	victim, err := store.Users.Create(ctx, ports.CreateUserInput{Name: "V", Email: "v@example.com", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	h := NewUserHandler(store.Users)

	c, _ := newContext(request{method: http.MethodDelete, target: "/", actor: manager.ID, params: map[string]string{"id": victim.ID}})
	expectErr(t, h.Delete(c), domain.ErrForbidden)

	c, rec := newContext(request{method: http.MethodDelete, target: "/", actor: admin, params: map[string]string{"id": victim.ID}})
	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, http.StatusNoContent)
	if _, err := store.Users.GetByID(ctx, victim.ID); err == nil {
		t.Fatal("expected user to be gone")
	}
}
