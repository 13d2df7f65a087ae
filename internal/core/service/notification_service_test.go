package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/clientdesk/portal/internal/core/domain"
	"github.com/clientdesk/portal/internal/core/ports"
)

func newNotificationSvc() (ports.NotificationService, *stubCollection[domain.Notification]) {
	col := &stubCollection[domain.Notification]{}
	return NewNotificationService(col), col
}

func TestNotificationService_Create(t *testing.T) {
	svc, _ := newNotificationSvc()

	n, err := svc.Create(context.Background(), ports.CreateNotificationInput{UserID: "u1", Title: "Welcome"})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if n.Read {
		t.Error("expected new notifications to be unread")
	}
	if n.Type != domain.NotificationInfo {
		t.Errorf("expected default type info, got: %s", n.Type)
	}

	custom, err := svc.Create(context.Background(), ports.CreateNotificationInput{UserID: "u1", Title: "x", Type: "invoice"})
	if err != nil || custom.Type != "invoice" {
		t.Errorf("expected free-form type to be kept, got: %+v, %v", custom, err)
	}

	if _, err := svc.Create(context.Background(), ports.CreateNotificationInput{Title: "orphan"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput without a user, got: %v", err)
	}
}

func TestNotificationService_InboxOrderingAndLimit(t *testing.T) {
	ctx := context.Background()
	svc, _ := newNotificationSvc()
	for i := 0; i < 5; i++ {
		clientID := "c1"
		if i%2 == 1 {
			clientID = "c2"
		}
		if _, err := svc.Create(ctx, ports.CreateNotificationInput{UserID: "u1", ClientID: clientID, Title: fmt.Sprintf("n%d", i)}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if _, err := svc.Create(ctx, ports.CreateNotificationInput{UserID: "u2", Title: "other"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	inbox, _ := svc.ByUser(ctx, "u1", 2)
	if len(inbox) != 2 || inbox[0].Title != "n4" || inbox[1].Title != "n3" {
		t.Errorf("expected [n4 n3], got: %+v", inbox)
	}
	byClient, _ := svc.ByClient(ctx, "c1", 0)
	if len(byClient) != 3 || byClient[0].Title != "n4" || byClient[2].Title != "n0" {
		t.Errorf("expected c1 inbox [n4 n2 n0], got: %+v", byClient)
	}
}

func TestNotificationService_MarkRead_Idempotent(t *testing.T) {
	ctx := context.Background()
	svc, col := newNotificationSvc()
	n, _ := svc.Create(ctx, ports.CreateNotificationInput{UserID: "u1", Title: "hello"})

	first, err := svc.MarkRead(ctx, n.ID)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !first.Read {
		t.Error("expected notification to be read")
	}
	writes := col.writes

	second, err := svc.MarkRead(ctx, n.ID)
	if err != nil {
		t.Fatalf("expected second mark to succeed, got: %v", err)
	}
	if !second.Read || !second.UpdatedAt.Equal(first.UpdatedAt) {
		t.Errorf("expected no change on second mark, got: %+v", second)
	}
	if col.writes != writes {
		t.Errorf("expected no write for an already-read notification")
	}

	if _, err := svc.MarkRead(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
}

func TestNotificationService_MarkAll(t *testing.T) {
	ctx := context.Background()
	svc, _ := newNotificationSvc()
	for _, in := range []ports.CreateNotificationInput{
		{UserID: "u1", ClientID: "c1", Title: "a"},
		{UserID: "u1", ClientID: "c1", Title: "b"},
		{UserID: "u1", ClientID: "c2", Title: "c"},
		{UserID: "u2", ClientID: "c1", Title: "d"},
	} {
		if _, err := svc.Create(ctx, in); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	changed, err := svc.MarkAllReadForClient(ctx, "c1")
	if err != nil || changed != 3 {
		t.Fatalf("expected 3 changed, got: %d, %v", changed, err)
	}
	changed, _ = svc.MarkAllReadForClient(ctx, "c1")
	if changed != 0 {
		t.Errorf("expected second client pass to change nothing, got: %d", changed)
	}

	unread, _ := svc.UnreadCount(ctx, "u1")
	if unread != 1 {
		t.Errorf("expected 1 unread for u1, got: %d", unread)
	}
	changed, _ = svc.MarkAllReadForUser(ctx, "u1")
	if changed != 1 {
		t.Errorf("expected 1 changed for u1, got: %d", changed)
	}
	changed, _ = svc.MarkAllReadForUser(ctx, "u1")
	if changed != 0 {
		t.Errorf("expected idempotent bulk mark, got: %d", changed)
	}
}
