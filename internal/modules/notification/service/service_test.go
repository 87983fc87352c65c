package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"slotskolan.se/forum/internal/entity"
	notifRepo "slotskolan.se/forum/internal/modules/notification/repository"
	"slotskolan.se/forum/internal/testutil"
	"slotskolan.se/forum/pkg/apperror"
)

func TestNotificationLifecycle(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewNotificationService(notifRepo.NewNotificationRepository(db), nil)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "Trådägare", entity.RoleUser)
	replier := testutil.CreateUser(t, db, "Svarare", entity.RoleUser)

	svc.Notify(ctx, &entity.Notification{UserID: owner.ID, ActorID: replier.ID, Type: entity.NotificationReplyThread, Message: "svar"})
	svc.Notify(ctx, &entity.Notification{UserID: owner.ID, ActorID: replier.ID, Type: entity.NotificationPostAccepted, Message: "accepterat"})
	// Self notifications are dropped.
	svc.Notify(ctx, &entity.Notification{UserID: owner.ID, ActorID: owner.ID, Type: entity.NotificationReplyThread})

	count, err := svc.UnreadCount(ctx, owner.ID)
	if err != nil || count != 2 {
		t.Fatalf("UnreadCount() = %d, %v; want 2", count, err)
	}

	list, err := svc.GetNotifications(ctx, owner.ID, 20, 0)
	if err != nil {
		t.Fatalf("GetNotifications() error: %v", err)
	}
	if len(list) != 2 || list[0].Actor == nil || list[0].Actor.Username != "Svarare" {
		t.Fatalf("unexpected notifications %+v", list)
	}

	// Someone else's notification cannot be marked.
	err = svc.MarkAsRead(ctx, replier.ID, list[0].ID)
	if apperror.MapErrorToStatus(err) != http.StatusNotFound {
		t.Errorf("expected 404 for foreign notification, got %v", err)
	}

	if err := svc.MarkAsRead(ctx, owner.ID, list[0].ID); err != nil {
		t.Fatalf("MarkAsRead() error: %v", err)
	}
	if count, _ := svc.UnreadCount(ctx, owner.ID); count != 1 {
		t.Errorf("unread after MarkAsRead = %d, want 1", count)
	}

	if err := svc.MarkAllAsRead(ctx, owner.ID); err != nil {
		t.Fatalf("MarkAllAsRead() error: %v", err)
	}
	if count, _ := svc.UnreadCount(ctx, owner.ID); count != 0 {
		t.Errorf("unread after MarkAllAsRead = %d, want 0", count)
	}
}

func TestChannel(t *testing.T) {
	id := uuid.MustParse("0190d3a4-0000-7000-8000-000000000001")
	if got := Channel(id); got != "user_notifications:0190d3a4-0000-7000-8000-000000000001" {
		t.Errorf("Channel() = %q", got)
	}
}
