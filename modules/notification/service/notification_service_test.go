package service

import (
	"context"
	"errors"
	"testing"

	"meetup-api/core/params"
	"meetup-api/modules/notification/dto"
	"meetup-api/modules/notification/entity"

	"github.com/google/uuid"
)

type fakeNotifRepo struct {
	created []entity.Notification
	failFor map[uuid.UUID]error
	tokens  map[uuid.UUID]string
}

func (f *fakeNotifRepo) Create(ctx context.Context, n *entity.Notification) error {
	if err, ok := f.failFor[n.UserID]; ok {
		return err
	}
	f.created = append(f.created, *n)
	return nil
}

func (f *fakeNotifRepo) GetByUserID(ctx context.Context, userID uuid.UUID, p params.QueryParams) (*entity.PaginatedNotificationEntity, error) {
	items := make([]entity.Notification, 0)
	for _, n := range f.created {
		if n.UserID == userID {
			items = append(items, n)
		}
	}
	return &entity.PaginatedNotificationEntity{Items: items, TotalItems: len(items)}, nil
}

func (f *fakeNotifRepo) MarkAsRead(ctx context.Context, userID uuid.UUID, ids []string) error {
	return nil
}

func (f *fakeNotifRepo) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return nil
}

func (f *fakeNotifRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, n := range f.created {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotifRepo) GetPushToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return f.tokens[userID], nil
}

type fakeSender struct {
	sent    []string
	sendErr error
}

func (f *fakeSender) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	f.sent = append(f.sent, token)
	return f.sendErr
}

func recipientsOf(created []entity.Notification) map[uuid.UUID]int {
	result := make(map[uuid.UUID]int)
	for _, n := range created {
		result[n.UserID]++
	}
	return result
}

func TestFanoutExcludesActorAndDeduplicates(t *testing.T) {
	actor := uuid.New()
	a := uuid.New()
	b := uuid.New()

	repo := &fakeNotifRepo{}
	svc := NewNotificationService(repo, &fakeSender{})

	svc.Fanout(context.Background(), &dto.FanoutRequest{
		Type:       entity.TypeNewParticipant,
		Title:      "New participant",
		Message:    "someone joined",
		Recipients: []uuid.UUID{a, b, b, actor, uuid.Nil},
		ActorID:    actor,
	})

	got := recipientsOf(repo.created)
	if len(repo.created) != 2 {
		t.Fatalf("created %d notifications, want 2", len(repo.created))
	}
	if got[a] != 1 || got[b] != 1 {
		t.Errorf("recipient counts = %v, want one each for %s and %s", got, a, b)
	}
	if got[actor] != 0 {
		t.Errorf("actor %s received a notification about their own action", actor)
	}
}

func TestFanoutHonorsExcludingList(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	repo := &fakeNotifRepo{}
	svc := NewNotificationService(repo, &fakeSender{})

	svc.Fanout(context.Background(), &dto.FanoutRequest{
		Type:       entity.TypeEventUpdated,
		Title:      "Event updated",
		Message:    "details changed",
		Recipients: []uuid.UUID{a, b},
		Excluding:  []uuid.UUID{b},
		ActorID:    uuid.New(),
	})

	got := recipientsOf(repo.created)
	if got[a] != 1 || got[b] != 0 {
		t.Errorf("recipient counts = %v, want only %s", got, a)
	}
}

func TestFanoutIsolatesPerRecipientFailures(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	repo := &fakeNotifRepo{failFor: map[uuid.UUID]error{a: errors.New("insert failed")}}
	svc := NewNotificationService(repo, &fakeSender{})

	svc.Fanout(context.Background(), &dto.FanoutRequest{
		Type:       entity.TypeEventCancelled,
		Title:      "Event cancelled",
		Message:    "sorry",
		Recipients: []uuid.UUID{a, b},
		ActorID:    uuid.New(),
	})

	got := recipientsOf(repo.created)
	if got[b] != 1 {
		t.Errorf("failure for %s stopped delivery to %s", a, b)
	}
}

func TestFanoutPushIsBestEffort(t *testing.T) {
	a := uuid.New()

	repo := &fakeNotifRepo{tokens: map[uuid.UUID]string{a: "ExponentPushToken[abc]"}}
	sender := &fakeSender{sendErr: errors.New("expo unreachable")}
	svc := NewNotificationService(repo, sender)

	svc.Fanout(context.Background(), &dto.FanoutRequest{
		Type:       entity.TypeEventReminder,
		Title:      "Reminder",
		Message:    "starts soon",
		Recipients: []uuid.UUID{a},
		ActorID:    uuid.New(),
	})

	if len(repo.created) != 1 {
		t.Fatalf("push failure must not drop the persisted notification, created = %d", len(repo.created))
	}
	if len(sender.sent) != 1 {
		t.Errorf("sent %d pushes, want 1", len(sender.sent))
	}
}

func TestFanoutSkipsPushWithoutToken(t *testing.T) {
	a := uuid.New()

	repo := &fakeNotifRepo{}
	sender := &fakeSender{}
	svc := NewNotificationService(repo, sender)

	svc.Fanout(context.Background(), &dto.FanoutRequest{
		Type:       entity.TypeAdminApproval,
		Title:      "Account approved",
		Message:    "welcome",
		Recipients: []uuid.UUID{a},
	})

	if len(repo.created) != 1 {
		t.Fatalf("created %d notifications, want 1", len(repo.created))
	}
	if len(sender.sent) != 0 {
		t.Errorf("sent %d pushes for a user with no token, want 0", len(sender.sent))
	}
}
