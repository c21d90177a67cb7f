package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"meetup-api/core/params"
	"meetup-api/core/push"
	notifEntity "meetup-api/modules/notification/entity"
	notifService "meetup-api/modules/notification/service"

	"github.com/google/uuid"
)

type fakeEventSource struct {
	participants map[uuid.UUID][]uuid.UUID
	err          error
}

func (f *fakeEventSource) GetParticipantIDs(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.participants[eventID], nil
}

type memoryNotifRepo struct {
	created []notifEntity.Notification
}

func (m *memoryNotifRepo) Create(ctx context.Context, n *notifEntity.Notification) error {
	m.created = append(m.created, *n)
	return nil
}

func (m *memoryNotifRepo) GetByUserID(ctx context.Context, userID uuid.UUID, p params.QueryParams) (*notifEntity.PaginatedNotificationEntity, error) {
	return &notifEntity.PaginatedNotificationEntity{}, nil
}

func (m *memoryNotifRepo) MarkAsRead(ctx context.Context, userID uuid.UUID, ids []string) error {
	return nil
}

func (m *memoryNotifRepo) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error { return nil }

func (m *memoryNotifRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return 0, nil
}

func (m *memoryNotifRepo) GetPushToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return "", nil
}

func TestHandleEventReminderNotifiesCurrentParticipants(t *testing.T) {
	eventID := uuid.New()
	stayed := uuid.New()

	events := &fakeEventSource{participants: map[uuid.UUID][]uuid.UUID{eventID: {stayed}}}
	repo := &memoryNotifRepo{}
	worker := NewReminderWorker(events, notifService.NewNotificationService(repo, push.NoopSender{}))

	payload, _ := json.Marshal(ReminderPayload{
		EventID:   eventID,
		EventName: "Trivia Night",
		Offset:    OffsetOneHourBefore,
	})

	if err := worker.HandleEventReminder(context.Background(), payload); err != nil {
		t.Fatalf("HandleEventReminder() error = %v", err)
	}

	if len(repo.created) != 1 {
		t.Fatalf("created %d notifications, want 1", len(repo.created))
	}
	got := repo.created[0]
	if got.UserID != stayed {
		t.Errorf("recipient = %s, want %s", got.UserID, stayed)
	}
	if got.Type != notifEntity.TypeEventReminder {
		t.Errorf("type = %q, want %q", got.Type, notifEntity.TypeEventReminder)
	}
	if !strings.Contains(got.Message, "one hour") {
		t.Errorf("message %q does not mention the offset window", got.Message)
	}
}

func TestHandleEventReminderEmptyEventIsNoop(t *testing.T) {
	events := &fakeEventSource{participants: map[uuid.UUID][]uuid.UUID{}}
	repo := &memoryNotifRepo{}
	worker := NewReminderWorker(events, notifService.NewNotificationService(repo, push.NoopSender{}))

	payload, _ := json.Marshal(ReminderPayload{EventID: uuid.New(), EventName: "Ghost Town", Offset: OffsetOneDayBefore})

	if err := worker.HandleEventReminder(context.Background(), payload); err != nil {
		t.Fatalf("HandleEventReminder() error = %v", err)
	}
	if len(repo.created) != 0 {
		t.Errorf("created %d notifications for an event with no participants", len(repo.created))
	}
}

func TestHandleEventReminderRetriesOnStorageError(t *testing.T) {
	events := &fakeEventSource{err: errors.New("db down")}
	repo := &memoryNotifRepo{}
	worker := NewReminderWorker(events, notifService.NewNotificationService(repo, push.NoopSender{}))

	payload, _ := json.Marshal(ReminderPayload{EventID: uuid.New(), EventName: "Picnic", Offset: OffsetOneDayBefore})

	if err := worker.HandleEventReminder(context.Background(), payload); err == nil {
		t.Fatal("HandleEventReminder() = nil, want error so the task is retried")
	}
}

func TestHandleEventReminderRejectsBadPayload(t *testing.T) {
	worker := NewReminderWorker(&fakeEventSource{}, notifService.NewNotificationService(&memoryNotifRepo{}, push.NoopSender{}))

	if err := worker.HandleEventReminder(context.Background(), []byte("not json")); err == nil {
		t.Fatal("HandleEventReminder() = nil, want decode error")
	}
}
