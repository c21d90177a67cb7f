package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"meetup-api/core/constants"
	"meetup-api/core/queue"

	"github.com/google/uuid"
)

type enqueued struct {
	task queue.Task
	opts queue.EnqueueOptions
}

type fakeQueueClient struct {
	tasks []enqueued
	err   error
}

func (f *fakeQueueClient) Enqueue(ctx context.Context, task queue.Task, opts queue.EnqueueOptions) error {
	if f.err != nil {
		return f.err
	}
	f.tasks = append(f.tasks, enqueued{task: task, opts: opts})
	return nil
}

func (f *fakeQueueClient) Close() error { return nil }

type fakeInspector struct {
	deleted []string
	errFor  map[string]error
}

func (f *fakeInspector) DeleteTask(q, taskID string) error {
	f.deleted = append(f.deleted, taskID)
	if err, ok := f.errFor[taskID]; ok {
		return err
	}
	return queue.ErrTaskNotFound
}

func newTestService(client *fakeQueueClient, inspector *fakeInspector, now time.Time) *ReminderService {
	s := NewReminderService(client, inspector)
	s.now = func() time.Time { return now }
	return s
}

func TestScheduleRemindersBothOffsets(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	eventDate := now.Add(48 * time.Hour)
	eventID := uuid.New()

	client := &fakeQueueClient{}
	inspector := &fakeInspector{}
	s := newTestService(client, inspector, now)

	if appErr := s.ScheduleReminders(context.Background(), eventID, "Picnic", eventDate); appErr != nil {
		t.Fatalf("ScheduleReminders() error = %v", appErr)
	}

	if len(client.tasks) != 2 {
		t.Fatalf("enqueued %d tasks, want 2", len(client.tasks))
	}

	wantProcessAt := map[string]time.Time{
		TaskID(eventID, OffsetOneDayBefore):  eventDate.Add(-24 * time.Hour),
		TaskID(eventID, OffsetOneHourBefore): eventDate.Add(-1 * time.Hour),
	}
	for _, e := range client.tasks {
		if e.task.Type != TaskTypeEventReminder {
			t.Errorf("task type = %q, want %q", e.task.Type, TaskTypeEventReminder)
		}
		if e.opts.Queue != constants.QueueReminders {
			t.Errorf("queue = %q, want %q", e.opts.Queue, constants.QueueReminders)
		}
		want, ok := wantProcessAt[e.opts.TaskID]
		if !ok {
			t.Errorf("unexpected task id %q", e.opts.TaskID)
			continue
		}
		if !e.opts.ProcessAt.Equal(want) {
			t.Errorf("task %q fires at %v, want %v", e.opts.TaskID, e.opts.ProcessAt, want)
		}
		delete(wantProcessAt, e.opts.TaskID)
	}
	if len(wantProcessAt) != 0 {
		t.Errorf("missing tasks: %v", wantProcessAt)
	}
}

func TestScheduleRemindersSkipsPastOffsets(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	eventID := uuid.New()

	tests := []struct {
		name      string
		eventDate time.Time
		wantIDs   []string
	}{
		{
			name:      "event in two hours keeps only the one hour reminder",
			eventDate: now.Add(2 * time.Hour),
			wantIDs:   []string{TaskID(eventID, OffsetOneHourBefore)},
		},
		{
			name:      "event in thirty minutes schedules nothing",
			eventDate: now.Add(30 * time.Minute),
			wantIDs:   nil,
		},
		{
			name:      "event in the past schedules nothing",
			eventDate: now.Add(-time.Hour),
			wantIDs:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeQueueClient{}
			s := newTestService(client, &fakeInspector{}, now)

			if appErr := s.ScheduleReminders(context.Background(), eventID, "Picnic", tt.eventDate); appErr != nil {
				t.Fatalf("ScheduleReminders() error = %v", appErr)
			}

			if len(client.tasks) != len(tt.wantIDs) {
				t.Fatalf("enqueued %d tasks, want %d", len(client.tasks), len(tt.wantIDs))
			}
			got := make(map[string]bool, len(client.tasks))
			for _, e := range client.tasks {
				got[e.opts.TaskID] = true
			}
			for _, id := range tt.wantIDs {
				if !got[id] {
					t.Errorf("missing task %q", id)
				}
			}
		})
	}
}

func TestScheduleRemindersCancelsExistingFirst(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	eventID := uuid.New()

	inspector := &fakeInspector{}
	s := newTestService(&fakeQueueClient{}, inspector, now)

	if appErr := s.ScheduleReminders(context.Background(), eventID, "Picnic", now.Add(48*time.Hour)); appErr != nil {
		t.Fatalf("ScheduleReminders() error = %v", appErr)
	}

	if len(inspector.deleted) != 2 {
		t.Errorf("deleted %d existing tasks before scheduling, want 2", len(inspector.deleted))
	}
}

func TestScheduleRemindersToleratesDuplicateTask(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	client := &fakeQueueClient{err: fmt.Errorf("enqueue: %w", queue.ErrDuplicateTask)}
	s := newTestService(client, &fakeInspector{}, now)

	appErr := s.ScheduleReminders(context.Background(), uuid.New(), "Picnic", now.Add(48*time.Hour))
	if appErr != nil {
		t.Fatalf("ScheduleReminders() with a pending duplicate = %v, want nil", appErr)
	}
}

func TestCancelRemindersToleratesMissingTasks(t *testing.T) {
	s := newTestService(&fakeQueueClient{}, &fakeInspector{}, time.Now())

	if appErr := s.CancelReminders(context.Background(), uuid.New()); appErr != nil {
		t.Fatalf("CancelReminders() error = %v, want nil for never-scheduled tasks", appErr)
	}
}

func TestCancelRemindersPropagatesRealErrors(t *testing.T) {
	eventID := uuid.New()
	inspector := &fakeInspector{
		errFor: map[string]error{
			TaskID(eventID, OffsetOneDayBefore): errors.New("redis down"),
		},
	}
	s := newTestService(&fakeQueueClient{}, inspector, time.Now())

	appErr := s.CancelReminders(context.Background(), eventID)
	if appErr == nil {
		t.Fatal("CancelReminders() = nil, want error")
	}
}

func TestTaskIDIsDeterministic(t *testing.T) {
	eventID := uuid.MustParse("7b9d2c1e-0000-4000-8000-000000000001")

	got := TaskID(eventID, OffsetOneDayBefore)
	want := "event_7b9d2c1e-0000-4000-8000-000000000001_1day"
	if got != want {
		t.Errorf("TaskID() = %q, want %q", got, want)
	}
}
