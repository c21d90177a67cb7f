package service

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"meetup-api/core/constants"
	"meetup-api/core/errors"
	"meetup-api/core/logger"
	"meetup-api/core/queue"

	"github.com/google/uuid"
)

// TaskTypeEventReminder is the asynq task type for due event reminders.
const TaskTypeEventReminder = "reminder:event"

// OffsetClass names a relative window before an event's start.
type OffsetClass string

const (
	OffsetOneDayBefore  OffsetClass = "1day"
	OffsetOneHourBefore OffsetClass = "1hour"
)

// offsets maps each class to its duration before the event date.
var offsets = map[OffsetClass]time.Duration{
	OffsetOneDayBefore:  -24 * time.Hour,
	OffsetOneHourBefore: -1 * time.Hour,
}

// TaskID builds the deterministic identifier for an event reminder, so
// cancellation never needs a lookup table.
func TaskID(eventID uuid.UUID, offset OffsetClass) string {
	return fmt.Sprintf("event_%s_%s", eventID, offset)
}

// ReminderPayload is the task payload delivered to the worker.
type ReminderPayload struct {
	EventID   uuid.UUID   `json:"event_id"`
	EventName string      `json:"event_name"`
	Offset    OffsetClass `json:"offset"`
}

type ReminderServiceInterface interface {
	ScheduleReminders(ctx context.Context, eventID uuid.UUID, eventName string, eventDate time.Time) *errors.AppError
	CancelReminders(ctx context.Context, eventID uuid.UUID) *errors.AppError
}

type ReminderService struct {
	queue     queue.Client
	inspector queue.Inspector
	now       func() time.Time
}

func NewReminderService(q queue.Client, inspector queue.Inspector) *ReminderService {
	return &ReminderService{
		queue:     q,
		inspector: inspector,
		now:       time.Now,
	}
}

// ScheduleReminders cancels any existing reminders for the event, then
// schedules one task per offset class whose trigger time is still in the
// future. Past-due offsets are skipped silently.
func (s *ReminderService) ScheduleReminders(ctx context.Context, eventID uuid.UUID, eventName string, eventDate time.Time) *errors.AppError {
	if appErr := s.CancelReminders(ctx, eventID); appErr != nil {
		return appErr
	}

	now := s.now()
	for offset, d := range offsets {
		triggerAt := eventDate.Add(d)
		if !triggerAt.After(now) {
			continue
		}

		payload, err := json.Marshal(ReminderPayload{
			EventID:   eventID,
			EventName: eventName,
			Offset:    offset,
		})
		if err != nil {
			return errors.NewAppError(errors.ErrInternalServer, "failed to encode reminder payload", err)
		}

		err = s.queue.Enqueue(ctx, queue.Task{
			Type:    TaskTypeEventReminder,
			Payload: payload,
		}, queue.EnqueueOptions{
			TaskID:    TaskID(eventID, offset),
			Queue:     constants.QueueReminders,
			ProcessAt: triggerAt,
			MaxRetry:  3,
		})
		if err != nil {
			// A concurrent call already placed this reminder. The task id
			// carries the event and offset, so the pending task is the one
			// we wanted.
			if stderrors.Is(err, queue.ErrDuplicateTask) {
				continue
			}
			logger.Error("ReminderService:ScheduleReminders:Enqueue:Error:",
				"event_id", eventID, "offset", offset, "error", err)
			return errors.NewAppError(errors.ErrTransientIO, "failed to schedule reminder", err)
		}
	}

	return nil
}

// CancelReminders removes both reminder tasks for the event. A task that was
// never scheduled, or already fired, is not an error.
func (s *ReminderService) CancelReminders(ctx context.Context, eventID uuid.UUID) *errors.AppError {
	for offset := range offsets {
		err := s.inspector.DeleteTask(constants.QueueReminders, TaskID(eventID, offset))
		if err != nil && !stderrors.Is(err, queue.ErrTaskNotFound) {
			logger.Error("ReminderService:CancelReminders:Delete:Error:",
				"event_id", eventID, "offset", offset, "error", err)
			return errors.NewAppError(errors.ErrTransientIO, "failed to cancel reminder", err)
		}
	}
	return nil
}
