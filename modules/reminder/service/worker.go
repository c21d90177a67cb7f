package service

import (
	"context"
	"encoding/json"
	"fmt"

	"meetup-api/core/logger"
	notifDto "meetup-api/modules/notification/dto"
	notifEntity "meetup-api/modules/notification/entity"
	notifService "meetup-api/modules/notification/service"

	"github.com/google/uuid"
)

// EventSource lets the worker resolve the current participant set when a
// reminder fires, so users who left after scheduling are never notified.
type EventSource interface {
	GetParticipantIDs(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error)
}

// ReminderWorker handles due reminder tasks by fanning out notifications to
// the event's current participants.
type ReminderWorker struct {
	events EventSource
	notifs *notifService.NotificationService
}

func NewReminderWorker(events EventSource, notifs *notifService.NotificationService) *ReminderWorker {
	return &ReminderWorker{
		events: events,
		notifs: notifs,
	}
}

func (w *ReminderWorker) HandleEventReminder(ctx context.Context, rawPayload []byte) error {
	var payload ReminderPayload
	if err := json.Unmarshal(rawPayload, &payload); err != nil {
		return fmt.Errorf("reminder: decode payload: %w", err)
	}

	participantIDs, err := w.events.GetParticipantIDs(ctx, payload.EventID)
	if err != nil {
		// Returning the error lets asynq retry transient storage failures.
		return fmt.Errorf("reminder: load participants: %w", err)
	}
	if len(participantIDs) == 0 {
		logger.Info("ReminderWorker:HandleEventReminder:NoParticipants", "event_id", payload.EventID)
		return nil
	}

	var message string
	switch payload.Offset {
	case OffsetOneDayBefore:
		message = fmt.Sprintf("%s starts tomorrow", payload.EventName)
	case OffsetOneHourBefore:
		message = fmt.Sprintf("%s starts in one hour", payload.EventName)
	default:
		message = fmt.Sprintf("%s is coming up", payload.EventName)
	}

	eventID := payload.EventID
	w.notifs.Fanout(ctx, &notifDto.FanoutRequest{
		Type:       notifEntity.TypeEventReminder,
		Title:      "Event reminder",
		Message:    message,
		EventID:    &eventID,
		Data:       map[string]interface{}{"offset": string(payload.Offset)},
		Recipients: participantIDs,
	})

	return nil
}
