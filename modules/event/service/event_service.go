package service

import (
	"context"
	"fmt"
	"time"

	"meetup-api/core/constants"
	"meetup-api/core/errors"
	"meetup-api/core/logger"
	"meetup-api/core/middleware"
	"meetup-api/core/params"
	"meetup-api/core/utils"
	"meetup-api/modules/event/dto"
	"meetup-api/modules/event/entity"
	"meetup-api/modules/event/repository"
	notifDto "meetup-api/modules/notification/dto"
	notifEntity "meetup-api/modules/notification/entity"
	notifService "meetup-api/modules/notification/service"
	reminderService "meetup-api/modules/reminder/service"

	"github.com/google/uuid"
)

// UserSource resolves display names for notification messages.
type UserSource interface {
	GetUserName(ctx context.Context, id uuid.UUID) (string, error)
}

type EventServiceInterface interface {
	CreateEvent(ctx context.Context, creatorID uuid.UUID, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError)
	GetEventByID(ctx context.Context, id uuid.UUID) (*dto.EventResponse, *errors.AppError)
	GetUpcomingEvents(ctx context.Context, params params.QueryParams) (*dto.PaginatedEventResponse, *errors.AppError)
	GetMyEvents(ctx context.Context, userID uuid.UUID) ([]dto.EventResponse, *errors.AppError)
	GetJoinedEvents(ctx context.Context, userID uuid.UUID) ([]dto.EventResponse, *errors.AppError)
	UpdateEvent(ctx context.Context, eventID, actorID uuid.UUID, req *dto.UpdateEventRequest) (*dto.EventResponse, *errors.AppError)
	DeleteEvent(ctx context.Context, eventID, actorID uuid.UUID, actorRole string) *errors.AppError
	JoinEvent(ctx context.Context, eventID, userID uuid.UUID) *errors.AppError
	LeaveEvent(ctx context.Context, eventID, userID uuid.UUID) *errors.AppError
}

type EventService struct {
	repo      repository.EventRepositoryInterface
	reminders reminderService.ReminderServiceInterface
	notifs    *notifService.NotificationService
	users     UserSource
}

func NewEventService(repo repository.EventRepositoryInterface, reminders reminderService.ReminderServiceInterface, notifs *notifService.NotificationService, users UserSource) EventServiceInterface {
	return &EventService{
		repo:      repo,
		reminders: reminders,
		notifs:    notifs,
		users:     users,
	}
}

// CreateEvent creates a new event owned by creatorID and schedules its
// reminder timers.
func (s *EventService) CreateEvent(ctx context.Context, creatorID uuid.UUID, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid date format, expected RFC3339", err)
	}
	if req.Capacity < 0 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "capacity must not be negative", nil)
	}

	event := &entity.Event{
		CreatorID: creatorID,
		EventName: req.EventName,
		Slug:      utils.EventSlug(req.EventName),
		Category:  entity.EventCategory(req.Category),
		Date:      date,
		Capacity:  req.Capacity,
		Images:    req.Images,
	}
	if req.Description != "" {
		event.Description = &req.Description
	}
	if req.City != "" {
		event.City = &req.City
	}
	if req.District != "" {
		event.District = &req.District
	}
	if req.Address != "" {
		event.Address = &req.Address
	}
	if req.ParticipantFilter != "" {
		event.ParticipantFilter = &req.ParticipantFilter
	}

	created, err := s.repo.CreateEvent(ctx, event)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "failed to create event", err)
	}

	// Reminder timers exist from creation; they fan out to whoever has
	// joined by the time they fire.
	if appErr := s.reminders.ScheduleReminders(ctx, created.ID, created.EventName, created.Date); appErr != nil {
		logger.Error("EventService:CreateEvent:ScheduleReminders:Error:", "event_id", created.ID, "error", appErr)
	}

	return dto.ToEventResponse(created, nil), nil
}

func (s *EventService) GetEventByID(ctx context.Context, id uuid.UUID) (*dto.EventResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	event, err := s.repo.GetEventByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to get event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "event not found", nil)
	}

	participantIDs, err := s.repo.GetParticipantIDs(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to get participants", err)
	}

	return dto.ToEventResponse(event, participantIDs), nil
}

func (s *EventService) GetUpcomingEvents(ctx context.Context, queryParams params.QueryParams) (*dto.PaginatedEventResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	events, total, err := s.repo.GetUpcomingEvents(ctx, queryParams)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to get events", err)
	}

	items := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		participantIDs, err := s.repo.GetParticipantIDs(ctx, events[i].ID)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrGetFailed, "failed to get participants", err)
		}
		items = append(items, *dto.ToEventResponse(&events[i], participantIDs))
	}

	return &dto.PaginatedEventResponse{
		Items:      items,
		TotalItems: total,
		PageNumber: queryParams.PageNumber,
		PageSize:   queryParams.PageSize,
	}, nil
}

func (s *EventService) GetMyEvents(ctx context.Context, userID uuid.UUID) ([]dto.EventResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	events, err := s.repo.GetEventsByCreatorID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to get events", err)
	}
	return s.toResponses(ctx, events)
}

func (s *EventService) GetJoinedEvents(ctx context.Context, userID uuid.UUID) ([]dto.EventResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	events, err := s.repo.GetEventsByParticipantID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to get events", err)
	}
	return s.toResponses(ctx, events)
}

func (s *EventService) toResponses(ctx context.Context, events []entity.Event) ([]dto.EventResponse, *errors.AppError) {
	result := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		participantIDs, err := s.repo.GetParticipantIDs(ctx, events[i].ID)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrGetFailed, "failed to get participants", err)
		}
		result = append(result, *dto.ToEventResponse(&events[i], participantIDs))
	}
	return result, nil
}

// UpdateEvent applies creator edits. A date change reschedules reminders and
// notifies participants with the date_changed reason; a location-only change
// uses location_changed; anything else uses the generic reason.
func (s *EventService) UpdateEvent(ctx context.Context, eventID, actorID uuid.UUID, req *dto.UpdateEventRequest) (*dto.EventResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	event, err := s.repo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to get event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "event not found", nil)
	}
	if event.CreatorID != actorID {
		return nil, errors.NewAppError(errors.ErrForbidden, "only the organizer can edit this event", nil)
	}

	dateChanged := false
	locationChanged := false

	if req.EventName != "" {
		event.EventName = req.EventName
	}
	if req.Description != "" {
		event.Description = &req.Description
	}
	if req.Category != "" {
		event.Category = entity.EventCategory(req.Category)
	}
	if req.Date != "" {
		newDate, parseErr := time.Parse(time.RFC3339, req.Date)
		if parseErr != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid date format, expected RFC3339", parseErr)
		}
		if !newDate.Equal(event.Date) {
			event.Date = newDate
			dateChanged = true
		}
	}
	if req.City != "" {
		event.City = &req.City
		locationChanged = true
	}
	if req.District != "" {
		event.District = &req.District
		locationChanged = true
	}
	if req.Address != "" {
		event.Address = &req.Address
		locationChanged = true
	}
	if req.Capacity != nil {
		if *req.Capacity < 0 {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "capacity must not be negative", nil)
		}
		event.Capacity = *req.Capacity
	}
	if req.ParticipantFilter != "" {
		event.ParticipantFilter = &req.ParticipantFilter
	}
	if req.Images != nil {
		event.Images = req.Images
	}

	if err := s.repo.UpdateEvent(ctx, event); err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "failed to update event", err)
	}

	// Side effects run after the primary write and never fail it.
	if dateChanged {
		if appErr := s.reminders.ScheduleReminders(ctx, event.ID, event.EventName, event.Date); appErr != nil {
			logger.Error("EventService:UpdateEvent:ScheduleReminders:Error:", "event_id", event.ID, "error", appErr)
		}
	}
	s.notifyParticipantsOfUpdate(ctx, event, actorID, dateChanged, locationChanged)

	return s.GetEventByID(ctx, eventID)
}

func (s *EventService) notifyParticipantsOfUpdate(ctx context.Context, event *entity.Event, actorID uuid.UUID, dateChanged, locationChanged bool) {
	participantIDs, err := s.repo.GetParticipantIDs(ctx, event.ID)
	if err != nil {
		logger.Error("EventService:NotifyUpdate:GetParticipantIDs:Error:", "event_id", event.ID, "error", err)
		return
	}
	if len(participantIDs) == 0 {
		return
	}

	reason := notifEntity.ReasonUpdated
	message := fmt.Sprintf("%s was updated", event.EventName)
	switch {
	case dateChanged:
		reason = notifEntity.ReasonDateChanged
		message = fmt.Sprintf("%s was moved to %s", event.EventName, event.Date.Format("Jan 2, 15:04"))
	case locationChanged:
		reason = notifEntity.ReasonLocationChanged
		message = fmt.Sprintf("%s has a new location", event.EventName)
	}

	eventID := event.ID
	s.notifs.Fanout(ctx, &notifDto.FanoutRequest{
		Type:       notifEntity.TypeEventUpdated,
		Title:      "Event updated",
		Message:    message,
		EventID:    &eventID,
		Data:       map[string]interface{}{"reason": string(reason)},
		Recipients: participantIDs,
		ActorID:    actorID,
	})
}

// DeleteEvent removes an event (creator or admin), cancels its reminders
// and notifies all current participants.
func (s *EventService) DeleteEvent(ctx context.Context, eventID, actorID uuid.UUID, actorRole string) *errors.AppError {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	event, err := s.repo.GetEventByID(ctx, eventID)
	if err != nil {
		return errors.NewAppError(errors.ErrGetFailed, "failed to get event", err)
	}
	if event == nil {
		return errors.NewAppError(errors.ErrNotFound, "event not found", nil)
	}
	if event.CreatorID != actorID && actorRole != middleware.RoleAdmin {
		return errors.NewAppError(errors.ErrForbidden, "only the organizer or an admin can delete this event", nil)
	}

	// Snapshot recipients before the cascade removes the membership rows.
	participantIDs, err := s.repo.GetParticipantIDs(ctx, eventID)
	if err != nil {
		return errors.NewAppError(errors.ErrGetFailed, "failed to get participants", err)
	}

	if err := s.repo.DeleteEvent(ctx, eventID); err != nil {
		return errors.NewAppError(errors.ErrDeleteFailed, "failed to delete event", err)
	}

	if appErr := s.reminders.CancelReminders(ctx, eventID); appErr != nil {
		logger.Error("EventService:DeleteEvent:CancelReminders:Error:", "event_id", eventID, "error", appErr)
	}

	if len(participantIDs) > 0 {
		s.notifs.Fanout(ctx, &notifDto.FanoutRequest{
			Type:       notifEntity.TypeEventCancelled,
			Title:      "Event cancelled",
			Message:    fmt.Sprintf("%s has been cancelled", event.EventName),
			EventID:    &eventID,
			Recipients: participantIDs,
			ActorID:    actorID,
		})
	}

	return nil
}

// JoinEvent adds userID to the event. The capacity check and the membership
// insert happen atomically in the repository; reminder scheduling and fanout
// run only for a first-time join, after the membership is durable.
func (s *EventService) JoinEvent(ctx context.Context, eventID, userID uuid.UUID) *errors.AppError {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	event, err := s.repo.GetEventByID(ctx, eventID)
	if err != nil {
		return errors.NewAppError(errors.ErrGetFailed, "failed to get event", err)
	}
	if event == nil {
		return errors.NewAppError(errors.ErrNotFound, "event not found", nil)
	}
	if event.CreatorID == userID {
		return errors.NewAppError(errors.ErrForbidden, "the organizer cannot join their own event", nil)
	}

	outcome, err := s.repo.AddParticipant(ctx, eventID, userID)
	if err != nil {
		return errors.NewAppError(errors.ErrTransientIO, "failed to join event", err)
	}

	switch outcome {
	case repository.JoinAlreadyMember:
		// Idempotent: already in, no further side effects.
		return nil
	case repository.JoinEventFull:
		return errors.NewAppError(errors.ErrConflict, "event is full", nil)
	case repository.JoinEventMissing:
		return errors.NewAppError(errors.ErrNotFound, "event not found", nil)
	}

	if appErr := s.reminders.ScheduleReminders(ctx, event.ID, event.EventName, event.Date); appErr != nil {
		logger.Error("EventService:JoinEvent:ScheduleReminders:Error:", "event_id", eventID, "error", appErr)
	}

	s.notifyJoin(ctx, event, userID)
	return nil
}

func (s *EventService) notifyJoin(ctx context.Context, event *entity.Event, joinerID uuid.UUID) {
	participantIDs, err := s.repo.GetParticipantIDs(ctx, event.ID)
	if err != nil {
		logger.Error("EventService:NotifyJoin:GetParticipantIDs:Error:", "event_id", event.ID, "error", err)
		return
	}

	joinerName, err := s.users.GetUserName(ctx, joinerID)
	if err != nil || joinerName == "" {
		joinerName = "Someone"
	}

	recipients := append([]uuid.UUID{event.CreatorID}, participantIDs...)
	eventID := event.ID
	s.notifs.Fanout(ctx, &notifDto.FanoutRequest{
		Type:       notifEntity.TypeNewParticipant,
		Title:      "New participant",
		Message:    fmt.Sprintf("%s joined %s", joinerName, event.EventName),
		EventID:    &eventID,
		Recipients: recipients,
		ActorID:    joinerID,
	})
}

// LeaveEvent removes userID from the event. Removal is idempotent and, by
// design, silent: remaining participants are not notified. Reminder tasks
// are per-event and resolve the participant set at fire time, so a user who
// left is naturally excluded without cancelling anything.
func (s *EventService) LeaveEvent(ctx context.Context, eventID, userID uuid.UUID) *errors.AppError {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if err := s.repo.RemoveParticipant(ctx, eventID, userID); err != nil {
		return errors.NewAppError(errors.ErrTransientIO, "failed to leave event", err)
	}
	return nil
}
