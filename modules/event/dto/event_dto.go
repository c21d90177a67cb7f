package dto

import (
	"time"

	"meetup-api/modules/event/entity"

	"github.com/google/uuid"
)

type CreateEventRequest struct {
	EventName         string   `json:"event_name" validate:"required"`
	Description       string   `json:"description"`
	Category          string   `json:"category" validate:"required"`
	Date              string   `json:"date" validate:"required"` // RFC3339
	City              string   `json:"city"`
	District          string   `json:"district"`
	Address           string   `json:"address"`
	Capacity          int      `json:"capacity"` // 0 = unlimited
	ParticipantFilter string   `json:"participant_filter"`
	Images            []string `json:"images"`
}

type UpdateEventRequest struct {
	EventName         string   `json:"event_name"`
	Description       string   `json:"description"`
	Category          string   `json:"category"`
	Date              string   `json:"date"` // RFC3339
	City              string   `json:"city"`
	District          string   `json:"district"`
	Address           string   `json:"address"`
	Capacity          *int     `json:"capacity"`
	ParticipantFilter string   `json:"participant_filter"`
	Images            []string `json:"images"`
}

type EventResponse struct {
	ID                uuid.UUID  `json:"id"`
	CreatorID         uuid.UUID  `json:"creator_id"`
	EventName         string     `json:"event_name"`
	Slug              string     `json:"slug"`
	Description       string     `json:"description,omitempty"`
	Category          string     `json:"category"`
	Date              time.Time  `json:"date"`
	City              string     `json:"city,omitempty"`
	District          string     `json:"district,omitempty"`
	Address           string     `json:"address,omitempty"`
	Capacity          int        `json:"capacity"`
	ParticipantFilter string     `json:"participant_filter,omitempty"`
	Images            []string   `json:"images"`
	ParticipantCount  int        `json:"participant_count"`
	Participants      []uuid.UUID `json:"participants,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

type PaginatedEventResponse struct {
	Items      []EventResponse `json:"items"`
	TotalItems int             `json:"total_items"`
	PageNumber int             `json:"page_number"`
	PageSize   int             `json:"page_size"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func ToEventResponse(event *entity.Event, participantIDs []uuid.UUID) *EventResponse {
	return &EventResponse{
		ID:                event.ID,
		CreatorID:         event.CreatorID,
		EventName:         event.EventName,
		Slug:              event.Slug,
		Description:       deref(event.Description),
		Category:          string(event.Category),
		Date:              event.Date,
		City:              deref(event.City),
		District:          deref(event.District),
		Address:           deref(event.Address),
		Capacity:          event.Capacity,
		ParticipantFilter: deref(event.ParticipantFilter),
		Images:            event.Images,
		ParticipantCount:  len(participantIDs),
		Participants:      participantIDs,
		CreatedAt:         event.CreatedAt,
	}
}
