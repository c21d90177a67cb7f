package dto

import (
	"time"

	"meetup-api/modules/notification/entity"

	"github.com/google/uuid"
)

type NotificationResponse struct {
	ID        uuid.UUID              `json:"id"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Type      string                 `json:"type"`
	EventID   *uuid.UUID             `json:"event_id,omitempty"`
	Data      map[string]interface{} `json:"data"`
	IsRead    bool                   `json:"is_read"`
	CreatedAt time.Time              `json:"created_at"`
}

type MarkAsReadRequest struct {
	IDs []string `json:"ids" validate:"required"`
}

// FanoutRequest describes one domain event to distribute as per-recipient
// notifications. The actor never receives a notification about their own
// action.
type FanoutRequest struct {
	Type       entity.NotificationType
	Title      string
	Message    string
	EventID    *uuid.UUID
	Data       map[string]interface{}
	Recipients []uuid.UUID
	Excluding  []uuid.UUID
	ActorID    uuid.UUID
}
