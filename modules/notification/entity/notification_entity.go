package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"meetup-api/core/entity"

	"github.com/google/uuid"
)

// NotificationType identifies what triggered a notification.
type NotificationType string

const (
	TypeNewParticipant NotificationType = "new_participant"
	TypeAdminApproval  NotificationType = "admin_approval"
	TypeEventCancelled NotificationType = "event_cancelled"
	TypeEventUpdated   NotificationType = "event_updated"
	TypeEventReminder  NotificationType = "event_reminder"
	TypeChatMessage    NotificationType = "chat_message"
)

// UpdateReason is carried in the payload of event_updated notifications.
type UpdateReason string

const (
	ReasonDateChanged     UpdateReason = "date_changed"
	ReasonLocationChanged UpdateReason = "location_changed"
	ReasonUpdated         UpdateReason = "updated"
)

type Notification struct {
	UserID  uuid.UUID        `db:"user_id" json:"user_id"`
	Title   string           `db:"title" json:"title"`
	Message string           `db:"message" json:"message"`
	Type    NotificationType `db:"type" json:"type"`
	EventID *uuid.UUID       `db:"event_id" json:"event_id,omitempty"`
	Data    JSONB            `db:"data" json:"data"`
	IsRead  bool             `db:"is_read" json:"is_read"`
	entity.BaseEntity
}

type JSONB map[string]interface{}

func (a JSONB) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *JSONB) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, &a)
}

type PaginatedNotificationEntity = entity.Pagination[Notification]
