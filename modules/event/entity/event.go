package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// EventCategory is the canonical category enum. Display names live in the
// client's localization layer, never in parallel per-language tables here.
type EventCategory string

const (
	CategorySports   EventCategory = "sports"
	CategoryFood     EventCategory = "food"
	CategoryCulture  EventCategory = "culture"
	CategoryOutdoors EventCategory = "outdoors"
	CategoryGames    EventCategory = "games"
	CategoryOther    EventCategory = "other"
)

// Event represents a user-proposed gathering.
// Invariants: the creator is never a participant; when Capacity > 0 the
// participant count never exceeds it.
type Event struct {
	ID                uuid.UUID      `db:"id" json:"id"`
	CreatorID         uuid.UUID      `db:"creator_id" json:"creator_id"`
	EventName         string         `db:"event_name" json:"event_name"`
	Slug              string         `db:"slug" json:"slug"`
	Description       *string        `db:"description" json:"description,omitempty"`
	Category          EventCategory  `db:"category" json:"category"`
	Date              time.Time      `db:"date" json:"date"`
	City              *string        `db:"city" json:"city,omitempty"`
	District          *string        `db:"district" json:"district,omitempty"`
	Address           *string        `db:"address" json:"address,omitempty"`
	Capacity          int            `db:"capacity" json:"capacity"` // 0 = unlimited
	ParticipantFilter *string        `db:"participant_filter" json:"participant_filter,omitempty"`
	Images            pq.StringArray `db:"images" json:"images"`
	CreatedAt         time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at" json:"updated_at"`
}

// EventParticipant is one row of an event's membership set.
type EventParticipant struct {
	EventID   uuid.UUID `db:"event_id" json:"event_id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
