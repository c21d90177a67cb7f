package entity

import (
	"time"

	"github.com/google/uuid"
)

// Review is an immutable post-event rating of an organizer. At most one
// review exists per (event, reviewer) pair.
type Review struct {
	ID          uuid.UUID `db:"id" json:"id"`
	EventID     uuid.UUID `db:"event_id" json:"event_id"`
	OrganizerID uuid.UUID `db:"organizer_id" json:"organizer_id"`
	ReviewerID  uuid.UUID `db:"reviewer_id" json:"reviewer_id"`
	Rating      int       `db:"rating" json:"rating"` // 1..5
	Comment     *string   `db:"comment" json:"comment,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
