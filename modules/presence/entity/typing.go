package entity

import (
	"time"

	"github.com/google/uuid"
)

// TypingState is the ephemeral "user is typing" marker for an event's chat.
// It lives in Redis under typing:{eventID}:{userID} with a short TTL, so a
// crashed client can never leave a stale indicator behind.
type TypingState struct {
	EventID   uuid.UUID `json:"event_id"`
	UserID    uuid.UUID `json:"user_id"`
	UserName  string    `json:"user_name"`
	Timestamp time.Time `json:"timestamp"`
}
