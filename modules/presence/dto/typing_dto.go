package dto

import (
	"time"

	"github.com/google/uuid"
)

type SetTypingRequest struct {
	IsTyping bool `json:"is_typing"`
}

type TypingUserResponse struct {
	UserID    uuid.UUID `json:"user_id"`
	UserName  string    `json:"user_name"`
	Timestamp time.Time `json:"timestamp"`
}
