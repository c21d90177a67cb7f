package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"meetup-api/core/cache"
	"meetup-api/core/constants"
	"meetup-api/core/errors"
	"meetup-api/core/logger"
	"meetup-api/modules/presence/dto"
	"meetup-api/modules/presence/entity"

	"github.com/google/uuid"
)

// UserSource resolves the display name stored alongside the indicator.
type UserSource interface {
	GetUserName(ctx context.Context, id uuid.UUID) (string, error)
}

type PresenceServiceInterface interface {
	SetTyping(ctx context.Context, eventID, userID uuid.UUID, isTyping bool) *errors.AppError
	GetTyping(ctx context.Context, eventID, requesterID uuid.UUID) ([]dto.TypingUserResponse, *errors.AppError)
}

type PresenceService struct {
	cache cache.Cache
	users UserSource
}

func NewPresenceService(c cache.Cache, users UserSource) PresenceServiceInterface {
	return &PresenceService{
		cache: c,
		users: users,
	}
}

func typingKey(eventID, userID uuid.UUID) string {
	return fmt.Sprintf("%s%s:%s", constants.RedisKeyTypingPrefix, eventID, userID)
}

// SetTyping writes or clears the indicator. Each keystroke refreshes the
// TTL; the client is expected to send is_typing=false after its 2s debounce
// or on message send, but the TTL covers clients that never do.
func (s *PresenceService) SetTyping(ctx context.Context, eventID, userID uuid.UUID, isTyping bool) *errors.AppError {
	key := typingKey(eventID, userID)

	if !isTyping {
		if err := s.cache.Del(ctx, key); err != nil {
			return errors.NewAppError(errors.ErrTransientIO, "failed to clear typing state", err)
		}
		return nil
	}

	userName, err := s.users.GetUserName(ctx, userID)
	if err != nil {
		return errors.NewAppError(errors.ErrTransientIO, "failed to resolve user", err)
	}

	state := entity.TypingState{
		EventID:   eventID,
		UserID:    userID,
		UserName:  userName,
		Timestamp: time.Now(),
	}
	payload, err := json.Marshal(state)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to encode typing state", err)
	}

	if err := s.cache.Set(ctx, key, string(payload), constants.TypingTTL); err != nil {
		return errors.NewAppError(errors.ErrTransientIO, "failed to set typing state", err)
	}
	return nil
}

// GetTyping returns who is currently typing in the event's chat, excluding
// the requester themselves.
func (s *PresenceService) GetTyping(ctx context.Context, eventID, requesterID uuid.UUID) ([]dto.TypingUserResponse, *errors.AppError) {
	pattern := fmt.Sprintf("%s%s:*", constants.RedisKeyTypingPrefix, eventID)
	keys, err := s.cache.Keys(ctx, pattern)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrTransientIO, "failed to list typing state", err)
	}

	result := make([]dto.TypingUserResponse, 0, len(keys))
	for _, key := range keys {
		value, err := s.cache.Get(ctx, key)
		if err != nil {
			if err == cache.ErrMiss {
				continue // expired between SCAN and GET
			}
			logger.Error("PresenceService:GetTyping:Get:Error:", "key", key, "error", err)
			continue
		}

		var state entity.TypingState
		if err := json.Unmarshal([]byte(value), &state); err != nil {
			logger.Error("PresenceService:GetTyping:Decode:Error:", "key", key, "error", err)
			continue
		}
		if state.UserID == requesterID {
			continue
		}

		result = append(result, dto.TypingUserResponse{
			UserID:    state.UserID,
			UserName:  state.UserName,
			Timestamp: state.Timestamp,
		})
	}

	return result, nil
}
