package dto

import (
	"time"

	"meetup-api/modules/user/entity"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	PushToken string `json:"push_token"`
}

type LoginRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	PushToken string `json:"push_token"`
}

type UpdatePushTokenRequest struct {
	PushToken string `json:"push_token" validate:"required"`
}

type BadgesResponse struct {
	TrustedOrganizer bool       `json:"trusted_organizer"`
	EarnedAt         *time.Time `json:"earned_at,omitempty"`
}

type UserResponse struct {
	ID            uuid.UUID      `json:"id"`
	Name          string         `json:"name"`
	Email         string         `json:"email"`
	Role          string         `json:"role"`
	ApprovalState string         `json:"approval_state"`
	TotalRating   int            `json:"total_rating"`
	ReviewCount   int            `json:"review_count"`
	AverageRating float64        `json:"average_rating"`
	Badges        BadgesResponse `json:"badges"`
	CreatedAt     time.Time      `json:"created_at"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

func ToUserResponse(user *entity.User) *UserResponse {
	return &UserResponse{
		ID:            user.ID,
		Name:          user.Name,
		Email:         user.Email,
		Role:          user.Role,
		ApprovalState: string(user.ApprovalState),
		TotalRating:   user.TotalRating,
		ReviewCount:   user.ReviewCount,
		AverageRating: user.AverageRating,
		Badges: BadgesResponse{
			TrustedOrganizer: user.TrustedOrganizer,
			EarnedAt:         user.TrustedEarnedAt,
		},
		CreatedAt: user.CreatedAt,
	}
}
