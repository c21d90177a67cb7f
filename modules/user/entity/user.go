package entity

import (
	"time"

	"github.com/google/uuid"
)

// ApprovalState is a user's position in the registration review flow.
// pending → active (approved) or pending → rejected; both are terminal.
type ApprovalState string

const (
	ApprovalPending  ApprovalState = "pending"
	ApprovalActive   ApprovalState = "active"
	ApprovalRejected ApprovalState = "rejected"
)

type User struct {
	ID            uuid.UUID     `db:"id" json:"id"`
	Name          string        `db:"name" json:"name"`
	Email         string        `db:"email" json:"email"`
	PasswordHash  string        `db:"password_hash" json:"-"`
	Role          string        `db:"role" json:"role"`
	ApprovalState ApprovalState `db:"approval_state" json:"approval_state"`
	ApprovedAt    *time.Time    `db:"approved_at" json:"approved_at,omitempty"`
	PushToken     *string       `db:"push_token" json:"-"`

	// Organizer reputation, maintained atomically by the review module.
	TotalRating      int        `db:"total_rating" json:"total_rating"`
	ReviewCount      int        `db:"review_count" json:"review_count"`
	AverageRating    float64    `db:"average_rating" json:"average_rating"`
	TrustedOrganizer bool       `db:"trusted_organizer" json:"trusted_organizer"`
	TrustedEarnedAt  *time.Time `db:"trusted_earned_at" json:"trusted_earned_at,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
