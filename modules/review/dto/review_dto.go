package dto

import (
	"time"

	"meetup-api/modules/review/entity"

	"github.com/google/uuid"
)

type SubmitReviewRequest struct {
	EventID string `json:"event_id" validate:"required"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

type ReviewResponse struct {
	ID          uuid.UUID `json:"id"`
	EventID     uuid.UUID `json:"event_id"`
	OrganizerID uuid.UUID `json:"organizer_id"`
	ReviewerID  uuid.UUID `json:"reviewer_id"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func ToReviewResponse(review *entity.Review) *ReviewResponse {
	resp := &ReviewResponse{
		ID:          review.ID,
		EventID:     review.EventID,
		OrganizerID: review.OrganizerID,
		ReviewerID:  review.ReviewerID,
		Rating:      review.Rating,
		CreatedAt:   review.CreatedAt,
	}
	if review.Comment != nil {
		resp.Comment = *review.Comment
	}
	return resp
}
