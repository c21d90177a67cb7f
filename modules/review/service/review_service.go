package service

import (
	"context"
	"time"

	"meetup-api/core/constants"
	"meetup-api/core/errors"
	"meetup-api/core/params"
	eventEntity "meetup-api/modules/event/entity"
	"meetup-api/modules/review/dto"
	"meetup-api/modules/review/entity"
	"meetup-api/modules/review/repository"

	"github.com/google/uuid"
)

// EventSource is the slice of the event module this service needs.
type EventSource interface {
	GetEventByID(ctx context.Context, id uuid.UUID) (*eventEntity.Event, error)
	IsParticipant(ctx context.Context, eventID, userID uuid.UUID) (bool, error)
}

type ReviewServiceInterface interface {
	SubmitReview(ctx context.Context, reviewerID uuid.UUID, req *dto.SubmitReviewRequest) (*dto.ReviewResponse, *errors.AppError)
	GetOrganizerReviews(ctx context.Context, organizerID uuid.UUID, params params.QueryParams) ([]dto.ReviewResponse, int, *errors.AppError)
}

type ReviewService struct {
	repo   repository.ReviewRepositoryInterface
	events EventSource
	now    func() time.Time
}

func NewReviewService(repo repository.ReviewRepositoryInterface, events EventSource) ReviewServiceInterface {
	return &ReviewService{
		repo:   repo,
		events: events,
		now:    time.Now,
	}
}

// SubmitReview records a one-time rating of an event's organizer by a past
// participant and folds it into the organizer's reputation. The organizer is
// always the event's creator; clients cannot rate an arbitrary user.
func (s *ReviewService) SubmitReview(ctx context.Context, reviewerID uuid.UUID, req *dto.SubmitReviewRequest) (*dto.ReviewResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if req.Rating < 1 || req.Rating > 5 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "rating must be between 1 and 5", nil)
	}

	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid event id", err)
	}

	event, err := s.events.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to get event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "event not found", nil)
	}

	if event.CreatorID == reviewerID {
		return nil, errors.NewAppError(errors.ErrForbidden, "organizers cannot review their own event", nil)
	}
	if event.Date.After(s.now()) {
		return nil, errors.NewAppError(errors.ErrForbidden, "reviews open after the event has taken place", nil)
	}

	wasParticipant, err := s.events.IsParticipant(ctx, eventID, reviewerID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to check participation", err)
	}
	if !wasParticipant {
		return nil, errors.NewAppError(errors.ErrForbidden, "only participants can review this event", nil)
	}

	review := &entity.Review{
		EventID:     eventID,
		OrganizerID: event.CreatorID,
		ReviewerID:  reviewerID,
		Rating:      req.Rating,
	}
	if req.Comment != "" {
		review.Comment = &req.Comment
	}

	inserted, err := s.repo.CreateReview(ctx, review)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "failed to submit review", err)
	}
	if !inserted {
		return nil, errors.NewAppError(errors.ErrConflict, "you already reviewed this event", nil)
	}

	return dto.ToReviewResponse(review), nil
}

func (s *ReviewService) GetOrganizerReviews(ctx context.Context, organizerID uuid.UUID, queryParams params.QueryParams) ([]dto.ReviewResponse, int, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	reviews, total, err := s.repo.GetReviewsByOrganizerID(ctx, organizerID, queryParams)
	if err != nil {
		return nil, 0, errors.NewAppError(errors.ErrGetFailed, "failed to get reviews", err)
	}

	result := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		result = append(result, *dto.ToReviewResponse(&reviews[i]))
	}
	return result, total, nil
}
