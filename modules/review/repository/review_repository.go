package repository

import (
	"context"

	"meetup-api/core/database"
	"meetup-api/core/logger"
	"meetup-api/core/params"
	"meetup-api/modules/review/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type ReviewRepositoryInterface interface {
	CreateReview(ctx context.Context, review *entity.Review) (bool, error)
	GetReviewsByOrganizerID(ctx context.Context, organizerID uuid.UUID, params params.QueryParams) ([]entity.Review, int, error)
}

type ReviewRepository struct {
	DB database.IDatabase
}

func NewReviewRepository(db database.IDatabase) *ReviewRepository {
	return &ReviewRepository{DB: db}
}

// CreateReview inserts the review and folds it into the organizer's running
// aggregate in one transaction. The unique (event_id, reviewer_id) index
// makes duplicates a clean no-op that leaves the aggregate untouched; the
// aggregate update is a single UPDATE so concurrent reviewers of the same
// organizer cannot lose each other's increments. The badge flips on once the
// running average reaches 4.5 with at least five reviews and is never
// revoked afterwards.
func (r *ReviewRepository) CreateReview(ctx context.Context, review *entity.Review) (bool, error) {
	inserted := false

	err := r.DB.WithTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO reviews (event_id, organizer_id, reviewer_id, rating, comment, created_at)
			VALUES ($1, $2, $3, $4, $5, NOW())
			ON CONFLICT (event_id, reviewer_id) DO NOTHING
		`, review.EventID, review.OrganizerID, review.ReviewerID, review.Rating, review.Comment)
		if err != nil {
			return err
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return nil
		}
		inserted = true

		_, err = tx.ExecContext(ctx, `
			UPDATE users SET
				total_rating      = total_rating + $2,
				review_count      = review_count + 1,
				average_rating    = ROUND((total_rating + $2)::numeric / (review_count + 1), 1),
				trusted_organizer = trusted_organizer
					OR (ROUND((total_rating + $2)::numeric / (review_count + 1), 1) >= 4.5 AND review_count + 1 >= 5),
				trusted_earned_at = CASE
					WHEN NOT trusted_organizer
						AND ROUND((total_rating + $2)::numeric / (review_count + 1), 1) >= 4.5
						AND review_count + 1 >= 5
					THEN NOW()
					ELSE trusted_earned_at
				END,
				updated_at = NOW()
			WHERE id = $1
		`, review.OrganizerID, review.Rating)
		return err
	})
	if err != nil {
		logger.Error("ReviewRepository:CreateReview", err)
		return false, err
	}

	return inserted, nil
}

func (r *ReviewRepository) GetReviewsByOrganizerID(ctx context.Context, organizerID uuid.UUID, params params.QueryParams) ([]entity.Review, int, error) {
	offset := (params.PageNumber - 1) * params.PageSize

	var totalItems int
	err := r.DB.GetContext(ctx, &totalItems,
		`SELECT COUNT(*) FROM reviews WHERE organizer_id = $1`, organizerID)
	if err != nil {
		logger.Error("ReviewRepository:GetReviewsByOrganizerID:Count", err)
		return nil, 0, err
	}

	query := `
		SELECT id, event_id, organizer_id, reviewer_id, rating, comment, created_at
		FROM reviews
		WHERE organizer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	var reviews []entity.Review
	err = r.DB.SelectContext(ctx, &reviews, query, organizerID, params.PageSize, offset)
	if err != nil {
		logger.Error("ReviewRepository:GetReviewsByOrganizerID:Select", err)
		return nil, 0, err
	}

	return reviews, totalItems, nil
}
