package repository

import (
	"context"
	"database/sql"

	"meetup-api/core/database"
	"meetup-api/core/logger"
	"meetup-api/core/params"
	"meetup-api/modules/event/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// JoinOutcome is the result of the transactional membership insert.
type JoinOutcome int

const (
	JoinJoined JoinOutcome = iota
	JoinAlreadyMember
	JoinEventFull
	JoinEventMissing
)

type EventRepositoryInterface interface {
	CreateEvent(ctx context.Context, event *entity.Event) (*entity.Event, error)
	GetEventByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	GetUpcomingEvents(ctx context.Context, params params.QueryParams) ([]entity.Event, int, error)
	GetEventsByCreatorID(ctx context.Context, creatorID uuid.UUID) ([]entity.Event, error)
	GetEventsByParticipantID(ctx context.Context, userID uuid.UUID) ([]entity.Event, error)
	UpdateEvent(ctx context.Context, event *entity.Event) error
	DeleteEvent(ctx context.Context, id uuid.UUID) error

	AddParticipant(ctx context.Context, eventID, userID uuid.UUID) (JoinOutcome, error)
	RemoveParticipant(ctx context.Context, eventID, userID uuid.UUID) error
	GetParticipantIDs(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error)
	IsParticipant(ctx context.Context, eventID, userID uuid.UUID) (bool, error)
}

type EventRepository struct {
	DB database.IDatabase
}

func NewEventRepository(db database.IDatabase) *EventRepository {
	return &EventRepository{DB: db}
}

// ===================== Event CRUD =====================

func (r *EventRepository) CreateEvent(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	query := `
		INSERT INTO events (creator_id, event_name, slug, description, category, date,
		                    city, district, address, capacity, participant_filter, images)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, creator_id, event_name, slug, description, category, date,
		          city, district, address, capacity, participant_filter, images,
		          created_at, updated_at
	`

	var created entity.Event
	err := r.DB.GetContext(ctx, &created, query,
		event.CreatorID, event.EventName, event.Slug, event.Description, event.Category,
		event.Date, event.City, event.District, event.Address, event.Capacity,
		event.ParticipantFilter, event.Images)
	if err != nil {
		logger.Error("EventRepository:CreateEvent", err)
		return nil, err
	}

	return &created, nil
}

func (r *EventRepository) GetEventByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	query := `
		SELECT id, creator_id, event_name, slug, description, category, date,
		       city, district, address, capacity, participant_filter, images,
		       created_at, updated_at
		FROM events WHERE id = $1
	`

	var event entity.Event
	err := r.DB.GetContext(ctx, &event, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:GetEventByID", err)
		return nil, err
	}

	return &event, nil
}

func (r *EventRepository) GetUpcomingEvents(ctx context.Context, params params.QueryParams) ([]entity.Event, int, error) {
	offset := (params.PageNumber - 1) * params.PageSize

	baseQuery := `FROM events WHERE date > NOW()`
	args := []any{}
	if params.Search != "" {
		baseQuery += ` AND event_name ILIKE $1`
		args = append(args, "%"+params.Search+"%")
	}

	var totalItems int
	err := r.DB.GetContext(ctx, &totalItems, "SELECT COUNT(*) "+baseQuery, args...)
	if err != nil {
		logger.Error("EventRepository:GetUpcomingEvents:Count", err)
		return nil, 0, err
	}

	query := `
		SELECT id, creator_id, event_name, slug, description, category, date,
		       city, district, address, capacity, participant_filter, images,
		       created_at, updated_at ` + baseQuery + `
		ORDER BY date ASC
	`
	if params.Search != "" {
		query += ` LIMIT $2 OFFSET $3`
	} else {
		query += ` LIMIT $1 OFFSET $2`
	}
	args = append(args, params.PageSize, offset)

	var events []entity.Event
	err = r.DB.SelectContext(ctx, &events, query, args...)
	if err != nil {
		logger.Error("EventRepository:GetUpcomingEvents:Select", err)
		return nil, 0, err
	}

	return events, totalItems, nil
}

func (r *EventRepository) GetEventsByCreatorID(ctx context.Context, creatorID uuid.UUID) ([]entity.Event, error) {
	query := `
		SELECT id, creator_id, event_name, slug, description, category, date,
		       city, district, address, capacity, participant_filter, images,
		       created_at, updated_at
		FROM events
		WHERE creator_id = $1
		ORDER BY date DESC
	`

	var events []entity.Event
	err := r.DB.SelectContext(ctx, &events, query, creatorID)
	if err != nil {
		logger.Error("EventRepository:GetEventsByCreatorID", err)
		return nil, err
	}

	return events, nil
}

func (r *EventRepository) GetEventsByParticipantID(ctx context.Context, userID uuid.UUID) ([]entity.Event, error) {
	query := `
		SELECT e.id, e.creator_id, e.event_name, e.slug, e.description, e.category, e.date,
		       e.city, e.district, e.address, e.capacity, e.participant_filter, e.images,
		       e.created_at, e.updated_at
		FROM events e
		JOIN event_participants p ON p.event_id = e.id
		WHERE p.user_id = $1
		ORDER BY e.date DESC
	`

	var events []entity.Event
	err := r.DB.SelectContext(ctx, &events, query, userID)
	if err != nil {
		logger.Error("EventRepository:GetEventsByParticipantID", err)
		return nil, err
	}

	return events, nil
}

func (r *EventRepository) UpdateEvent(ctx context.Context, event *entity.Event) error {
	query := `
		UPDATE events
		SET event_name = $2, description = $3, category = $4, date = $5,
		    city = $6, district = $7, address = $8, capacity = $9,
		    participant_filter = $10, images = $11, updated_at = NOW()
		WHERE id = $1
	`

	err := r.DB.ExecContext(ctx, query,
		event.ID, event.EventName, event.Description, event.Category, event.Date,
		event.City, event.District, event.Address, event.Capacity,
		event.ParticipantFilter, event.Images)
	if err != nil {
		logger.Error("EventRepository:UpdateEvent", err)
		return err
	}

	return nil
}

func (r *EventRepository) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM events WHERE id = $1`
	err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		logger.Error("EventRepository:DeleteEvent", err)
		return err
	}
	return nil
}

// ===================== Participants =====================

// AddParticipant inserts the membership row inside a transaction that locks
// the event row, so two joins racing for the last capacity slot can never
// both succeed. Re-joining is detected and reported without side effects.
func (r *EventRepository) AddParticipant(ctx context.Context, eventID, userID uuid.UUID) (JoinOutcome, error) {
	outcome := JoinJoined

	err := r.DB.WithTx(ctx, func(tx *sqlx.Tx) error {
		var capacity int
		err := tx.GetContext(ctx, &capacity, `SELECT capacity FROM events WHERE id = $1 FOR UPDATE`, eventID)
		if err != nil {
			if err == sql.ErrNoRows {
				outcome = JoinEventMissing
				return nil
			}
			return err
		}

		var alreadyMember bool
		err = tx.GetContext(ctx, &alreadyMember,
			`SELECT EXISTS (SELECT 1 FROM event_participants WHERE event_id = $1 AND user_id = $2)`,
			eventID, userID)
		if err != nil {
			return err
		}
		if alreadyMember {
			outcome = JoinAlreadyMember
			return nil
		}

		if capacity > 0 {
			var count int
			err = tx.GetContext(ctx, &count,
				`SELECT COUNT(*) FROM event_participants WHERE event_id = $1`, eventID)
			if err != nil {
				return err
			}
			if count >= capacity {
				outcome = JoinEventFull
				return nil
			}
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO event_participants (event_id, user_id, created_at) VALUES ($1, $2, NOW())
			 ON CONFLICT (event_id, user_id) DO NOTHING`,
			eventID, userID)
		return err
	})
	if err != nil {
		logger.Error("EventRepository:AddParticipant", err)
		return outcome, err
	}

	return outcome, nil
}

func (r *EventRepository) RemoveParticipant(ctx context.Context, eventID, userID uuid.UUID) error {
	query := `DELETE FROM event_participants WHERE event_id = $1 AND user_id = $2`
	err := r.DB.ExecContext(ctx, query, eventID, userID)
	if err != nil {
		logger.Error("EventRepository:RemoveParticipant", err)
		return err
	}
	return nil
}

func (r *EventRepository) GetParticipantIDs(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT user_id FROM event_participants
		WHERE event_id = $1
		ORDER BY created_at
	`

	var ids []uuid.UUID
	err := r.DB.SelectContext(ctx, &ids, query, eventID)
	if err != nil {
		logger.Error("EventRepository:GetParticipantIDs", err)
		return nil, err
	}

	return ids, nil
}

func (r *EventRepository) IsParticipant(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM event_participants WHERE event_id = $1 AND user_id = $2)`
	err := r.DB.GetContext(ctx, &exists, query, eventID, userID)
	if err != nil {
		logger.Error("EventRepository:IsParticipant", err)
		return false, err
	}
	return exists, nil
}
