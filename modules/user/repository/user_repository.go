package repository

import (
	"context"
	"database/sql"

	"meetup-api/core/database"
	"meetup-api/core/logger"
	"meetup-api/core/params"
	"meetup-api/modules/user/entity"

	"github.com/google/uuid"
)

type UserRepositoryInterface interface {
	CreateUser(ctx context.Context, user *entity.User) (*entity.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	GetPendingUsers(ctx context.Context, params params.QueryParams) ([]entity.User, int, error)
	SetApprovalState(ctx context.Context, id uuid.UUID, state entity.ApprovalState) (bool, error)
	UpdatePushToken(ctx context.Context, id uuid.UUID, token string) error
	GetUserName(ctx context.Context, id uuid.UUID) (string, error)
}

type UserRepository struct {
	DB database.IDatabase
}

func NewUserRepository(db database.IDatabase) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = `id, name, email, password_hash, role, approval_state, approved_at, push_token,
	total_rating, review_count, average_rating, trusted_organizer, trusted_earned_at,
	created_at, updated_at`

func (r *UserRepository) CreateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	query := `
		INSERT INTO users (name, email, password_hash, role, approval_state, push_token)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns

	var created entity.User
	err := r.DB.GetContext(ctx, &created, query,
		user.Name, user.Email, user.PasswordHash, user.Role, user.ApprovalState, user.PushToken)
	if err != nil {
		logger.Error("UserRepository:CreateUser", err)
		return nil, err
	}

	return &created, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var user entity.User
	err := r.DB.GetContext(ctx, &user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("UserRepository:GetUserByID", err)
		return nil, err
	}

	return &user, nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	var user entity.User
	err := r.DB.GetContext(ctx, &user, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("UserRepository:GetUserByEmail", err)
		return nil, err
	}

	return &user, nil
}

func (r *UserRepository) GetPendingUsers(ctx context.Context, params params.QueryParams) ([]entity.User, int, error) {
	offset := (params.PageNumber - 1) * params.PageSize

	var totalItems int
	err := r.DB.GetContext(ctx, &totalItems,
		`SELECT COUNT(*) FROM users WHERE approval_state = $1`, entity.ApprovalPending)
	if err != nil {
		logger.Error("UserRepository:GetPendingUsers:Count", err)
		return nil, 0, err
	}

	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE approval_state = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3
	`

	var users []entity.User
	err = r.DB.SelectContext(ctx, &users, query, entity.ApprovalPending, params.PageSize, offset)
	if err != nil {
		logger.Error("UserRepository:GetPendingUsers:Select", err)
		return nil, 0, err
	}

	return users, totalItems, nil
}

// SetApprovalState moves a pending user into a terminal state. The WHERE
// clause makes the transition atomic: a concurrent approve and reject cannot
// both win, and repeating a decision affects zero rows.
func (r *UserRepository) SetApprovalState(ctx context.Context, id uuid.UUID, state entity.ApprovalState) (bool, error) {
	query := `
		UPDATE users
		SET approval_state = $2, approved_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND approval_state = $3
	`

	res, err := r.DB.SQLx().ExecContext(ctx, query, id, state, entity.ApprovalPending)
	if err != nil {
		logger.Error("UserRepository:SetApprovalState", err)
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *UserRepository) UpdatePushToken(ctx context.Context, id uuid.UUID, token string) error {
	query := `UPDATE users SET push_token = $2, updated_at = NOW() WHERE id = $1`
	err := r.DB.ExecContext(ctx, query, id, token)
	if err != nil {
		logger.Error("UserRepository:UpdatePushToken", err)
		return err
	}
	return nil
}

func (r *UserRepository) GetUserName(ctx context.Context, id uuid.UUID) (string, error) {
	var name string
	err := r.DB.GetContext(ctx, &name, `SELECT name FROM users WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		logger.Error("UserRepository:GetUserName", err)
		return "", err
	}
	return name, nil
}
