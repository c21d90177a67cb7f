package service

import (
	"context"

	"meetup-api/core/constants"
	"meetup-api/core/errors"
	"meetup-api/core/logger"
	"meetup-api/core/middleware"
	"meetup-api/core/params"
	"meetup-api/core/utils"
	notifDto "meetup-api/modules/notification/dto"
	notifEntity "meetup-api/modules/notification/entity"
	notifService "meetup-api/modules/notification/service"
	"meetup-api/modules/user/dto"
	"meetup-api/modules/user/entity"
	"meetup-api/modules/user/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserServiceInterface interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, *errors.AppError)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, *errors.AppError)
	GetMe(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, *errors.AppError)
	Approve(ctx context.Context, actorRole string, userID uuid.UUID) (*dto.UserResponse, *errors.AppError)
	Reject(ctx context.Context, actorRole string, userID uuid.UUID) (*dto.UserResponse, *errors.AppError)
	ListPending(ctx context.Context, params params.QueryParams) ([]dto.UserResponse, int, *errors.AppError)
	UpdatePushToken(ctx context.Context, userID uuid.UUID, token string) *errors.AppError
}

type UserService struct {
	repo   repository.UserRepositoryInterface
	notifs *notifService.NotificationService
}

func NewUserService(repo repository.UserRepositoryInterface, notifs *notifService.NotificationService) UserServiceInterface {
	return &UserService{
		repo:   repo,
		notifs: notifs,
	}
}

// Register creates a new pending user and issues an access token. Until an
// admin approves the account only the waiting surface is reachable; that
// gating is a pure function of approval_state on the client side.
func (s *UserService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	existing, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to check email", err)
	}
	if existing != nil {
		return nil, errors.NewAppError(errors.ErrAlreadyExists, "email is already registered", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to hash password", err)
	}

	user := &entity.User{
		Name:          req.Name,
		Email:         req.Email,
		PasswordHash:  string(hash),
		Role:          middleware.RoleUser,
		ApprovalState: entity.ApprovalPending,
	}
	if req.PushToken != "" {
		user.PushToken = &req.PushToken
	}

	created, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "failed to create user", err)
	}

	token, err := utils.GenerateToken(created.ID, created.Role)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to issue token", err)
	}

	return &dto.AuthResponse{Token: token, User: *dto.ToUserResponse(created)}, nil
}

// Login verifies credentials and refreshes the device push token.
func (s *UserService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to get user", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid email or password", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid email or password", nil)
	}

	if req.PushToken != "" {
		if err := s.repo.UpdatePushToken(ctx, user.ID, req.PushToken); err != nil {
			logger.Error("UserService:Login:UpdatePushToken:Error:", "user_id", user.ID, "error", err)
		}
	}

	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to issue token", err)
	}

	return &dto.AuthResponse{Token: token, User: *dto.ToUserResponse(user)}, nil
}

func (s *UserService) GetMe(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to get user", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "user not found", nil)
	}

	return dto.ToUserResponse(user), nil
}

// Approve moves a pending user to active and notifies them. Approving an
// already-active user is a no-op success; the route-level admin middleware
// is backed by this service-level role check.
func (s *UserService) Approve(ctx context.Context, actorRole string, userID uuid.UUID) (*dto.UserResponse, *errors.AppError) {
	return s.decide(ctx, actorRole, userID, entity.ApprovalActive)
}

// Reject moves a pending user to rejected and notifies them.
func (s *UserService) Reject(ctx context.Context, actorRole string, userID uuid.UUID) (*dto.UserResponse, *errors.AppError) {
	return s.decide(ctx, actorRole, userID, entity.ApprovalRejected)
}

func (s *UserService) decide(ctx context.Context, actorRole string, userID uuid.UUID, state entity.ApprovalState) (*dto.UserResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if actorRole != middleware.RoleAdmin {
		return nil, errors.NewAppError(errors.ErrForbidden, "admin access required", nil)
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to get user", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "user not found", nil)
	}

	// Repeating the same decision is a no-op; flipping a terminal state is
	// out of scope for the review flow.
	if user.ApprovalState == state {
		return dto.ToUserResponse(user), nil
	}
	if user.ApprovalState != entity.ApprovalPending {
		return nil, errors.NewAppError(errors.ErrConflict, "user has already been reviewed", nil)
	}

	transitioned, err := s.repo.SetApprovalState(ctx, userID, state)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "failed to update approval state", err)
	}

	// Only the transition that actually happened fans out, so a racing
	// duplicate decision cannot double-notify.
	if transitioned {
		approved := state == entity.ApprovalActive
		title := "Account approved"
		message := "Your account has been approved. Welcome!"
		if !approved {
			title = "Account rejected"
			message = "Your registration was not approved."
		}

		s.notifs.Fanout(ctx, &notifDto.FanoutRequest{
			Type:       notifEntity.TypeAdminApproval,
			Title:      title,
			Message:    message,
			Data:       map[string]interface{}{"approved": approved},
			Recipients: []uuid.UUID{userID},
		})
	}

	return s.GetMe(ctx, userID)
}

func (s *UserService) ListPending(ctx context.Context, queryParams params.QueryParams) ([]dto.UserResponse, int, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	users, total, err := s.repo.GetPendingUsers(ctx, queryParams)
	if err != nil {
		return nil, 0, errors.NewAppError(errors.ErrGetFailed, "failed to list pending users", err)
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, *dto.ToUserResponse(&users[i]))
	}
	return result, total, nil
}

func (s *UserService) UpdatePushToken(ctx context.Context, userID uuid.UUID, token string) *errors.AppError {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if err := s.repo.UpdatePushToken(ctx, userID, token); err != nil {
		return errors.NewAppError(errors.ErrUpdateFailed, "failed to update push token", err)
	}
	return nil
}
