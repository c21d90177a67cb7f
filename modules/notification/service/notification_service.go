package service

import (
	"context"
	"time"

	coreEntity "meetup-api/core/entity"
	"meetup-api/core/logger"
	"meetup-api/core/params"
	"meetup-api/core/push"
	"meetup-api/modules/notification/dto"
	"meetup-api/modules/notification/entity"
	"meetup-api/modules/notification/repository"

	"github.com/google/uuid"
)

type NotificationService struct {
	repo   repository.NotificationRepositoryInterface
	sender push.Sender
}

func NewNotificationService(repo repository.NotificationRepositoryInterface, sender push.Sender) *NotificationService {
	return &NotificationService{repo: repo, sender: sender}
}

// Fanout persists one notification per recipient and pushes to their device.
// Recipients are deduplicated; the actor and anyone in Excluding never
// receive one. A failure for one recipient does not stop the others, and
// the caller's primary mutation is never failed by fanout: errors here are
// logged only.
func (s *NotificationService) Fanout(ctx context.Context, req *dto.FanoutRequest) {
	excluded := make(map[uuid.UUID]bool, len(req.Excluding)+1)
	excluded[req.ActorID] = true
	for _, id := range req.Excluding {
		excluded[id] = true
	}

	seen := make(map[uuid.UUID]bool, len(req.Recipients))
	for _, recipientID := range req.Recipients {
		if recipientID == uuid.Nil || excluded[recipientID] || seen[recipientID] {
			continue
		}
		seen[recipientID] = true

		if err := s.deliver(ctx, recipientID, req); err != nil {
			logger.Error("NotificationService:Fanout:Deliver:Error:",
				"recipient_id", recipientID, "type", req.Type, "error", err)
		}
	}
}

func (s *NotificationService) deliver(ctx context.Context, recipientID uuid.UUID, req *dto.FanoutRequest) error {
	notif := &entity.Notification{
		UserID:  recipientID,
		Title:   req.Title,
		Message: req.Message,
		Type:    req.Type,
		EventID: req.EventID,
		Data:    entity.JSONB(req.Data),
		IsRead:  false,
		BaseEntity: coreEntity.BaseEntity{
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
	}

	if err := s.repo.Create(ctx, notif); err != nil {
		return err
	}

	// Push delivery is best-effort on top of the persisted record.
	token, err := s.repo.GetPushToken(ctx, recipientID)
	if err != nil || token == "" {
		return nil
	}

	data := map[string]string{"type": string(req.Type)}
	if req.EventID != nil {
		data["event_id"] = req.EventID.String()
	}
	if err := s.sender.Send(ctx, token, req.Title, req.Message, data); err != nil {
		logger.Error("NotificationService:Fanout:Push:Error:", "recipient_id", recipientID, "error", err)
	}
	return nil
}

func (s *NotificationService) GetMyNotifications(ctx context.Context, userID uuid.UUID, queryParams params.QueryParams) (*entity.PaginatedNotificationEntity, error) {
	return s.repo.GetByUserID(ctx, userID, queryParams)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, userID uuid.UUID, ids []string) error {
	return s.repo.MarkAsRead(ctx, userID, ids)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}
