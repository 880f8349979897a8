package notification

import (
	"context"
	"errors"
	"time"

	"go-backoffice/internal/common/errs"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Recipients for an owner reassignment: {new owner} ∪ {old owner} minus the actor.
func Recipients(newOwnerID, oldOwnerID, actorID string) []string {
	var out []string
	for _, id := range []string{newOwnerID, oldOwnerID} {
		if id == "" || id == actorID {
			continue
		}
		if len(out) == 1 && out[0] == id {
			continue
		}
		out = append(out, id)
	}
	return out
}

type NotificationService interface {
	Notify(ctx context.Context, userID string, subject LeadRef, message, authorName, eventID string) error
	GetUserNotifications(ctx context.Context, userID string, page, limit int64) ([]Notification, int64, error)
	GetUnreadCount(ctx context.Context, userID string) (int64, error)
	MarkAsRead(ctx context.Context, id, userID string) error
	MarkAllAsRead(ctx context.Context, userID string) error
}

type NotificationServiceImpl struct {
	repo      NotificationRepository
	publisher Publisher
	nowFn     func() time.Time
}

func NewNotificationService(repo NotificationRepository, hub *Hub) NotificationService {
	return &NotificationServiceImpl{
		repo:      repo,
		publisher: hub,
		nowFn:     time.Now,
	}
}

// Notify stores one notification per (recipient, event). A repeated event id is a no-op.
func (s *NotificationServiceImpl) Notify(ctx context.Context, userID string, subject LeadRef, message, authorName, eventID string) error {
	if userID == "" {
		return errs.Validation("notification.notify", "recipient is required")
	}
	if eventID == "" {
		return errs.Validation("notification.notify", "event id is required")
	}

	n := &Notification{
		ID:        primitive.NewObjectID().Hex(),
		UserID:    userID,
		LeadID:    subject.ID,
		EventID:   eventID,
		Content:   message,
		Author:    authorName,
		CreatedAt: s.nowFn().UTC(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		if errors.Is(err, ErrAlreadyDelivered) {
			return nil
		}
		return err
	}

	if s.publisher != nil {
		s.publisher.Publish(userID, *n)
	}
	return nil
}

func (s *NotificationServiceImpl) GetUserNotifications(ctx context.Context, userID string, page, limit int64) ([]Notification, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return s.repo.GetByUserID(ctx, userID, page, limit)
}

func (s *NotificationServiceImpl) GetUnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.repo.GetUnreadCount(ctx, userID)
}

func (s *NotificationServiceImpl) MarkAsRead(ctx context.Context, id, userID string) error {
	return s.repo.MarkAsRead(ctx, id, userID)
}

func (s *NotificationServiceImpl) MarkAllAsRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}
