package notifications

import (
	"context"
	"errors"

	"bookbarter-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("Notification not found")

type Service struct {
	DB *gorm.DB
}

// Notify inserts a notification for the counterparty of a state transition.
// Best-effort by contract: a failed insert is logged and never propagated,
// so it can never block or roll back the primary workflow transition.
func (s *Service) Notify(ctx context.Context, recipientID uuid.UUID, title, message, notifType string, relatedID uuid.UUID) {
	n := models.Notification{
		RecipientID: recipientID,
		Title:       title,
		Message:     message,
		Type:        notifType,
		RelatedID:   relatedID,
	}
	if err := s.DB.WithContext(ctx).Create(&n).Error; err != nil {
		log.Error().Err(err).
			Str("recipient_id", recipientID.String()).
			Str("type", notifType).
			Str("related_id", relatedID.String()).
			Msg("notification insert failed")
	}
}

// ListUnread returns the recipient's unread notifications, newest first.
func (s *Service) ListUnread(ctx context.Context, recipientID uuid.UUID) ([]models.Notification, error) {
	var out []models.Notification
	if err := s.DB.WithContext(ctx).
		Where("recipient_id = ? AND read = ?", recipientID, false).
		Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// MarkRead flags one notification read. Recipient-scoped: a non-recipient
// gets not-found, the same as a missing row.
func (s *Service) MarkRead(ctx context.Context, notificationID, recipientID uuid.UUID) error {
	res := s.DB.WithContext(ctx).Model(&models.Notification{}).
		Where("notification_id = ? AND recipient_id = ?", notificationID, recipientID).
		Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllRead flags every unread notification for the recipient.
func (s *Service) MarkAllRead(ctx context.Context, recipientID uuid.UUID) error {
	return s.DB.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND read = ?", recipientID, false).
		Update("read", true).Error
}
