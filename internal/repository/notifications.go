package repository

import (
	"context"

	"gorm.io/gorm"

	"clinic-app-server/internal/models"
)

// NotificationRepository persists notification records and their delivery
// outcomes.
type NotificationRepository struct {
	DB *gorm.DB
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

// Save inserts or updates a notification record.
func (r *NotificationRepository) Save(ctx context.Context, n *models.Notification) error {
	return r.DB.WithContext(ctx).Save(n).Error
}

// ForUser lists a user's notifications, most recent first.
func (r *NotificationRepository) ForUser(ctx context.Context, userID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("sent_at desc").
		Find(&notifications).Error
	return notifications, err
}

// CountUnread returns the number of delivered notifications for a user.
func (r *NotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND status = ?", userID, models.NotificationSent).
		Count(&n).Error
	return n, err
}
