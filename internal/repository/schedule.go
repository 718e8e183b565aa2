package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"clinic-app-server/internal/models"
	"clinic-app-server/internal/scheduling"
)

// ScheduleRepository persists weekly availability rules and leave days.
type ScheduleRepository struct {
	DB *gorm.DB
}

// NewScheduleRepository creates a new ScheduleRepository.
func NewScheduleRepository(db *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{DB: db}
}

// CreateRule stores a new weekly availability rule.
func (r *ScheduleRepository) CreateRule(ctx context.Context, rule *models.WeeklyAvailability) error {
	return r.DB.WithContext(ctx).Create(rule).Error
}

// ActiveRules returns a doctor's active rules in creation order. The order
// matters: when a doctor has two active rules for the same weekday, the slot
// resolver uses the first one.
func (r *ScheduleRepository) ActiveRules(ctx context.Context, doctorID string) ([]models.WeeklyAvailability, error) {
	var rules []models.WeeklyAvailability
	err := r.DB.WithContext(ctx).
		Where("doctor_id = ? AND active = ?", doctorID, true).
		Order("created_at asc, id asc").
		Find(&rules).Error
	return rules, err
}

// CreateLeave stores a leave day; a second entry for the same (doctor, date)
// violates the unique index and is reported as ErrDuplicate.
func (r *ScheduleRepository) CreateLeave(ctx context.Context, leave *models.LeaveDay) error {
	if err := r.DB.WithContext(ctx).Create(leave).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// Leaves lists a doctor's leave days.
func (r *ScheduleRepository) Leaves(ctx context.Context, doctorID string) ([]models.LeaveDay, error) {
	var leaves []models.LeaveDay
	err := r.DB.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("date asc").
		Find(&leaves).Error
	return leaves, err
}

// IsOnLeave reports whether the doctor has a leave entry on the given date.
func (r *ScheduleRepository) IsOnLeave(ctx context.Context, doctorID string, date time.Time) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.LeaveDay{}).
		Where("doctor_id = ? AND date = ?", doctorID, scheduling.DateOf(date)).
		Count(&n).Error
	return n > 0, err
}
