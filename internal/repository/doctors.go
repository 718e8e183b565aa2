package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"clinic-app-server/internal/models"
)

// DoctorRepository persists doctor profiles.
type DoctorRepository struct {
	DB *gorm.DB
}

// NewDoctorRepository creates a new DoctorRepository.
func NewDoctorRepository(db *gorm.DB) *DoctorRepository {
	return &DoctorRepository{DB: db}
}

// Create inserts a doctor; a duplicate (name, specialization) pair is a
// conflict. The pre-check uses LOWER() so the duplicate test is
// case-insensitive regardless of column collation; the unique index still
// backstops concurrent inserts.
func (r *DoctorRepository) Create(ctx context.Context, doctor *models.Doctor) error {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Doctor{}).
		Where("LOWER(name) = LOWER(?) AND LOWER(specialization) = LOWER(?)", doctor.Name, doctor.Specialization).
		Count(&n).Error
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrDuplicate
	}
	if err := r.DB.WithContext(ctx).Create(doctor).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// ByID fetches a single doctor.
func (r *DoctorRepository) ByID(ctx context.Context, id string) (*models.Doctor, error) {
	var doctor models.Doctor
	if err := r.DB.WithContext(ctx).First(&doctor, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &doctor, nil
}

// ByUserID finds the doctor profile owned by a user account, if any.
func (r *DoctorRepository) ByUserID(ctx context.Context, userID string) (*models.Doctor, error) {
	var doctor models.Doctor
	if err := r.DB.WithContext(ctx).First(&doctor, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &doctor, nil
}

// List returns all doctors, optionally filtered by specialization
// (case-insensitive).
func (r *DoctorRepository) List(ctx context.Context, specialization string) ([]models.Doctor, error) {
	q := r.DB.WithContext(ctx).Order("name asc")
	if specialization != "" {
		q = q.Where("LOWER(specialization) = LOWER(?)", specialization)
	}
	var doctors []models.Doctor
	err := q.Find(&doctors).Error
	return doctors, err
}

// Count returns the number of registered doctors.
func (r *DoctorRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Doctor{}).Count(&n).Error
	return n, err
}
