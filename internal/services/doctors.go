package services

import (
	"context"
	"errors"

	"clinic-app-server/internal/models"
	"clinic-app-server/internal/repository"
)

// DoctorStore persists doctor profiles.
type DoctorStore interface {
	Create(ctx context.Context, doctor *models.Doctor) error
	ByID(ctx context.Context, id string) (*models.Doctor, error)
	List(ctx context.Context, specialization string) ([]models.Doctor, error)
}

// DoctorService manages the doctor registry.
type DoctorService struct {
	doctors DoctorStore
}

// NewDoctorService creates a DoctorService.
func NewDoctorService(doctors DoctorStore) *DoctorService {
	return &DoctorService{doctors: doctors}
}

// Register adds a doctor; the (name, specialization) pair must be unique.
func (s *DoctorService) Register(ctx context.Context, doctor models.Doctor) (*models.Doctor, error) {
	doctor.Active = true
	if err := s.doctors.Create(ctx, &doctor); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateDoctor
		}
		return nil, err
	}
	return &doctor, nil
}

// Get fetches one doctor.
func (s *DoctorService) Get(ctx context.Context, id string) (*models.Doctor, error) {
	doctor, err := s.doctors.ByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrDoctorNotFound)
	}
	return doctor, nil
}

// List returns all doctors, optionally filtered by specialization.
func (s *DoctorService) List(ctx context.Context, specialization string) ([]models.Doctor, error) {
	return s.doctors.List(ctx, specialization)
}
