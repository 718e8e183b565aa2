package services

import (
	"context"
	"errors"
	"time"

	"clinic-app-server/internal/models"
	"clinic-app-server/internal/repository"
	"clinic-app-server/internal/scheduling"
)

// ScheduleStore is the persistence surface for availability rules and leave
// days.
type ScheduleStore interface {
	CreateRule(ctx context.Context, rule *models.WeeklyAvailability) error
	ActiveRules(ctx context.Context, doctorID string) ([]models.WeeklyAvailability, error)
	CreateLeave(ctx context.Context, leave *models.LeaveDay) error
	Leaves(ctx context.Context, doctorID string) ([]models.LeaveDay, error)
	IsOnLeave(ctx context.Context, doctorID string, date time.Time) (bool, error)
}

// BookingLookup supplies the booked times the slot checker annotates against.
type BookingLookup interface {
	BookedForDoctorDate(ctx context.Context, doctorID string, date time.Time) ([]scheduling.Booking, error)
}

// AvailabilityService manages doctors' weekly schedules and answers the
// available-slots query by running the resolver and checker over persisted
// state.
type AvailabilityService struct {
	schedule ScheduleStore
	doctors  DoctorDirectory
	bookings BookingLookup
}

// NewAvailabilityService creates an AvailabilityService.
func NewAvailabilityService(schedule ScheduleStore, doctors DoctorDirectory, bookings BookingLookup) *AvailabilityService {
	return &AvailabilityService{schedule: schedule, doctors: doctors, bookings: bookings}
}

// SetRule stores a weekly availability rule for the doctor. Duplicate active
// rules for the same weekday are not rejected; the resolver's first-rule
// policy applies to them.
func (s *AvailabilityService) SetRule(ctx context.Context, doctorID string, rule models.WeeklyAvailability) (*models.WeeklyAvailability, error) {
	if _, err := s.doctors.ByID(ctx, doctorID); err != nil {
		return nil, mapNotFound(err, ErrDoctorNotFound)
	}
	rule.DoctorID = doctorID
	rule.Active = true
	if err := s.schedule.CreateRule(ctx, &rule); err != nil {
		return nil, err
	}
	return &rule, nil
}

// Rules lists the doctor's active weekly availability.
func (s *AvailabilityService) Rules(ctx context.Context, doctorID string) ([]models.WeeklyAvailability, error) {
	if _, err := s.doctors.ByID(ctx, doctorID); err != nil {
		return nil, mapNotFound(err, ErrDoctorNotFound)
	}
	return s.schedule.ActiveRules(ctx, doctorID)
}

// AddLeave blocks a calendar day for the doctor. A second leave entry for the
// same date is a conflict.
func (s *AvailabilityService) AddLeave(ctx context.Context, doctorID string, leave models.LeaveDay) (*models.LeaveDay, error) {
	if _, err := s.doctors.ByID(ctx, doctorID); err != nil {
		return nil, mapNotFound(err, ErrDoctorNotFound)
	}
	leave.DoctorID = doctorID
	leave.Date = scheduling.DateOf(leave.Date)
	if err := s.schedule.CreateLeave(ctx, &leave); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateLeave
		}
		return nil, err
	}
	return &leave, nil
}

// Leaves lists the doctor's leave days.
func (s *AvailabilityService) Leaves(ctx context.Context, doctorID string) ([]models.LeaveDay, error) {
	if _, err := s.doctors.ByID(ctx, doctorID); err != nil {
		return nil, mapNotFound(err, ErrDoctorNotFound)
	}
	return s.schedule.Leaves(ctx, doctorID)
}

// AvailableSlots resolves the doctor's bookable slots for one date and marks
// each one booked or free against existing BOOKED appointments.
func (s *AvailabilityService) AvailableSlots(ctx context.Context, doctorID string, date time.Time) ([]scheduling.Slot, error) {
	if _, err := s.doctors.ByID(ctx, doctorID); err != nil {
		return nil, mapNotFound(err, ErrDoctorNotFound)
	}

	onLeave, err := s.schedule.IsOnLeave(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}
	leaves := map[time.Time]struct{}{}
	if onLeave {
		leaves[scheduling.DateOf(date)] = struct{}{}
	}

	stored, err := s.schedule.ActiveRules(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	rules := make([]scheduling.Rule, 0, len(stored))
	for i := range stored {
		rules = append(rules, stored[i].Rule())
	}

	slots := scheduling.ResolveSlots(rules, leaves, date)
	if len(slots) == 0 {
		return []scheduling.Slot{}, nil
	}

	existing, err := s.bookings.BookedForDoctorDate(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}
	times := make([]scheduling.TimeOfDay, 0, len(existing))
	for _, b := range existing {
		times = append(times, b.Time)
	}
	return scheduling.Annotate(slots, scheduling.BookedSet(times)), nil
}

func mapNotFound(err, notFound error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound
	}
	return err
}
