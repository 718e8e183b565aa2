package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"clinic-app-server/internal/models"
	"clinic-app-server/internal/notify"
	"clinic-app-server/internal/repository"
	"clinic-app-server/internal/scheduling"
)

// AppointmentStore is the persistence surface the lifecycle manager needs.
// *repository.AppointmentRepository satisfies it; tests use an in-memory fake.
type AppointmentStore interface {
	ByID(ctx context.Context, id string) (*models.Appointment, error)
	BookedForDoctorDate(ctx context.Context, doctorID string, date time.Time) ([]scheduling.Booking, error)
	Create(ctx context.Context, appt *models.Appointment) error
	Update(ctx context.Context, appt *models.Appointment) error
	ForPatient(ctx context.Context, patientID string) ([]models.Appointment, error)
	ForDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error)
	All(ctx context.Context) ([]models.Appointment, error)
}

// DoctorDirectory resolves doctor profiles.
type DoctorDirectory interface {
	ByID(ctx context.Context, id string) (*models.Doctor, error)
	ByUserID(ctx context.Context, userID string) (*models.Doctor, error)
}

// UserDirectory resolves authenticated identities to user rows.
type UserDirectory interface {
	ByEmail(ctx context.Context, email string) (*models.User, error)
}

// Notifier accepts a fire-and-forget notification. The lifecycle manager
// never waits on delivery.
type Notifier interface {
	Notify(msg notify.Message)
}

// AppointmentService drives the appointment state machine. All transitions
// run the conflict guard over a fresh read while holding the per-(doctor,
// date) lock, so two concurrent requests for the same slot cannot both pass
// validation.
type AppointmentService struct {
	appointments AppointmentStore
	doctors      DoctorDirectory
	users        UserDirectory
	notifier     Notifier
	locks        stripedLock
	log          zerolog.Logger
	now          func() time.Time
}

// NewAppointmentService creates an AppointmentService.
func NewAppointmentService(appointments AppointmentStore, doctors DoctorDirectory, users UserDirectory, notifier Notifier, log zerolog.Logger) *AppointmentService {
	return &AppointmentService{
		appointments: appointments,
		doctors:      doctors,
		users:        users,
		notifier:     notifier,
		log:          log.With().Str("component", "appointments").Logger(),
		now:          time.Now,
	}
}

// Book creates a new BOOKED appointment for the authenticated patient. On a
// guard rejection nothing is written; on success the persisted entity is
// returned and a confirmation notification is queued.
func (s *AppointmentService) Book(ctx context.Context, patientEmail, doctorID string, date time.Time, at scheduling.TimeOfDay) (*models.Appointment, error) {
	patient, err := s.users.ByEmail(ctx, patientEmail)
	if err != nil {
		return nil, mapNotFound(err, ErrPatientNotFound)
	}
	doctor, err := s.doctors.ByID(ctx, doctorID)
	if err != nil {
		return nil, mapNotFound(err, ErrDoctorNotFound)
	}
	if at.At(scheduling.DateOf(date)).Before(s.now().UTC()) {
		return nil, ErrPastAppointment
	}

	// Hold the (doctor, date) lock across validate+write so a concurrent
	// booking cannot pass the guard against the same stale read.
	unlock := s.locks.lock(doctorID, date)
	defer unlock()

	existing, err := s.appointments.BookedForDoctorDate(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}
	if err := scheduling.ValidateNewBooking(doctorID, patient.ID, date, at, existing); err != nil {
		return nil, err
	}

	appt := &models.Appointment{
		PatientID:       patient.ID,
		DoctorID:        doctorID,
		Date:            scheduling.DateOf(date),
		Time:            at.String(),
		Status:          models.StatusBooked,
		RescheduleCount: 0,
	}
	if err := s.appointments.Create(ctx, appt); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, scheduling.ErrSlotTaken
		}
		return nil, err
	}

	s.notifier.Notify(notify.Message{
		UserID:        patient.ID,
		Email:         patient.Email,
		Type:          models.NotifyBookingConfirmed,
		Subject:       "Appointment Confirmed",
		Body: fmt.Sprintf("Your appointment with Dr. %s on %s at %s has been confirmed.",
			doctor.Name, appt.Date.Format("2006-01-02"), appt.Time),
		AppointmentID: appt.ID,
	})
	return appt, nil
}

// Cancel transitions an appointment to CANCELLED. The transition is one-way
// but re-applying it to an already-cancelled appointment is permitted and is
// effectively a no-op.
func (s *AppointmentService) Cancel(ctx context.Context, appointmentID, requesterEmail string) (*models.Appointment, error) {
	requester, err := s.users.ByEmail(ctx, requesterEmail)
	if err != nil {
		return nil, mapNotFound(err, ErrPatientNotFound)
	}
	appt, err := s.appointments.ByID(ctx, appointmentID)
	if err != nil {
		return nil, mapNotFound(err, ErrAppointmentNotFound)
	}
	if err := scheduling.ValidateCancel(appt.Snapshot(), requester.ID); err != nil {
		return nil, err
	}

	appt.Status = models.StatusCancelled
	if err := s.appointments.Update(ctx, appt); err != nil {
		return nil, err
	}

	s.notifyTransition(appt, requester, models.NotifyCancelled, "Appointment Cancelled",
		"Your appointment on %s at %s has been cancelled.")
	return appt, nil
}

// Reschedule moves a BOOKED appointment to a new date and time, incrementing
// its reschedule counter. The guard re-applies only the patient-duplicate
// constraint against the destination date; the doctor-side slot check is
// deliberately not repeated.
func (s *AppointmentService) Reschedule(ctx context.Context, appointmentID, requesterEmail string, newDate time.Time, newTime scheduling.TimeOfDay) (*models.Appointment, error) {
	requester, err := s.users.ByEmail(ctx, requesterEmail)
	if err != nil {
		return nil, mapNotFound(err, ErrPatientNotFound)
	}
	appt, err := s.appointments.ByID(ctx, appointmentID)
	if err != nil {
		return nil, mapNotFound(err, ErrAppointmentNotFound)
	}

	unlock := s.locks.lock(appt.DoctorID, newDate)
	defer unlock()

	existing, err := s.appointments.BookedForDoctorDate(ctx, appt.DoctorID, newDate)
	if err != nil {
		return nil, err
	}
	if err := scheduling.ValidateReschedule(appt.Snapshot(), requester.ID, newDate, existing); err != nil {
		return nil, err
	}

	appt.Date = scheduling.DateOf(newDate)
	appt.Time = newTime.String()
	appt.RescheduleCount++
	if err := s.appointments.Update(ctx, appt); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, scheduling.ErrSlotTaken
		}
		return nil, err
	}

	s.notifyTransition(appt, requester, models.NotifyRescheduled, "Appointment Rescheduled",
		"Your appointment has been rescheduled to %s at %s.")
	return appt, nil
}

// ListFor returns the appointments visible to the given user: a patient sees
// their own, a doctor sees the booked calendar of their profile, an admin
// sees everything.
func (s *AppointmentService) ListFor(ctx context.Context, user *models.User) ([]models.Appointment, error) {
	switch user.Role {
	case models.RoleDoctor:
		doctor, err := s.doctors.ByUserID(ctx, user.ID)
		if err != nil {
			return nil, mapNotFound(err, ErrDoctorNotFound)
		}
		return s.appointments.ForDoctor(ctx, doctor.ID)
	case models.RoleAdmin:
		return s.appointments.All(ctx)
	default:
		return s.appointments.ForPatient(ctx, user.ID)
	}
}

// Get fetches a single appointment if the user is the patient involved, the
// doctor involved, or an admin.
func (s *AppointmentService) Get(ctx context.Context, id string, user *models.User) (*models.Appointment, error) {
	appt, err := s.appointments.ByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrAppointmentNotFound)
	}
	if user.Role == models.RoleAdmin || appt.PatientID == user.ID {
		return appt, nil
	}
	if user.Role == models.RoleDoctor {
		if doctor, err := s.doctors.ByUserID(ctx, user.ID); err == nil && doctor.ID == appt.DoctorID {
			return appt, nil
		}
	}
	return nil, scheduling.ErrNotOwner
}

func (s *AppointmentService) notifyTransition(appt *models.Appointment, patient *models.User, kind models.NotificationType, subject, bodyFormat string) {
	s.notifier.Notify(notify.Message{
		UserID:        patient.ID,
		Email:         patient.Email,
		Type:          kind,
		Subject:       subject,
		Body:          fmt.Sprintf(bodyFormat, appt.Date.Format("2006-01-02"), appt.Time),
		AppointmentID: appt.ID,
	})
}
