package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"clinic-app-server/internal/models"
	"clinic-app-server/internal/scheduling"
)

// AppointmentRepository persists appointments and answers the queries the
// scheduling core needs.
type AppointmentRepository struct {
	DB *gorm.DB
}

// NewAppointmentRepository creates a new AppointmentRepository.
func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{DB: db}
}

// ByID fetches a single appointment.
func (r *AppointmentRepository) ByID(ctx context.Context, id string) (*models.Appointment, error) {
	var appt models.Appointment
	if err := r.DB.WithContext(ctx).First(&appt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &appt, nil
}

// BookedForDoctorDate returns the conflict-check projection of every BOOKED
// appointment for (doctor, date). The result feeds both guard checks: the
// doctor-slot check and the coarser patient-duplicate check.
func (r *AppointmentRepository) BookedForDoctorDate(ctx context.Context, doctorID string, date time.Time) ([]scheduling.Booking, error) {
	var appts []models.Appointment
	err := r.DB.WithContext(ctx).
		Where("doctor_id = ? AND date = ? AND status = ?", doctorID, scheduling.DateOf(date), models.StatusBooked).
		Find(&appts).Error
	if err != nil {
		return nil, err
	}
	bookings := make([]scheduling.Booking, 0, len(appts))
	for i := range appts {
		bookings = append(bookings, appts[i].AsBooking())
	}
	return bookings, nil
}

// BookedOnDate returns full BOOKED rows for one calendar date with patient
// and doctor preloaded. Used by the reminder sweep.
func (r *AppointmentRepository) BookedOnDate(ctx context.Context, date time.Time) ([]models.Appointment, error) {
	var appts []models.Appointment
	err := r.DB.WithContext(ctx).
		Preload("Patient").Preload("Doctor").
		Where("date = ? AND status = ?", scheduling.DateOf(date), models.StatusBooked).
		Order("time asc").
		Find(&appts).Error
	return appts, err
}

// Create inserts a new appointment row.
func (r *AppointmentRepository) Create(ctx context.Context, appt *models.Appointment) error {
	if err := r.DB.WithContext(ctx).Create(appt).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// Update persists a state transition on an existing appointment.
func (r *AppointmentRepository) Update(ctx context.Context, appt *models.Appointment) error {
	if err := r.DB.WithContext(ctx).Save(appt).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// ForPatient lists a patient's appointments, most recent date first.
func (r *AppointmentRepository) ForPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	var appts []models.Appointment
	err := r.DB.WithContext(ctx).
		Preload("Doctor").
		Where("patient_id = ?", patientID).
		Order("date desc, time desc").
		Find(&appts).Error
	return appts, err
}

// ForDoctor lists a doctor's BOOKED appointments in calendar order.
func (r *AppointmentRepository) ForDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error) {
	var appts []models.Appointment
	err := r.DB.WithContext(ctx).
		Preload("Patient").
		Where("doctor_id = ? AND status = ?", doctorID, models.StatusBooked).
		Order("date asc, time asc").
		Find(&appts).Error
	return appts, err
}

// All lists every appointment, for admin views.
func (r *AppointmentRepository) All(ctx context.Context) ([]models.Appointment, error) {
	var appts []models.Appointment
	err := r.DB.WithContext(ctx).
		Preload("Patient").Preload("Doctor").
		Order("date desc, time desc").
		Find(&appts).Error
	return appts, err
}

// ---- dashboard count queries (read-only projections, recomputed on demand) ----

func (r *AppointmentRepository) CountForPatient(ctx context.Context, patientID string) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Appointment{}).
		Where("patient_id = ?", patientID).Count(&n).Error
	return n, err
}

func (r *AppointmentRepository) CountForPatientByStatus(ctx context.Context, patientID string, status models.AppointmentStatus) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Appointment{}).
		Where("patient_id = ? AND status = ?", patientID, status).Count(&n).Error
	return n, err
}

func (r *AppointmentRepository) CountForDoctorByStatus(ctx context.Context, doctorID string, status models.AppointmentStatus) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Appointment{}).
		Where("doctor_id = ? AND status = ?", doctorID, status).Count(&n).Error
	return n, err
}

func (r *AppointmentRepository) CountByStatus(ctx context.Context, status models.AppointmentStatus) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Appointment{}).
		Where("status = ?", status).Count(&n).Error
	return n, err
}

func (r *AppointmentRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Appointment{}).Count(&n).Error
	return n, err
}

// UpcomingForPatient lists a patient's appointments after the given date in
// ascending calendar order, up to limit rows (0 means no limit).
func (r *AppointmentRepository) UpcomingForPatient(ctx context.Context, patientID string, after time.Time, limit int) ([]models.Appointment, error) {
	q := r.DB.WithContext(ctx).
		Preload("Doctor").
		Where("patient_id = ? AND date > ? AND status = ?", patientID, scheduling.DateOf(after), models.StatusBooked).
		Order("date asc, time asc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var appts []models.Appointment
	err := q.Find(&appts).Error
	return appts, err
}

// DoctorVisitCounts aggregates how many appointments the patient has held
// with each doctor, for the dashboard's favorite-doctors projection.
func (r *AppointmentRepository) DoctorVisitCounts(ctx context.Context, patientID string) (map[string]int64, error) {
	type row struct {
		Name  string
		Total int64
	}
	var rows []row
	err := r.DB.WithContext(ctx).Model(&models.Appointment{}).
		Select("doctors.name AS name, COUNT(*) AS total").
		Joins("JOIN doctors ON doctors.id = appointments.doctor_id").
		Where("appointments.patient_id = ?", patientID).
		Group("doctors.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Name] = r.Total
	}
	return counts, nil
}
