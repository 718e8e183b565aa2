package models

import (
	"time"

	"clinic-app-server/internal/scheduling"
)

// AppointmentStatus represents the status of an appointment. An appointment
// is only ever created as BOOKED; CANCELLED and COMPLETED are terminal.
type AppointmentStatus string

const (
	StatusBooked    AppointmentStatus = AppointmentStatus(scheduling.StatusBooked)
	StatusCancelled AppointmentStatus = AppointmentStatus(scheduling.StatusCancelled)
	StatusCompleted AppointmentStatus = AppointmentStatus(scheduling.StatusCompleted)
)

// Appointment represents a scheduled consultation between a patient and a
// doctor. Rows are never physically deleted; cancellation is a status change.
type Appointment struct {
	BaseModel
	PatientID       string            `gorm:"size:36;index;not null" json:"patientId"`
	DoctorID        string            `gorm:"size:36;index:idx_appt_doctor_date;not null" json:"doctorId"`
	Date            time.Time         `gorm:"type:date;index:idx_appt_doctor_date;not null" json:"appointmentDate"`
	Time            string            `gorm:"size:5;not null" json:"appointmentTime"` // "HH:MM"
	Status          AppointmentStatus `gorm:"size:20;default:'BOOKED'" json:"status"`
	RescheduleCount int               `gorm:"default:0" json:"rescheduleCount"`

	// Relations
	Patient User   `gorm:"foreignKey:PatientID" json:"-"`
	Doctor  Doctor `gorm:"foreignKey:DoctorID" json:"-"`
}

// TimeOfDay parses the stored "HH:MM" clock string. Writes go through the
// API boundary where the format is validated, so the zero value on error is
// acceptable for display paths.
func (a *Appointment) TimeOfDay() scheduling.TimeOfDay {
	at, _ := scheduling.ParseTimeOfDay(a.Time)
	return at
}

// Snapshot projects the row into the guard's view of an appointment.
func (a *Appointment) Snapshot() scheduling.Appointment {
	return scheduling.Appointment{
		ID:              a.ID,
		PatientID:       a.PatientID,
		DoctorID:        a.DoctorID,
		Date:            scheduling.DateOf(a.Date),
		Time:            a.TimeOfDay(),
		Status:          scheduling.Status(a.Status),
		RescheduleCount: a.RescheduleCount,
	}
}

// AsBooking projects the row into the guard's conflict-check view.
func (a *Appointment) AsBooking() scheduling.Booking {
	return scheduling.Booking{
		ID:        a.ID,
		PatientID: a.PatientID,
		DoctorID:  a.DoctorID,
		Date:      scheduling.DateOf(a.Date),
		Time:      a.TimeOfDay(),
	}
}
