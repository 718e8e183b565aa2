package scheduling

import (
	"errors"
	"time"
)

// Status is an appointment's lifecycle state. BOOKED is the only state an
// appointment is created in; CANCELLED and COMPLETED are terminal.
type Status string

const (
	StatusBooked    Status = "BOOKED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
)

// MaxReschedules caps how many times a single appointment may be moved.
const MaxReschedules = 2

// Guard rejections. Handlers map these onto the HTTP error taxonomy, so the
// messages are user-facing.
var (
	ErrSlotTaken            = errors.New("this time slot is already booked")
	ErrPatientAlreadyBooked = errors.New("you already have an active appointment with this doctor on this date")
	ErrNotOwner             = errors.New("this appointment belongs to another patient")
	ErrNotBooked            = errors.New("only booked appointments can be rescheduled")
	ErrRescheduleLimit      = errors.New("maximum reschedule limit (2) reached for this appointment")
)

// Booking is the projection of a BOOKED appointment the conflict checks need.
type Booking struct {
	ID        string
	PatientID string
	DoctorID  string
	Date      time.Time
	Time      TimeOfDay
}

// Appointment is the snapshot of a persisted appointment the guard validates
// state transitions against.
type Appointment struct {
	ID              string
	PatientID       string
	DoctorID        string
	Date            time.Time
	Time            TimeOfDay
	Status          Status
	RescheduleCount int
}

// ValidateNewBooking enforces the booking invariants against the existing
// BOOKED appointments for (doctor, date). The slot check runs before the
// patient-duplicate check; the latter is coarser, rejecting a second booking
// with the same doctor on the same day even at a different time.
func ValidateNewBooking(doctorID, patientID string, date time.Time, at TimeOfDay, existing []Booking) error {
	day := DateOf(date)
	for _, b := range existing {
		if b.DoctorID == doctorID && DateOf(b.Date).Equal(day) && b.Time == at {
			return ErrSlotTaken
		}
	}
	for _, b := range existing {
		if b.PatientID == patientID && b.DoctorID == doctorID && DateOf(b.Date).Equal(day) {
			return ErrPatientAlreadyBooked
		}
	}
	return nil
}

// ValidateReschedule checks ownership, state, the reschedule cap, and the
// patient-duplicate constraint against the destination date. The appointment
// being moved is excluded from the duplicate check. The doctor-side slot
// check is intentionally not re-applied here; see the lifecycle tests for the
// resulting gap.
func ValidateReschedule(appt Appointment, requesterID string, newDate time.Time, existingOnNewDate []Booking) error {
	if appt.PatientID != requesterID {
		return ErrNotOwner
	}
	if appt.Status != StatusBooked {
		return ErrNotBooked
	}
	if appt.RescheduleCount >= MaxReschedules {
		return ErrRescheduleLimit
	}
	day := DateOf(newDate)
	for _, b := range existingOnNewDate {
		if b.ID == appt.ID {
			continue
		}
		if b.PatientID == appt.PatientID && b.DoctorID == appt.DoctorID && DateOf(b.Date).Equal(day) {
			return ErrPatientAlreadyBooked
		}
	}
	return nil
}

// ValidateCancel checks that the requester owns the appointment. Cancelling
// an already-cancelled appointment is permitted and re-applies the terminal
// transition.
func ValidateCancel(appt Appointment, requesterID string) error {
	if appt.PatientID != requesterID {
		return ErrNotOwner
	}
	return nil
}
