// Package services implements the application's use cases over the
// scheduling core: the appointment lifecycle, availability and leave
// management, doctor registration, dashboards, and the reminder sweep.
// Persistence and notification dispatch sit behind interfaces so the
// scheduling semantics are testable without a database.
package services

import "errors"

var (
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrPatientNotFound     = errors.New("patient not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrDuplicateDoctor     = errors.New("doctor with this name and specialization already exists")
	ErrDuplicateLeave      = errors.New("leave already exists for this date")
	ErrPastAppointment     = errors.New("appointment date must be in the future")
)
