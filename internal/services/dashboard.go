package services

import (
	"context"
	"time"

	"clinic-app-server/internal/models"
	"clinic-app-server/internal/scheduling"
)

// DashboardCounts is the aggregation surface the dashboards read from.
// Everything here is recomputed on demand; no aggregate is cached or kept in
// sync with appointment writes.
type DashboardCounts interface {
	CountForPatient(ctx context.Context, patientID string) (int64, error)
	CountForPatientByStatus(ctx context.Context, patientID string, status models.AppointmentStatus) (int64, error)
	CountForDoctorByStatus(ctx context.Context, doctorID string, status models.AppointmentStatus) (int64, error)
	CountByStatus(ctx context.Context, status models.AppointmentStatus) (int64, error)
	Count(ctx context.Context) (int64, error)
	UpcomingForPatient(ctx context.Context, patientID string, after time.Time, limit int) ([]models.Appointment, error)
	DoctorVisitCounts(ctx context.Context, patientID string) (map[string]int64, error)
	BookedForDoctorDate(ctx context.Context, doctorID string, date time.Time) ([]scheduling.Booking, error)
}

// RoleCounter counts users per role.
type RoleCounter interface {
	CountByRole(ctx context.Context, role models.Role) (int64, error)
}

// DoctorCounter counts registered doctors and resolves a user's profile.
type DoctorCounter interface {
	Count(ctx context.Context) (int64, error)
	ByUserID(ctx context.Context, userID string) (*models.Doctor, error)
}

// PatientDashboard is the patient's appointment summary.
type PatientDashboard struct {
	TotalAppointments     int64                `json:"totalAppointments"`
	UpcomingAppointments  int64                `json:"upcomingAppointments"`
	CompletedAppointments int64                `json:"completedAppointments"`
	CancelledAppointments int64                `json:"cancelledAppointments"`
	NextAppointments      []models.Appointment `json:"nextAppointments"`
	FavoriteDoctors       map[string]int64     `json:"favoriteDoctors"`
}

// DoctorDashboard is the doctor's appointment summary.
type DoctorDashboard struct {
	TodayBooked           int64 `json:"todayBooked"`
	BookedAppointments    int64 `json:"bookedAppointments"`
	CompletedAppointments int64 `json:"completedAppointments"`
	CancelledAppointments int64 `json:"cancelledAppointments"`
}

// AdminDashboard is the clinic-wide summary.
type AdminDashboard struct {
	TotalDoctors          int64 `json:"totalDoctors"`
	TotalPatients         int64 `json:"totalPatients"`
	TotalAppointments     int64 `json:"totalAppointments"`
	BookedAppointments    int64 `json:"bookedAppointments"`
	CompletedAppointments int64 `json:"completedAppointments"`
	CancelledAppointments int64 `json:"cancelledAppointments"`
}

// DashboardService computes role-scoped, read-only appointment projections.
type DashboardService struct {
	appointments DashboardCounts
	users        RoleCounter
	doctors      DoctorCounter
	now          func() time.Time
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(appointments DashboardCounts, users RoleCounter, doctors DoctorCounter) *DashboardService {
	return &DashboardService{appointments: appointments, users: users, doctors: doctors, now: time.Now}
}

// ForPatient builds the patient dashboard.
func (s *DashboardService) ForPatient(ctx context.Context, patientID string) (*PatientDashboard, error) {
	today := scheduling.DateOf(s.now())

	total, err := s.appointments.CountForPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	completed, err := s.appointments.CountForPatientByStatus(ctx, patientID, models.StatusCompleted)
	if err != nil {
		return nil, err
	}
	cancelled, err := s.appointments.CountForPatientByStatus(ctx, patientID, models.StatusCancelled)
	if err != nil {
		return nil, err
	}
	upcoming, err := s.appointments.UpcomingForPatient(ctx, patientID, today, 0)
	if err != nil {
		return nil, err
	}
	next, err := s.appointments.UpcomingForPatient(ctx, patientID, today, 5)
	if err != nil {
		return nil, err
	}
	favorites, err := s.appointments.DoctorVisitCounts(ctx, patientID)
	if err != nil {
		return nil, err
	}

	return &PatientDashboard{
		TotalAppointments:     total,
		UpcomingAppointments:  int64(len(upcoming)),
		CompletedAppointments: completed,
		CancelledAppointments: cancelled,
		NextAppointments:      next,
		FavoriteDoctors:       favorites,
	}, nil
}

// ForDoctor builds the dashboard for the doctor profile owned by the user.
func (s *DashboardService) ForDoctor(ctx context.Context, userID string) (*DoctorDashboard, error) {
	doctor, err := s.doctors.ByUserID(ctx, userID)
	if err != nil {
		return nil, mapNotFound(err, ErrDoctorNotFound)
	}

	today, err := s.appointments.BookedForDoctorDate(ctx, doctor.ID, s.now())
	if err != nil {
		return nil, err
	}
	booked, err := s.appointments.CountForDoctorByStatus(ctx, doctor.ID, models.StatusBooked)
	if err != nil {
		return nil, err
	}
	completed, err := s.appointments.CountForDoctorByStatus(ctx, doctor.ID, models.StatusCompleted)
	if err != nil {
		return nil, err
	}
	cancelled, err := s.appointments.CountForDoctorByStatus(ctx, doctor.ID, models.StatusCancelled)
	if err != nil {
		return nil, err
	}

	return &DoctorDashboard{
		TodayBooked:           int64(len(today)),
		BookedAppointments:    booked,
		CompletedAppointments: completed,
		CancelledAppointments: cancelled,
	}, nil
}

// ForAdmin builds the clinic-wide dashboard.
func (s *DashboardService) ForAdmin(ctx context.Context) (*AdminDashboard, error) {
	doctors, err := s.doctors.Count(ctx)
	if err != nil {
		return nil, err
	}
	patients, err := s.users.CountByRole(ctx, models.RolePatient)
	if err != nil {
		return nil, err
	}
	total, err := s.appointments.Count(ctx)
	if err != nil {
		return nil, err
	}
	booked, err := s.appointments.CountByStatus(ctx, models.StatusBooked)
	if err != nil {
		return nil, err
	}
	completed, err := s.appointments.CountByStatus(ctx, models.StatusCompleted)
	if err != nil {
		return nil, err
	}
	cancelled, err := s.appointments.CountByStatus(ctx, models.StatusCancelled)
	if err != nil {
		return nil, err
	}

	return &AdminDashboard{
		TotalDoctors:          doctors,
		TotalPatients:         patients,
		TotalAppointments:     total,
		BookedAppointments:    booked,
		CompletedAppointments: completed,
		CancelledAppointments: cancelled,
	}, nil
}
