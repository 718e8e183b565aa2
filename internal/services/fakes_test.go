package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"clinic-app-server/internal/models"
	"clinic-app-server/internal/notify"
	"clinic-app-server/internal/repository"
	"clinic-app-server/internal/scheduling"
)

// In-memory fakes of the persistence interfaces. They mirror the repository
// contract, including its sentinel errors, so service behavior can be tested
// without a database.

type fakeAppointments struct {
	mu    sync.Mutex
	appts map[string]models.Appointment
	seq   int
}

func newFakeAppointments() *fakeAppointments {
	return &fakeAppointments{appts: make(map[string]models.Appointment)}
}

func (f *fakeAppointments) ByID(_ context.Context, id string) (*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	appt, ok := f.appts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &appt, nil
}

func (f *fakeAppointments) BookedForDoctorDate(_ context.Context, doctorID string, date time.Time) ([]scheduling.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	day := scheduling.DateOf(date)
	var out []scheduling.Booking
	for _, a := range f.appts {
		if a.DoctorID == doctorID && a.Status == models.StatusBooked && scheduling.DateOf(a.Date).Equal(day) {
			out = append(out, a.AsBooking())
		}
	}
	return out, nil
}

func (f *fakeAppointments) Create(_ context.Context, appt *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if appt.ID == "" {
		f.seq++
		appt.ID = fmt.Sprintf("appt-%d", f.seq)
	}
	f.appts[appt.ID] = *appt
	return nil
}

func (f *fakeAppointments) Update(_ context.Context, appt *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.appts[appt.ID]; !ok {
		return repository.ErrNotFound
	}
	f.appts[appt.ID] = *appt
	return nil
}

func (f *fakeAppointments) ForPatient(_ context.Context, patientID string) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Appointment
	for _, a := range f.appts {
		if a.PatientID == patientID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAppointments) ForDoctor(_ context.Context, doctorID string) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Appointment
	for _, a := range f.appts {
		if a.DoctorID == doctorID && a.Status == models.StatusBooked {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAppointments) All(_ context.Context) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Appointment
	for _, a := range f.appts {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAppointments) BookedOnDate(_ context.Context, date time.Time) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	day := scheduling.DateOf(date)
	var out []models.Appointment
	for _, a := range f.appts {
		if a.Status == models.StatusBooked && scheduling.DateOf(a.Date).Equal(day) {
			out = append(out, a)
		}
	}
	return out, nil
}

// bookedCount counts BOOKED rows matching (doctor, date, time).
func (f *fakeAppointments) bookedCount(doctorID string, date time.Time, at scheduling.TimeOfDay) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, a := range f.appts {
		if a.DoctorID == doctorID && a.Status == models.StatusBooked &&
			scheduling.DateOf(a.Date).Equal(scheduling.DateOf(date)) && a.Time == at.String() {
			n++
		}
	}
	return n
}

type fakeDoctors struct {
	doctors map[string]models.Doctor
}

func (f *fakeDoctors) ByID(_ context.Context, id string) (*models.Doctor, error) {
	d, ok := f.doctors[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &d, nil
}

func (f *fakeDoctors) ByUserID(_ context.Context, userID string) (*models.Doctor, error) {
	for _, d := range f.doctors {
		if d.UserID == userID {
			return &d, nil
		}
	}
	return nil, repository.ErrNotFound
}

type fakeUsers struct {
	users map[string]models.User // keyed by email
}

func (f *fakeUsers) ByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notify.Message
}

func (n *recordingNotifier) Notify(msg notify.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
}

func (n *recordingNotifier) messages() []notify.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notify.Message(nil), n.sent...)
}

type fakeSchedule struct {
	rules  []models.WeeklyAvailability
	leaves map[time.Time]models.LeaveDay
}

func newFakeSchedule() *fakeSchedule {
	return &fakeSchedule{leaves: make(map[time.Time]models.LeaveDay)}
}

func (f *fakeSchedule) CreateRule(_ context.Context, rule *models.WeeklyAvailability) error {
	f.rules = append(f.rules, *rule)
	return nil
}

func (f *fakeSchedule) ActiveRules(_ context.Context, doctorID string) ([]models.WeeklyAvailability, error) {
	var out []models.WeeklyAvailability
	for _, r := range f.rules {
		if r.DoctorID == doctorID && r.Active {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeSchedule) CreateLeave(_ context.Context, leave *models.LeaveDay) error {
	key := scheduling.DateOf(leave.Date)
	if _, exists := f.leaves[key]; exists {
		return repository.ErrDuplicate
	}
	f.leaves[key] = *leave
	return nil
}

func (f *fakeSchedule) Leaves(_ context.Context, doctorID string) ([]models.LeaveDay, error) {
	var out []models.LeaveDay
	for _, l := range f.leaves {
		if l.DoctorID == doctorID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeSchedule) IsOnLeave(_ context.Context, doctorID string, date time.Time) (bool, error) {
	l, ok := f.leaves[scheduling.DateOf(date)]
	return ok && l.DoctorID == doctorID, nil
}
