package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"clinic-app-server/internal/models"
)

func newReminderEnv(now time.Time) (*ReminderService, *fakeAppointments, *recordingNotifier) {
	appts := newFakeAppointments()
	notifier := &recordingNotifier{}
	svc := NewReminderService(appts, notifier, zerolog.Nop())
	svc.now = func() time.Time { return now }
	return svc, appts, notifier
}

func storeAppointment(t *testing.T, appts *fakeAppointments, id string, date time.Time, clock string, status models.AppointmentStatus) {
	t.Helper()
	err := appts.Create(context.Background(), &models.Appointment{
		BaseModel: models.BaseModel{ID: id},
		PatientID: "pat-alice",
		DoctorID:  "doc-1",
		Date:      date,
		Time:      clock,
		Status:    status,
		Patient:   models.User{BaseModel: models.BaseModel{ID: "pat-alice"}, Email: "alice@example.com"},
		Doctor:    models.Doctor{BaseModel: models.BaseModel{ID: "doc-1"}, Name: "Gregory House"},
	})
	if err != nil {
		t.Fatalf("seeding appointment %s failed: %v", id, err)
	}
}

func TestSweepDayBefore_RemindsTomorrowsBookings(t *testing.T) {
	now := time.Date(2024, 6, 9, 12, 0, 0, 0, time.UTC)
	svc, appts, notifier := newReminderEnv(now)

	storeAppointment(t, appts, "a1", monday, "09:00", models.StatusBooked)
	storeAppointment(t, appts, "a2", monday, "10:00", models.StatusCancelled)
	storeAppointment(t, appts, "a3", tuesday, "09:00", models.StatusBooked)

	svc.SweepDayBefore(context.Background())

	msgs := notifier.messages()
	if len(msgs) != 1 {
		t.Fatalf("got %d reminders, want 1: %+v", len(msgs), msgs)
	}
	if msgs[0].Type != models.NotifyReminder24H || msgs[0].AppointmentID != "a1" {
		t.Errorf("unexpected reminder: %+v", msgs[0])
	}
	if msgs[0].Email != "alice@example.com" {
		t.Errorf("email = %s, want alice@example.com", msgs[0].Email)
	}
}

func TestSweepHourBefore_OnlyWithinWindow(t *testing.T) {
	now := time.Date(2024, 6, 10, 8, 30, 0, 0, time.UTC)
	svc, appts, notifier := newReminderEnv(now)

	storeAppointment(t, appts, "soon", monday, "09:00", models.StatusBooked)      // 30 min out
	storeAppointment(t, appts, "later", monday, "11:00", models.StatusBooked)     // beyond the hour
	storeAppointment(t, appts, "started", monday, "08:00", models.StatusBooked)   // already begun
	storeAppointment(t, appts, "cancelled", monday, "09:15", models.StatusCancelled)

	svc.SweepHourBefore(context.Background())

	msgs := notifier.messages()
	if len(msgs) != 1 {
		t.Fatalf("got %d reminders, want 1: %+v", len(msgs), msgs)
	}
	if msgs[0].Type != models.NotifyReminder1H || msgs[0].AppointmentID != "soon" {
		t.Errorf("unexpected reminder: %+v", msgs[0])
	}
}

// Shortly before midnight the one-hour window reaches into the next day.
func TestSweepHourBefore_CrossesMidnight(t *testing.T) {
	now := time.Date(2024, 6, 9, 23, 30, 0, 0, time.UTC)
	svc, appts, notifier := newReminderEnv(now)

	storeAppointment(t, appts, "next-day", monday, "00:15", models.StatusBooked)

	svc.SweepHourBefore(context.Background())

	msgs := notifier.messages()
	if len(msgs) != 1 || msgs[0].AppointmentID != "next-day" {
		t.Fatalf("got %+v, want a single reminder for next-day", msgs)
	}
}
