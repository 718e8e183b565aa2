package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"clinic-app-server/internal/models"
	"clinic-app-server/internal/notify"
	"clinic-app-server/internal/scheduling"
)

// ReminderStore reads upcoming appointments for the sweep.
type ReminderStore interface {
	BookedOnDate(ctx context.Context, date time.Time) ([]models.Appointment, error)
}

// ReminderService periodically scans BOOKED appointments and queues reminder
// notifications. It only reads appointment state; all writes happen through
// the notification dispatcher.
type ReminderService struct {
	appointments ReminderStore
	notifier     Notifier
	log          zerolog.Logger
	now          func() time.Time
}

// NewReminderService creates a ReminderService.
func NewReminderService(appointments ReminderStore, notifier Notifier, log zerolog.Logger) *ReminderService {
	return &ReminderService{
		appointments: appointments,
		notifier:     notifier,
		log:          log.With().Str("component", "reminders").Logger(),
		now:          time.Now,
	}
}

// Run drives both sweeps on fixed intervals until ctx is cancelled.
func (s *ReminderService) Run(ctx context.Context, dayBeforeEvery, hourBeforeEvery time.Duration) {
	dayTicker := time.NewTicker(dayBeforeEvery)
	hourTicker := time.NewTicker(hourBeforeEvery)
	defer dayTicker.Stop()
	defer hourTicker.Stop()

	for {
		select {
		case <-dayTicker.C:
			s.SweepDayBefore(ctx)
		case <-hourTicker.C:
			s.SweepHourBefore(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// SweepDayBefore reminds every patient with a BOOKED appointment tomorrow.
func (s *ReminderService) SweepDayBefore(ctx context.Context) {
	tomorrow := scheduling.DateOf(s.now().AddDate(0, 0, 1))
	appts, err := s.appointments.BookedOnDate(ctx, tomorrow)
	if err != nil {
		s.log.Error().Err(err).Msg("24-hour reminder sweep failed")
		return
	}

	for i := range appts {
		appt := &appts[i]
		s.notifier.Notify(notify.Message{
			UserID:  appt.PatientID,
			Email:   appt.Patient.Email,
			Type:    models.NotifyReminder24H,
			Subject: "Appointment Reminder - Tomorrow",
			Body: fmt.Sprintf(
				"Reminder: You have an appointment with Dr. %s tomorrow (%s) at %s. Please arrive 10 minutes early.",
				appt.Doctor.Name, appt.Date.Format("2006-01-02"), appt.Time),
			AppointmentID: appt.ID,
		})
	}
	s.log.Info().Int("count", len(appts)).Msg("24-hour reminders queued")
}

// SweepHourBefore reminds patients whose BOOKED appointment starts within the
// next hour. The scan covers today and, near midnight, tomorrow.
func (s *ReminderService) SweepHourBefore(ctx context.Context) {
	now := s.now().UTC()
	cutoff := now.Add(time.Hour)

	dates := []time.Time{scheduling.DateOf(now)}
	if d := scheduling.DateOf(cutoff); !d.Equal(dates[0]) {
		dates = append(dates, d)
	}

	sent := 0
	for _, date := range dates {
		appts, err := s.appointments.BookedOnDate(ctx, date)
		if err != nil {
			s.log.Error().Err(err).Msg("1-hour reminder sweep failed")
			return
		}
		for i := range appts {
			appt := &appts[i]
			starts := appt.TimeOfDay().At(appt.Date)
			if !starts.After(now) || !starts.Before(cutoff) {
				continue
			}
			s.notifier.Notify(notify.Message{
				UserID:  appt.PatientID,
				Email:   appt.Patient.Email,
				Type:    models.NotifyReminder1H,
				Subject: "Appointment Reminder - 1 Hour",
				Body: fmt.Sprintf(
					"Reminder: Your appointment with Dr. %s is in 1 hour at %s. Please be on time.",
					appt.Doctor.Name, appt.Time),
				AppointmentID: appt.ID,
			})
			sent++
		}
	}
	s.log.Info().Int("count", sent).Msg("1-hour reminders queued")
}
