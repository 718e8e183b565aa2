package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"clinic-app-server/internal/models"
	"clinic-app-server/internal/scheduling"
)

var (
	// Fixed clock for every appointment test; bookings target later dates.
	testNow  = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	monday   = time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	tuesday  = time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC)
	nineAM   = scheduling.MustTimeOfDay("09:00")
	tenAM    = scheduling.MustTimeOfDay("10:00")
	elevenAM = scheduling.MustTimeOfDay("11:00")
)

type testEnv struct {
	svc      *AppointmentService
	appts    *fakeAppointments
	notifier *recordingNotifier
}

func newTestEnv() *testEnv {
	appts := newFakeAppointments()
	doctors := &fakeDoctors{doctors: map[string]models.Doctor{
		"doc-1": {BaseModel: models.BaseModel{ID: "doc-1"}, Name: "Gregory House", Specialization: "Diagnostics", UserID: "usr-doc"},
	}}
	users := &fakeUsers{users: map[string]models.User{
		"alice@example.com": {BaseModel: models.BaseModel{ID: "pat-alice"}, Email: "alice@example.com", Role: models.RolePatient},
		"bob@example.com":   {BaseModel: models.BaseModel{ID: "pat-bob"}, Email: "bob@example.com", Role: models.RolePatient},
	}}
	notifier := &recordingNotifier{}

	svc := NewAppointmentService(appts, doctors, users, notifier, zerolog.Nop())
	svc.now = func() time.Time { return testNow }
	return &testEnv{svc: svc, appts: appts, notifier: notifier}
}

func (e *testEnv) mustBook(t *testing.T, email string, date time.Time, at scheduling.TimeOfDay) *models.Appointment {
	t.Helper()
	appt, err := e.svc.Book(context.Background(), email, "doc-1", date, at)
	if err != nil {
		t.Fatalf("Book(%s, %s %s) failed: %v", email, date.Format("2006-01-02"), at, err)
	}
	return appt
}

func TestBook_CreatesBookedAppointment(t *testing.T) {
	env := newTestEnv()

	appt := env.mustBook(t, "alice@example.com", monday, nineAM)

	if appt.Status != models.StatusBooked {
		t.Errorf("status = %s, want %s", appt.Status, models.StatusBooked)
	}
	if appt.PatientID != "pat-alice" || appt.DoctorID != "doc-1" {
		t.Errorf("unexpected parties: patient=%s doctor=%s", appt.PatientID, appt.DoctorID)
	}
	if appt.Time != "09:00" {
		t.Errorf("time = %q, want %q", appt.Time, "09:00")
	}
	if !appt.Date.Equal(monday) {
		t.Errorf("date = %v, want %v", appt.Date, monday)
	}

	msgs := env.notifier.messages()
	if len(msgs) != 1 {
		t.Fatalf("got %d notifications, want 1", len(msgs))
	}
	if msgs[0].Type != models.NotifyBookingConfirmed || msgs[0].Email != "alice@example.com" {
		t.Errorf("unexpected notification: %+v", msgs[0])
	}
}

func TestBook_SlotTaken(t *testing.T) {
	env := newTestEnv()
	env.mustBook(t, "alice@example.com", monday, nineAM)

	_, err := env.svc.Book(context.Background(), "bob@example.com", "doc-1", monday, nineAM)
	if !errors.Is(err, scheduling.ErrSlotTaken) {
		t.Fatalf("err = %v, want ErrSlotTaken", err)
	}
	if n := env.appts.bookedCount("doc-1", monday, nineAM); n != 1 {
		t.Errorf("booked count = %d, want 1", n)
	}
}

func TestBook_PatientAlreadyBookedSameDay(t *testing.T) {
	env := newTestEnv()
	env.mustBook(t, "alice@example.com", monday, nineAM)

	_, err := env.svc.Book(context.Background(), "alice@example.com", "doc-1", monday, tenAM)
	if !errors.Is(err, scheduling.ErrPatientAlreadyBooked) {
		t.Fatalf("err = %v, want ErrPatientAlreadyBooked", err)
	}
}

// When the same patient re-requests their own slot, the slot conflict is
// reported, not the patient duplicate.
func TestBook_SlotConflictReportedFirst(t *testing.T) {
	env := newTestEnv()
	env.mustBook(t, "alice@example.com", monday, nineAM)

	_, err := env.svc.Book(context.Background(), "alice@example.com", "doc-1", monday, nineAM)
	if !errors.Is(err, scheduling.ErrSlotTaken) {
		t.Fatalf("err = %v, want ErrSlotTaken", err)
	}
}

func TestBook_OtherDayOrSlotStaysFree(t *testing.T) {
	env := newTestEnv()
	env.mustBook(t, "alice@example.com", monday, nineAM)
	env.mustBook(t, "bob@example.com", monday, tenAM)
	env.mustBook(t, "alice@example.com", tuesday, nineAM)
}

func TestBook_PastDateRejected(t *testing.T) {
	env := newTestEnv()
	past := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)

	_, err := env.svc.Book(context.Background(), "alice@example.com", "doc-1", past, nineAM)
	if !errors.Is(err, ErrPastAppointment) {
		t.Fatalf("err = %v, want ErrPastAppointment", err)
	}
}

func TestBook_UnknownDoctor(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.Book(context.Background(), "alice@example.com", "doc-404", monday, nineAM)
	if !errors.Is(err, ErrDoctorNotFound) {
		t.Fatalf("err = %v, want ErrDoctorNotFound", err)
	}
}

// Two patients race for the same slot. The per-(doctor, date) lock serializes
// validate+write, so exactly one booking wins.
func TestBook_ConcurrentSameSlot(t *testing.T) {
	env := newTestEnv()
	emails := []string{"alice@example.com", "bob@example.com"}

	var wg sync.WaitGroup
	errs := make([]error, len(emails))
	for i, email := range emails {
		wg.Add(1)
		go func(i int, email string) {
			defer wg.Done()
			_, errs[i] = env.svc.Book(context.Background(), email, "doc-1", monday, nineAM)
		}(i, email)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case errors.Is(err, scheduling.ErrSlotTaken):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if won != 1 {
		t.Errorf("winners = %d, want exactly 1", won)
	}
	if n := env.appts.bookedCount("doc-1", monday, nineAM); n != 1 {
		t.Errorf("booked count = %d, want 1", n)
	}
}

func TestCancel_ByOwner(t *testing.T) {
	env := newTestEnv()
	appt := env.mustBook(t, "alice@example.com", monday, nineAM)

	cancelled, err := env.svc.Cancel(context.Background(), appt.ID, "alice@example.com")
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if cancelled.Status != models.StatusCancelled {
		t.Errorf("status = %s, want %s", cancelled.Status, models.StatusCancelled)
	}

	msgs := env.notifier.messages()
	if len(msgs) != 2 || msgs[1].Type != models.NotifyCancelled {
		t.Errorf("expected a cancellation notification, got %+v", msgs)
	}
}

func TestCancel_NotOwnerLeavesStatusUntouched(t *testing.T) {
	env := newTestEnv()
	appt := env.mustBook(t, "alice@example.com", monday, nineAM)

	_, err := env.svc.Cancel(context.Background(), appt.ID, "bob@example.com")
	if !errors.Is(err, scheduling.ErrNotOwner) {
		t.Fatalf("err = %v, want ErrNotOwner", err)
	}

	stored, err := env.appts.ByID(context.Background(), appt.ID)
	if err != nil {
		t.Fatalf("ByID failed: %v", err)
	}
	if stored.Status != models.StatusBooked {
		t.Errorf("status = %s, want %s", stored.Status, models.StatusBooked)
	}
}

func TestCancel_AlreadyCancelledIsNoOp(t *testing.T) {
	env := newTestEnv()
	appt := env.mustBook(t, "alice@example.com", monday, nineAM)

	for i := 0; i < 2; i++ {
		if _, err := env.svc.Cancel(context.Background(), appt.ID, "alice@example.com"); err != nil {
			t.Fatalf("Cancel attempt %d failed: %v", i+1, err)
		}
	}
}

func TestCancel_FreesSlotForRebooking(t *testing.T) {
	env := newTestEnv()
	appt := env.mustBook(t, "alice@example.com", monday, nineAM)

	if _, err := env.svc.Cancel(context.Background(), appt.ID, "alice@example.com"); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	env.mustBook(t, "bob@example.com", monday, nineAM)
}

func TestReschedule_MovesAppointmentAndCounts(t *testing.T) {
	env := newTestEnv()
	appt := env.mustBook(t, "alice@example.com", monday, nineAM)

	moved, err := env.svc.Reschedule(context.Background(), appt.ID, "alice@example.com", tuesday, tenAM)
	if err != nil {
		t.Fatalf("Reschedule failed: %v", err)
	}
	if !moved.Date.Equal(tuesday) || moved.Time != "10:00" {
		t.Errorf("moved to %v %s, want %v 10:00", moved.Date, moved.Time, tuesday)
	}
	if moved.RescheduleCount != 1 {
		t.Errorf("rescheduleCount = %d, want 1", moved.RescheduleCount)
	}
	if moved.Status != models.StatusBooked {
		t.Errorf("status = %s, want %s", moved.Status, models.StatusBooked)
	}

	msgs := env.notifier.messages()
	if len(msgs) != 2 || msgs[1].Type != models.NotifyRescheduled {
		t.Errorf("expected a reschedule notification, got %+v", msgs)
	}
}

func TestReschedule_LimitReached(t *testing.T) {
	env := newTestEnv()
	appt := env.mustBook(t, "alice@example.com", monday, nineAM)

	if _, err := env.svc.Reschedule(context.Background(), appt.ID, "alice@example.com", tuesday, tenAM); err != nil {
		t.Fatalf("first reschedule failed: %v", err)
	}
	if _, err := env.svc.Reschedule(context.Background(), appt.ID, "alice@example.com", monday, tenAM); err != nil {
		t.Fatalf("second reschedule failed: %v", err)
	}

	_, err := env.svc.Reschedule(context.Background(), appt.ID, "alice@example.com", tuesday, elevenAM)
	if !errors.Is(err, scheduling.ErrRescheduleLimit) {
		t.Fatalf("third reschedule err = %v, want ErrRescheduleLimit", err)
	}

	stored, _ := env.appts.ByID(context.Background(), appt.ID)
	if stored.RescheduleCount != scheduling.MaxReschedules {
		t.Errorf("rescheduleCount = %d, want %d", stored.RescheduleCount, scheduling.MaxReschedules)
	}
}

func TestReschedule_NotOwner(t *testing.T) {
	env := newTestEnv()
	appt := env.mustBook(t, "alice@example.com", monday, nineAM)

	_, err := env.svc.Reschedule(context.Background(), appt.ID, "bob@example.com", tuesday, tenAM)
	if !errors.Is(err, scheduling.ErrNotOwner) {
		t.Fatalf("err = %v, want ErrNotOwner", err)
	}
}

func TestReschedule_CancelledAppointment(t *testing.T) {
	env := newTestEnv()
	appt := env.mustBook(t, "alice@example.com", monday, nineAM)
	if _, err := env.svc.Cancel(context.Background(), appt.ID, "alice@example.com"); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	_, err := env.svc.Reschedule(context.Background(), appt.ID, "alice@example.com", tuesday, tenAM)
	if !errors.Is(err, scheduling.ErrNotBooked) {
		t.Fatalf("err = %v, want ErrNotBooked", err)
	}
}

func TestReschedule_DestinationPatientConflict(t *testing.T) {
	env := newTestEnv()
	appt := env.mustBook(t, "alice@example.com", monday, nineAM)
	env.mustBook(t, "alice@example.com", tuesday, tenAM)

	_, err := env.svc.Reschedule(context.Background(), appt.ID, "alice@example.com", tuesday, elevenAM)
	if !errors.Is(err, scheduling.ErrPatientAlreadyBooked) {
		t.Fatalf("err = %v, want ErrPatientAlreadyBooked", err)
	}
}

// Moving within the same day must not trip over the appointment's own row.
func TestReschedule_SameDayExcludesSource(t *testing.T) {
	env := newTestEnv()
	appt := env.mustBook(t, "alice@example.com", monday, nineAM)

	if _, err := env.svc.Reschedule(context.Background(), appt.ID, "alice@example.com", monday, tenAM); err != nil {
		t.Fatalf("same-day reschedule failed: %v", err)
	}
}

// The reschedule path only re-checks the patient-duplicate constraint; the
// doctor-side slot check is not repeated, so moving onto another patient's
// slot currently succeeds.
func TestReschedule_DoctorSlotNotRechecked(t *testing.T) {
	env := newTestEnv()
	appt := env.mustBook(t, "alice@example.com", monday, nineAM)
	env.mustBook(t, "bob@example.com", tuesday, tenAM)

	if _, err := env.svc.Reschedule(context.Background(), appt.ID, "alice@example.com", tuesday, tenAM); err != nil {
		t.Fatalf("Reschedule returned %v; the doctor slot is not re-validated on this path", err)
	}
}

func TestGet_AccessControl(t *testing.T) {
	env := newTestEnv()
	appt := env.mustBook(t, "alice@example.com", monday, nineAM)

	ctx := context.Background()
	alice := &models.User{BaseModel: models.BaseModel{ID: "pat-alice"}, Role: models.RolePatient}
	bob := &models.User{BaseModel: models.BaseModel{ID: "pat-bob"}, Role: models.RolePatient}
	drUser := &models.User{BaseModel: models.BaseModel{ID: "usr-doc"}, Role: models.RoleDoctor}
	admin := &models.User{BaseModel: models.BaseModel{ID: "usr-admin"}, Role: models.RoleAdmin}

	for _, user := range []*models.User{alice, drUser, admin} {
		if _, err := env.svc.Get(ctx, appt.ID, user); err != nil {
			t.Errorf("Get as %s failed: %v", user.Role, err)
		}
	}
	if _, err := env.svc.Get(ctx, appt.ID, bob); !errors.Is(err, scheduling.ErrNotOwner) {
		t.Errorf("Get as unrelated patient err = %v, want ErrNotOwner", err)
	}
}

func TestListFor_Roles(t *testing.T) {
	env := newTestEnv()
	env.mustBook(t, "alice@example.com", monday, nineAM)
	env.mustBook(t, "bob@example.com", monday, tenAM)

	ctx := context.Background()
	alice := &models.User{BaseModel: models.BaseModel{ID: "pat-alice"}, Role: models.RolePatient}
	drUser := &models.User{BaseModel: models.BaseModel{ID: "usr-doc"}, Role: models.RoleDoctor}
	admin := &models.User{BaseModel: models.BaseModel{ID: "usr-admin"}, Role: models.RoleAdmin}

	if appts, _ := env.svc.ListFor(ctx, alice); len(appts) != 1 {
		t.Errorf("patient sees %d appointments, want 1", len(appts))
	}
	if appts, _ := env.svc.ListFor(ctx, drUser); len(appts) != 2 {
		t.Errorf("doctor sees %d appointments, want 2", len(appts))
	}
	if appts, _ := env.svc.ListFor(ctx, admin); len(appts) != 2 {
		t.Errorf("admin sees %d appointments, want 2", len(appts))
	}
}
