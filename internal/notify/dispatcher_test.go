package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"clinic-app-server/internal/models"
)

type recordingStore struct {
	mu    sync.Mutex
	saved []models.Notification
}

func (s *recordingStore) Save(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, *n)
	return nil
}

func (s *recordingStore) snapshot() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Notification(nil), s.saved...)
}

type stubMailer struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (m *stubMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to)
	return nil
}

func runDispatcher(t *testing.T, d *Dispatcher) context.CancelFunc {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	go d.Run(ctx)
	return cancel
}

func waitForRecords(t *testing.T, store *recordingStore, n int) []models.Notification {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if saved := store.snapshot(); len(saved) >= n {
			return saved
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d notification records, have %d", n, len(store.snapshot()))
	return nil
}

func TestDispatcher_RecordsSentNotification(t *testing.T) {
	store := &recordingStore{}
	mailer := &stubMailer{}
	d := NewDispatcher(store, mailer, zerolog.Nop(), 8)
	cancel := runDispatcher(t, d)
	defer cancel()

	d.Notify(Message{
		UserID: "u1", Email: "patient@example.com",
		Type: models.NotifyBookingConfirmed, Subject: "Appointment Confirmed",
		Body: "see you soon", AppointmentID: "a1",
	})

	saved := waitForRecords(t, store, 1)
	got := saved[0]
	if got.Status != models.NotificationSent {
		t.Errorf("status = %s, want SENT", got.Status)
	}
	if got.SentAt == nil {
		t.Error("SentAt not set on successful delivery")
	}
	if got.AppointmentID != "a1" || got.UserID != "u1" {
		t.Errorf("record fields not carried over: %+v", got)
	}
}

func TestDispatcher_MailFailureRecordedNotPropagated(t *testing.T) {
	store := &recordingStore{}
	mailer := &stubMailer{err: errors.New("smtp unreachable")}
	d := NewDispatcher(store, mailer, zerolog.Nop(), 8)
	cancel := runDispatcher(t, d)
	defer cancel()

	// Notify must not surface the mail error to the caller.
	d.Notify(Message{UserID: "u1", Email: "patient@example.com", Type: models.NotifyCancelled})

	saved := waitForRecords(t, store, 1)
	if saved[0].Status != models.NotificationFailed {
		t.Errorf("status = %s, want FAILED", saved[0].Status)
	}
}

func TestDispatcher_FullQueueDropsWithoutBlocking(t *testing.T) {
	store := &recordingStore{}
	d := NewDispatcher(store, &stubMailer{}, zerolog.Nop(), 1)
	// No Run loop: the queue holds one message, the second must be dropped
	// and recorded as FAILED without blocking.
	d.Notify(Message{UserID: "u1", Email: "a@example.com", Type: models.NotifyReminder24H})

	done := make(chan struct{})
	go func() {
		d.Notify(Message{UserID: "u2", Email: "b@example.com", Type: models.NotifyReminder24H})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked on a full queue")
	}

	saved := waitForRecords(t, store, 1)
	if saved[0].UserID != "u2" || saved[0].Status != models.NotificationFailed {
		t.Errorf("dropped message not recorded as FAILED: %+v", saved[0])
	}
}

func TestDispatcher_DrainsQueueOnShutdown(t *testing.T) {
	store := &recordingStore{}
	mailer := &stubMailer{}
	d := NewDispatcher(store, mailer, zerolog.Nop(), 8)

	for i := 0; i < 3; i++ {
		d.Notify(Message{UserID: "u1", Email: "a@example.com", Type: models.NotifyReminder1H})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	go d.Run(ctx)
	d.Wait()

	if got := len(store.snapshot()); got != 3 {
		t.Fatalf("drained %d messages, want 3", got)
	}
}
