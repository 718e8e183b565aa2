// Package notify delivers user notifications asynchronously. The scheduling
// core hands a message off and returns immediately; delivery outcome is
// recorded on the persisted Notification row, never propagated back to the
// operation that triggered it.
package notify

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"clinic-app-server/internal/models"
)

// Message is one queued notification.
type Message struct {
	UserID        string
	Email         string
	Type          models.NotificationType
	Subject       string
	Body          string
	AppointmentID string
}

// Store persists notification records.
type Store interface {
	Save(ctx context.Context, n *models.Notification) error
}

// Mailer sends a single email.
type Mailer interface {
	Send(to, subject, body string) error
}

const saveTimeout = 5 * time.Second

// Dispatcher consumes queued messages on its own goroutine, attempts email
// delivery, and records the outcome. Enqueueing never blocks: when the queue
// is full the message is recorded as FAILED and dropped.
type Dispatcher struct {
	queue  chan Message
	store  Store
	mailer Mailer
	log    zerolog.Logger
	done   chan struct{}
}

// NewDispatcher creates a Dispatcher with the given queue capacity.
func NewDispatcher(store Store, mailer Mailer, log zerolog.Logger, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Dispatcher{
		queue:  make(chan Message, queueSize),
		store:  store,
		mailer: mailer,
		log:    log.With().Str("component", "notify").Logger(),
		done:   make(chan struct{}),
	}
}

// Run consumes the queue until ctx is cancelled, then drains whatever is
// already enqueued before returning.
func (d *Dispatcher) Run(ctx context.Context) {
	defer close(d.done)
	for {
		select {
		case msg := <-d.queue:
			d.deliver(msg)
		case <-ctx.Done():
			for {
				select {
				case msg := <-d.queue:
					d.deliver(msg)
				default:
					return
				}
			}
		}
	}
}

// Wait blocks until Run has returned.
func (d *Dispatcher) Wait() {
	<-d.done
}

// Notify enqueues a message without blocking the caller. A full queue drops
// the message after recording it as FAILED; the booking transaction that
// triggered it has already committed and must not be held up.
func (d *Dispatcher) Notify(msg Message) {
	select {
	case d.queue <- msg:
	default:
		d.log.Warn().Str("type", string(msg.Type)).Str("user", msg.UserID).
			Msg("notification queue full, dropping message")
		d.record(msg, models.NotificationFailed, nil)
	}
}

func (d *Dispatcher) deliver(msg Message) {
	now := time.Now()
	if err := d.mailer.Send(msg.Email, msg.Subject, msg.Body); err != nil {
		d.log.Error().Err(err).Str("to", msg.Email).Str("type", string(msg.Type)).
			Msg("failed to send notification")
		d.record(msg, models.NotificationFailed, &now)
		return
	}
	d.log.Info().Str("to", msg.Email).Str("type", string(msg.Type)).
		Msg("notification sent")
	d.record(msg, models.NotificationSent, &now)
}

func (d *Dispatcher) record(msg Message, status models.NotificationStatus, sentAt *time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	n := models.Notification{
		UserID:        msg.UserID,
		Type:          msg.Type,
		Subject:       msg.Subject,
		Message:       msg.Body,
		Status:        status,
		SentAt:        sentAt,
		AppointmentID: msg.AppointmentID,
	}
	if err := d.store.Save(ctx, &n); err != nil {
		d.log.Error().Err(err).Str("user", msg.UserID).
			Msg("failed to record notification")
	}
}
