package models

import "time"

// NotificationType identifies what event a notification was sent for.
type NotificationType string

const (
	NotifyBookingConfirmed NotificationType = "APPOINTMENT_BOOKED"
	NotifyCancelled        NotificationType = "APPOINTMENT_CANCELLED"
	NotifyRescheduled      NotificationType = "APPOINTMENT_RESCHEDULED"
	NotifyReminder24H      NotificationType = "APPOINTMENT_REMINDER_24H"
	NotifyReminder1H       NotificationType = "APPOINTMENT_REMINDER_1H"
)

// NotificationStatus tracks the delivery attempt outcome.
type NotificationStatus string

const (
	NotificationPending NotificationStatus = "PENDING"
	NotificationSent    NotificationStatus = "SENT"
	NotificationFailed  NotificationStatus = "FAILED"
)

// Notification is the persisted record of an outbound user notification.
// Delivery is best-effort and asynchronous; a failed send is recorded here
// and never fails the operation that triggered it.
type Notification struct {
	BaseModel
	UserID        string             `gorm:"size:36;index;not null" json:"userId"`
	Type          NotificationType   `gorm:"size:40" json:"type"`
	Subject       string             `gorm:"size:255" json:"subject"`
	Message       string             `gorm:"size:1000" json:"message"`
	Status        NotificationStatus `gorm:"size:20;default:'PENDING'" json:"status"`
	SentAt        *time.Time         `json:"sentAt,omitempty"`
	AppointmentID string             `gorm:"size:36;index" json:"relatedAppointmentId,omitempty"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
