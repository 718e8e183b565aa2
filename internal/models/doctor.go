package models

// Doctor represents a practicing doctor patients can book against.
// The (name, specialization) pair is unique; attempting to register the same
// doctor twice is a conflict.
type Doctor struct {
	BaseModel
	Name           string `gorm:"size:255;not null;uniqueIndex:idx_doctor_name_spec" json:"name"`
	Specialization string `gorm:"size:255;not null;uniqueIndex:idx_doctor_name_spec" json:"specialization"`
	Experience     int    `gorm:"default:0" json:"experience"` // years
	Active         bool   `gorm:"default:true" json:"active"`
	UserID         string `gorm:"size:36;index" json:"userId,omitempty"` // optional link to the doctor's login

	// Relations
	Availability []WeeklyAvailability `gorm:"foreignKey:DoctorID" json:"-"`
	Leaves       []LeaveDay           `gorm:"foreignKey:DoctorID" json:"-"`
	Appointments []Appointment        `gorm:"foreignKey:DoctorID" json:"-"`
}
