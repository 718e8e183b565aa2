package models

import "time"

// LeaveType categorizes a doctor's day off.
type LeaveType string

const (
	LeaveSick       LeaveType = "SICK"
	LeaveVacation   LeaveType = "VACATION"
	LeaveConference LeaveType = "CONFERENCE"
	LeaveEmergency  LeaveType = "EMERGENCY"
	LeaveOther      LeaveType = "OTHER"
)

// LeaveDay blocks a doctor's entire calendar day. At most one leave entry may
// exist per (doctor, date); the unique index makes a duplicate a conflict.
type LeaveDay struct {
	BaseModel
	DoctorID  string    `gorm:"size:36;not null;uniqueIndex:idx_leave_doctor_date" json:"doctorId"`
	Date      time.Time `gorm:"type:date;not null;uniqueIndex:idx_leave_doctor_date" json:"leaveDate"`
	Reason    string    `gorm:"size:255" json:"reason"`
	LeaveType LeaveType `gorm:"size:20" json:"leaveType"`

	Doctor Doctor `gorm:"foreignKey:DoctorID" json:"-"`
}
