package models

import (
	"time"

	"clinic-app-server/internal/scheduling"
)

// DayOfWeek is the weekday a recurring availability rule applies to.
type DayOfWeek string

const (
	Monday    DayOfWeek = "MONDAY"
	Tuesday   DayOfWeek = "TUESDAY"
	Wednesday DayOfWeek = "WEDNESDAY"
	Thursday  DayOfWeek = "THURSDAY"
	Friday    DayOfWeek = "FRIDAY"
	Saturday  DayOfWeek = "SATURDAY"
	Sunday    DayOfWeek = "SUNDAY"
)

var weekdays = map[DayOfWeek]time.Weekday{
	Monday:    time.Monday,
	Tuesday:   time.Tuesday,
	Wednesday: time.Wednesday,
	Thursday:  time.Thursday,
	Friday:    time.Friday,
	Saturday:  time.Saturday,
	Sunday:    time.Sunday,
}

// Weekday maps the enum onto time.Weekday.
func (d DayOfWeek) Weekday() time.Weekday {
	return weekdays[d]
}

// WeeklyAvailability is one recurring weekly consultation window for a doctor.
// A doctor is expected to keep at most one active rule per weekday, but this
// is a convention, not a constraint; the slot resolver uses the first active
// rule it finds in creation order.
type WeeklyAvailability struct {
	BaseModel
	DoctorID     string    `gorm:"size:36;index;not null" json:"doctorId"`
	DayOfWeek    DayOfWeek `gorm:"size:10;not null" json:"dayOfWeek"`
	StartTime    string    `gorm:"size:5;not null" json:"startTime"` // "HH:MM"
	EndTime      string    `gorm:"size:5;not null" json:"endTime"`   // "HH:MM"
	SlotDuration int       `gorm:"default:30" json:"slotDuration"`   // minutes, >= 15
	Active       bool      `gorm:"default:true" json:"isActive"`

	Doctor Doctor `gorm:"foreignKey:DoctorID" json:"-"`
}

// Rule converts the persisted row into the scheduling core's representation.
// Malformed clock strings produce an inactive rule rather than an error; the
// API boundary validates times on write, so this only guards hand-edited rows.
func (a *WeeklyAvailability) Rule() scheduling.Rule {
	start, err := scheduling.ParseTimeOfDay(a.StartTime)
	if err != nil {
		return scheduling.Rule{}
	}
	end, err := scheduling.ParseTimeOfDay(a.EndTime)
	if err != nil {
		return scheduling.Rule{}
	}
	return scheduling.Rule{
		Weekday:     a.DayOfWeek.Weekday(),
		Start:       start,
		End:         end,
		SlotMinutes: a.SlotDuration,
		Active:      a.Active,
	}
}
