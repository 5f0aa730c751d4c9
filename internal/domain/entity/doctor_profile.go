package entity

import (
	"time"

	"github.com/google/uuid"
)

// DoctorProfile represents doctor-specific profile data, including the
// weekly availability that defines which slots can be booked.
type DoctorProfile struct {
	ID             int         `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         uuid.UUID   `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	FirstName      string      `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName       string      `gorm:"type:varchar(100);not null" json:"last_name"`
	Phone          string      `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Specialization string      `gorm:"type:varchar(100);not null;index" json:"specialization"`
	AvailableDays  WeekdayList `gorm:"type:jsonb;not null" json:"available_days"`
	AvailableTimes TimeList    `gorm:"type:jsonb;not null" json:"available_times"`
	CreatedAt      time.Time   `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (DoctorProfile) TableName() string {
	return "doctor_profiles"
}

// Availability returns the doctor's declared bookable universe.
func (d *DoctorProfile) Availability() Availability {
	return Availability{Days: d.AvailableDays, Times: d.AvailableTimes}
}

func (d *DoctorProfile) FullName() string {
	return "Dr. " + d.FirstName + " " + d.LastName
}
