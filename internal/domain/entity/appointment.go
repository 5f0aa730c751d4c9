package entity

import (
	"time"
)

// Appointment books one slot (doctor, date, time) for a patient. The slot
// is unique across the table (constraint uq_appointments_slot).
type Appointment struct {
	ID              int       `gorm:"primaryKey;autoIncrement" json:"id"`
	PatientID       int       `gorm:"not null;index" json:"patient_id"`
	DoctorID        int       `gorm:"not null;index" json:"doctor_id"`
	AppointmentDate time.Time `gorm:"type:date;not null" json:"appointment_date"`
	AppointmentTime string    `gorm:"type:varchar(5);not null" json:"appointment_time"`
	Description     string    `gorm:"type:text" json:"description,omitempty"`
	Treatment       *string   `gorm:"type:text" json:"treatment,omitempty"`
	Diagnosis       *string   `gorm:"type:text" json:"diagnosis,omitempty"`
	Prescription    *string   `gorm:"type:text" json:"prescription,omitempty"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient *PatientProfile `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  *DoctorProfile  `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Billing *Billing        `gorm:"foreignKey:AppointmentID" json:"billing,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// ClinicalUpdate carries the doctor-editable fields; nil means "leave as is".
type ClinicalUpdate struct {
	Treatment    *string
	Diagnosis    *string
	Prescription *string
}

// IsEmpty reports whether the update touches no field.
func (u ClinicalUpdate) IsEmpty() bool {
	return u.Treatment == nil && u.Diagnosis == nil && u.Prescription == nil
}

// Apply sets the present fields on the appointment.
func (a *Appointment) Apply(u ClinicalUpdate) {
	if u.Treatment != nil {
		a.Treatment = u.Treatment
	}
	if u.Diagnosis != nil {
		a.Diagnosis = u.Diagnosis
	}
	if u.Prescription != nil {
		a.Prescription = u.Prescription
	}
}

// Columns returns the column -> value map for the present fields.
func (u ClinicalUpdate) Columns() map[string]interface{} {
	cols := make(map[string]interface{}, 3)
	if u.Treatment != nil {
		cols["treatment"] = *u.Treatment
	}
	if u.Diagnosis != nil {
		cols["diagnosis"] = *u.Diagnosis
	}
	if u.Prescription != nil {
		cols["prescription"] = *u.Prescription
	}
	return cols
}

// BelongsTo reports whether the user owns the appointment as its patient or doctor.
func (a *Appointment) BelongsTo(patientID, doctorID int) bool {
	return (patientID != 0 && a.PatientID == patientID) || (doctorID != 0 && a.DoctorID == doctorID)
}
