package dto

import "time"

// Request DTOs

type CreateAppointmentRequest struct {
	DoctorID        int    `json:"doctor_id" validate:"required,gte=1"`
	AppointmentDate string `json:"appointment_date" validate:"required,date_ymd"`
	AppointmentTime string `json:"appointment_time" validate:"required,time_hhmm"`
	Description     string `json:"description" validate:"omitempty,max=2000"`
}

// UpdateAppointmentRequest is a partial update; absent fields stay as they are.
type UpdateAppointmentRequest struct {
	Treatment    *string `json:"treatment" validate:"omitempty,max=5000"`
	Diagnosis    *string `json:"diagnosis" validate:"omitempty,max=5000"`
	Prescription *string `json:"prescription" validate:"omitempty,max=5000"`
}

type AppointmentListQuery struct {
	FromDate string `json:"from_date" validate:"omitempty,date_ymd"`
	ToDate   string `json:"to_date" validate:"omitempty,date_ymd"`
}

// Response DTOs

type AvailabilityResponse struct {
	DoctorID       int      `json:"doctor_id"`
	Date           string   `json:"date,omitempty"`
	AvailableDays  []string `json:"available_days"`
	AvailableTimes []string `json:"available_times"`
}

type AppointmentResponse struct {
	ID              int              `json:"id"`
	PatientID       int              `json:"patient_id"`
	DoctorID        int              `json:"doctor_id"`
	AppointmentDate string           `json:"appointment_date"`
	AppointmentTime string           `json:"appointment_time"`
	Description     string           `json:"description,omitempty"`
	Treatment       *string          `json:"treatment"`
	Diagnosis       *string          `json:"diagnosis"`
	Prescription    *string          `json:"prescription"`
	Billing         *BillingResponse `json:"billing,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
