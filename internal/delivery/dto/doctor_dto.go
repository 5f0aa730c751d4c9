package dto

import (
	"github.com/google/uuid"
)

// Request DTOs

// DoctorRegistration carries the profile half of a doctor registration.
// Times are normalised to HH:MM by the usecase, so "9:00" is accepted.
type DoctorRegistration struct {
	FirstName      string   `json:"first_name" validate:"required,max=100"`
	LastName       string   `json:"last_name" validate:"required,max=100"`
	Phone          string   `json:"phone" validate:"omitempty,max=20"`
	Specialization string   `json:"specialization" validate:"required,max=100"`
	AvailableDays  []string `json:"available_days" validate:"required,min=1,dive,weekday"`
	AvailableTimes []string `json:"available_times" validate:"required,min=1,dive,required"`
}

// DoctorListQuery is read from the query string of GET /doctors.
type DoctorListQuery struct {
	Specialization string `json:"specialization" validate:"omitempty,max=100"`
	Date           string `json:"date" validate:"omitempty,date_ymd"`
}

// Response DTOs

type DoctorResponse struct {
	ID             int       `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	FullName       string    `json:"full_name"`
	Phone          string    `json:"phone,omitempty"`
	Specialization string    `json:"specialization"`
	AvailableDays  []string  `json:"available_days"`
	AvailableTimes []string  `json:"available_times"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}
