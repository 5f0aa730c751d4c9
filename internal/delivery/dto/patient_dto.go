package dto

import (
	"github.com/google/uuid"
)

type PatientRegistration struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Gender    string `json:"gender" validate:"required,oneof=male female other"`
	Phone     string `json:"phone" validate:"omitempty,max=20"`
}

// PatientProfileResponse represents patient profile data in responses
type PatientProfileResponse struct {
	ID        int       `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Gender    string    `json:"gender"`
	Phone     string    `json:"phone,omitempty"`
}
