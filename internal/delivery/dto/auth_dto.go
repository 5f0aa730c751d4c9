package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required,max=72"`
}

// UserRegistration is the credential half of a registration body.
type UserRegistration struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role" validate:"required,oneof=patient doctor"`
	DOB      string `json:"dob" validate:"required,date_ymd"`
}

type RegisterPatientRequest struct {
	User    UserRegistration    `json:"user"`
	Patient PatientRegistration `json:"patient"`
}

type RegisterDoctorRequest struct {
	User   UserRegistration   `json:"user"`
	Doctor DoctorRegistration `json:"doctor"`
}

// Response DTOs

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Role        string `json:"role"`
	ExpiresIn   int64  `json:"expires_in"`
}

type UserResponse struct {
	ID             uuid.UUID               `json:"id"`
	Username       string                  `json:"username"`
	Role           string                  `json:"role"`
	DateOfBirth    string                  `json:"dob"`
	DoctorProfile  *DoctorResponse         `json:"doctor_profile,omitempty"`
	PatientProfile *PatientProfileResponse `json:"patient_profile,omitempty"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}
