package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateBillingRequest struct {
	AppointmentID int             `json:"appointment_id" validate:"required,gte=1"`
	Amount        decimal.Decimal `json:"amount"`
}

// Response DTOs

type BillingResponse struct {
	ID            int             `json:"id"`
	AppointmentID int             `json:"appointment_id"`
	Amount        decimal.Decimal `json:"amount"`
	BillingDate   string          `json:"billing_date"`
	CreatedAt     time.Time       `json:"created_at"`
}

type BillingListResponse struct {
	Billings []BillingResponse `json:"billings"`
	Total    int               `json:"total"`
}
