package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Billing is the single, immutable charge attached to an appointment.
type Billing struct {
	ID            int             `gorm:"primaryKey;autoIncrement" json:"id"`
	AppointmentID int             `gorm:"not null;uniqueIndex" json:"appointment_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	BillingDate   time.Time       `gorm:"type:date;not null" json:"billing_date"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Appointment *Appointment `gorm:"foreignKey:AppointmentID" json:"appointment,omitempty"`
}

func (Billing) TableName() string {
	return "billings"
}

// MaxBillingAmount is the exclusive upper bound of decimal(10,2).
var MaxBillingAmount = decimal.New(1, 8)

// ValidAmount reports whether amount is non-negative, has at most two
// decimal places and fits decimal(10,2).
func ValidAmount(amount decimal.Decimal) bool {
	if amount.IsNegative() {
		return false
	}
	if !amount.Equal(amount.Round(2)) {
		return false
	}
	return amount.LessThan(MaxBillingAmount)
}
