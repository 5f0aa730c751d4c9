package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Audited record kinds.
const (
	AuditSubjectUser        = "user"
	AuditSubjectAppointment = "appointment"
	AuditSubjectBilling     = "billing"
)

// Audit actions
const (
	AuditActionUserRegister      = "user.register"
	AuditActionAppointmentCreate = "appointment.create"
	AuditActionAppointmentUpdate = "appointment.update"
	AuditActionBillingCreate     = "billing.create"
)

// AuditLog is one append-only row of the audit trail. It is inserted in
// the transaction of the change it describes.
type AuditLog struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorID     *uuid.UUID `gorm:"column:user_id;type:uuid" json:"actor_id,omitempty"`
	Action      string     `gorm:"type:varchar(100);not null" json:"action"`
	SubjectType string     `gorm:"type:varchar(30);not null" json:"subject_type"`
	SubjectID   string     `gorm:"type:varchar(64);not null" json:"subject_id"`
	Changes     Changes    `gorm:"column:metadata;type:jsonb" json:"changes"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// Changes holds the before and after images of an audited record. Before is
// nil for creations.
type Changes struct {
	Before interface{} `json:"before,omitempty"`
	After  interface{} `json:"after,omitempty"`
}

// Value implements driver.Valuer
func (c Changes) Value() (driver.Value, error) {
	if c.Before == nil && c.After == nil {
		return nil, nil
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner. Images come back as generic JSON values.
func (c *Changes) Scan(value interface{}) error {
	*c = Changes{}
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	default:
		return fmt.Errorf("unsupported type for Changes: %T", value)
	}
}
