package repository

import (
	"clinic-scheduler/internal/domain/entity"

	"gorm.io/gorm"
)

type BillingRepository interface {
	Create(db *gorm.DB, billing *entity.Billing) error
	FindByID(db *gorm.DB, id int) (*entity.Billing, error)
	FindByAppointmentID(db *gorm.DB, appointmentID int) (*entity.Billing, error)
	FindByPatientID(db *gorm.DB, patientID int) ([]entity.Billing, error)
	FindByDoctorID(db *gorm.DB, doctorID int) ([]entity.Billing, error)
}
