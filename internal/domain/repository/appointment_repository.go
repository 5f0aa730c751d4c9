package repository

import (
	"time"

	"clinic-scheduler/internal/domain/entity"

	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id int) (*entity.Appointment, error)
	FindBySlot(db *gorm.DB, doctorID int, date time.Time, slot string) (*entity.Appointment, error)
	FindBookedTimes(db *gorm.DB, doctorID int, date time.Time) ([]string, error)
	FindAll(db *gorm.DB, filter *entity.AppointmentFilter) ([]entity.Appointment, error)
	UpdateClinical(db *gorm.DB, id int, update entity.ClinicalUpdate) error
}
