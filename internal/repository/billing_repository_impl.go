package repository

import (
	"errors"

	"clinic-scheduler/internal/domain/entity"
	domainRepo "clinic-scheduler/internal/domain/repository"

	"gorm.io/gorm"
)

type billingRepository struct{}

func NewBillingRepository() domainRepo.BillingRepository {
	return &billingRepository{}
}

func (r *billingRepository) Create(db *gorm.DB, billing *entity.Billing) error {
	return db.Omit("Appointment").Create(billing).Error
}

func (r *billingRepository) FindByID(db *gorm.DB, id int) (*entity.Billing, error) {
	return r.findOne(db.Preload("Appointment").Where("id = ?", id))
}

func (r *billingRepository) FindByAppointmentID(db *gorm.DB, appointmentID int) (*entity.Billing, error) {
	return r.findOne(db.Where("appointment_id = ?", appointmentID))
}

func (r *billingRepository) FindByPatientID(db *gorm.DB, patientID int) ([]entity.Billing, error) {
	return r.findJoined(db.Where("appointments.patient_id = ?", patientID))
}

func (r *billingRepository) FindByDoctorID(db *gorm.DB, doctorID int) ([]entity.Billing, error) {
	return r.findJoined(db.Where("appointments.doctor_id = ?", doctorID))
}

func (r *billingRepository) findJoined(query *gorm.DB) ([]entity.Billing, error) {
	var billings []entity.Billing
	err := query.Select("billings.*").
		Joins("JOIN appointments ON appointments.id = billings.appointment_id").
		Order("billings.billing_date DESC, billings.id DESC").
		Find(&billings).Error
	if err != nil {
		return nil, err
	}
	return billings, nil
}

func (r *billingRepository) findOne(query *gorm.DB) (*entity.Billing, error) {
	var billing entity.Billing
	err := query.First(&billing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &billing, nil
}
