package usecase

import (
	"context"
	"strconv"
	"time"

	"clinic-scheduler/internal/converter"
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/domain/repository"
	"clinic-scheduler/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type BillingUsecase interface {
	CreateBill(ctx context.Context, caller *entity.User, req *dto.CreateBillingRequest) (*dto.BillingResponse, error)
	GetBill(ctx context.Context, caller *entity.User, billingID int) (*dto.BillingResponse, error)
	ListMyBills(ctx context.Context, caller *entity.User) (*dto.BillingListResponse, error)
}

type billingUsecase struct {
	tx                 repository.Transactor
	log                *logrus.Logger
	billingRepo        repository.BillingRepository
	appointmentRepo    repository.AppointmentRepository
	doctorProfileRepo  repository.DoctorProfileRepository
	patientProfileRepo repository.PatientProfileRepository
	auditService       service.AuditService
	now                func() time.Time
}

func NewBillingUsecase(
	tx repository.Transactor,
	log *logrus.Logger,
	billingRepo repository.BillingRepository,
	appointmentRepo repository.AppointmentRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	patientProfileRepo repository.PatientProfileRepository,
	auditService service.AuditService,
) BillingUsecase {
	return &billingUsecase{
		tx:                 tx,
		log:                log,
		billingRepo:        billingRepo,
		appointmentRepo:    appointmentRepo,
		doctorProfileRepo:  doctorProfileRepo,
		patientProfileRepo: patientProfileRepo,
		auditService:       auditService,
		now:                time.Now,
	}
}

// CreateBill attaches the single billing record to an appointment of the
// calling doctor. Billing records are never updated afterwards.
func (u *billingUsecase) CreateBill(ctx context.Context, caller *entity.User, req *dto.CreateBillingRequest) (*dto.BillingResponse, error) {
	if !caller.IsDoctor() {
		return nil, ErrDoctorsOnly
	}

	db := u.tx.DB(ctx)
	doctor, err := u.doctorProfileRepo.FindByUserID(db, caller.ID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile for user %s: %+v", caller.ID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorProfileNotFound
	}

	appointment, err := u.appointmentRepo.FindByID(db, req.AppointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %d: %+v", req.AppointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.DoctorID != doctor.ID {
		return nil, ErrAppointmentNotOwned
	}

	if !entity.ValidAmount(req.Amount) {
		return nil, ErrInvalidAmount
	}

	billing := &entity.Billing{
		AppointmentID: appointment.ID,
		Amount:        req.Amount.Round(2),
		BillingDate:   today(u.now()),
	}

	err = u.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		existing, err := u.billingRepo.FindByAppointmentID(tx, appointment.ID)
		if err != nil {
			u.log.Warnf("Failed to check existing billing: %+v", err)
			return err
		}
		if existing != nil {
			return ErrBillingExists
		}

		if err := u.billingRepo.Create(tx, billing); err != nil {
			if isDuplicateKeyError(err, constraintBillingAppointment) {
				return ErrBillingExists
			}
			u.log.Warnf("Failed to create billing: %+v", err)
			return err
		}

		return u.auditService.Record(ctx, tx, service.AuditEntry{
			Actor:       caller.ID,
			Action:      entity.AuditActionBillingCreate,
			SubjectType: entity.AuditSubjectBilling,
			SubjectID:   strconv.Itoa(billing.ID),
			After:       converter.BillingToResponse(billing),
		})
	})
	if err != nil {
		return nil, err
	}

	u.log.WithFields(logrus.Fields{
		"billing_id":     billing.ID,
		"appointment_id": appointment.ID,
		"amount":         billing.Amount.StringFixed(2),
	}).Info("Billing created")
	return converter.BillingToResponse(billing), nil
}

// GetBill returns a billing record to the patient or doctor of its appointment.
func (u *billingUsecase) GetBill(ctx context.Context, caller *entity.User, billingID int) (*dto.BillingResponse, error) {
	db := u.tx.DB(ctx)
	billing, err := u.billingRepo.FindByID(db, billingID)
	if err != nil {
		u.log.Warnf("Failed to find billing %d: %+v", billingID, err)
		return nil, err
	}
	if billing == nil {
		return nil, ErrBillingNotFound
	}

	appointment := billing.Appointment
	if appointment == nil {
		appointment, err = u.appointmentRepo.FindByID(db, billing.AppointmentID)
		if err != nil {
			u.log.Warnf("Failed to find appointment %d: %+v", billing.AppointmentID, err)
			return nil, err
		}
		if appointment == nil {
			return nil, ErrBillingNotFound
		}
	}

	scope, err := resolveCallerScope(db, caller, u.patientProfileRepo, u.doctorProfileRepo)
	if err != nil {
		if err == ErrUnsupportedRole {
			return nil, ErrBillingForbidden
		}
		return nil, err
	}
	if !appointment.BelongsTo(scope.PatientID, scope.DoctorID) {
		return nil, ErrBillingForbidden
	}

	return converter.BillingToResponse(billing), nil
}

func (u *billingUsecase) ListMyBills(ctx context.Context, caller *entity.User) (*dto.BillingListResponse, error) {
	db := u.tx.DB(ctx)
	scope, err := resolveCallerScope(db, caller, u.patientProfileRepo, u.doctorProfileRepo)
	if err != nil {
		return nil, err
	}

	var billings []entity.Billing
	if scope.PatientID != 0 {
		billings, err = u.billingRepo.FindByPatientID(db, scope.PatientID)
	} else {
		billings, err = u.billingRepo.FindByDoctorID(db, scope.DoctorID)
	}
	if err != nil {
		u.log.Warnf("Failed to list billings for user %s: %+v", caller.ID, err)
		return nil, err
	}

	return &dto.BillingListResponse{
		Billings: converter.BillingsToResponses(billings),
		Total:    len(billings),
	}, nil
}
