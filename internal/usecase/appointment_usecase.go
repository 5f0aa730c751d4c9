package usecase

import (
	"context"
	"errors"
	"strconv"
	"time"

	"clinic-scheduler/internal/converter"
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/domain/repository"
	"clinic-scheduler/internal/service"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type AppointmentUsecase interface {
	GetAvailability(ctx context.Context, doctorID int, date string) (*dto.AvailabilityResponse, error)
	CreateAppointment(ctx context.Context, caller *entity.User, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	UpdateAppointment(ctx context.Context, caller *entity.User, appointmentID int, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error)
	ListMyAppointments(ctx context.Context, caller *entity.User, query *dto.AppointmentListQuery) (*dto.AppointmentListResponse, error)
}

type appointmentUsecase struct {
	tx                 repository.Transactor
	log                *logrus.Logger
	appointmentRepo    repository.AppointmentRepository
	doctorProfileRepo  repository.DoctorProfileRepository
	patientProfileRepo repository.PatientProfileRepository
	auditService       service.AuditService
	slotGuard          service.SlotGuard
	now                func() time.Time
}

func NewAppointmentUsecase(
	tx repository.Transactor,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	patientProfileRepo repository.PatientProfileRepository,
	auditService service.AuditService,
	slotGuard service.SlotGuard,
) AppointmentUsecase {
	return &appointmentUsecase{
		tx:                 tx,
		log:                log,
		appointmentRepo:    appointmentRepo,
		doctorProfileRepo:  doctorProfileRepo,
		patientProfileRepo: patientProfileRepo,
		auditService:       auditService,
		slotGuard:          slotGuard,
		now:                time.Now,
	}
}

// GetAvailability returns the doctor's declared days and times. With a
// date, times are narrowed to the slots still open on that date.
func (u *appointmentUsecase) GetAvailability(ctx context.Context, doctorID int, date string) (*dto.AvailabilityResponse, error) {
	if date == "" {
		doctor, err := u.findDoctor(ctx, doctorID)
		if err != nil {
			return nil, err
		}
		avail := doctor.Availability()
		return &dto.AvailabilityResponse{
			DoctorID:       doctor.ID,
			AvailableDays:  avail.Days,
			AvailableTimes: avail.Times,
		}, nil
	}

	day, err := time.Parse(entity.DateLayout, date)
	if err != nil {
		// Unknown doctor still wins over a malformed date
		if _, findErr := u.findDoctor(ctx, doctorID); findErr != nil {
			return nil, findErr
		}
		return nil, ErrInvalidDateFormat
	}

	var (
		doctor *entity.DoctorProfile
		booked []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		doctor, err = u.doctorProfileRepo.FindByID(u.tx.DB(gctx), doctorID)
		return err
	})
	g.Go(func() error {
		var err error
		booked, err = u.appointmentRepo.FindBookedTimes(u.tx.DB(gctx), doctorID, day)
		return err
	})
	if err := g.Wait(); err != nil {
		u.log.Warnf("Failed to load availability for doctor %d on %s: %+v", doctorID, date, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	avail := doctor.Availability()
	return &dto.AvailabilityResponse{
		DoctorID:       doctor.ID,
		Date:           date,
		AvailableDays:  avail.Days,
		AvailableTimes: avail.OpenTimes(day, booked),
	}, nil
}

// CreateAppointment books a slot for the calling patient.
//
// Checks run in order: caller role, patient profile, doctor, date and time
// format, past date, declared weekday, declared time, slot still free.
// The slot reservation only rejects concurrent requests early; the
// uq_appointments_slot constraint decides the race.
func (u *appointmentUsecase) CreateAppointment(ctx context.Context, caller *entity.User, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	if !caller.IsPatient() {
		return nil, ErrPatientsOnly
	}

	db := u.tx.DB(ctx)
	patient, err := u.patientProfileRepo.FindByUserID(db, caller.ID)
	if err != nil {
		u.log.Warnf("Failed to find patient profile for user %s: %+v", caller.ID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientProfileNotFound
	}

	doctor, err := u.findDoctor(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}

	date, err := time.Parse(entity.DateLayout, req.AppointmentDate)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	slot, err := entity.NormalizeTime(req.AppointmentTime)
	if err != nil {
		return nil, ErrInvalidTimeFormat
	}

	if date.Before(today(u.now())) {
		return nil, ErrDateInPast
	}

	avail := doctor.Availability()
	if !avail.WorksOn(date) {
		return nil, ErrDoctorUnavailableDay
	}
	if !avail.Offers(slot) {
		return nil, ErrDoctorUnavailableTime
	}

	release, err := u.slotGuard.Reserve(ctx, doctor.ID, req.AppointmentDate, slot)
	defer release()
	if err != nil {
		if errors.Is(err, service.ErrSlotBusy) {
			return nil, ErrSlotBeingBooked
		}
		u.log.Warnf("Slot reservation unavailable, relying on store constraint: %+v", err)
	}

	appointment := &entity.Appointment{
		PatientID:       patient.ID,
		DoctorID:        doctor.ID,
		AppointmentDate: date,
		AppointmentTime: slot,
		Description:     req.Description,
	}

	err = u.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		existing, err := u.appointmentRepo.FindBySlot(tx, doctor.ID, date, slot)
		if err != nil {
			u.log.Warnf("Failed to check slot: %+v", err)
			return err
		}
		if existing != nil {
			return ErrSlotTaken
		}

		if err := u.appointmentRepo.Create(tx, appointment); err != nil {
			if isDuplicateKeyError(err, constraintAppointmentSlot) {
				return ErrSlotTaken
			}
			u.log.Warnf("Failed to create appointment: %+v", err)
			return err
		}

		return u.auditService.Record(ctx, tx, service.AuditEntry{
			Actor:       caller.ID,
			Action:      entity.AuditActionAppointmentCreate,
			SubjectType: entity.AuditSubjectAppointment,
			SubjectID:   strconv.Itoa(appointment.ID),
			After:       converter.AppointmentToResponse(appointment),
		})
	})
	if err != nil {
		return nil, err
	}

	u.log.WithFields(logrus.Fields{
		"appointment_id": appointment.ID,
		"doctor_id":      doctor.ID,
		"date":           req.AppointmentDate,
		"time":           slot,
	}).Info("Appointment created")
	return converter.AppointmentToResponse(appointment), nil
}

// UpdateAppointment applies the clinical fields present in req to an
// appointment owned by the calling doctor.
func (u *appointmentUsecase) UpdateAppointment(ctx context.Context, caller *entity.User, appointmentID int, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	if !caller.IsDoctor() {
		return nil, ErrDoctorsOnly
	}

	doctor, err := u.doctorProfileRepo.FindByUserID(u.tx.DB(ctx), caller.ID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile for user %s: %+v", caller.ID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorProfileNotFound
	}

	update := entity.ClinicalUpdate{
		Treatment:    req.Treatment,
		Diagnosis:    req.Diagnosis,
		Prescription: req.Prescription,
	}

	var appointment *entity.Appointment
	err = u.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		appointment, err = u.appointmentRepo.FindByID(tx, appointmentID)
		if err != nil {
			u.log.Warnf("Failed to find appointment %d: %+v", appointmentID, err)
			return err
		}
		if appointment == nil {
			return ErrAppointmentNotFound
		}
		if appointment.DoctorID != doctor.ID {
			return ErrAppointmentNotOwned
		}
		if update.IsEmpty() {
			return nil
		}

		before := clinicalSnapshot(appointment)
		if err := u.appointmentRepo.UpdateClinical(tx, appointment.ID, update); err != nil {
			u.log.Warnf("Failed to update appointment %d: %+v", appointment.ID, err)
			return err
		}
		appointment.Apply(update)

		return u.auditService.Record(ctx, tx, service.AuditEntry{
			Actor:       caller.ID,
			Action:      entity.AuditActionAppointmentUpdate,
			SubjectType: entity.AuditSubjectAppointment,
			SubjectID:   strconv.Itoa(appointment.ID),
			Before:      before,
			After:       clinicalSnapshot(appointment),
		})
	})
	if err != nil {
		return nil, err
	}

	return converter.AppointmentToResponse(appointment), nil
}

// ListMyAppointments lists the caller's appointments as patient or doctor,
// each with its billing record when one exists.
func (u *appointmentUsecase) ListMyAppointments(ctx context.Context, caller *entity.User, query *dto.AppointmentListQuery) (*dto.AppointmentListResponse, error) {
	filter := &entity.AppointmentFilter{}
	if query != nil {
		var err error
		if filter.FromDate, err = parseOptionalDate(query.FromDate); err != nil {
			return nil, err
		}
		if filter.ToDate, err = parseOptionalDate(query.ToDate); err != nil {
			return nil, err
		}
		if filter.FromDate != nil && filter.ToDate != nil && filter.FromDate.After(*filter.ToDate) {
			return nil, ErrInvalidDateRange
		}
	}

	db := u.tx.DB(ctx)
	scope, err := resolveCallerScope(db, caller, u.patientProfileRepo, u.doctorProfileRepo)
	if err != nil {
		return nil, err
	}
	filter.PatientID = scope.PatientID
	filter.DoctorID = scope.DoctorID

	appointments, err := u.appointmentRepo.FindAll(db, filter)
	if err != nil {
		u.log.Warnf("Failed to list appointments for user %s: %+v", caller.ID, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

func (u *appointmentUsecase) findDoctor(ctx context.Context, doctorID int) (*entity.DoctorProfile, error) {
	doctor, err := u.doctorProfileRepo.FindByID(u.tx.DB(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %d: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	return doctor, nil
}

func parseOptionalDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	date, err := time.Parse(entity.DateLayout, value)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	return &date, nil
}

func clinicalSnapshot(a *entity.Appointment) map[string]*string {
	return map[string]*string{
		"treatment":    a.Treatment,
		"diagnosis":    a.Diagnosis,
		"prescription": a.Prescription,
	}
}
