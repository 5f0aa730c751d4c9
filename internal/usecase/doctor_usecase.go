package usecase

import (
	"context"
	"time"

	"clinic-scheduler/internal/converter"
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

type DoctorUsecase interface {
	ListDoctors(ctx context.Context, query *dto.DoctorListQuery) (*dto.DoctorListResponse, error)
	GetDoctor(ctx context.Context, doctorID int) (*dto.DoctorResponse, error)
}

type doctorUsecase struct {
	tx                repository.Transactor
	log               *logrus.Logger
	doctorProfileRepo repository.DoctorProfileRepository
}

func NewDoctorUsecase(
	tx repository.Transactor,
	log *logrus.Logger,
	doctorProfileRepo repository.DoctorProfileRepository,
) DoctorUsecase {
	return &doctorUsecase{
		tx:                tx,
		log:               log,
		doctorProfileRepo: doctorProfileRepo,
	}
}

// ListDoctors returns the doctor directory, optionally narrowed to a
// specialization and to doctors who work on the weekday of a date.
func (u *doctorUsecase) ListDoctors(ctx context.Context, query *dto.DoctorListQuery) (*dto.DoctorListResponse, error) {
	filter := entity.DoctorFilter{Specialization: query.Specialization}
	if query.Date != "" {
		date, err := time.Parse(entity.DateLayout, query.Date)
		if err != nil {
			return nil, ErrInvalidDateFormat
		}
		filter.WorksOn = &date
	}

	doctors, err := u.doctorProfileRepo.FindAll(u.tx.DB(ctx), filter.Specialization)
	if err != nil {
		u.log.Warnf("Failed to list doctors: %+v", err)
		return nil, err
	}

	if filter.WorksOn != nil {
		working := doctors[:0]
		for _, d := range doctors {
			if d.Availability().WorksOn(*filter.WorksOn) {
				working = append(working, d)
			}
		}
		doctors = working
	}

	return &dto.DoctorListResponse{
		Doctors: converter.DoctorsToResponses(doctors),
		Total:   len(doctors),
	}, nil
}

func (u *doctorUsecase) GetDoctor(ctx context.Context, doctorID int) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorProfileRepo.FindByID(u.tx.DB(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %d: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	return converter.DoctorToResponse(doctor), nil
}
