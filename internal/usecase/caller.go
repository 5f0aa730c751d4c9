package usecase

import (
	"time"

	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/domain/repository"

	"gorm.io/gorm"
)

// callerScope holds the profile id that scopes a caller's own records.
// Exactly one of the two is set.
type callerScope struct {
	PatientID int
	DoctorID  int
}

func resolveCallerScope(
	db *gorm.DB,
	caller *entity.User,
	patientProfileRepo repository.PatientProfileRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
) (callerScope, error) {
	switch {
	case caller.IsPatient():
		profile, err := patientProfileRepo.FindByUserID(db, caller.ID)
		if err != nil {
			return callerScope{}, err
		}
		if profile == nil {
			return callerScope{}, ErrPatientProfileNotFound
		}
		return callerScope{PatientID: profile.ID}, nil
	case caller.IsDoctor():
		profile, err := doctorProfileRepo.FindByUserID(db, caller.ID)
		if err != nil {
			return callerScope{}, err
		}
		if profile == nil {
			return callerScope{}, ErrDoctorProfileNotFound
		}
		return callerScope{DoctorID: profile.ID}, nil
	default:
		return callerScope{}, ErrUnsupportedRole
	}
}

// today returns the calendar date of now, at midnight UTC, so it compares
// directly with dates parsed from YYYY-MM-DD.
func today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
