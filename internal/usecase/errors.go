package usecase

import (
	"errors"

	"clinic-scheduler/pkg/apperror"

	"github.com/jackc/pgx/v5/pgconn"
)

// Store constraints whose violations map onto domain conflicts.
const (
	constraintUsername           = "uq_users_username"
	constraintAppointmentSlot    = "uq_appointments_slot"
	constraintBillingAppointment = "uq_billings_appointment"
)

var (
	ErrUsernameTaken      = apperror.New(apperror.Conflict, "username already registered")
	ErrInvalidCredentials = apperror.New(apperror.Unauthorized, "invalid username or password")
	ErrInvalidToken       = apperror.New(apperror.Unauthorized, "invalid or expired token")
	ErrTokenRevoked       = apperror.New(apperror.Unauthorized, "token has been revoked")
	ErrUserNotFound       = apperror.New(apperror.NotFound, "user not found")
	ErrRoleMismatch       = apperror.New(apperror.InvalidArgument, "role does not match the registration endpoint")
	ErrInvalidDateFormat  = apperror.New(apperror.InvalidArgument, "invalid date format, use YYYY-MM-DD")
	ErrInvalidTimeFormat  = apperror.New(apperror.InvalidArgument, "invalid time format, use HH:MM")
	ErrInvalidDateRange   = apperror.New(apperror.InvalidArgument, "from_date must not be after to_date")

	ErrPatientsOnly           = apperror.New(apperror.Forbidden, "only patients can book appointments")
	ErrDoctorsOnly            = apperror.New(apperror.Forbidden, "only doctors can perform this action")
	ErrUnsupportedRole        = apperror.New(apperror.Forbidden, "role is not allowed to access this resource")
	ErrPatientProfileNotFound = apperror.New(apperror.NotFound, "patient profile not found")
	ErrDoctorProfileNotFound  = apperror.New(apperror.NotFound, "doctor profile not found")
	ErrDoctorNotFound         = apperror.New(apperror.NotFound, "doctor not found")

	ErrDateInPast            = apperror.New(apperror.InvalidArgument, "cannot book an appointment in the past")
	ErrDoctorUnavailableDay  = apperror.New(apperror.InvalidArgument, "doctor is not available on this day")
	ErrDoctorUnavailableTime = apperror.New(apperror.InvalidArgument, "doctor is not available at this time")
	ErrSlotTaken             = apperror.New(apperror.Conflict, "this time slot is already booked")
	ErrSlotBeingBooked       = apperror.New(apperror.Conflict, "this time slot is being booked, try again")
	ErrAppointmentNotFound   = apperror.New(apperror.NotFound, "appointment not found")
	ErrAppointmentNotOwned   = apperror.New(apperror.Forbidden, "appointment belongs to another doctor")

	ErrInvalidAmount    = apperror.New(apperror.InvalidArgument, "amount must be a non-negative value with at most 2 decimal places and 10 digits")
	ErrBillingExists    = apperror.New(apperror.Conflict, "billing already exists for this appointment")
	ErrBillingNotFound  = apperror.New(apperror.NotFound, "billing not found")
	ErrBillingForbidden = apperror.New(apperror.Forbidden, "not authorized to view this billing")
)

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint
// violation on the named constraint.
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		return pgErr.Code == "23505" && pgErr.ConstraintName == constraintName
	}
	return false
}
