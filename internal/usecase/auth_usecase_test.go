package usecase

import (
	"context"
	"testing"

	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func patientRegistration(username string) *dto.RegisterPatientRequest {
	return &dto.RegisterPatientRequest{
		User: dto.UserRegistration{
			Username: username,
			Password: "secret123",
			Role:     entity.RolePatient,
			DOB:      "1990-04-01",
		},
		Patient: dto.PatientRegistration{
			FirstName: "Alice",
			LastName:  "Smith",
			Gender:    entity.GenderFemale,
			Phone:     "555-0100",
		},
	}
}

func doctorRegistration(username string) *dto.RegisterDoctorRequest {
	return &dto.RegisterDoctorRequest{
		User: dto.UserRegistration{
			Username: username,
			Password: "secret123",
			Role:     entity.RoleDoctor,
			DOB:      "1975-09-12",
		},
		Doctor: dto.DoctorRegistration{
			FirstName:      "Xavier",
			LastName:       "Jones",
			Specialization: "Cardiology",
			AvailableDays:  []string{"monday", "Friday", "MONDAY"},
			AvailableTimes: []string{"9:00", "14:30:00"},
		},
	}
}

func TestRegisterLoginResolve(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	registered, err := f.auth.RegisterPatient(ctx, patientRegistration("alice"))
	require.NoError(t, err)
	assert.Equal(t, "alice", registered.Username)
	assert.Equal(t, entity.RolePatient, registered.Role)
	assert.Equal(t, "1990-04-01", registered.DateOfBirth)
	require.NotNil(t, registered.PatientProfile)
	assert.Equal(t, "Alice", registered.PatientProfile.FirstName)

	stored := f.store.users[registered.ID]
	assert.NotEqual(t, "secret123", stored.Password)

	token, err := f.auth.Login(ctx, &dto.LoginRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", token.TokenType)
	assert.Equal(t, entity.RolePatient, token.Role)
	assert.Equal(t, int64(3600), token.ExpiresIn)

	user, claims, err := f.auth.Resolve(ctx, token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.Equal(t, entity.RolePatient, user.RoleName())
	assert.Equal(t, "alice", claims.Username)

	me, err := f.auth.GetCurrentUser(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, me.PatientProfile)
	assert.Equal(t, "Smith", me.PatientProfile.LastName)

	assert.Equal(t, []string{entity.AuditActionUserRegister}, f.store.auditActions())
}

func TestRegisterDuplicateUsername(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.auth.RegisterPatient(ctx, patientRegistration("alice"))
	require.NoError(t, err)

	_, err = f.auth.RegisterDoctor(ctx, doctorRegistration("alice"))
	assert.ErrorIs(t, err, ErrUsernameTaken)
	assert.Equal(t, apperror.Conflict, apperror.KindOf(err))
}

func TestRegisterDoctorNormalisesAvailability(t *testing.T) {
	f := newFixture()

	registered, err := f.auth.RegisterDoctor(context.Background(), doctorRegistration("drx"))
	require.NoError(t, err)
	require.NotNil(t, registered.DoctorProfile)
	assert.Equal(t, []string{"Monday", "Friday"}, registered.DoctorProfile.AvailableDays)
	assert.Equal(t, []string{"09:00", "14:30"}, registered.DoctorProfile.AvailableTimes)
}

func TestRegisterRejectsBadInput(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	wrongRole := patientRegistration("alice")
	wrongRole.User.Role = entity.RoleDoctor
	_, err := f.auth.RegisterPatient(ctx, wrongRole)
	assert.ErrorIs(t, err, ErrRoleMismatch)

	badTime := doctorRegistration("drx")
	badTime.Doctor.AvailableTimes = []string{"25:00"}
	_, err = f.auth.RegisterDoctor(ctx, badTime)
	assert.Equal(t, apperror.InvalidArgument, apperror.KindOf(err))

	badDOB := patientRegistration("bob")
	badDOB.User.DOB = "01-04-1990"
	_, err = f.auth.RegisterPatient(ctx, badDOB)
	assert.ErrorIs(t, err, ErrInvalidDateFormat)

	assert.Empty(t, f.store.users)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.auth.RegisterPatient(ctx, patientRegistration("alice"))
	require.NoError(t, err)

	_, err = f.auth.Login(ctx, &dto.LoginRequest{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.auth.Login(ctx, &dto.LoginRequest{Username: "nobody", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestResolveRejectsRevokedAndForgedTokens(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.auth.RegisterPatient(ctx, patientRegistration("alice"))
	require.NoError(t, err)

	token, err := f.auth.Login(ctx, &dto.LoginRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)

	_, _, err = f.auth.Resolve(ctx, token.AccessToken+"x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	user, claims, err := f.auth.Resolve(ctx, token.AccessToken)
	require.NoError(t, err)

	require.NoError(t, f.auth.Logout(ctx, user.ID, claims.TokenID))

	_, _, err = f.auth.Resolve(ctx, token.AccessToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestResolveRejectsUnknownUser(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.auth.RegisterPatient(ctx, patientRegistration("alice"))
	require.NoError(t, err)

	token, err := f.auth.Login(ctx, &dto.LoginRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)

	f.store.users = map[uuid.UUID]*entity.User{}

	_, _, err = f.auth.Resolve(ctx, token.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
