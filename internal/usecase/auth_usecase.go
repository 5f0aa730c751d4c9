package usecase

import (
	"context"
	"fmt"
	"time"

	"clinic-scheduler/internal/converter"
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/domain/repository"
	"clinic-scheduler/internal/service"
	"clinic-scheduler/pkg/apperror"
	"clinic-scheduler/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthUsecase interface {
	RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.UserResponse, error)
	RegisterDoctor(ctx context.Context, req *dto.RegisterDoctorRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, userID uuid.UUID, tokenID string) error
	Resolve(ctx context.Context, token string) (*entity.User, *jwt.Claims, error)
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
}

type authUsecase struct {
	tx                 repository.Transactor
	log                *logrus.Logger
	userRepo           repository.UserRepository
	doctorProfileRepo  repository.DoctorProfileRepository
	patientProfileRepo repository.PatientProfileRepository
	auditService       service.AuditService
	jwtService         *jwt.JWTService
	tokenStore         service.TokenStore
	bcryptCost         int
}

func NewAuthUsecase(
	tx repository.Transactor,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	patientProfileRepo repository.PatientProfileRepository,
	auditService service.AuditService,
	jwtService *jwt.JWTService,
	tokenStore service.TokenStore,
) AuthUsecase {
	return &authUsecase{
		tx:                 tx,
		log:                log,
		userRepo:           userRepo,
		doctorProfileRepo:  doctorProfileRepo,
		patientProfileRepo: patientProfileRepo,
		auditService:       auditService,
		jwtService:         jwtService,
		tokenStore:         tokenStore,
		bcryptCost:         bcrypt.DefaultCost,
	}
}

func (u *authUsecase) RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.UserResponse, error) {
	if req.User.Role != entity.RolePatient {
		return nil, ErrRoleMismatch
	}

	user, err := u.newUser(&req.User, entity.RoleIDPatient)
	if err != nil {
		return nil, err
	}

	profile := &entity.PatientProfile{
		FirstName: req.Patient.FirstName,
		LastName:  req.Patient.LastName,
		Gender:    req.Patient.Gender,
		Phone:     req.Patient.Phone,
	}

	err = u.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.createUser(ctx, tx, user); err != nil {
			return err
		}

		profile.UserID = user.ID
		if err := u.patientProfileRepo.Create(tx, profile); err != nil {
			u.log.Warnf("Failed to create patient profile: %+v", err)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	user.PatientProfile = profile
	u.log.WithFields(logrus.Fields{"user_id": user.ID, "role": entity.RolePatient}).Info("User registered")
	return converter.UserToResponse(user), nil
}

func (u *authUsecase) RegisterDoctor(ctx context.Context, req *dto.RegisterDoctorRequest) (*dto.UserResponse, error) {
	if req.User.Role != entity.RoleDoctor {
		return nil, ErrRoleMismatch
	}

	days, err := entity.NormalizeDays(req.Doctor.AvailableDays)
	if err != nil {
		return nil, apperror.New(apperror.InvalidArgument, err.Error())
	}
	times, err := entity.NormalizeTimes(req.Doctor.AvailableTimes)
	if err != nil {
		return nil, apperror.New(apperror.InvalidArgument, err.Error())
	}

	user, err := u.newUser(&req.User, entity.RoleIDDoctor)
	if err != nil {
		return nil, err
	}

	profile := &entity.DoctorProfile{
		FirstName:      req.Doctor.FirstName,
		LastName:       req.Doctor.LastName,
		Phone:          req.Doctor.Phone,
		Specialization: req.Doctor.Specialization,
		AvailableDays:  days,
		AvailableTimes: times,
	}

	err = u.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.createUser(ctx, tx, user); err != nil {
			return err
		}

		profile.UserID = user.ID
		if err := u.doctorProfileRepo.Create(tx, profile); err != nil {
			u.log.Warnf("Failed to create doctor profile: %+v", err)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	user.DoctorProfile = profile
	u.log.WithFields(logrus.Fields{"user_id": user.ID, "role": entity.RoleDoctor}).Info("User registered")
	return converter.UserToResponse(user), nil
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// Read-only, no transaction needed
	user, err := u.userRepo.FindByUsername(u.tx.DB(ctx), req.Username)
	if err != nil {
		u.log.Warnf("Failed to find user by username: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	role := user.RoleName()
	accessToken, tokenID, err := u.jwtService.GenerateAccessToken(user.ID, user.Username, role)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	if err := u.tokenStore.Save(ctx, user.ID, tokenID, u.jwtService.GetAccessExpiry()); err != nil {
		u.log.Warnf("Failed to store access token in Redis: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken: accessToken,
		TokenType:   jwt.TokenTypeBearer,
		Role:        role,
		ExpiresIn:   int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

func (u *authUsecase) Logout(ctx context.Context, userID uuid.UUID, tokenID string) error {
	if err := u.tokenStore.Revoke(ctx, userID, tokenID); err != nil {
		u.log.Warnf("Failed to revoke access token: %+v", err)
		return err
	}
	return nil
}

// Resolve maps a bearer token onto its user. The token must carry a valid
// signature, be unexpired, still be whitelisted and name an existing user.
func (u *authUsecase) Resolve(ctx context.Context, token string) (*entity.User, *jwt.Claims, error) {
	claims, err := u.jwtService.ValidateToken(token)
	if err != nil {
		return nil, nil, ErrInvalidToken
	}

	exists, err := u.tokenStore.Exists(ctx, claims.UserID, claims.TokenID)
	if err != nil {
		u.log.Warnf("Failed to check token in Redis: %+v", err)
		return nil, nil, fmt.Errorf("check token: %w", err)
	}
	if !exists {
		return nil, nil, ErrTokenRevoked
	}

	user, err := u.userRepo.FindByUsername(u.tx.DB(ctx), claims.Username)
	if err != nil {
		u.log.Warnf("Failed to find user by username: %+v", err)
		return nil, nil, err
	}
	if user == nil || user.ID != claims.UserID {
		return nil, nil, ErrInvalidToken
	}

	return user, claims, nil
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(u.tx.DB(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return converter.UserToResponse(user), nil
}

func (u *authUsecase) newUser(req *dto.UserRegistration, roleID int) (*entity.User, error) {
	dob, err := time.Parse(entity.DateLayout, req.DOB)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), u.bcryptCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	return &entity.User{
		ID:          uuid.New(),
		RoleID:      roleID,
		Username:    req.Username,
		Password:    string(hashedPassword),
		DateOfBirth: dob,
	}, nil
}

func (u *authUsecase) createUser(ctx context.Context, tx *gorm.DB, user *entity.User) error {
	if err := u.userRepo.Create(tx, user); err != nil {
		if isDuplicateKeyError(err, constraintUsername) {
			return ErrUsernameTaken
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return err
	}

	return u.auditService.Record(ctx, tx, service.AuditEntry{
		Actor:       user.ID,
		Action:      entity.AuditActionUserRegister,
		SubjectType: entity.AuditSubjectUser,
		SubjectID:   user.ID.String(),
		After:       map[string]string{"username": user.Username, "role": user.RoleName()},
	})
}
