package usecase

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"clinic-scheduler/config"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/service"
	"clinic-scheduler/pkg/jwt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// fakeStore is an in-memory stand-in for the database. It enforces the
// same unique constraints as the schema and reports violations the way
// pgx does.
type fakeStore struct {
	mu sync.RWMutex

	users        map[uuid.UUID]*entity.User
	patients     map[int]*entity.PatientProfile
	doctors      map[int]*entity.DoctorProfile
	appointments map[int]*entity.Appointment
	billings     map[int]*entity.Billing
	auditLogs    []*entity.AuditLog
	nextID       int

	// hideExisting makes the slot and billing pre-checks miss, so only the
	// constraint can catch a duplicate.
	hideExisting bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:        map[uuid.UUID]*entity.User{},
		patients:     map[int]*entity.PatientProfile{},
		doctors:      map[int]*entity.DoctorProfile{},
		appointments: map[int]*entity.Appointment{},
		billings:     map[int]*entity.Billing{},
		nextID:       1,
	}
}

func (s *fakeStore) id() int {
	id := s.nextID
	s.nextID++
	return id
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

type fakeTransactor struct{}

func (fakeTransactor) DB(ctx context.Context) *gorm.DB { return nil }

func (fakeTransactor) WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

// Users

type fakeUserRepo struct{ s *fakeStore }

func (r fakeUserRepo) Create(db *gorm.DB, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == user.Username {
			return uniqueViolation(constraintUsername)
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r fakeUserRepo) FindByUsername(db *gorm.DB, username string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r fakeUserRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	cp.Role = entity.Role{ID: u.RoleID, RoleName: u.RoleName()}
	for _, p := range r.s.patients {
		if p.UserID == id {
			pc := *p
			cp.PatientProfile = &pc
		}
	}
	for _, d := range r.s.doctors {
		if d.UserID == id {
			dc := *d
			cp.DoctorProfile = &dc
		}
	}
	return &cp, nil
}

// Profiles

type fakePatientRepo struct{ s *fakeStore }

func (r fakePatientRepo) Create(db *gorm.DB, profile *entity.PatientProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	profile.ID = r.s.id()
	cp := *profile
	r.s.patients[profile.ID] = &cp
	return nil
}

func (r fakePatientRepo) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.PatientProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.patients {
		if p.UserID == userID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

type fakeDoctorRepo struct{ s *fakeStore }

func (r fakeDoctorRepo) Create(db *gorm.DB, profile *entity.DoctorProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	profile.ID = r.s.id()
	cp := *profile
	r.s.doctors[profile.ID] = &cp
	return nil
}

func (r fakeDoctorRepo) FindByID(db *gorm.DB, id int) (*entity.DoctorProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d, ok := r.s.doctors[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (r fakeDoctorRepo) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, d := range r.s.doctors {
		if d.UserID == userID {
			cp := *d
			return &cp, nil
		}
	}
	return nil, nil
}

func (r fakeDoctorRepo) FindAll(db *gorm.DB, specialization string) ([]entity.DoctorProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []entity.DoctorProfile{}
	for _, d := range r.s.doctors {
		if specialization != "" && !strings.Contains(strings.ToLower(d.Specialization), strings.ToLower(specialization)) {
			continue
		}
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Appointments

type fakeAppointmentRepo struct{ s *fakeStore }

func sameSlot(a *entity.Appointment, doctorID int, date time.Time, slot string) bool {
	return a.DoctorID == doctorID && a.AppointmentDate.Equal(date) && a.AppointmentTime == slot
}

func (r fakeAppointmentRepo) Create(db *gorm.DB, appointment *entity.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.appointments {
		if sameSlot(a, appointment.DoctorID, appointment.AppointmentDate, appointment.AppointmentTime) {
			return uniqueViolation(constraintAppointmentSlot)
		}
	}
	appointment.ID = r.s.id()
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = appointment.CreatedAt
	cp := *appointment
	r.s.appointments[appointment.ID] = &cp
	return nil
}

func (r fakeAppointmentRepo) withBilling(a *entity.Appointment) *entity.Appointment {
	cp := *a
	cp.Billing = nil
	for _, b := range r.s.billings {
		if b.AppointmentID == a.ID {
			bc := *b
			cp.Billing = &bc
		}
	}
	return &cp
}

func (r fakeAppointmentRepo) FindByID(db *gorm.DB, id int) (*entity.Appointment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.appointments[id]
	if !ok {
		return nil, nil
	}
	return r.withBilling(a), nil
}

func (r fakeAppointmentRepo) FindBySlot(db *gorm.DB, doctorID int, date time.Time, slot string) (*entity.Appointment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if r.s.hideExisting {
		return nil, nil
	}
	for _, a := range r.s.appointments {
		if sameSlot(a, doctorID, date, slot) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r fakeAppointmentRepo) FindBookedTimes(db *gorm.DB, doctorID int, date time.Time) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	times := []string{}
	for _, a := range r.s.appointments {
		if a.DoctorID == doctorID && a.AppointmentDate.Equal(date) {
			times = append(times, a.AppointmentTime)
		}
	}
	sort.Strings(times)
	return times, nil
}

func (r fakeAppointmentRepo) FindAll(db *gorm.DB, filter *entity.AppointmentFilter) ([]entity.Appointment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []entity.Appointment{}
	for _, a := range r.s.appointments {
		if filter.PatientID != 0 && a.PatientID != filter.PatientID {
			continue
		}
		if filter.DoctorID != 0 && a.DoctorID != filter.DoctorID {
			continue
		}
		if filter.FromDate != nil && a.AppointmentDate.Before(*filter.FromDate) {
			continue
		}
		if filter.ToDate != nil && a.AppointmentDate.After(*filter.ToDate) {
			continue
		}
		out = append(out, *r.withBilling(a))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AppointmentDate.Equal(out[j].AppointmentDate) {
			return out[i].AppointmentDate.Before(out[j].AppointmentDate)
		}
		return out[i].AppointmentTime < out[j].AppointmentTime
	})
	return out, nil
}

func (r fakeAppointmentRepo) UpdateClinical(db *gorm.DB, id int, update entity.ClinicalUpdate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.appointments[id]
	if !ok {
		return errors.New("appointment vanished")
	}
	a.Apply(update)
	return nil
}

// Billings

type fakeBillingRepo struct{ s *fakeStore }

func (r fakeBillingRepo) Create(db *gorm.DB, billing *entity.Billing) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.billings {
		if b.AppointmentID == billing.AppointmentID {
			return uniqueViolation(constraintBillingAppointment)
		}
	}
	billing.ID = r.s.id()
	billing.CreatedAt = time.Now()
	cp := *billing
	r.s.billings[billing.ID] = &cp
	return nil
}

func (r fakeBillingRepo) FindByID(db *gorm.DB, id int) (*entity.Billing, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b, ok := r.s.billings[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	if a, ok := r.s.appointments[b.AppointmentID]; ok {
		ac := *a
		cp.Appointment = &ac
	}
	return &cp, nil
}

func (r fakeBillingRepo) FindByAppointmentID(db *gorm.DB, appointmentID int) (*entity.Billing, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if r.s.hideExisting {
		return nil, nil
	}
	for _, b := range r.s.billings {
		if b.AppointmentID == appointmentID {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (r fakeBillingRepo) findBy(match func(a *entity.Appointment) bool) []entity.Billing {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []entity.Billing{}
	for _, b := range r.s.billings {
		if a, ok := r.s.appointments[b.AppointmentID]; ok && match(a) {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r fakeBillingRepo) FindByPatientID(db *gorm.DB, patientID int) ([]entity.Billing, error) {
	return r.findBy(func(a *entity.Appointment) bool { return a.PatientID == patientID }), nil
}

func (r fakeBillingRepo) FindByDoctorID(db *gorm.DB, doctorID int) ([]entity.Billing, error) {
	return r.findBy(func(a *entity.Appointment) bool { return a.DoctorID == doctorID }), nil
}

// Audit

type fakeAuditRepo struct{ s *fakeStore }

func (r fakeAuditRepo) Append(db *gorm.DB, log *entity.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.auditLogs = append(r.s.auditLogs, log)
	return nil
}

func (s *fakeStore) auditActions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	actions := make([]string, len(s.auditLogs))
	for i, l := range s.auditLogs {
		actions[i] = l.Action
	}
	return actions
}

// Redis-backed services

type fakeTokenStore struct {
	mu     sync.Mutex
	tokens map[string]struct{}
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: map[string]struct{}{}}
}

func (f *fakeTokenStore) Save(ctx context.Context, userID uuid.UUID, tokenID string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[userID.String()+":"+tokenID] = struct{}{}
	return nil
}

func (f *fakeTokenStore) Exists(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.tokens[userID.String()+":"+tokenID]
	return ok, nil
}

func (f *fakeTokenStore) Revoke(ctx context.Context, userID uuid.UUID, tokenID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens, userID.String()+":"+tokenID)
	return nil
}

type fakeSlotGuard struct {
	err      error
	reserved []string
	released int
}

func (g *fakeSlotGuard) Reserve(ctx context.Context, doctorID int, date, slot string) (func(), error) {
	if g.err != nil {
		return func() {}, g.err
	}
	g.reserved = append(g.reserved, date+" "+slot)
	return func() { g.released++ }, nil
}

// Fixture wiring

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testJWTService() *jwt.JWTService {
	return jwt.NewJWTService(config.JWTConfig{Secret: "test-secret", AccessExpiry: time.Hour})
}

// fixedNow is a Monday.
var fixedNow = time.Date(2026, 10, 19, 15, 30, 0, 0, time.UTC)

type fixture struct {
	store       *fakeStore
	tokens      *fakeTokenStore
	guard       *fakeSlotGuard
	auth        AuthUsecase
	doctors     DoctorUsecase
	appointment *appointmentUsecase
	billing     *billingUsecase
}

func newFixture() *fixture {
	store := newFakeStore()
	log := testLogger()
	tx := fakeTransactor{}
	users := fakeUserRepo{store}
	patients := fakePatientRepo{store}
	doctors := fakeDoctorRepo{store}
	appointments := fakeAppointmentRepo{store}
	billings := fakeBillingRepo{store}
	audit := service.NewAuditService(log, fakeAuditRepo{store})
	tokens := newFakeTokenStore()
	guard := &fakeSlotGuard{}

	auth := NewAuthUsecase(tx, log, users, doctors, patients, audit, testJWTService(), tokens).(*authUsecase)
	auth.bcryptCost = 4

	appointment := NewAppointmentUsecase(tx, log, appointments, doctors, patients, audit, guard).(*appointmentUsecase)
	appointment.now = func() time.Time { return fixedNow }

	billing := NewBillingUsecase(tx, log, billings, appointments, doctors, patients, audit).(*billingUsecase)
	billing.now = func() time.Time { return fixedNow }

	return &fixture{
		store:       store,
		tokens:      tokens,
		guard:       guard,
		auth:        auth,
		doctors:     NewDoctorUsecase(tx, log, doctors),
		appointment: appointment,
		billing:     billing,
	}
}

// addPatient stores a patient credential with its profile.
func (f *fixture) addPatient(username string) (*entity.User, *entity.PatientProfile) {
	user := &entity.User{ID: uuid.New(), RoleID: entity.RoleIDPatient, Username: username}
	_ = fakeUserRepo{f.store}.Create(nil, user)
	profile := &entity.PatientProfile{UserID: user.ID, FirstName: "Pat", LastName: username, Gender: entity.GenderOther}
	_ = fakePatientRepo{f.store}.Create(nil, profile)
	return user, profile
}

// addDoctor stores a doctor credential with its profile and availability.
func (f *fixture) addDoctor(username string, days, times []string) (*entity.User, *entity.DoctorProfile) {
	user := &entity.User{ID: uuid.New(), RoleID: entity.RoleIDDoctor, Username: username}
	_ = fakeUserRepo{f.store}.Create(nil, user)
	profile := &entity.DoctorProfile{
		UserID:         user.ID,
		FirstName:      "X",
		LastName:       username,
		Specialization: "General Practice",
		AvailableDays:  entity.WeekdayList(days),
		AvailableTimes: entity.TimeList(times),
	}
	_ = fakeDoctorRepo{f.store}.Create(nil, profile)
	return user, profile
}

// addLegacyDoctor stores a doctor whose availability columns hold raw
// pre-JSONB text, scanned the way the database driver would hand it over.
func (f *fixture) addLegacyDoctor(username, rawDays, rawTimes string) (*entity.User, *entity.DoctorProfile) {
	user, profile := f.addDoctor(username, nil, nil)
	stored := f.store.doctors[profile.ID]
	_ = stored.AvailableDays.Scan([]byte(rawDays))
	_ = stored.AvailableTimes.Scan([]byte(rawTimes))
	profile.AvailableDays, profile.AvailableTimes = stored.AvailableDays, stored.AvailableTimes
	return user, profile
}
