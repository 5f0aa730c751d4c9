package usecase

import (
	"context"
	"testing"

	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type billingFixture struct {
	*fixture
	patient       *entity.User
	otherPatient  *entity.User
	doctor        *entity.User
	otherDoctor   *entity.User
	appointmentID int
}

func newBillingFixture(t *testing.T) *billingFixture {
	t.Helper()
	f := newFixture()
	patient, _ := f.addPatient("alice")
	otherPatient, _ := f.addPatient("bob")
	doctor, profile := f.addDoctor("x", []string{"Monday"}, []string{"09:00"})
	otherDoctor, _ := f.addDoctor("y", []string{"Monday"}, []string{"09:00"})

	created, err := f.appointment.CreateAppointment(context.Background(), patient, &dto.CreateAppointmentRequest{
		DoctorID: profile.ID, AppointmentDate: "2026-10-26", AppointmentTime: "09:00",
	})
	require.NoError(t, err)

	return &billingFixture{
		fixture:       f,
		patient:       patient,
		otherPatient:  otherPatient,
		doctor:        doctor,
		otherDoctor:   otherDoctor,
		appointmentID: created.ID,
	}
}

func TestCreateBill(t *testing.T) {
	f := newBillingFixture(t)
	ctx := context.Background()

	bill, err := f.billing.CreateBill(ctx, f.doctor, &dto.CreateBillingRequest{
		AppointmentID: f.appointmentID,
		Amount:        decimal.RequireFromString("150.50"),
	})
	require.NoError(t, err)
	assert.Equal(t, "150.5", bill.Amount.String())
	assert.Equal(t, "2026-10-19", bill.BillingDate)
	assert.Contains(t, f.store.auditActions(), entity.AuditActionBillingCreate)

	tests := []struct {
		name   string
		caller *entity.User
		req    dto.CreateBillingRequest
		want   error
	}{
		{"second bill", f.doctor, dto.CreateBillingRequest{AppointmentID: f.appointmentID, Amount: decimal.NewFromInt(10)}, ErrBillingExists},
		{"patient cannot bill", f.patient, dto.CreateBillingRequest{AppointmentID: f.appointmentID, Amount: decimal.NewFromInt(10)}, ErrDoctorsOnly},
		{"foreign doctor", f.otherDoctor, dto.CreateBillingRequest{AppointmentID: f.appointmentID, Amount: decimal.NewFromInt(10)}, ErrAppointmentNotOwned},
		{"unknown appointment", f.doctor, dto.CreateBillingRequest{AppointmentID: 999, Amount: decimal.NewFromInt(10)}, ErrAppointmentNotFound},
		{"negative amount", f.doctor, dto.CreateBillingRequest{AppointmentID: f.appointmentID, Amount: decimal.RequireFromString("-1")}, ErrInvalidAmount},
		{"three decimals", f.doctor, dto.CreateBillingRequest{AppointmentID: f.appointmentID, Amount: decimal.RequireFromString("1.005")}, ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := f.billing.CreateBill(ctx, tt.caller, &req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCreateBill_ConstraintClosesRace(t *testing.T) {
	f := newBillingFixture(t)
	ctx := context.Background()
	f.store.hideExisting = true

	req := &dto.CreateBillingRequest{AppointmentID: f.appointmentID, Amount: decimal.NewFromInt(80)}
	_, err := f.billing.CreateBill(ctx, f.doctor, req)
	require.NoError(t, err)

	_, err = f.billing.CreateBill(ctx, f.doctor, req)
	assert.ErrorIs(t, err, ErrBillingExists)
	assert.Len(t, f.store.billings, 1)
}

func TestGetBill(t *testing.T) {
	f := newBillingFixture(t)
	ctx := context.Background()

	bill, err := f.billing.CreateBill(ctx, f.doctor, &dto.CreateBillingRequest{
		AppointmentID: f.appointmentID,
		Amount:        decimal.NewFromInt(80),
	})
	require.NoError(t, err)

	got, err := f.billing.GetBill(ctx, f.patient, bill.ID)
	require.NoError(t, err)
	assert.Equal(t, bill.ID, got.ID)

	got, err = f.billing.GetBill(ctx, f.doctor, bill.ID)
	require.NoError(t, err)
	assert.Equal(t, f.appointmentID, got.AppointmentID)

	_, err = f.billing.GetBill(ctx, f.otherPatient, bill.ID)
	assert.ErrorIs(t, err, ErrBillingForbidden)

	_, err = f.billing.GetBill(ctx, f.otherDoctor, bill.ID)
	assert.ErrorIs(t, err, ErrBillingForbidden)

	_, err = f.billing.GetBill(ctx, f.patient, 999)
	assert.ErrorIs(t, err, ErrBillingNotFound)
}

func TestListMyBills(t *testing.T) {
	f := newBillingFixture(t)
	ctx := context.Background()

	_, err := f.billing.CreateBill(ctx, f.doctor, &dto.CreateBillingRequest{
		AppointmentID: f.appointmentID,
		Amount:        decimal.NewFromInt(80),
	})
	require.NoError(t, err)

	mine, err := f.billing.ListMyBills(ctx, f.patient)
	require.NoError(t, err)
	assert.Equal(t, 1, mine.Total)

	theirs, err := f.billing.ListMyBills(ctx, f.doctor)
	require.NoError(t, err)
	assert.Equal(t, 1, theirs.Total)

	none, err := f.billing.ListMyBills(ctx, f.otherPatient)
	require.NoError(t, err)
	assert.Equal(t, 0, none.Total)
	assert.NotNil(t, none.Billings)

	listed, err := f.appointment.ListMyAppointments(ctx, f.patient, nil)
	require.NoError(t, err)
	require.Equal(t, 1, listed.Total)
	require.NotNil(t, listed.Appointments[0].Billing)
	assert.True(t, decimal.NewFromInt(80).Equal(listed.Appointments[0].Billing.Amount))
}
