package converter

import (
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
)

func BillingToResponse(billing *entity.Billing) *dto.BillingResponse {
	if billing == nil {
		return nil
	}
	return &dto.BillingResponse{
		ID:            billing.ID,
		AppointmentID: billing.AppointmentID,
		Amount:        billing.Amount.Round(2),
		BillingDate:   billing.BillingDate.Format(entity.DateLayout),
		CreatedAt:     billing.CreatedAt,
	}
}

func BillingsToResponses(billings []entity.Billing) []dto.BillingResponse {
	responses := make([]dto.BillingResponse, len(billings))
	for i := range billings {
		responses[i] = *BillingToResponse(&billings[i])
	}
	return responses
}
