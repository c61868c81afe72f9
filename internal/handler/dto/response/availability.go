package response

import (
	"bookline/internal/usecase/queries"

	"github.com/google/uuid"
)

type AvailabilityResponse struct {
	CompanyID   uuid.UUID `json:"company_id"`
	ServiceID   uuid.UUID `json:"service_id"`
	Date        string    `json:"date"`
	DurationMin int       `json:"duration_min"`
	Slots       []string  `json:"slots"`
}

func FromDaySlots(d *queries.DaySlots) *AvailabilityResponse {
	slots := d.Slots
	if slots == nil {
		slots = []string{}
	}
	return &AvailabilityResponse{
		CompanyID:   d.CompanyID,
		ServiceID:   d.ServiceID,
		Date:        d.Date,
		DurationMin: d.DurationMin,
		Slots:       slots,
	}
}
