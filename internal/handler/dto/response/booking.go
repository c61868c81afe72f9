package response

import (
	"bookline/internal/usecase/commands"

	"github.com/google/uuid"
)

type BookingResponse struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	EmployeeID    uuid.UUID `json:"employee_id"`
	CustomerID    uuid.UUID `json:"customer_id"`
	Start         string    `json:"start"`
	End           string    `json:"end"`
	Replayed      bool      `json:"replayed"`
}

func FromBookingResult(r *commands.SubmitBookingResult) *BookingResponse {
	return &BookingResponse{
		AppointmentID: r.AppointmentID,
		EmployeeID:    r.EmployeeID,
		CustomerID:    r.CustomerID,
		Start:         r.Slot.Start.String(),
		End:           r.Slot.End.String(),
		Replayed:      r.IsReplayed,
	}
}
