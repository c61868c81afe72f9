package response

import (
	"time"

	"bookline/internal/usecase/queries"

	"github.com/google/uuid"
)

type AppointmentResponse struct {
	ID            uuid.UUID `json:"id"`
	CompanyID     uuid.UUID `json:"company_id"`
	ServiceID     uuid.UUID `json:"service_id"`
	ServiceName   string    `json:"service_name"`
	EmployeeID    uuid.UUID `json:"employee_id"`
	EmployeeName  string    `json:"employee_name"`
	CustomerID    uuid.UUID `json:"customer_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	Date          string    `json:"date"`
	Start         string    `json:"start"`
	End           string    `json:"end"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	PriceCents    int64     `json:"price_cents"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func FromAppointmentView(v *queries.AppointmentView) *AppointmentResponse {
	return &AppointmentResponse{
		ID:            v.ID,
		CompanyID:     v.CompanyID,
		ServiceID:     v.ServiceID,
		ServiceName:   v.ServiceName,
		EmployeeID:    v.EmployeeID,
		EmployeeName:  v.EmployeeName,
		CustomerID:    v.CustomerID,
		CustomerName:  v.CustomerName,
		CustomerEmail: v.CustomerEmail,
		Date:          v.Date,
		Start:         v.StartTime,
		End:           v.EndTime,
		Status:        v.Status,
		PaymentStatus: v.PaymentStatus,
		PriceCents:    v.PriceCents,
		Notes:         v.Notes,
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}
}
