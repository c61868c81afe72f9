package queries

import (
	"time"

	"github.com/google/uuid"
)

// DaySlots is the advisory availability listing for one service on one
// date. Slot values are "HH:MM" start times on the company grid.
type DaySlots struct {
	CompanyID   uuid.UUID `json:"company_id"`
	ServiceID   uuid.UUID `json:"service_id"`
	Date        string    `json:"date"`
	DurationMin int       `json:"duration_min"`
	Slots       []string  `json:"slots"`
}

type AppointmentView struct {
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
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	PriceCents    int64     `json:"price_cents"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
