package request

import (
	"strings"
	"time"

	"bookline/internal/domain/schedule"
	"bookline/internal/usecase/commands"

	"github.com/google/uuid"
)

type SubmitBookingRequest struct {
	CompanyID  uuid.UUID  `json:"company_id" binding:"required"`
	ServiceID  uuid.UUID  `json:"service_id" binding:"required"`
	Date       string     `json:"date" binding:"required"`
	Start      string     `json:"start" binding:"required"`
	EmployeeID *uuid.UUID `json:"employee_id,omitempty"`
	Customer   struct {
		Name  string `json:"name" binding:"required"`
		Email string `json:"email" binding:"required"`
		Phone string `json:"phone,omitempty"`
	} `json:"customer" binding:"required"`
	Notes         string `json:"notes,omitempty"`
	PaymentStatus string `json:"payment_status,omitempty"`
}

// ToParams parses the wire formats (date as 2006-01-02, start as HH:MM)
// into command parameters. Format errors surface here as 400s before
// the command layer runs.
func (r SubmitBookingRequest) ToParams() (commands.SubmitBookingParams, error) {
	date, err := time.Parse(time.DateOnly, r.Date)
	if err != nil {
		return commands.SubmitBookingParams{}, err
	}

	start, err := schedule.ParseTimeOfDay(r.Start)
	if err != nil {
		return commands.SubmitBookingParams{}, err
	}

	return commands.SubmitBookingParams{
		CompanyID:           r.CompanyID,
		ServiceID:           r.ServiceID,
		Date:                date,
		Start:               start,
		PreferredEmployeeID: r.EmployeeID,
		CustomerName:        strings.TrimSpace(r.Customer.Name),
		CustomerEmail:       strings.TrimSpace(r.Customer.Email),
		CustomerPhone:       strings.TrimSpace(r.Customer.Phone),
		Notes:               r.Notes,
		PaymentStatus:       r.PaymentStatus,
	}, nil
}
