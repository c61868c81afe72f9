//go:build e2e

package booking_test

import (
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"bookline/internal/handler/dto/response"
	"bookline/internal/pkg/jwt"
	"bookline/tests/common/dbtest"
	"bookline/tests/common/httptest"
	"bookline/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	bookingsURL     = "/api/bookings"
	slotsURL        = "/api/companies/%s/services/%s/slots?date=%s"
	appointmentsURL = "/api/appointments/%s"
)

type BookingSuite struct {
	e2e.SharedSuite
}

func TestBookingSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(BookingSuite))
}

type seededCompany struct {
	CompanyID  uuid.UUID
	ServiceID  uuid.UUID
	EmployeeID uuid.UUID
}

func (s *BookingSuite) seedSalon(t *testing.T) seededCompany {
	t.Helper()
	companyID := dbtest.CreateTestCompany(t, s.DB, "Corner Salon")
	serviceID := dbtest.CreateTestService(t, s.DB, companyID, "Haircut", 60)
	employeeID := dbtest.CreateTestEmployee(t, s.DB, companyID, serviceID, "Alex", 10)
	return seededCompany{CompanyID: companyID, ServiceID: serviceID, EmployeeID: employeeID}
}

func (s *BookingSuite) bookingBody(seed seededCompany, date, start string) map[string]any {
	return map[string]any{
		"company_id": seed.CompanyID,
		"service_id": seed.ServiceID,
		"date":       date,
		"start":      start,
		"customer": map[string]any{
			"name":  "Jordan Lee",
			"email": "jordan@example.com",
			"phone": "+1 555 0100",
		},
	}
}

func (s *BookingSuite) staffToken(t *testing.T, companyID uuid.UUID) string {
	t.Helper()
	svc := jwt.NewService(s.Config.Auth.JWTSecret)
	token, err := svc.SignToken(uuid.New(), companyID, "staff", time.Hour)
	require.NoError(t, err)
	return token
}

const testDate = "2026-09-07"

// =============================================================================
// TestAvailability - slot listing against real data
// =============================================================================

func (s *BookingSuite) TestAvailability() {
	s.Run("booked slots disappear from the listing", func() {
		t := s.T()
		seed := s.seedSalon(t)
		url := fmt.Sprintf(slotsURL, seed.CompanyID, seed.ServiceID, testDate)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, url, nil, nil)
		var before response.AvailabilityResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &before)
		require.Contains(t, before.Slots, "10:00")
		require.Contains(t, before.Slots, "10:30")

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			s.bookingBody(seed, testDate, "10:00"), nil)
		require.Equal(t, http.StatusCreated, w.Code, "booking failed: %s", w.Body.String())

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, url, nil, nil)
		var after response.AvailabilityResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &after)
		require.NotContains(t, after.Slots, "10:00")
		// The 60 minute service straddles the 10:30 grid point too.
		require.NotContains(t, after.Slots, "10:30")
		require.Contains(t, after.Slots, "11:00")
	})

	s.Run("unknown company returns 404", func() {
		t := s.T()
		seed := s.seedSalon(t)
		url := fmt.Sprintf(slotsURL, uuid.New(), seed.ServiceID, testDate)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, url, nil, nil)
		httptest.AssertErrorResponse(t, w, http.StatusNotFound, "Company not found")
	})
}

// =============================================================================
// TestSubmitBooking - booking flow against real data
// =============================================================================

func (s *BookingSuite) TestSubmitBooking() {
	s.Run("concurrent requests for one slot book exactly once", func() {
		t := s.T()
		seed := s.seedSalon(t)

		const workers = 8
		codes := make([]int, workers)
		var wg sync.WaitGroup
		for i := range workers {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				body := s.bookingBody(seed, testDate, "10:00")
				body["customer"] = map[string]any{
					"name":  fmt.Sprintf("Caller %d", i),
					"email": fmt.Sprintf("caller%d@example.com", i),
				}
				w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, body, nil)
				codes[i] = w.Code
			}(i)
		}
		wg.Wait()

		created, conflicted := 0, 0
		for _, code := range codes {
			switch code {
			case http.StatusCreated:
				created++
			case http.StatusConflict:
				conflicted++
			}
		}
		require.Equal(t, 1, created, "exactly one booking must win, codes: %v", codes)
		require.Equal(t, workers-1, conflicted, "the rest must conflict, codes: %v", codes)
		require.Equal(t, 1, dbtest.CountAppointments(t, s.DB, seed.EmployeeID, "booked"))
	})

	s.Run("same customer is deduplicated across bookings", func() {
		t := s.T()
		seed := s.seedSalon(t)

		for _, start := range []string{"09:00", "13:00"} {
			w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
				s.bookingBody(seed, testDate, start), nil)
			require.Equal(t, http.StatusCreated, w.Code, "booking at %s failed: %s", start, w.Body.String())
		}

		require.Equal(t, 1, dbtest.CountCustomers(t, s.DB, seed.CompanyID, "jordan@example.com"))
	})

	s.Run("idempotent retry replays the original booking", func() {
		t := s.T()
		seed := s.seedSalon(t)
		headers := map[string]string{"Idempotency-Key": uuid.New().String()}
		body := s.bookingBody(seed, testDate, "10:00")

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, body, headers)
		var first response.BookingResponse
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &first)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, body, headers)
		var second response.BookingResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &second)

		require.True(t, second.Replayed)
		diff := cmp.Diff(first, second, cmpopts.IgnoreFields(response.BookingResponse{}, "Replayed"))
		require.Empty(t, diff, "replay must return the original booking")
		require.Equal(t, 1, dbtest.CountAppointments(t, s.DB, seed.EmployeeID, "booked"))
	})

	s.Run("reusing a key with a different payload is rejected", func() {
		t := s.T()
		seed := s.seedSalon(t)
		headers := map[string]string{"Idempotency-Key": uuid.New().String()}

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			s.bookingBody(seed, testDate, "10:00"), headers)
		require.Equal(t, http.StatusCreated, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			s.bookingBody(seed, testDate, "14:00"), headers)
		httptest.AssertErrorResponse(t, w, http.StatusConflict, "already used")
	})

	s.Run("key claimed by a failed booking is free to retry", func() {
		t := s.T()
		seed := s.seedSalon(t)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			s.bookingBody(seed, testDate, "10:00"), nil)
		require.Equal(t, http.StatusCreated, w.Code)

		// The keyed attempt loses the slot and fails.
		headers := map[string]string{"Idempotency-Key": uuid.New().String()}
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			s.bookingBody(seed, testDate, "10:00"), headers)
		require.Equal(t, http.StatusConflict, w.Code)

		// The failure released the claim, so the same key books a free
		// slot instead of reporting the request as in progress.
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			s.bookingBody(seed, testDate, "11:00"), headers)
		require.Equal(t, http.StatusCreated, w.Code, "retry with the released key failed: %s", w.Body.String())
	})

	s.Run("off-grid start is rejected", func() {
		t := s.T()
		seed := s.seedSalon(t)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			s.bookingBody(seed, testDate, "10:10"), nil)
		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "Invalid booking request")
	})
}

// =============================================================================
// TestAppointmentLifecycle - staff operations over the booked appointment
// =============================================================================

func (s *BookingSuite) TestAppointmentLifecycle() {
	s.Run("cancelling frees the slot for rebooking", func() {
		t := s.T()
		seed := s.seedSalon(t)
		token := s.staffToken(t, seed.CompanyID)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			s.bookingBody(seed, testDate, "10:00"), nil)
		var booked response.BookingResponse
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &booked)

		cancelURL := fmt.Sprintf(appointmentsURL, booked.AppointmentID) + "/cancel"
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, cancelURL, nil,
			map[string]string{"Authorization": "Bearer " + token})
		require.Equal(t, http.StatusNoContent, w.Code, "cancel failed: %s", w.Body.String())

		// The same slot books again after the cancellation.
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			s.bookingBody(seed, testDate, "10:00"), nil)
		require.Equal(t, http.StatusCreated, w.Code, "rebooking failed: %s", w.Body.String())

		// A second cancel of the original hits the terminal state guard.
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, cancelURL, nil,
			map[string]string{"Authorization": "Bearer " + token})
		httptest.AssertErrorResponse(t, w, http.StatusConflict, "terminal state")
	})

	s.Run("a token from another company cannot touch the appointment", func() {
		t := s.T()
		seed := s.seedSalon(t)
		otherCompany := dbtest.CreateTestCompany(t, s.DB, "Rival Salon")
		foreign := map[string]string{"Authorization": "Bearer " + s.staffToken(t, otherCompany)}

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			s.bookingBody(seed, testDate, "10:00"), nil)
		var booked response.BookingResponse
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &booked)

		getURL := fmt.Sprintf(appointmentsURL, booked.AppointmentID)
		w = httptest.PerformRequest(t, s.Router, http.MethodGet, getURL, nil, foreign)
		httptest.AssertErrorResponse(t, w, http.StatusNotFound, "Appointment not found")

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, getURL+"/cancel", nil, foreign)
		httptest.AssertErrorResponse(t, w, http.StatusNotFound, "Appointment not found")

		// The right company still sees and cancels it.
		own := map[string]string{"Authorization": "Bearer " + s.staffToken(t, seed.CompanyID)}
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, getURL+"/cancel", nil, own)
		require.Equal(t, http.StatusNoContent, w.Code, "cancel failed: %s", w.Body.String())
	})

	s.Run("staff endpoints require a token", func() {
		t := s.T()
		seed := s.seedSalon(t)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			s.bookingBody(seed, testDate, "10:00"), nil)
		var booked response.BookingResponse
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &booked)

		getURL := fmt.Sprintf(appointmentsURL, booked.AppointmentID)
		w = httptest.PerformRequest(t, s.Router, http.MethodGet, getURL, nil, nil)
		require.Equal(t, http.StatusUnauthorized, w.Code)

		token := s.staffToken(t, seed.CompanyID)
		w = httptest.PerformRequest(t, s.Router, http.MethodGet, getURL, nil,
			map[string]string{"Authorization": "Bearer " + token})
		var view response.AppointmentResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &view)
		require.Equal(t, booked.AppointmentID, view.ID)
		require.Equal(t, "Haircut", view.ServiceName)
		require.Equal(t, "10:00", view.Start)
	})
}
