//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"bookline/internal/domain/schedule"
	"bookline/internal/handler/api"
	resdto "bookline/internal/handler/dto/response"
	"bookline/internal/pkg/errs"
	"bookline/internal/usecase/commands"
	"bookline/tests/common/httptest"
	"bookline/tests/common/testutil"
	commandsmock "bookline/tests/mock/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BookingHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockBookingCommands
	handler      *api.BookingHandler
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.handler = api.NewBookingHandler(s.mockCommands)

	s.router.POST("/bookings", s.handler.SubmitBooking)
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

func (s *BookingHandlerTestSuite) validBody() map[string]any {
	return testutil.DtoMap(s.T(), map[string]any{
		"company_id": uuid.New(),
		"service_id": uuid.New(),
		"date":       "2026-09-01",
		"start":      "10:00",
		"customer": map[string]any{
			"name":  "Jordan Lee",
			"email": "jordan@example.com",
			"phone": "+1 555 0100",
		},
	})
}

func (s *BookingHandlerTestSuite) TestSubmitBooking() {
	url := "/bookings"

	result := &commands.SubmitBookingResult{
		AppointmentID: uuid.New(),
		EmployeeID:    uuid.New(),
		CustomerID:    uuid.New(),
		Slot:          schedule.Interval{Start: schedule.TimeOfDay(600), End: schedule.TimeOfDay(660)},
	}

	s.Run("success: returns 201 Created", func() {
		s.mockCommands.EXPECT().
			SubmitBooking(gomock.Any(), gomock.Any(), uuid.Nil).
			Return(result, nil).Times(1)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, s.validBody(), nil)

		var resp resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusCreated, &resp)
		s.Equal(result.AppointmentID, resp.AppointmentID)
		s.Equal("10:00", resp.Start)
		s.Equal("11:00", resp.End)
		s.False(resp.Replayed)
	})

	s.Run("success: replay returns 200 OK", func() {
		key := uuid.New()
		replayed := *result
		replayed.IsReplayed = true

		s.mockCommands.EXPECT().
			SubmitBooking(gomock.Any(), gomock.Any(), key).
			Return(&replayed, nil).Times(1)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, s.validBody(),
			map[string]string{"Idempotency-Key": key.String()})

		var resp resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &resp)
		s.True(resp.Replayed)
	})

	s.Run("malformed idempotency key returns 400", func() {
		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, s.validBody(),
			map[string]string{"Idempotency-Key": "not-a-uuid"})
		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "idempotency key")
	})

	s.Run("validation: missing and malformed fields return 400", func() {
		cases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing company_id", mutate: testutil.Field("company_id", nil)},
			{name: "missing service_id", mutate: testutil.Field("service_id", nil)},
			{name: "missing date", mutate: testutil.Field("date", nil)},
			{name: "missing start", mutate: testutil.Field("start", nil)},
			{name: "missing customer", mutate: testutil.Field("customer", nil)},
			{name: "bad date format", mutate: testutil.Field("date", "09/01/2026")},
			{name: "bad start format", mutate: testutil.Field("start", "10am")},
		}
		for _, c := range cases {
			s.Run(c.name, func() {
				body := s.validBody()
				c.mutate(body)
				w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, nil)
				s.Equal(http.StatusBadRequest, w.Code, "body: %s", w.Body.String())
			})
		}
	})

	s.Run("command errors map to status codes", func() {
		cases := []struct {
			name       string
			err        error
			expectCode int
			expectMsg  string
		}{
			{name: "validation", err: commands.ErrValidation, expectCode: http.StatusBadRequest, expectMsg: "Invalid booking request"},
			{name: "company not found", err: commands.ErrCompanyNotFound, expectCode: http.StatusNotFound, expectMsg: "Company not found"},
			{name: "service not found", err: commands.ErrServiceNotFound, expectCode: http.StatusNotFound, expectMsg: "Service not found"},
			{name: "employee not eligible", err: commands.ErrEmployeeNotEligible, expectCode: http.StatusNotFound, expectMsg: "does not offer"},
			{name: "no availability", err: commands.ErrNoAvailability, expectCode: http.StatusConflict, expectMsg: "refresh availability"},
			{name: "slot conflict", err: commands.ErrSlotConflict, expectCode: http.StatusConflict, expectMsg: "refresh availability"},
			{name: "booking in progress", err: commands.ErrBookingInProgress, expectCode: http.StatusConflict, expectMsg: "being processed"},
			{name: "idempotency key reused", err: commands.ErrIdempotencyKeyReused, expectCode: http.StatusConflict, expectMsg: "already used"},
			{name: "persistence failure", err: errs.Mark(errs.New("db down"), commands.ErrPersistence), expectCode: http.StatusInternalServerError, expectMsg: "Internal server error"},
		}
		for _, c := range cases {
			s.Run(c.name, func() {
				s.mockCommands.EXPECT().
					SubmitBooking(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, c.err).Times(1)

				w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, s.validBody(), nil)
				httptest.AssertErrorResponse(s.T(), w, c.expectCode, c.expectMsg)
			})
		}
	})
}
