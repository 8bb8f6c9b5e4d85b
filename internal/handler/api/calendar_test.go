//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"exoterior-booking/internal/domain/appointment"
	"exoterior-booking/internal/handler/api"
	resdto "exoterior-booking/internal/handler/dto/response"
	"exoterior-booking/internal/usecase/queries"
	"exoterior-booking/tests/common/httptest"
	queriesmock "exoterior-booking/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type CalendarHandlerTestSuite struct {
	suite.Suite
	router           *gin.Engine
	mockCtrl         *gomock.Controller
	mockAvailability *queriesmock.MockAvailabilityQueries
	mockCatalog      *queriesmock.MockCatalogQueries
	mockStatus       *queriesmock.MockStatusQueries
}

func (s *CalendarHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockAvailability = queriesmock.NewMockAvailabilityQueries(s.mockCtrl)
	s.mockCatalog = queriesmock.NewMockCatalogQueries(s.mockCtrl)
	s.mockStatus = queriesmock.NewMockStatusQueries(s.mockCtrl)

	calendar := api.NewCalendarHandler(s.mockAvailability, s.mockCatalog)
	keepalive := api.NewKeepaliveHandler(s.mockStatus)

	s.router.GET("/api/calendar", calendar.Calendar)
	s.router.GET("/api/services", calendar.Services)
	s.router.GET("/api/keepalive", keepalive.Keepalive)
}

func (s *CalendarHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestCalendarHandlerSuite(t *testing.T) {
	suite.Run(t, new(CalendarHandlerTestSuite))
}

func (s *CalendarHandlerTestSuite) TestCalendar() {
	s.mockAvailability.EXPECT().Calendar(gomock.Any()).Return(queries.CalendarView{
		Window: appointment.BookingWindow{
			Min:   appointment.MustParseDate("2026-03-10"),
			Max:   appointment.MustParseDate("2026-05-09"),
			Slots: []appointment.TimeSlot{"09:00", "10:00"},
		},
		DaysAhead: 60,
		TimeZone:  "Africa/Cairo",
		Slots: []queries.SlotRange{
			{Start: "09:00", End: "10:00"},
			{Start: "10:00", End: "11:00"},
		},
	}).Times(1)

	rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/calendar", nil, "")

	var resp resdto.CalendarResponse
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resp)
	s.Equal(resdto.CalendarResponse{
		MinDate:   "2026-03-10",
		MaxDate:   "2026-05-09",
		DaysAhead: 60,
		TimeZone:  "Africa/Cairo",
		Slots: []resdto.SlotLabel{
			{Start: "09:00", End: "10:00"},
			{Start: "10:00", End: "11:00"},
		},
	}, resp)
}

func (s *CalendarHandlerTestSuite) TestServices() {
	s.mockCatalog.EXPECT().Services(gomock.Any()).Return([]queries.MainServiceView{
		{ID: "cleaning", SubServices: []queries.SubServiceView{{ID: "facade_wash", EstimateMin: 1500, EstimateMax: 3500}}},
	}).Times(1)

	rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/services", nil, "")

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"services":[{"id":"cleaning","subServices":[{"id":"facade_wash","estimateMinEgp":1500,"estimateMaxEgp":3500}]}]}`, rec.Body.String())
}

func (s *CalendarHandlerTestSuite) TestKeepalive() {
	cases := []struct {
		status queries.StoreStatus
		body   string
	}{
		{status: queries.StoreReachable, body: `{"ok":true,"store":true}`},
		{status: queries.StoreUnreachable, body: `{"ok":true,"store":"error"}`},
		{status: queries.StoreNotConfigured, body: `{"ok":true,"store":false}`},
	}
	for _, tc := range cases {
		s.Run(tc.body, func() {
			s.mockStatus.EXPECT().StoreStatus(gomock.Any()).Return(tc.status).Times(1)

			rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/keepalive", nil, "")

			s.Equal(http.StatusOK, rec.Code)
			s.JSONEq(tc.body, rec.Body.String())
		})
	}
}
