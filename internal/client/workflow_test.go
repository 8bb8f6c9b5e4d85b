//go:build unit

package client_test

import (
	"context"
	"errors"
	"testing"

	"exoterior-booking/internal/client"
	"exoterior-booking/internal/domain/appointment"
	reqdto "exoterior-booking/internal/handler/dto/request"
	"exoterior-booking/internal/infra/catalog"
	"exoterior-booking/internal/pkg/clock"
	"exoterior-booking/internal/pkg/errs"
	"exoterior-booking/tests/common/builder"
	clientmock "exoterior-booking/tests/mock/client"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

var bookingDate = appointment.MustParseDate("2026-03-12")

type WorkflowTestSuite struct {
	suite.Suite
	ctx      context.Context
	mockCtrl *gomock.Controller
	mockAPI  *clientmock.MockBookingAPI
	workflow *client.Workflow
}

func (s *WorkflowTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.mockCtrl = gomock.NewController(s.T())
	s.mockAPI = clientmock.NewMockBookingAPI(s.mockCtrl)
	policy := appointment.NewCalendarPolicy(clock.NewMockClock(builder.FixedNow), builder.CairoLocation())
	s.workflow = client.NewWorkflow(s.mockAPI, policy, catalog.Default())
}

func (s *WorkflowTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestWorkflowSuite(t *testing.T) {
	suite.Run(t, new(WorkflowTestSuite))
}

func validDetails() client.Details {
	return client.Details{
		FullName:    "Mona Hassan",
		Phone:       "01012345678",
		AddressLine: "12 Road 9, Maadi",
		Governorate: "cairo",
		SubServices: []string{"facade_wash", "window_cleaning"},
	}
}

// fillDraft selects the date and slot with nothing occupied, then sets details.
func (s *WorkflowTestSuite) fillDraft(slot appointment.TimeSlot) {
	s.mockAPI.EXPECT().TakenSlots(gomock.Any(), bookingDate).Return([]appointment.TimeSlot{}, nil).Times(1)
	_, err := s.workflow.SelectDate(s.ctx, bookingDate)
	s.Require().NoError(err)
	s.Require().NoError(s.workflow.SelectSlot(slot))
	s.Require().NoError(s.workflow.SetDetails(validDetails()))
}

func (s *WorkflowTestSuite) TestSelectDate() {
	s.Run("shows free and occupied slots", func() {
		s.mockAPI.EXPECT().TakenSlots(gomock.Any(), bookingDate).
			Return([]appointment.TimeSlot{"13:00", "09:00"}, nil).Times(1)

		view, err := s.workflow.SelectDate(s.ctx, bookingDate)
		s.Require().NoError(err)
		s.Equal([]appointment.TimeSlot{"09:00", "13:00"}, view.Occupied)
		s.Len(view.Free, 6)
		s.NotContains(view.Free, appointment.TimeSlot("09:00"))
	})

	s.Run("outside the window is refused without a lookup", func() {
		s.mockAPI.EXPECT().TakenSlots(gomock.Any(), gomock.Any()).Times(0)

		_, err := s.workflow.SelectDate(s.ctx, appointment.MustParseDate("2026-05-10"))
		s.True(errs.Is(err, client.ErrDateUnavailable))
		_, err = s.workflow.SelectDate(s.ctx, appointment.MustParseDate("2026-03-09"))
		s.True(errs.Is(err, client.ErrDateUnavailable))
	})

	s.Run("lookup failure degrades to the last known state", func() {
		s.mockAPI.EXPECT().TakenSlots(gomock.Any(), bookingDate).Return(nil, errors.New("offline")).Times(1)

		view, err := s.workflow.SelectDate(s.ctx, bookingDate)
		s.Require().NoError(err)
		s.Equal([]appointment.TimeSlot{"09:00", "13:00"}, view.Occupied)
	})

	s.Run("changing date clears the slot", func() {
		s.mockAPI.EXPECT().TakenSlots(gomock.Any(), gomock.Any()).Return(nil, nil).Times(2)

		_, err := s.workflow.SelectDate(s.ctx, bookingDate)
		s.Require().NoError(err)
		s.Require().NoError(s.workflow.SelectSlot("10:00"))

		_, err = s.workflow.SelectDate(s.ctx, bookingDate.AddDays(1))
		s.Require().NoError(err)
		s.Empty(s.workflow.Draft().TimeSlot)
	})
}

func (s *WorkflowTestSuite) TestSelectSlot() {
	s.True(errs.Is(s.workflow.SelectSlot("10:00"), client.ErrNoDateSelected))

	s.mockAPI.EXPECT().TakenSlots(gomock.Any(), bookingDate).Return([]appointment.TimeSlot{"11:00"}, nil).Times(1)
	_, err := s.workflow.SelectDate(s.ctx, bookingDate)
	s.Require().NoError(err)

	s.True(errs.Is(s.workflow.SelectSlot("08:00"), client.ErrSlotUnknown))
	s.True(errs.Is(s.workflow.SelectSlot("11:00"), client.ErrSlotOccupied))
	s.NoError(s.workflow.SelectSlot("12:00"))
	s.Equal("12:00", s.workflow.Draft().TimeSlot)

	s.workflow.ClearDate()
	s.Empty(s.workflow.Draft().Date)
	s.Empty(s.workflow.Draft().TimeSlot)
}

func (s *WorkflowTestSuite) TestEstimate() {
	s.Require().NoError(s.workflow.SetDetails(validDetails()))

	minEGP, maxEGP, ok := s.workflow.Estimate()
	s.True(ok)
	s.Equal(2100, minEGP)
	s.Equal(5300, maxEGP)
}

func (s *WorkflowTestSuite) TestSubmit_Success() {
	s.fillDraft("10:00")

	s.mockAPI.EXPECT().TakenSlots(gomock.Any(), bookingDate).Return([]appointment.TimeSlot{"09:00"}, nil).Times(1)
	s.mockAPI.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Not(gomock.Nil())).
		DoAndReturn(func(_ context.Context, req reqdto.SubmitAppointmentRequest, key *uuid.UUID) (*client.SubmitResult, error) {
			s.Equal("2026-03-12", req.Date)
			s.Equal("10:00", req.TimeSlot)
			s.Require().NotNil(req.AddressLine)
			s.Equal("12 Road 9, Maadi", *req.AddressLine)
			s.Equal([]string{"facade_wash", "window_cleaning"}, req.SubServices)
			s.NotEqual(uuid.Nil, *key)
			return &client.SubmitResult{Outcome: client.OutcomeReserved, ID: "abc"}, nil
		}).Times(1)

	outcome, err := s.workflow.Submit(s.ctx)
	s.Require().NoError(err)
	s.Equal(client.OutcomeReserved, outcome)
	s.Equal(client.PhaseConfirmed, s.workflow.Phase())
	s.Require().NotNil(s.workflow.Confirmation())
	s.Equal("abc", s.workflow.Confirmation().ID)
	s.Equal(client.BookingDraft{}, s.workflow.Draft())

	_, err = s.workflow.Submit(s.ctx)
	s.True(errs.Is(err, client.ErrWrongPhase))

	s.workflow.Reset()
	s.Equal(client.PhaseEditing, s.workflow.Phase())
	s.Nil(s.workflow.Confirmation())
}

func (s *WorkflowTestSuite) TestSubmit_IncompleteDraft() {
	s.mockAPI.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := s.workflow.Submit(s.ctx)
	s.True(errs.Is(err, client.ErrIncompleteDraft))

	s.fillDraft("10:00")
	details := validDetails()
	details.SubServices = nil
	s.Require().NoError(s.workflow.SetDetails(details))

	_, err = s.workflow.Submit(s.ctx)
	s.True(errs.Is(err, client.ErrIncompleteDraft))
	s.Equal(client.PhaseEditing, s.workflow.Phase())
}

func (s *WorkflowTestSuite) TestSubmit_PrecheckFindsSlotTaken() {
	s.fillDraft("10:00")

	s.mockAPI.EXPECT().TakenSlots(gomock.Any(), bookingDate).Return([]appointment.TimeSlot{"10:00"}, nil).Times(1)
	s.mockAPI.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	outcome, err := s.workflow.Submit(s.ctx)
	s.Require().NoError(err)
	s.Equal(client.OutcomeSlotTaken, outcome)
	s.Equal(client.PhaseEditing, s.workflow.Phase())
	s.Empty(s.workflow.Draft().TimeSlot)
	s.True(errs.Is(s.workflow.SelectSlot("10:00"), client.ErrSlotOccupied))
}

func (s *WorkflowTestSuite) TestSubmit_ServerReportsConflict() {
	s.fillDraft("10:00")

	s.mockAPI.EXPECT().TakenSlots(gomock.Any(), bookingDate).Return(nil, nil).Times(1)
	s.mockAPI.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&client.SubmitResult{Outcome: client.OutcomeSlotTaken, Message: "Slot already booked"}, nil).Times(1)

	outcome, err := s.workflow.Submit(s.ctx)
	s.Require().NoError(err)
	s.Equal(client.OutcomeSlotTaken, outcome)
	s.Equal("Slot already booked", s.workflow.LastMessage())
	s.Empty(s.workflow.Draft().TimeSlot)
	s.True(errs.Is(s.workflow.SelectSlot("10:00"), client.ErrSlotOccupied))
}

func (s *WorkflowTestSuite) TestSubmit_StorageFailureKeepsDraft() {
	s.fillDraft("10:00")

	var keys []uuid.UUID
	var requests []reqdto.SubmitAppointmentRequest
	record := func(_ context.Context, req reqdto.SubmitAppointmentRequest, key *uuid.UUID) {
		requests = append(requests, req)
		keys = append(keys, *key)
	}

	gomock.InOrder(
		s.mockAPI.EXPECT().TakenSlots(gomock.Any(), bookingDate).Return(nil, nil),
		s.mockAPI.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any()).Do(record).
			Return(&client.SubmitResult{Outcome: client.OutcomeStorageFailure, Message: "Failed to book"}, nil),
		s.mockAPI.EXPECT().TakenSlots(gomock.Any(), bookingDate).Return(nil, nil),
		s.mockAPI.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any()).Do(record).
			Return(&client.SubmitResult{Outcome: client.OutcomeReserved, ID: "abc"}, nil),
	)

	outcome, err := s.workflow.Submit(s.ctx)
	s.Require().NoError(err)
	s.Equal(client.OutcomeStorageFailure, outcome)
	s.Equal("Failed to book", s.workflow.LastMessage())
	s.Equal(client.PhaseEditing, s.workflow.Phase())
	s.Equal("2026-03-12", s.workflow.Draft().Date)
	s.Equal("10:00", s.workflow.Draft().TimeSlot)
	s.Equal("Mona Hassan", s.workflow.Draft().FullName)
	s.Equal([]string{"facade_wash", "window_cleaning"}, s.workflow.Draft().SubServices)

	// a storage failure is not a conflict: the slot stays selectable
	s.NoError(s.workflow.SelectSlot("10:00"))

	outcome, err = s.workflow.Submit(s.ctx)
	s.Require().NoError(err)
	s.Equal(client.OutcomeReserved, outcome)

	s.Require().Len(keys, 2)
	s.Equal(keys[0], keys[1])
	s.Equal(requests[0], requests[1])
}

func (s *WorkflowTestSuite) TestSubmit_RetryAfterUnknownOutcomeReusesKey() {
	s.fillDraft("10:00")

	var keys []uuid.UUID
	record := func(_ context.Context, _ reqdto.SubmitAppointmentRequest, key *uuid.UUID) {
		keys = append(keys, *key)
	}

	gomock.InOrder(
		s.mockAPI.EXPECT().TakenSlots(gomock.Any(), bookingDate).Return(nil, nil),
		s.mockAPI.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any()).Do(record).Return(nil, errors.New("timeout")),
		// the first attempt did land, so the slot now shows as occupied
		s.mockAPI.EXPECT().TakenSlots(gomock.Any(), bookingDate).Return([]appointment.TimeSlot{"10:00"}, nil),
		s.mockAPI.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any()).Do(record).
			Return(&client.SubmitResult{Outcome: client.OutcomeReserved, ID: "abc", Replayed: true}, nil),
	)

	_, err := s.workflow.Submit(s.ctx)
	s.Require().Error(err)
	s.Equal(client.PhaseEditing, s.workflow.Phase())
	s.Equal("10:00", s.workflow.Draft().TimeSlot)

	outcome, err := s.workflow.Submit(s.ctx)
	s.Require().NoError(err)
	s.Equal(client.OutcomeReserved, outcome)
	s.True(s.workflow.Confirmation().Replayed)

	s.Require().Len(keys, 2)
	s.Equal(keys[0], keys[1])
}

func (s *WorkflowTestSuite) TestSubmit_EditAfterFailureUsesNewKey() {
	s.fillDraft("10:00")

	var keys []uuid.UUID
	s.mockAPI.EXPECT().TakenSlots(gomock.Any(), bookingDate).Return(nil, nil).Times(2)
	s.mockAPI.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, _ reqdto.SubmitAppointmentRequest, key *uuid.UUID) { keys = append(keys, *key) }).
		Return(&client.SubmitResult{Outcome: client.OutcomeValidationError, Message: "Invalid phone number"}, nil).Times(2)

	_, err := s.workflow.Submit(s.ctx)
	s.Require().NoError(err)
	s.Equal("Invalid phone number", s.workflow.LastMessage())

	details := validDetails()
	details.Phone = "01198765432"
	s.Require().NoError(s.workflow.SetDetails(details))
	_, err = s.workflow.Submit(s.ctx)
	s.Require().NoError(err)

	s.Require().Len(keys, 2)
	s.NotEqual(keys[0], keys[1])
}
