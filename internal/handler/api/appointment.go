package api

import (
	"errors"
	"net/http"
	"strings"

	"exoterior-booking/internal/domain/appointment"
	reqdto "exoterior-booking/internal/handler/dto/request"
	resdto "exoterior-booking/internal/handler/dto/response"
	"exoterior-booking/internal/handler/httperr"
	"exoterior-booking/internal/pkg/errs"
	"exoterior-booking/internal/usecase/commands"
	"exoterior-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const IdempotencyKeyHeader = "Idempotency-Key"

var errInvalidIdempotencyKey = errs.New("idempotency key must be a UUID")

type AppointmentHandler struct {
	admission    commands.AdmissionCommands
	availability queries.AvailabilityQueries
}

func NewAppointmentHandler(admission commands.AdmissionCommands, availability queries.AvailabilityQueries) *AppointmentHandler {
	return &AppointmentHandler{
		admission:    admission,
		availability: availability,
	}
}

// @Summary Taken slots
// @Description List the start times already booked on a date. Malformed or missing dates yield an empty list.
// @Tags appointments
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD)"
// @Success 200 {object} resdto.TakenSlotsResponse
// @Router /api/slots [get]
func (h *AppointmentHandler) TakenSlots(c *gin.Context) {
	var q reqdto.SlotsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusOK, resdto.TakenSlotsResponse{Taken: []string{}})
		return
	}

	slots := h.availability.TakenSlots(c.Request.Context(), q.Date)
	c.JSON(http.StatusOK, resdto.FromTakenSlots(slots))
}

// @Summary Book appointment
// @Description Reserve one (date, time slot). An optional Idempotency-Key makes retries safe.
// @Tags appointments
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "UUID identifying this booking attempt"
// @Param request body reqdto.SubmitAppointmentRequest true "Booking request"
// @Success 201 {object} resdto.BookedResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Failure 429 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /api/appointments [post]
func (h *AppointmentHandler) Submit(c *gin.Context) {
	idempotencyKey, err := h.getIdempotencyKey(c)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid Idempotency-Key header")
		return
	}

	var req reqdto.SubmitAppointmentRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, bindErrorMessage(bindErr))
		return
	}

	result, err := h.admission.Submit(c.Request.Context(), commands.SubmitAppointmentInput{
		Date:        req.Date,
		TimeSlot:    req.TimeSlot,
		FullName:    req.FullName,
		Phone:       req.Phone,
		AddressLine: req.AddressLine,
		Governorate: req.Governorate,
		SubServices: req.SubServices,
		Notes:       req.Notes,
	}, idempotencyKey)
	if err != nil {
		switch {
		case errs.Is(err, commands.ErrOutsideServiceArea):
			httperr.AbortWithError(c, http.StatusForbidden, err, "Service available in Cairo only")
		case errs.Is(err, commands.ErrValidation):
			httperr.AbortWithError(c, http.StatusBadRequest, err, validationMessage(err))
		case errs.Is(err, commands.ErrSlotTaken):
			httperr.AbortWithConflict(c, http.StatusConflict, err, "Slot already booked")
		case errs.Is(err, commands.ErrIdempotencyKeyReused):
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Idempotency-Key was already used for a different booking")
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to book")
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromAdmissionResult(result))
}

// absent header means no deduplication
func (h *AppointmentHandler) getIdempotencyKey(c *gin.Context) (*uuid.UUID, error) {
	keyStr := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	if keyStr == "" {
		return nil, nil
	}

	key, err := uuid.Parse(keyStr)
	if err != nil || key == uuid.Nil {
		return nil, errInvalidIdempotencyKey
	}
	return &key, nil
}

// bindErrorMessage tells a malformed body apart from a well-formed one missing fields.
func bindErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return "Missing required fields"
	}
	return "Invalid body"
}

func validationMessage(err error) string {
	switch {
	case errs.Is(err, appointment.ErrMissingRequiredFields):
		return "Missing required fields"
	case errs.Is(err, appointment.ErrInvalidPhone):
		return "Invalid phone number"
	case errs.Is(err, appointment.ErrInvalidDate):
		return "Invalid date"
	case errs.Is(err, appointment.ErrDateBeforeWindow):
		return "Date is before the first bookable day"
	case errs.Is(err, appointment.ErrDateAfterWindow):
		return "Date is beyond the booking window"
	case errs.Is(err, appointment.ErrInvalidTimeSlot):
		return "Invalid time slot"
	case errs.Is(err, appointment.ErrNoServices):
		return "Select at least one service"
	case errs.Is(err, appointment.ErrUnknownService):
		return "Unknown service"
	default:
		return "Invalid request"
	}
}
