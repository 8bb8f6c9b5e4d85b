package client

//go:generate mockgen -source=api.go -destination=../../tests/mock/client/api.go -package=clientmock

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"exoterior-booking/internal/domain/appointment"
	reqdto "exoterior-booking/internal/handler/dto/request"
	resdto "exoterior-booking/internal/handler/dto/response"
	"exoterior-booking/internal/handler/httperr"
	"exoterior-booking/internal/pkg/errs"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Outcome string

const (
	OutcomeReserved        Outcome = "reserved"
	OutcomeSlotTaken       Outcome = "slot_taken"
	OutcomeValidationError Outcome = "validation_error"
	OutcomeStorageFailure  Outcome = "storage_failure"
	OutcomeRateLimited     Outcome = "rate_limited"
)

// ErrUnexpectedResponse covers statuses the booking API never sends.
var ErrUnexpectedResponse = errs.New("unexpected booking API response")

type SubmitResult struct {
	Outcome  Outcome
	ID       string
	Replayed bool
	Message  string
}

// BookingAPI is the network surface the workflow talks to. A returned error means the
// outcome is unknown; every answered request is a SubmitResult.
type BookingAPI interface {
	TakenSlots(ctx context.Context, date appointment.Date) ([]appointment.TimeSlot, error)
	Submit(ctx context.Context, req reqdto.SubmitAppointmentRequest, idempotencyKey *uuid.UUID) (*SubmitResult, error)
}

type HTTPBookingAPI struct {
	baseURL string
	http    *http.Client
}

func NewHTTPBookingAPI(baseURL string, timeout time.Duration) *HTTPBookingAPI {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPBookingAPI{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (a *HTTPBookingAPI) TakenSlots(ctx context.Context, date appointment.Date) ([]appointment.TimeSlot, error) {
	u := a.baseURL + "/api/slots?" + url.Values{"date": {date.String()}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errs.Wrap(err, "build slots request")
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return nil, errs.Wrap(err, "fetch taken slots")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errs.Wrapf(ErrUnexpectedResponse, "slots status %d", resp.StatusCode)
	}

	var body resdto.TakenSlotsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errs.Wrap(err, "decode taken slots")
	}

	slots := make([]appointment.TimeSlot, 0, len(body.Taken))
	for _, s := range body.Taken {
		slots = append(slots, appointment.TimeSlot(s))
	}
	return slots, nil
}

func (a *HTTPBookingAPI) Submit(ctx context.Context, body reqdto.SubmitAppointmentRequest, idempotencyKey *uuid.UUID) (*SubmitResult, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errs.Wrap(err, "encode booking request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/api/appointments", bytes.NewReader(payload))
	if err != nil {
		return nil, errs.Wrap(err, "build booking request")
	}
	req.Header.Set("Content-Type", "application/json")
	if idempotencyKey != nil {
		req.Header.Set("Idempotency-Key", idempotencyKey.String())
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return nil, errs.Wrap(err, "submit booking")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.Wrap(err, "read booking response")
	}

	if resp.StatusCode == http.StatusCreated {
		var booked resdto.BookedResponse
		if err := json.Unmarshal(raw, &booked); err != nil {
			return nil, errs.Wrap(err, "decode booking response")
		}
		return &SubmitResult{Outcome: OutcomeReserved, ID: booked.ID, Replayed: booked.Replayed}, nil
	}

	var rejection httperr.Response
	_ = json.Unmarshal(raw, &rejection)

	switch resp.StatusCode {
	case http.StatusConflict:
		return &SubmitResult{Outcome: OutcomeSlotTaken, Message: rejection.Error}, nil
	case http.StatusBadRequest, http.StatusForbidden, http.StatusUnprocessableEntity:
		return &SubmitResult{Outcome: OutcomeValidationError, Message: rejection.Error}, nil
	case http.StatusTooManyRequests:
		return &SubmitResult{Outcome: OutcomeRateLimited, Message: rejection.Error}, nil
	case http.StatusInternalServerError:
		return &SubmitResult{Outcome: OutcomeStorageFailure, Message: rejection.Error}, nil
	default:
		return nil, errs.Wrapf(ErrUnexpectedResponse, "booking status %d: %s", resp.StatusCode, rejection.Error)
	}
}
