package response

import (
	"exoterior-booking/internal/domain/appointment"
	"exoterior-booking/internal/usecase/commands"
	"exoterior-booking/internal/usecase/queries"
)

type TakenSlotsResponse struct {
	Taken []string `json:"taken"`
}

type BookedResponse struct {
	Booked   bool   `json:"booked"`
	ID       string `json:"id,omitempty"`
	Replayed bool   `json:"replayed,omitempty"`
}

type SlotLabel struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type CalendarResponse struct {
	MinDate   string      `json:"minDate"`
	MaxDate   string      `json:"maxDate"`
	DaysAhead int         `json:"daysAhead"`
	TimeZone  string      `json:"timeZone"`
	Slots     []SlotLabel `json:"slots"`
}

type SubServiceResponse struct {
	ID          string `json:"id"`
	EstimateMin int    `json:"estimateMinEgp"`
	EstimateMax int    `json:"estimateMaxEgp"`
}

type MainServiceResponse struct {
	ID          string               `json:"id"`
	SubServices []SubServiceResponse `json:"subServices"`
}

type ServicesResponse struct {
	Services []MainServiceResponse `json:"services"`
}

// KeepaliveResponse.Store is false, "error" or true.
type KeepaliveResponse struct {
	OK    bool `json:"ok"`
	Store any  `json:"store"`
}

func FromTakenSlots(slots []appointment.TimeSlot) TakenSlotsResponse {
	taken := make([]string, 0, len(slots))
	for _, s := range slots {
		taken = append(taken, s.String())
	}
	return TakenSlotsResponse{Taken: taken}
}

func FromAdmissionResult(r *commands.AdmissionResult) BookedResponse {
	resp := BookedResponse{Booked: true, Replayed: r.Replayed}
	if r.Persisted {
		resp.ID = r.AppointmentID.String()
	}
	return resp
}

func FromCalendarView(v queries.CalendarView) CalendarResponse {
	slots := make([]SlotLabel, 0, len(v.Slots))
	for _, s := range v.Slots {
		slots = append(slots, SlotLabel{Start: s.Start.String(), End: s.End.String()})
	}
	return CalendarResponse{
		MinDate:   v.Window.Min.String(),
		MaxDate:   v.Window.Max.String(),
		DaysAhead: v.DaysAhead,
		TimeZone:  v.TimeZone,
		Slots:     slots,
	}
}

func FromServiceViews(views []queries.MainServiceView) ServicesResponse {
	mains := make([]MainServiceResponse, 0, len(views))
	for _, m := range views {
		subs := make([]SubServiceResponse, 0, len(m.SubServices))
		for _, s := range m.SubServices {
			subs = append(subs, SubServiceResponse{ID: s.ID, EstimateMin: s.EstimateMin, EstimateMax: s.EstimateMax})
		}
		mains = append(mains, MainServiceResponse{ID: m.ID, SubServices: subs})
	}
	return ServicesResponse{Services: mains}
}

func FromStoreStatus(status queries.StoreStatus) KeepaliveResponse {
	resp := KeepaliveResponse{OK: true}
	switch status {
	case queries.StoreReachable:
		resp.Store = true
	case queries.StoreUnreachable:
		resp.Store = "error"
	default:
		resp.Store = false
	}
	return resp
}
