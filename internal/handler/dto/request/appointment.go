package request

// SubmitAppointmentRequest only checks presence; content rules and their order belong to admission.
// AddressLine is a pointer because an empty address is allowed but an absent key is not.
type SubmitAppointmentRequest struct {
	Date        string   `json:"date" binding:"required"`
	TimeSlot    string   `json:"timeSlot" binding:"required"`
	FullName    string   `json:"fullName" binding:"required,notblank"`
	Phone       string   `json:"phone" binding:"required"`
	AddressLine *string  `json:"addressLine" binding:"required"`
	Governorate string   `json:"governorate,omitempty"`
	SubServices []string `json:"subServices"`
	Notes       string   `json:"notes,omitempty"`
}

type SlotsQuery struct {
	Date string `form:"date" binding:"required,datestr"`
}
