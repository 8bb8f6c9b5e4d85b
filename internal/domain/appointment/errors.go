package appointment

import "errors"

var (
	ErrMissingRequiredFields = errors.New("missing required fields")
	ErrOutsideServiceArea    = errors.New("governorate outside service area")
	ErrInvalidPhone          = errors.New("invalid phone number")
	ErrInvalidDate           = errors.New("invalid date")
	ErrDateBeforeWindow      = errors.New("date is before the first bookable date")
	ErrDateAfterWindow       = errors.New("date is beyond the booking window")
	ErrInvalidTimeSlot       = errors.New("invalid time slot")
	ErrNoServices            = errors.New("at least one service is required")
	ErrUnknownService        = errors.New("unknown service")

	ErrInvalidSlotGrid = errors.New("invalid slot grid")
	ErrInvalidCatalog  = errors.New("invalid service catalog")
)
