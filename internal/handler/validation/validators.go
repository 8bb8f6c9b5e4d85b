package validation

import (
	"strings"

	"exoterior-booking/internal/domain/appointment"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register adds the booking rules to v.
func Register(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"notblank": NotBlank,
		"datestr":  DateString,
		"hhmm":     HourMinute,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// RegisterGin installs the rules on gin's default binding engine.
func RegisterGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return Register(v)
}

// New returns a standalone validator with the booking rules, for callers outside gin.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := Register(v); err != nil {
		panic(err)
	}
	return v
}

func NotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func DateString(fl validator.FieldLevel) bool {
	_, err := appointment.ParseDate(fl.Field().String())
	return err == nil
}

func HourMinute(fl validator.FieldLevel) bool {
	_, err := appointment.ParseTimeSlot(fl.Field().String())
	return err == nil
}
