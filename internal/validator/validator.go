package validator

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var resetTimeRe = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)

// New creates a new validator instance with custom validations registered.
// This ensures consistent validation across the application and tests.
func New() *validator.Validate {
	v := validator.New()

	// Register custom "notblank" validator - rejects whitespace-only strings
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		str, ok := fl.Field().Interface().(string)
		if !ok {
			return true // Not a string, let other validators handle it
		}
		return strings.TrimSpace(str) != ""
	})

	// Register custom "resettime" validator - accepts "HH:MM" times of day.
	// The engine defaults a malformed stored value to midnight, but rejecting
	// bad input at the config-update boundary keeps operator typos visible.
	_ = v.RegisterValidation("resettime", func(fl validator.FieldLevel) bool {
		str, ok := fl.Field().Interface().(string)
		if !ok {
			return true
		}
		return resetTimeRe.MatchString(str)
	})

	return v
}
