package form

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Required returns the message shown under an empty required field.
func Required(label string) string {
	return label + " is required"
}

// Email accepts only syntactically valid e-mail addresses.
func Email(message string) Rule {
	return func(value string, _ Record) string {
		if err := validate.Var(value, "email"); err != nil {
			return message
		}
		return ""
	}
}

// Match requires the value to equal the value of another field.
func Match(other, message string) Rule {
	return func(value string, rec Record) string {
		if value != rec[other] {
			return message
		}
		return ""
	}
}

// OneOf requires the value to be one of the allowed options.
func OneOf(options []string, message string) Rule {
	return func(value string, _ Record) string {
		if !slices.Contains(options, value) {
			return message
		}
		return ""
	}
}

// Range requires a decimal number within [min, max].
func Range(min, max float64) Rule {
	return func(value string, _ Record) string {
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return "must be a number"
		}
		if !(n >= min && n <= max) {
			return fmt.Sprintf("must be between %g and %g", min, max)
		}
		return ""
	}
}
