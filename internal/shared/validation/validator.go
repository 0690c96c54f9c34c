// Package validation builds the request validator shared by all controllers.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Mobile money numbers in Benin: +229 followed by 8 to 10 digits.
var bjPhonePattern = regexp.MustCompile(`^\+229\d{8,10}$`)

// NormalizePhone strips every whitespace character from a phone number
func NormalizePhone(phone string) string {
	return strings.Join(strings.Fields(phone), "")
}

// IsBeninPhone reports whether phone is a mobile-money compatible Benin number
func IsBeninPhone(phone string) bool {
	return bjPhonePattern.MatchString(NormalizePhone(phone))
}

// New returns a validator that reports json field names and knows the bjphone and hhmm rules
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("bjphone", func(fl validator.FieldLevel) bool {
		return IsBeninPhone(fl.Field().String())
	})
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return hhmmPattern.MatchString(fl.Field().String())
	})
	return v
}

var hhmmPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// Messages flattens validator errors into field -> message
func Messages(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": err.Error()}
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "bjphone":
		return "must be a Benin number like +22997000000"
	case "hhmm":
		return "must be a time like 08:30"
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "is invalid"
	}
}
