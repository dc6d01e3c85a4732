package utils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// NewValidator returns a validator that reports fields by their json name.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// FieldError is the first failing field of a validated struct.
type FieldError struct {
	Field string
	Tag   string
	Param string
}

// FirstFieldError extracts the first field error from a validator result.
// ok is false for errors that did not come from field validation.
func FirstFieldError(err error) (fe FieldError, ok bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return FieldError{}, false
	}
	e := verrs[0]
	return FieldError{Field: e.Field(), Tag: e.Tag(), Param: e.Param()}, true
}

// Message renders a short human readable description of the failure.
func (f FieldError) Message() string {
	switch f.Tag {
	case "required":
		return fmt.Sprintf("%s is required", f.Field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", f.Field)
	case "datetime":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", f.Field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", f.Field, f.Param)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", f.Field, f.Param)
	}
	return fmt.Sprintf("%s is invalid", f.Field)
}
