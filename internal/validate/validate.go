// Package validate checks user input with go-playground/validator and
// reports the first failing field as an *Error.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/abhisek/learnlink/internal/store"
)

var v *validator.Validate

func init() {
	v = validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their json name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return store.Role(fl.Field().String()).Valid()
	})
}

// Error is an input validation failure on a single field.
type Error struct {
	Field string
	Rule  string
	Param string
}

func (e *Error) Error() string {
	switch e.Rule {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", e.Field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", e.Field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", e.Field, e.Param)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", e.Field, e.Param)
	case "gte":
		return fmt.Sprintf("%s must be >= %s", e.Field, e.Param)
	case "lte":
		return fmt.Sprintf("%s must be <= %s", e.Field, e.Param)
	case "role":
		return fmt.Sprintf("%s must be one of admin, instructor, student", e.Field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", e.Field)
	}
	return fmt.Sprintf("%s failed %s", e.Field, e.Rule)
}

// Required returns the error for a missing field.
func Required(field string) *Error {
	return &Error{Field: field, Rule: "required"}
}

// Struct validates s and returns an *Error for the first failing field.
func Struct(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		f := verrs[0]
		return &Error{Field: f.Field(), Rule: f.Tag(), Param: f.Param()}
	}
	return err
}

// IsValidation reports whether err is or wraps an *Error.
func IsValidation(err error) bool {
	var ve *Error
	return errors.As(err, &ve)
}
