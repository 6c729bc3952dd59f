package services

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"storefront/internal/domain"
)

var (
	personNameRe = regexp.MustCompile(`^[a-zA-Z\s.]+$`)
	phoneRe      = regexp.MustCompile(`^\d{10}$`)
)

var fieldMessages = map[string]string{
	"name":    "Name must be 3-50 characters and contain only letters, spaces, and dots",
	"address": "Address must be between 10 and 100 characters and not contain < or >",
	"city":    "City must be 2-30 characters and contain only letters, spaces, and dots",
	"phone":   "Please enter a valid 10-digit phone number",
}

// NewValidator returns a validator that knows the contact tags used on
// domain.Contact and reports fields by their JSON names.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("personname", func(fl validator.FieldLevel) bool {
		return personNameRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("phone10", func(fl validator.FieldLevel) bool {
		return phoneRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("noangle", func(fl validator.FieldLevel) bool {
		return !strings.ContainsAny(fl.Field().String(), "<>")
	})
	return v
}

// ValidateContact checks every field and returns a *ValidationError listing
// all that failed, or nil.
func ValidateContact(v *validator.Validate, c domain.Contact) error {
	err := v.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if msg, ok := fieldMessages[field]; ok {
			fields[field] = msg
		} else {
			fields[field] = fe.Error()
		}
	}
	return &ValidationError{Fields: fields}
}
