package v1

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// fieldLabels are the names used in validation messages.
var fieldLabels = map[string]string{
	"name":        "Name",
	"email":       "Email",
	"password":    "Password",
	"lastName":    "LastName",
	"location":    "Location",
	"company":     "Company name",
	"position":    "Position",
	"status":      "Status",
	"jobType":     "Job type",
	"jobLocation": "Job location",
}

// Validator checks request payloads and reports only the first failing field.
type Validator struct {
	validate *validator.Validate
}

// NewValidator returns a Validator that names fields by their JSON keys.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// Struct validates s. A failure is returned as a *ValidationError.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	return &ValidationError{Field: fe.Field(), Message: fieldMessage(fe)}
}

func fieldMessage(fe validator.FieldError) string {
	label, ok := fieldLabels[fe.Field()]
	if !ok {
		label = fe.Field()
	}

	switch fe.Tag() {
	case "required":
		if s, isString := fe.Value().(string); isString && s == "" {
			return label + " cannot be empty"
		}
		return label + " must be provided"
	case "min":
		return fmt.Sprintf("%s should have a minimum length of %s characters", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s should have a maximum length of %s characters", label, fe.Param())
	case "email":
		return label + " must be a valid email address"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.Join(strings.Fields(fe.Param()), ", "))
	default:
		return label + " is invalid"
	}
}

// TypeError reports a JSON value of the wrong type for field.
func TypeError(field string) *ValidationError {
	label, ok := fieldLabels[field]
	if !ok {
		label = field
	}
	return &ValidationError{Field: field, Message: label + " must be a string"}
}
