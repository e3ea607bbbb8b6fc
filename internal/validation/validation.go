// Package validation evaluates declarative rule sets against request payloads.
package validation

import (
	"fmt"
	"reflect"
	"strings"

	"inkwell/internal/models"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields under their wire names, not Go names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return v
}

// Struct evaluates every rule on s and collects all failures into a field ->
// messages map. It never short-circuits: a request with three invalid fields
// reports all three. A nil return means the payload passed.
func Struct(s any) models.FieldErrors {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	invalid, ok := err.(validator.ValidationErrors)
	if !ok {
		// validator.InvalidValidationError: programming error, not user input
		panic(err)
	}

	errs := models.FieldErrors{}
	for _, fe := range invalid {
		errs.Add(fe.Field(), message(fe))
	}
	return errs
}

// message renders a rule failure into the human-readable form the API
// contract uses.
func message(fe validator.FieldError) string {
	label := strings.ReplaceAll(fe.Field(), "_", " ")

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", label)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", label)
	case "max":
		return fmt.Sprintf("The %s must not be greater than %s characters.", label, fe.Param())
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("The %s field is required.", label)
		}
		return fmt.Sprintf("The %s must be at least %s characters.", label, fe.Param())
	case "eqfield":
		return fmt.Sprintf("The %s confirmation does not match.", label)
	default:
		return fmt.Sprintf("The %s is invalid.", label)
	}
}
