package validator

import (
	"encoding/json"
	"io"

	val "github.com/go-playground/validator/v10"

	"tempo/shared/failure"
	"tempo/shared/field"
	"tempo/shared/timezone"
)

const (
	TagDateTzRequired = "datetz_required"
	TagTimezone       = "datetz_zone"
)

var validate *val.Validate

func init() {
	validate = val.New(val.WithRequiredStructEnabled())

	validations := map[string]val.Func{
		"empty": func(fl val.FieldLevel) bool {
			return fl.Field().IsZero()
		},
		TagDateTzRequired: func(fl val.FieldLevel) bool {
			return field.IsSatisfiedWhenRequired(fl.Field().Interface())
		},
		TagTimezone: func(fl val.FieldLevel) bool {
			return timezone.Valid(fl.Field().String())
		},
	}

	for tag, fn := range validations {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
}

// Validate decodes JSON from r into data and validates it. Numbers are kept
// as json.Number so that millisecond timestamps survive untouched.
func Validate[T any](r io.Reader, data *T) error {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()

	if err := decoder.Decode(data); err != nil {
		return failure.BadRequestFromString(decodeMessage(err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	if err := validate.Struct(data); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(value any, tag string) error {
	if err := validate.Var(value, tag); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}
