package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	val "github.com/go-playground/validator/v10"
)

const fallbackMessage = "{field} failed on {tag}"

var messages = map[string]string{
	"required": "{field} is required",
	"gte":      "{field} must be greater than or equal to {param}",
	"lte":      "{field} must be less than or equal to {param}",
	"oneof":    "{field} must be one of {param}",
	"max":      "{field} must be less than or equal to {param}",
	"min":      "{field} must be greater than or equal to {param}",
	"uuid":     "{field} must be a valid UUID",

	TagDateTzRequired: "{field} is required",
	TagTimezone:       "{field} must be a known IANA timezone, got {value}",
}

// message renders the first failed rule of err.
func message(err error) string {
	var valErrors val.ValidationErrors
	if !errors.As(err, &valErrors) || len(valErrors) == 0 {
		return err.Error()
	}

	fe := valErrors[0]

	tmpl, ok := messages[fe.Tag()]
	if !ok {
		tmpl = fallbackMessage
	}

	return strings.NewReplacer(
		"{field}", fe.Field(),
		"{param}", fe.Param(),
		"{tag}", fe.Tag(),
		"{value}", fmt.Sprintf("%q", fmt.Sprint(fe.Value())),
	).Replace(tmpl)
}

// decodeMessage describes why a request body could not be decoded.
func decodeMessage(err error) string {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)

	switch {
	case errors.As(err, &syntaxErr):
		return fmt.Sprintf("failed to decode request body: invalid JSON at offset %d", syntaxErr.Offset)
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return fmt.Sprintf("failed to decode request body: %s must be %s, got %s", typeErr.Field, typeErr.Type, typeErr.Value)
	default:
		return "failed to decode request body: " + err.Error()
	}
}
