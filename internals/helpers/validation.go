// file: internals/helpers/validation.go
package helper

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationErrorMap turns validator.v10 errors into a field → messages map
// suitable for JsonValidationError.
func ValidationErrorMap(err error) map[string][]string {
	out := map[string][]string{}
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		out["_"] = []string{"invalid input"}
		return out
	}
	for _, fe := range ve {
		field := strings.ToLower(fe.Field())
		var msg string
		switch fe.Tag() {
		case "required":
			msg = "this field is required"
		case "email":
			msg = "invalid email format"
		case "min":
			msg = "must be at least " + fe.Param()
		case "max":
			msg = "must be at most " + fe.Param()
		case "oneof":
			msg = "must be one of: " + fe.Param()
		case "url":
			msg = "invalid URL"
		case "gtfield":
			msg = "must be greater than " + strings.ToLower(fe.Param())
		default:
			msg = "invalid value"
		}
		out[field] = append(out[field], msg)
	}
	return out
}
