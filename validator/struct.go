package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
}

// errorMessages maps validation tags to messages. Tags with one %s take the
// field name, tags with two also take the parameter.
var errorMessages = map[string]string{
	"required": "The field '%s' is required.",
	"max":      "The field '%s' must be no longer than %s characters.",
	"len":      "The field '%s' must be exactly %s characters long.",
	"url":      "The field '%s' must be a valid URL.",
}

func parseMessage(e validator.FieldError) string {
	if msg, ok := errorMessages[e.Tag()]; ok {
		switch strings.Count(msg, "%s") {
		case 1:
			return fmt.Sprintf(msg, e.Field())
		case 2:
			return fmt.Sprintf(msg, e.Field(), e.Param())
		}
	}
	return fmt.Sprintf("Field '%s' is invalid: %s", e.Field(), e.Tag())
}

// ValidateStruct validates s and returns JSON field names mapped to
// messages. The map is empty when s is valid.
func ValidateStruct(s any) map[string]string {
	validationErrors := make(map[string]string)

	err := validate.Struct(s)
	if err == nil {
		return validationErrors
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, e := range validationErrs {
			validationErrors[e.Field()] = parseMessage(e)
		}
		return validationErrors
	}

	validationErrors["_"] = err.Error()
	return validationErrors
}
