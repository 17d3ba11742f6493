package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"storefront-service/internal/domain"

	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// validationError turns validator output into a single readable
// domain.ValidationError; other errors pass through.
func validationError(err error) error {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}

	msgs := make([]string, 0, len(ves))
	for _, fe := range ves {
		msgs = append(msgs, fieldMessage(fe))
	}
	return &domain.ValidationError{Reason: strings.Join(msgs, "; ")}
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}

	switch fe.Tag() {
	case "required":
		return field + ": this field is required"
	case "min", "gte":
		if fe.Kind() == reflect.Slice {
			if field == "items" {
				return "items: order must have at least 1 item"
			}
			return fmt.Sprintf("%s: ensure this list has at least %s elements", field, fe.Param())
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s: ensure this field has at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s: ensure this value is greater than or equal to %s", field, fe.Param())
	case "max", "lte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s: ensure this field has no more than %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s: ensure this value is less than or equal to %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s: failed on the '%s' rule", field, fe.Tag())
	}
}
