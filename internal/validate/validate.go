// Package validate evaluates the per-resource input schemas. Validation is
// first-error-wins: only the first failing field is reported, as
// `Validation Error: <message>` with status 400.
package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ayush/subtrack/internal/apperr"
)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	// Report fields under their JSON names, not Go field names.
	val.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return val
}

// Struct checks in against its schema tags and returns a Validation-kind
// error for the first violation.
func Struct(in interface{}) error {
	err := v.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return apperr.New(apperr.Validation, "Validation Error: "+fieldMessage(verrs[0]))
	}
	return apperr.Wrap(apperr.Validation, "Validation Error: invalid payload", err)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", fe.Field())
	case "email":
		return fmt.Sprintf("%q must be a valid email", fe.Field())
	case "uri", "url":
		return fmt.Sprintf("%q must be a valid URI", fe.Field())
	default:
		return fmt.Sprintf("%q is invalid", fe.Field())
	}
}

// DecodeJSON decodes a request body into in, translating type mismatches
// into first-failing-field validation errors.
func DecodeJSON(body io.Reader, in interface{}) error {
	if err := json.NewDecoder(body).Decode(in); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return apperr.Wrap(apperr.Validation,
				fmt.Sprintf("Validation Error: %q must be a %s", typeErr.Field, expectedType(typeErr)), err)
		}
		return apperr.Wrap(apperr.Validation, "invalid request body", err)
	}
	return nil
}

func expectedType(e *json.UnmarshalTypeError) string {
	t := e.Type
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Float32, reflect.Float64, reflect.Int, reflect.Int32, reflect.Int64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.String:
		return "string"
	default:
		return t.Kind().String()
	}
}
