package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate caches struct metadata, so one instance is shared.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateCreate checks a creation payload and fills in the default status.
func ValidateCreate(req *CreateEntryRequest) error {
	if err := collect(req.NullFields, validate.Struct(req)); err != nil {
		return err
	}
	if req.Status == nil {
		s := StatusToRead
		req.Status = &s
	}
	return nil
}

// ValidateUpdate checks only the fields present in a partial payload.
func ValidateUpdate(req *UpdateEntryRequest) error {
	return collect(req.NullFields, validate.Struct(req))
}

// collect merges null-key violations with struct tag violations into one
// ValidationError.
func collect(nullFields []string, structErr error) error {
	var fields []FieldError
	for _, name := range nullFields {
		fields = append(fields, FieldError{Field: name, Message: "must not be null"})
	}

	if err := structErrors(structErr); err != nil {
		var ve *ValidationError
		if !errors.As(err, &ve) {
			return err
		}
		fields = append(fields, ve.Fields...)
	}

	if len(fields) > 0 {
		return NewValidationError(fields...)
	}
	return nil
}

// ParseStatus validates a status literal coming from a query string.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", NewValidationError(FieldError{Field: "status", Message: statusMessage()})
	}
	return s, nil
}

func structErrors(err error) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate payload: %w", err)
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return NewValidationError(fields...)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return statusMessage()
	default:
		return "is invalid"
	}
}

func statusMessage() string {
	names := make([]string, 0, len(Statuses))
	for _, s := range Statuses {
		names = append(names, string(s))
	}
	return "must be one of: " + strings.Join(names, ", ")
}
