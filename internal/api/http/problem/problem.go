// Package problem renders every failure as an RFC 7807 problem-details body.
package problem

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/GoSim-25-26J-441/reading-list-api/internal/reading_list/domain"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const ContentType = "application/problem+json"

const (
	CodeValidation      = "validation_error"
	CodeNotFound        = "not_found"
	CodePayloadTooLarge = "payload_too_large"
	CodeRateLimited     = "rate_limit_exceeded"
	CodeHTTP            = "http_error"
	CodeInternal        = "internal_error"
)

// Details is the response envelope.
type Details struct {
	Type          string              `json:"type"`
	Title         string              `json:"title"`
	Status        int                 `json:"status"`
	Detail        string              `json:"detail,omitempty"`
	Instance      string              `json:"instance,omitempty"`
	CorrelationID string              `json:"correlation_id"`
	Errors        []domain.FieldError `json:"errors,omitempty"`
}

// Error is a transport level failure raised by middlewares and handlers.
type Error struct {
	Code   string
	Status int
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Detail, e.Err)
	}
	return e.Code + ": " + e.Detail
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPError passes an arbitrary status through as an http_error.
func HTTPError(status int, detail string) *Error {
	return &Error{Code: CodeHTTP, Status: status, Detail: detail}
}

func PayloadTooLarge(limit int64) *Error {
	return &Error{
		Code:   CodePayloadTooLarge,
		Status: http.StatusRequestEntityTooLarge,
		Detail: fmt.Sprintf("Request body exceeds maximum size of %d bytes", limit),
	}
}

func RateLimited(limit int, window string) *Error {
	return &Error{
		Code:   CodeRateLimited,
		Status: http.StatusTooManyRequests,
		Detail: fmt.Sprintf("Rate limit exceeded: %d per %s", limit, window),
	}
}

// BadRequestBody wraps a body that could not be decoded into the payload type.
func BadRequestBody(err error) *Error {
	return &Error{
		Code:   CodeValidation,
		Status: http.StatusUnprocessableEntity,
		Detail: "Request body is not a valid JSON payload",
		Err:    err,
	}
}

// typePaths holds the codes whose published type path differs from "/errors/<code>".
var typePaths = map[string]string{
	CodePayloadTooLarge: "/errors/payload-too-large",
}

// TypeFor returns the problem type path for a code.
func TypeFor(code string) string {
	if p, ok := typePaths[code]; ok {
		return p
	}
	return "/errors/" + code
}

// TitleFor turns "not_found" into "Not Found".
func TitleFor(code string) string {
	// A Caser is stateful, so each call gets its own.
	return cases.Title(language.English).String(strings.ReplaceAll(code, "_", " "))
}

// New builds a complete envelope with a fresh correlation id.
func New(code string, status int, detail, instance string) Details {
	return Details{
		Type:          TypeFor(code),
		Title:         TitleFor(code),
		Status:        status,
		Detail:        detail,
		Instance:      instance,
		CorrelationID: uuid.NewString(),
	}
}

// FromError classifies err. Unknown errors become a 500 whose detail never
// echoes the underlying message.
func FromError(err error, instance string) Details {
	var (
		ve *domain.ValidationError
		nf *domain.NotFoundError
		pe *Error
	)

	switch {
	case errors.As(err, &pe):
		d := New(pe.Code, pe.Status, pe.Detail, instance)
		if errors.As(pe.Err, &ve) {
			d.Errors = ve.Fields
		}
		return d
	case errors.As(err, &ve):
		d := New(CodeValidation, http.StatusUnprocessableEntity, validationDetail(ve), instance)
		d.Errors = ve.Fields
		return d
	case errors.As(err, &nf):
		return New(CodeNotFound, http.StatusNotFound, nf.Error(), instance)
	case errors.Is(err, domain.ErrEntryNotFound):
		return New(CodeNotFound, http.StatusNotFound, "Entry not found", instance)
	default:
		return New(CodeInternal, http.StatusInternalServerError, "An unexpected error occurred", instance)
	}
}

func validationDetail(ve *domain.ValidationError) string {
	if len(ve.Fields) == 1 {
		return fmt.Sprintf("Invalid value for %s: %s", ve.Fields[0].Field, ve.Fields[0].Message)
	}
	return fmt.Sprintf("Request payload has %d invalid fields", len(ve.Fields))
}
