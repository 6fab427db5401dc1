package server

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Error codes returned in ValidationError.Code.
const (
	CodeBadParam = "ERR_BAD_PARAM"
	CodeRequired = "ERR_REQUIRED"
	CodeFormat   = "ERR_FORMAT"
	CodeChoice   = "ERR_CHOICE"
	CodeRange    = "ERR_RANGE"
)

var validate = newValidator()

// newValidator reports fields by their query parameter name.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name, _, _ := strings.Cut(f.Tag.Get("query"), ","); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

// AnalysisQuery is bound from the query string of the analysis endpoints.
type AnalysisQuery struct {
	Symbol   string `query:"symbol" json:"symbol" default:"BTCUSDT" validate:"required,alphanum"`
	Interval string `query:"interval" json:"interval" default:"1d" validate:"oneof=1m 3m 5m 15m 30m 1h 2h 4h 6h 8h 12h 1d 3d 1w 1M"`
	Limit    int    `query:"limit" json:"limit" default:"300" validate:"gte=1,lte=1000"`
	Mode     string `query:"mode" json:"mode" default:"month" validate:"oneof=tail month"`
	Window   int    `query:"window" json:"window" default:"60" validate:"gte=0,lte=1000"`
	Lang     string `query:"lang" json:"lang" default:"es" validate:"oneof=en es"`
}

// bindAnalysisQuery binds the query string over the preset values in q, fills
// the remaining zero fields with defaults and validates the result.
func bindAnalysisQuery(c echo.Context, q *AnalysisQuery) []ValidationError {
	if err := c.Bind(q); err != nil {
		return []ValidationError{bindError(err)}
	}
	if err := defaults.Set(q); err != nil {
		return []ValidationError{{Code: CodeBadParam, Message: err.Error()}}
	}

	err := validate.StructCtx(c.Request().Context(), q)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return []ValidationError{{Code: CodeBadParam, Message: err.Error()}}
	}
	errs := make([]ValidationError, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		errs = append(errs, fieldError(fe))
	}
	return errs
}

// bindError covers values echo could not convert, e.g. limit=abc.
func bindError(err error) ValidationError {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if inner := he.Internal; inner != nil {
			return ValidationError{Code: CodeBadParam, Message: inner.Error()}
		}
		return ValidationError{Code: CodeBadParam, Message: fmt.Sprint(he.Message)}
	}
	return ValidationError{Code: CodeBadParam, Message: err.Error()}
}

func fieldError(fe validator.FieldError) ValidationError {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return ValidationError{Code: CodeRequired, Field: field, Message: field + " is required"}
	case "alphanum":
		return ValidationError{Code: CodeFormat, Field: field, Message: field + " must be alphanumeric"}
	case "oneof":
		allowed := strings.Fields(fe.Param())
		return ValidationError{
			Code:    CodeChoice,
			Field:   field,
			Message: fmt.Sprintf("%s must be one of %s", field, strings.Join(allowed, ", ")),
			Params:  map[string]any{"allowed": allowed},
		}
	case "gte":
		return ValidationError{
			Code:    CodeRange,
			Field:   field,
			Message: fmt.Sprintf("%s must be at least %s", field, fe.Param()),
			Params:  map[string]any{"min": fe.Param()},
		}
	case "lte":
		return ValidationError{
			Code:    CodeRange,
			Field:   field,
			Message: fmt.Sprintf("%s must be at most %s", field, fe.Param()),
			Params:  map[string]any{"max": fe.Param()},
		}
	}
	return ValidationError{Code: CodeBadParam, Field: field, Message: fmt.Sprintf("%s is invalid", field)}
}
