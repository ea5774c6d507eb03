package middleware

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/interfaces/http/dto"
)

// SetupValidator makes binding failures report wire-level field names,
// so clients see "consignment_number" rather than "ConsignmentNumber".
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form", "uri"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
}

// FormatValidationErrors turns field-level binding failures into the
// standard error envelope. The second return is false when err is not a
// set of validator failures (malformed JSON, wrong value types).
func FormatValidationErrors(err error, requestID string) (dto.Response, bool) {
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return dto.Response{}, false
	}

	details := make([]dto.ValidationDetail, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, dto.ValidationDetail{
			Field:   fe.Field(),
			Message: fieldFailureMessage(fe),
		})
	}

	return dto.NewValidationErrorResponse(
		"Request validation failed",
		requestID,
		details,
	), true
}

var plainFailureMessages = map[string]string{
	"required": "is required",
	"email":    "must be a valid email address",
	"uuid":     "must be a valid UUID",
	"url":      "must be a valid URL",
	"numeric":  "must contain only digits",
	"alphanum": "must contain only letters and digits",
	"alpha":    "must contain only letters",
}

func fieldFailureMessage(fe validator.FieldError) string {
	if msg, ok := plainFailureMessages[fe.Tag()]; ok {
		return msg
	}

	isString := fe.Type().Kind() == reflect.String
	switch fe.Tag() {
	case "min":
		if isString {
			return "must have at least " + fe.Param() + " characters"
		}
		return "must be at least " + fe.Param()
	case "max":
		if isString {
			return "must have at most " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	case "len":
		return "must be exactly " + fe.Param() + " characters long"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lt":
		return "must be less than " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	default:
		return "has an invalid value"
	}
}
