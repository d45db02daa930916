package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"jobly/jobs-service/internal/apperr"
)

// maxBodyBytes bounds request bodies; every payload here is a few fields.
const maxBodyBytes = 1 << 20

// equityPattern accepts decimal strings in [0, 1].
var equityPattern = regexp.MustCompile(`^(0(\.[0-9]+)?|1(\.0+)?|\.[0-9]+)$`)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("equity", func(fl validator.FieldLevel) bool {
		return equityPattern.MatchString(fl.Field().String())
	})
	return v
}

// decode reads a JSON body into dst and validates it. Unknown keys, type
// mismatches and rule violations are all bad requests.
func (h *Handler) decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperr.BadRequest("invalid request body", decodeDetail(err))
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return apperr.BadRequest("invalid request body", "body must hold a single JSON object")
	}
	return h.check(dst)
}

func (h *Handler) check(v any) error {
	err := h.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}
	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, fieldMessage(fe))
	}
	return apperr.BadRequest("invalid request body", details...)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min", "max":
		return fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param())
	case "email":
		return fmt.Sprintf("%s must be an email address", fe.Field())
	case "equity":
		return fmt.Sprintf("%s must be a decimal string between 0 and 1", fe.Field())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}

func decodeDetail(err error) string {
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &typeErr):
		return fmt.Sprintf("%s must be of type %s", typeErr.Field, typeErr.Type)
	case errors.Is(err, io.EOF):
		return "body is empty"
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		return fmt.Sprintf("%s is not allowed", strings.TrimPrefix(err.Error(), "json: unknown field "))
	default:
		return err.Error()
	}
}
