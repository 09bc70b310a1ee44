package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sakif/identity-service/internal/apperror"
)

// validate is the shared validator instance. It is safe for concurrent
// use and caches struct metadata, so one instance serves all handlers.
// Field names in error messages come from the json tag, so clients see
// the wire name ("cpf", "roleId"), not the Go identifier.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// birthdayLayout is the wire format for dates: ISO 8601 date-only.
const birthdayLayout = "2006-01-02"

// decodeAndValidate decodes the request body into dst and runs the
// struct's validation tags. Failures come back as apperror validation
// errors so writeError renders them as 400s.
func decodeAndValidate(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperror.ValidationFailed("", "invalid JSON payload: "+err.Error())
	}

	if err := validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return apperror.ValidationFailed(fe.Field(),
				fmt.Sprintf("field %s failed validation on %q", fe.Field(), fe.Tag()))
		}
		return apperror.ValidationFailed("", "invalid payload")
	}

	return nil
}

// parseBirthday parses an ISO date string ("1990-04-23").
func parseBirthday(value string) (time.Time, error) {
	t, err := time.Parse(birthdayLayout, value)
	if err != nil {
		return time.Time{}, apperror.ValidationFailed("birthday",
			"birthday must be a date in YYYY-MM-DD format")
	}
	return t, nil
}

// listParams reads offset/limit query parameters, defaulting to 0 and the
// service's default when absent or malformed.
func listParams(r *http.Request) (offset, limit int) {
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			offset = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	return offset, limit
}
