package api

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/aristath/finsight/internal/domain"
	"github.com/aristath/finsight/internal/utils"
	"github.com/go-playground/validator/v10"
)

// ErrSymbolRequired is returned when the symbol query parameter is empty.
var ErrSymbolRequired = domain.InvalidArgument("Symbol parameter is required.")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Symbol returns the symbol query parameter, trimmed.
func Symbol(r *http.Request) (string, error) {
	symbol := strings.TrimSpace(r.URL.Query().Get("symbol"))
	if symbol == "" {
		return "", ErrSymbolRequired
	}
	return symbol, nil
}

// SelectedColumns reads selected_columns given either as repeated
// parameters or as a comma separated list.
func SelectedColumns(r *http.Request) []string {
	return utils.SplitCSV(r.URL.Query()["selected_columns"]...)
}

// IntParam parses an optional integer query parameter.
func IntParam(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.InvalidArgument("%s must be an integer", name)
	}
	return v, nil
}

// BoolParam parses an optional boolean query parameter.
func BoolParam(r *http.Request, name string) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, domain.InvalidArgument("%s must be a boolean", name)
	}
	return v, nil
}

// Validate checks struct tags and reports the first failure as an
// invalid argument naming the offending query parameter.
func Validate(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return domain.InvalidArgument("%s", err.Error())
	}

	fe := fieldErrs[0]
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return domain.InvalidArgument("%s is required", name)
	case "datetime":
		return domain.InvalidArgument("%s must be a date formatted as YYYY-MM-DD", name)
	case "min", "max":
		return domain.InvalidArgument("%s must satisfy %s=%s", name, fe.Tag(), fe.Param())
	case "oneof":
		return domain.InvalidArgument("%s must be one of: %s", name, fe.Param())
	case "url", "http_url":
		return domain.InvalidArgument("%s must be a valid URL", name)
	default:
		return domain.InvalidArgument("%s failed %s validation", name, fe.Tag())
	}
}

func init() {
	// Report query parameter names rather than Go field names
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("query"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
}
