package validate

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shijra-api/internal/domain"
)

// v is the package-level singleton validator. Field errors are reported by
// their JSON name so messages match what clients sent.
var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return val
}

// Struct validates the given struct using its validate tags. Failed "required"
// rules are wrapped with domain.ErrMissingField; any other failure with
// domain.ErrBadRequest.
func Struct(s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	var missing, invalid []string
	for _, fe := range ve {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
			continue
		}
		invalid = append(invalid, fmt.Sprintf("field '%s' failed '%s'", fe.Field(), fe.Tag()))
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s: %w", strings.Join(missing, ", "), domain.ErrMissingField)
	}
	return fmt.Errorf("%s: %w", strings.Join(invalid, "; "), domain.ErrBadRequest)
}
