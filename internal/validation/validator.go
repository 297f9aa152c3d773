package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/unclebandit/influencer-outreach/internal/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their json names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return strings.ToLower(f.Name)
		}
		return name
	})
	return v
}

// Struct validates s and converts failures into a *ValidationError.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &appErrors.ValidationError{Message: err.Error()}
	}
	fields := map[string][]string{}
	for _, fe := range verrs {
		fields[fe.Field()] = append(fields[fe.Field()], fe.Tag())
	}
	return &appErrors.ValidationError{Message: "validation_failed", Fields: fields}
}
