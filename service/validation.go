package service

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"credit-predictor/domain"
)

// NewValidator returns a validator that knows the profile tags and reports
// fields by their json names.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	_ = v.RegisterValidation("step", validateStep)
	_ = v.RegisterValidation("purpose", oneOfOptions(domain.PurposeOptions))
	_ = v.RegisterValidation("housing", oneOfOptions(domain.HousingOptions))
	_ = v.RegisterValidation("job", oneOfOptions(domain.JobOptions))
	return v
}

func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	}
	return name
}

func validateStep(fl validator.FieldLevel) bool {
	step, err := strconv.ParseInt(fl.Param(), 10, 64)
	if err != nil || step <= 0 {
		return false
	}
	return fl.Field().Int()%step == 0
}

func oneOfOptions(options []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return domain.Contains(options, fl.Field().String())
	}
}
