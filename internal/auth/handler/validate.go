package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"

	autherror "github.com/driveshare/auth-service/internal/errors"
)

var validate = validator.New()

// validateStruct runs struct validation and converts failures into a
// field-keyed ValidationError.
func validateStruct(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	fields := map[string]string{}
	var invalid validator.ValidationErrors
	if errors.As(err, &invalid) {
		for _, fe := range invalid {
			fields[fe.Field()] = "failed on rule '" + fe.Tag() + "'"
		}
	} else {
		fields["body"] = err.Error()
	}
	return autherror.NewValidationError(fields)
}
