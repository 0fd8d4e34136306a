package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/sarchlab/casetta/sim"
)

// validate is a singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	err := validate.RegisterValidation("module_name",
		func(fl validator.FieldLevel) bool {
			return sim.ValidateName(fl.Field().String()) == nil
		})
	if err != nil {
		panic(err)
	}
}

// Validate checks the config against its struct tags.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return &sim.ConfigurationError{
			Op:     "validate config",
			Reason: formatValidationError(err).Error(),
		}
	}

	return nil
}

// ValidateStruct checks any tagged struct, such as module params, with the
// same validator as Config.
func ValidateStruct(s any) error {
	if err := validate.Struct(s); err != nil {
		return formatValidationError(err)
	}

	return nil
}

// formatValidationError converts validator errors to a more user-friendly
// format.
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Namespace()
		param := e.Param()

		switch e.Tag() {
		case "required", "required_if":
			return fmt.Errorf("%s: field is required", field)
		case "min", "gte":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max", "lte":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "gt":
			return fmt.Errorf("%s: must be greater than %s", field, param)
		case "oneof":
			return fmt.Errorf("%s: must be one of [%s]", field, param)
		case "unique":
			return fmt.Errorf("%s: values must be unique", field)
		case "module_name":
			return fmt.Errorf("%s: %q is not a valid module name",
				field, e.Value())
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}

	return err
}
