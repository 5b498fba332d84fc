package validator

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"hostelhub/pkg/model"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	return fmt.Sprintf("validation failed: %d error(s)", len(v))
}

type BookingValidator struct {
	validate *validator.Validate

	// now is swappable so the past-date rule can be tested deterministically.
	now func() time.Time
}

func NewBookingValidator() *BookingValidator {
	return &BookingValidator{
		validate: validator.New(),
		now:      time.Now,
	}
}

func (v *BookingValidator) Validate(booking *model.Booking) error {
	if err := v.validate.Struct(booking); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}

	return v.validateBusinessRules(booking)
}

func (v *BookingValidator) ValidateStatusChange(change *model.BookingStatusChange) error {
	if err := v.validate.Struct(change); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: fmt.Sprintf("failed on the '%s' rule", err.Tag()),
		})
	}

	return validationErrors
}

func (v *BookingValidator) validateBusinessRules(booking *model.Booking) error {
	today := v.now().UTC().Truncate(24 * time.Hour)
	if booking.CheckIn.Before(today) {
		return ValidationErrors{{
			Field:   "CheckIn",
			Message: "check-in date cannot be in the past",
		}}
	}

	return nil
}
