package validator

import (
	"errors"
	"fmt"

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

type ListingValidator struct {
	validate *validator.Validate
}

func NewListingValidator() *ListingValidator {
	return &ListingValidator{
		validate: validator.New(),
	}
}

func (v *ListingValidator) Validate(listing *model.Listing) error {
	if err := v.validate.Struct(listing); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}

	return v.validateBusinessRules(listing)
}

func (v *ListingValidator) ValidateReview(review *model.Review) error {
	if err := v.validate.Struct(review); err != nil {
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

func (v *ListingValidator) validateBusinessRules(listing *model.Listing) error {
	seen := make(map[string]bool, len(listing.Rooms))
	for _, room := range listing.Rooms {
		if room.ID == "" {
			continue
		}
		if seen[room.ID] {
			return ValidationErrors{{
				Field:   "Rooms",
				Message: fmt.Sprintf("duplicate room id %s", room.ID),
			}}
		}
		seen[room.ID] = true
	}

	return nil
}
