package helper

import (
	"errors"

	"cinema_storefront/constants"
	"cinema_storefront/model"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

var (
	ErrMissingFields      = errors.New(constants.FILL_ALL_FIELDS)
	ErrInvalidPfandOption = errors.New(constants.INVALID_PFAND_OPTION)
)

// ValidateProduct checks the required fields and that a set Pfand id is one
// of options.
func ValidateProduct(p model.Product, options []model.PfandOption) error {
	if err := validate.Struct(p); err != nil {
		return ErrMissingFields
	}
	if p.PfandId == nil || *p.PfandId == 0 {
		return nil
	}
	for _, o := range options {
		if o.PfandId == *p.PfandId {
			return nil
		}
	}
	return ErrInvalidPfandOption
}
