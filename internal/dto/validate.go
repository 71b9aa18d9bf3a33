package dto

import (
	"fmt"

	"github.com/commercio/posting_engine/internal/apperrors"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the struct tags of a request and maps failures onto the
// application error taxonomy. Decimal amounts are range-checked by the
// services themselves, not here.
func Validate(req any) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return nil
}
