package protocol

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// Validate rejects intents with missing or blank required fields before they
// reach the board.
func Validate(in Intent) error {
	if in == nil {
		return fmt.Errorf("%w: empty intent", ErrMalformedIntent)
	}
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedIntent, in.Event(), err)
	}
	return nil
}
