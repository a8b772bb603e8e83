package auth

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"story-chat/errors"
)

var validate = validator.New()

// LoginRequest is the login form payload. Length caps match the store's
// column sizes; no complexity rule exists because passwords are kept as
// plain values.
type LoginRequest struct {
	Username string `validate:"required,max=50"`
	Password string `validate:"required,max=72"`
}

func ValidateLogin(req LoginRequest) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidLogin, err)
	}
	return nil
}
