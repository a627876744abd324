package validators

import (
	"fmt"
	"net/http"

	"onchain-re-lending/internal/errors"

	"github.com/go-playground/validator/v10"
)

type sessionValidator struct {
	validate *validator.Validate
}

func NewSessionValidator() SessionValidator {
	return &sessionValidator{validate: validator.New()}
}

func (v *sessionValidator) ValidateWallet(address string) error {
	if err := v.validate.Var(address, "required,eth_addr"); err != nil {
		return errors.NewAppError(fmt.Sprintf("invalid wallet address %q", address), errors.MsgInvalidWallet, errors.ErrCodeInvalidParameters, http.StatusBadRequest, err)
	}
	return nil
}
