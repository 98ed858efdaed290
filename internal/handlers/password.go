package handlers

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/services-booking/internal/httperr"
)

func hashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// checkPassword returns a validation error with code when plain does not
// match hash.
func checkPassword(hash, plain, code string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return httperr.Validation(code, "incorrect password")
	}
	return err
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,password,nefield=OldPassword"`
}
