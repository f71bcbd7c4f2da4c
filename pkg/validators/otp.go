package validators

import (
	"bitwise74/auth-api/pkg/security"
	"errors"
)

var (
	ErrCodeEmpty   = errors.New("no verification code provided")
	ErrCodeInvalid = errors.New("verification code must be 6 digits")
)

func OTPValidator(code string) error {
	if code == "" {
		return ErrCodeEmpty
	}

	if len(code) != security.OTPLength {
		return ErrCodeInvalid
	}

	for _, r := range code {
		if r < '0' || r > '9' {
			return ErrCodeInvalid
		}
	}

	return nil
}
