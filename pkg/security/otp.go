package security

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
)

const OTPLength = 6

var otpRange = big.NewInt(1_000_000)

// GenerateOTP returns a uniformly random numeric code between 000000 and
// 999999. Leading zeros are kept.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, otpRange)
	if err != nil {
		return "", fmt.Errorf("failed to generate otp, %w", err)
	}

	return fmt.Sprintf("%0*d", OTPLength, n.Int64()), nil
}

// OTPEqual reports whether a submitted code matches the stored one. The
// comparison doesn't short-circuit on the first differing digit.
func OTPEqual(stored, submitted string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(submitted)) == 1
}
