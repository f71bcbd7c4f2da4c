package security

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sixDigits = regexp.MustCompile(`^[0-9]{6}$`)

func TestGenerateOTP_Format(t *testing.T) {
	seen := make(map[string]struct{})

	for i := 0; i < 500; i++ {
		code, err := GenerateOTP()
		require.NoError(t, err)
		assert.Regexp(t, sixDigits, code)
		seen[code] = struct{}{}
	}

	// 500 draws out of a million values are practically never all equal
	assert.Greater(t, len(seen), 1)
}

func TestOTPEqual(t *testing.T) {
	assert.True(t, OTPEqual("482913", "482913"))
	assert.True(t, OTPEqual("000123", "000123"))
	assert.False(t, OTPEqual("000123", "123"))
	assert.False(t, OTPEqual("482913", "482914"))
	assert.False(t, OTPEqual("482913", ""))
}
