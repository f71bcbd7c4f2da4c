package security

import (
	"bitwise74/auth-api/pkg/apierr"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T, clock clockwork.Clock) *TokenService {
	t.Helper()

	s, err := NewTokenService([]byte("super-secret"), time.Hour, "auth-api", clock)
	require.NoError(t, err)

	return s
}

func TestTokenService_IssueAndValidate(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := newTestTokenService(t, clock)

	tok, exp, err := s.Issue("a@x.com", "user-123")
	require.NoError(t, err)
	assert.Equal(t, clock.Now().Add(time.Hour), exp)

	claims, err := s.Validate(tok)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Subject)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "auth-api", claims.Issuer)
	assert.Equal(t, clock.Now().Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, exp.Unix(), claims.ExpiresAt.Unix())

	sub, err := s.ExtractSubject(tok)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", sub)
}

func TestTokenService_Expired(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := newTestTokenService(t, clock)

	tok, _, err := s.Issue("a@x.com", "u1")
	require.NoError(t, err)

	clock.Advance(59 * time.Minute)
	_, err = s.Validate(tok)
	require.NoError(t, err)

	clock.Advance(time.Minute)
	_, err = s.Validate(tok)
	assert.ErrorIs(t, err, apierr.ErrTokenExpired)

	_, err = s.ExtractSubject(tok)
	assert.ErrorIs(t, err, apierr.ErrTokenExpired)
}

func TestTokenService_TamperedSignature(t *testing.T) {
	s := newTestTokenService(t, clockwork.NewFakeClock())

	tok, _, err := s.Issue("a@x.com", "u1")
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)

	sig := []byte(parts[2])
	if sig[5] == 'A' {
		sig[5] = 'B'
	} else {
		sig[5] = 'A'
	}

	_, err = s.Validate(parts[0] + "." + parts[1] + "." + string(sig))
	assert.ErrorIs(t, err, apierr.ErrTokenInvalid)
}

func TestTokenService_TamperedPayload(t *testing.T) {
	s := newTestTokenService(t, clockwork.NewFakeClock())

	tok, _, err := s.Issue("a@x.com", "u1")
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	forged := strings.Replace(string(payload), "a@x.com", "b@x.com", 1)
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(forged))

	_, err = s.Validate(strings.Join(parts, "."))
	assert.ErrorIs(t, err, apierr.ErrTokenInvalid)
}

func TestTokenService_ExpiredAndTamperedIsInvalid(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := newTestTokenService(t, clock)

	tok, _, err := s.Issue("a@x.com", "u1")
	require.NoError(t, err)
	clock.Advance(2 * time.Hour)

	other, err := NewTokenService([]byte("other-secret"), time.Hour, "auth-api", clock)
	require.NoError(t, err)

	_, err = other.Validate(tok)
	assert.ErrorIs(t, err, apierr.ErrTokenInvalid)
}

func TestTokenService_WrongSecret(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := newTestTokenService(t, clock)

	other, err := NewTokenService([]byte("wrong-secret"), time.Hour, "auth-api", clock)
	require.NoError(t, err)

	tok, _, err := other.Issue("a@x.com", "u1")
	require.NoError(t, err)

	_, err = s.Validate(tok)
	assert.ErrorIs(t, err, apierr.ErrTokenInvalid)
}

func TestTokenService_RejectsOtherAlgorithms(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := newTestTokenService(t, clock)

	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "a@x.com",
		Issuer:    "auth-api",
		ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Hour)),
	}}

	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = s.Validate(tok)
	assert.ErrorIs(t, err, apierr.ErrTokenInvalid)
}

func TestTokenService_Malformed(t *testing.T) {
	s := newTestTokenService(t, clockwork.NewFakeClock())

	for _, tok := range []string{"", "not.a.jwt", "abc"} {
		_, err := s.Validate(tok)
		assert.ErrorIs(t, err, apierr.ErrTokenInvalid, tok)
	}
}

func TestTokenService_MissingSubject(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := newTestTokenService(t, clock)

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    "auth-api",
		ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Hour)),
	}}).SignedString([]byte("super-secret"))
	require.NoError(t, err)

	_, err = s.Validate(tok)
	assert.ErrorIs(t, err, apierr.ErrTokenInvalid)
}

func TestNewTokenService_Validation(t *testing.T) {
	_, err := NewTokenService(nil, time.Hour, "", nil)
	assert.Error(t, err)

	_, err = NewTokenService([]byte("k"), 0, "", nil)
	assert.Error(t, err)

	_, _, err = newTestTokenService(t, clockwork.NewRealClock()).Issue("", "u1")
	assert.Error(t, err)
}
