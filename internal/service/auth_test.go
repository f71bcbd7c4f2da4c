package service

import (
	"bitwise74/auth-api/internal/model"
	"bitwise74/auth-api/pkg/apierr"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAuthService_NilDependencies(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name        string
		build       func() (*AuthService, error)
		expectError string
	}{
		{"nil store", func() (*AuthService, error) { return NewAuthService(nil, f.hasher, f.tokens, f.otp) }, "store is required"},
		{"nil hasher", func() (*AuthService, error) { return NewAuthService(f.store, nil, f.tokens, f.otp) }, "password hasher is required"},
		{"nil tokens", func() (*AuthService, error) { return NewAuthService(f.store, f.hasher, nil, f.otp) }, "token issuer is required"},
		{"nil otp", func() (*AuthService, error) { return NewAuthService(f.store, f.hasher, f.tokens, nil) }, "otp manager is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := tt.build()
			require.Error(t, err)
			assert.Nil(t, svc)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	u, err := f.auth.Register(ctx, "a@x.com", "password123", "Alice")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "Alice", u.Name)
	assert.False(t, u.EmailVerified)
	assert.NotEqual(t, "password123", u.PasswordHash)

	ok, err := f.hasher.Verify("password123", u.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAuthService_RegisterDuplicate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.createUser(t, "a@x.com", "password123")

	before, err := f.store.Count(ctx)
	require.NoError(t, err)

	_, err = f.auth.Register(ctx, "a@x.com", "otherpass1", "Mallory")
	assert.ErrorIs(t, err, apierr.ErrUserAlreadyExists)

	after, err := f.store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.createUser(t, "a@x.com", "password123")

	res, err := f.auth.Login(ctx, "a@x.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.User.ID)
	assert.Equal(t, f.clock.Now().Add(time.Hour), res.ExpiresAt)

	claims, err := f.tokens.Validate(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Subject)
	assert.Equal(t, u.ID, claims.UserID)
}

func TestAuthService_LoginFailuresLookTheSame(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.createUser(t, "a@x.com", "password123")

	_, wrongPassword := f.auth.Login(ctx, "a@x.com", "password124")
	_, unknownEmail := f.auth.Login(ctx, "b@x.com", "password123")

	assert.ErrorIs(t, wrongPassword, apierr.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, apierr.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestAuthService_LoginDisabled(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.createUser(t, "a@x.com", "password123")

	u.Disabled = true
	_, err := f.store.Save(ctx, u)
	require.NoError(t, err)

	_, err = f.auth.Login(ctx, "a@x.com", "password123")
	assert.ErrorIs(t, err, apierr.ErrAccountDisabled)

	// a wrong password still reads as bad credentials
	_, err = f.auth.Login(ctx, "a@x.com", "nope12345")
	assert.ErrorIs(t, err, apierr.ErrInvalidCredentials)
}

func TestAuthService_EmailVerificationFlow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.createUser(t, "a@x.com", "password123")

	require.NoError(t, f.auth.RequestEmailVerification(ctx, "a@x.com"))
	code := f.lastCode(t)

	_, err := f.auth.VerifyEmail(ctx, "a@x.com", code)
	require.NoError(t, err)

	u := f.user(t, "a@x.com")
	assert.True(t, u.EmailVerified)
	assert.Equal(t, []string{"user", "verified"}, u.Authorities())

	// already verified: nothing is sent
	require.NoError(t, f.auth.RequestEmailVerification(ctx, "a@x.com"))
	assert.Len(t, f.notifier.Sent(), 1)
}

func TestAuthService_ResetPasswordScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.createUser(t, "a@x.com", "OldPass1")
	oldHash := f.user(t, "a@x.com").PasswordHash

	// the code mailed to the user is 482913, valid for 15 minutes
	u := f.user(t, "a@x.com")
	require.NoError(t, u.SetOTP(model.PurposePasswordReset, "482913", f.clock.Now().Add(15*time.Minute)))
	_, err := f.store.Save(ctx, u)
	require.NoError(t, err)

	require.NoError(t, f.auth.ResetPassword(ctx, "a@x.com", "482913", "NewPass1"))

	u = f.user(t, "a@x.com")
	assert.NotEqual(t, oldHash, u.PasswordHash)
	assert.Nil(t, u.ResetOTP)
	assert.Nil(t, u.ResetOTPExpiresAt)

	_, err = f.auth.Login(ctx, "a@x.com", "NewPass1")
	assert.NoError(t, err)
	_, err = f.auth.Login(ctx, "a@x.com", "OldPass1")
	assert.ErrorIs(t, err, apierr.ErrInvalidCredentials)

	err = f.auth.ResetPassword(ctx, "a@x.com", "482913", "OtherPass1")
	assert.ErrorIs(t, err, apierr.ErrInvalidOTP)
}

func TestAuthService_ResetPasswordThroughRequest(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.createUser(t, "a@x.com", "OldPass1")

	require.NoError(t, f.auth.RequestPasswordReset(ctx, "a@x.com"))
	code := f.lastCode(t)

	f.clock.Advance(14 * time.Minute)
	require.NoError(t, f.auth.ResetPassword(ctx, "a@x.com", code, "NewPass1"))

	_, err := f.auth.Login(ctx, "a@x.com", "NewPass1")
	assert.NoError(t, err)
}

func TestAuthService_ResetPasswordExpired(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.createUser(t, "a@x.com", "OldPass1")
	oldHash := f.user(t, "a@x.com").PasswordHash

	require.NoError(t, f.auth.RequestPasswordReset(ctx, "a@x.com"))
	code := f.lastCode(t)

	f.clock.Advance(16 * time.Minute)

	err := f.auth.ResetPassword(ctx, "a@x.com", code, "NewPass1")
	assert.ErrorIs(t, err, apierr.ErrOTPExpired)
	assert.Equal(t, oldHash, f.user(t, "a@x.com").PasswordHash)
}
