package service

import (
	"bitwise74/auth-api/internal/model"
	"bitwise74/auth-api/internal/store"
	"bitwise74/auth-api/pkg/apierr"
	"bitwise74/auth-api/pkg/security"
	"context"
	"errors"
	"fmt"
	"time"
)

// TokenIssuer signs auth tokens for a subject
type TokenIssuer interface {
	Issue(subject, userID string) (string, time.Time, error)
}

// LoginResult is what a successful login hands back to the caller
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *model.User
}

// AuthService ties the store, the hasher, the token issuer and the OTP
// manager together into the login, registration and OTP flows
type AuthService struct {
	store  store.Store
	hasher security.Hasher
	tokens TokenIssuer
	otp    *OTPManager

	// compared against when the email is unknown so both failure paths
	// cost one hash verification
	dummyHash string
}

func NewAuthService(s store.Store, h security.Hasher, t TokenIssuer, otp *OTPManager) (*AuthService, error) {
	switch {
	case s == nil:
		return nil, errors.New("store is required")
	case h == nil:
		return nil, errors.New("password hasher is required")
	case t == nil:
		return nil, errors.New("token issuer is required")
	case otp == nil:
		return nil, errors.New("otp manager is required")
	}

	dummy, err := h.Hash("dummy-password-for-timing")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash, %w", err)
	}

	return &AuthService{
		store:     s,
		hasher:    h,
		tokens:    t,
		otp:       otp,
		dummyHash: dummy,
	}, nil
}

// Register creates a new unverified account
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*model.User, error) {
	found, err := s.store.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if found {
		return nil, apierr.ErrUserAlreadyExists
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password, %w", err)
	}

	return s.store.Create(ctx, &model.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
	})
}

// Login checks the credentials and issues a token whose subject is the
// email. Unknown emails and wrong passwords fail the same way.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apierr.ErrUserNotFound) {
			s.hasher.Verify(password, s.dummyHash) //nolint:errcheck
			return nil, apierr.ErrInvalidCredentials
		}

		return nil, err
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password, %w", err)
	}

	if !ok {
		return nil, apierr.ErrInvalidCredentials
	}

	if user.Disabled {
		return nil, apierr.ErrAccountDisabled
	}

	token, exp, err := s.tokens.Issue(user.Email, user.ID)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, ExpiresAt: exp, User: user}, nil
}

// RequestEmailVerification mails a verification code unless the email is
// already verified
func (s *AuthService) RequestEmailVerification(ctx context.Context, email string) error {
	return s.otp.Request(ctx, email, model.PurposeEmailVerify)
}

// VerifyEmail consumes a verification code and marks the email verified
func (s *AuthService) VerifyEmail(ctx context.Context, email, code string) (*model.User, error) {
	return s.otp.Verify(ctx, email, model.PurposeEmailVerify, code, func(u *model.User) error {
		u.EmailVerified = true
		return nil
	})
}

// RequestPasswordReset mails a password reset code
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	return s.otp.Request(ctx, email, model.PurposePasswordReset)
}

// ResetPassword consumes a reset code and replaces the password hash
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	_, err := s.otp.Verify(ctx, email, model.PurposePasswordReset, code, func(u *model.User) error {
		hash, err := s.hasher.Hash(newPassword)
		if err != nil {
			return fmt.Errorf("failed to hash password, %w", err)
		}

		u.PasswordHash = hash
		return nil
	})

	return err
}
