// Package service contains the business logic behind the auth endpoints
package service

import (
	"bitwise74/auth-api/internal/model"
	"bitwise74/auth-api/internal/store"
	"bitwise74/auth-api/pkg/apierr"
	"bitwise74/auth-api/pkg/security"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// PurposeConfig describes how codes for one purpose are issued. Subject
// and Body may contain the {{code}} and {{ttl}} placeholders.
type PurposeConfig struct {
	TTL     time.Duration
	Subject string
	Body    string
}

func (p PurposeConfig) render(s, code string) string {
	return strings.NewReplacer("{{code}}", code, "{{ttl}}", humanDuration(p.TTL)).Replace(s)
}

// DefaultPurposes returns the mail templates for both flows with the given
// expiry windows
func DefaultPurposes(verifyTTL, resetTTL time.Duration) map[model.Purpose]PurposeConfig {
	return map[model.Purpose]PurposeConfig{
		model.PurposeEmailVerify: {
			TTL:     verifyTTL,
			Subject: "Verify your email",
			Body:    "Your email verification code is {{code}}.\n\nThis code will expire in {{ttl}}.",
		},
		model.PurposePasswordReset: {
			TTL:     resetTTL,
			Subject: "Reset your password",
			Body:    "Your password reset code is {{code}}.\n\nThis code will expire in {{ttl}}. If you didn't request a password reset you can ignore this email.",
		},
	}
}

// OTPManager issues and consumes one-time codes. Codes live on the user
// record, one per purpose, and are only checked for expiry when used.
type OTPManager struct {
	store    store.Store
	notifier Notifier
	clock    clockwork.Clock
	purposes map[model.Purpose]PurposeConfig
}

func NewOTPManager(s store.Store, n Notifier, clock clockwork.Clock, purposes map[model.Purpose]PurposeConfig) (*OTPManager, error) {
	if s == nil {
		return nil, errors.New("store is required")
	}

	if n == nil {
		return nil, errors.New("notifier is required")
	}

	for p, c := range purposes {
		if c.TTL <= 0 {
			return nil, fmt.Errorf("ttl for %s must be bigger than 0", p)
		}
	}

	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &OTPManager{
		store:    s,
		notifier: n,
		clock:    clock,
		purposes: purposes,
	}, nil
}

func (m *OTPManager) config(p model.Purpose) (PurposeConfig, error) {
	c, ok := m.purposes[p]
	if !ok {
		return PurposeConfig{}, model.ErrUnknownPurpose
	}

	return c, nil
}

// Request generates a fresh code for purpose p, stores it on the user and
// mails it. A previous unused code is overwritten. When the mail can't be
// sent the stored code is kept and apierr.ErrNotificationFailure returned.
func (m *OTPManager) Request(ctx context.Context, email string, p model.Purpose) error {
	c, err := m.config(p)
	if err != nil {
		return err
	}

	user, err := m.store.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	if p == model.PurposeEmailVerify && user.EmailVerified {
		return nil
	}

	code, err := security.GenerateOTP()
	if err != nil {
		return err
	}

	if err := user.SetOTP(p, code, m.clock.Now().Add(c.TTL)); err != nil {
		return err
	}

	if _, err := m.store.Save(ctx, user); err != nil {
		return err
	}

	zap.L().Debug("OTP issued", zap.String("userID", user.ID), zap.String("purpose", string(p)))

	err = m.notifier.Send(ctx, user.Email, c.render(c.Subject, code), c.render(c.Body, code))
	if err != nil {
		zap.L().Error("Failed to send OTP email", zap.Error(err), zap.String("userID", user.ID), zap.String("purpose", string(p)))
		return fmt.Errorf("%w: %v", apierr.ErrNotificationFailure, err)
	}

	return nil
}

// Verify consumes the code stored for purpose p. apply runs on the loaded
// user before the code is cleared and the record saved, so its changes are
// persisted together with the consumption.
func (m *OTPManager) Verify(ctx context.Context, email string, p model.Purpose, code string, apply func(*model.User) error) (*model.User, error) {
	if _, err := m.config(p); err != nil {
		return nil, err
	}

	user, err := m.store.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	stored, expiresAt, err := user.OTP(p)
	if err != nil {
		return nil, err
	}

	if stored == nil || expiresAt == nil || !security.OTPEqual(*stored, code) {
		return nil, apierr.ErrInvalidOTP
	}

	if !expiresAt.After(m.clock.Now()) {
		// Drop the stale code so it can't be replayed
		if err := user.ClearOTP(p); err == nil {
			if _, err := m.store.Save(ctx, user); err != nil {
				zap.L().Warn("Failed to clear expired OTP", zap.Error(err), zap.String("userID", user.ID))
			}
		}

		return nil, apierr.ErrOTPExpired
	}

	if apply != nil {
		if err := apply(user); err != nil {
			return nil, err
		}
	}

	if err := user.ClearOTP(p); err != nil {
		return nil, err
	}

	return m.store.Save(ctx, user)
}

func humanDuration(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		if h := int(d / time.Hour); h != 1 {
			return fmt.Sprintf("%d hours", h)
		}
		return "1 hour"
	case d >= time.Minute && d%time.Minute == 0:
		if m := int(d / time.Minute); m != 1 {
			return fmt.Sprintf("%d minutes", m)
		}
		return "1 minute"
	default:
		return d.String()
	}
}
