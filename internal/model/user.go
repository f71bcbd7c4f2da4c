package model

import (
	"errors"
	"time"
)

// Purpose tells which flow an OTP belongs to
type Purpose string

const (
	PurposeEmailVerify   Purpose = "email_verify"
	PurposePasswordReset Purpose = "password_reset"
)

var ErrUnknownPurpose = errors.New("unknown otp purpose")

type User struct {
	ID            string `gorm:"primaryKey;size:16" json:"id"`
	Email         string `gorm:"uniqueIndex;not null" json:"email"`
	Name          string `json:"name"`
	PasswordHash  string `gorm:"not null" json:"-"`
	EmailVerified bool   `gorm:"default:false" json:"emailVerified"`
	Disabled      bool   `gorm:"default:false" json:"-"`

	// Each code and its expiry are written together through SetOTP and ClearOTP
	VerificationOTP          *string    `gorm:"column:verification_otp;size:6" json:"-"`
	VerificationOTPExpiresAt *time.Time `gorm:"column:verification_otp_expires_at" json:"-"`
	ResetOTP                 *string    `gorm:"column:reset_otp;size:6" json:"-"`
	ResetOTPExpiresAt        *time.Time `gorm:"column:reset_otp_expires_at" json:"-"`

	Version   int64     `gorm:"not null;default:0" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

// OTP returns the code and expiry stored for purpose p. Both are nil when
// no code is active.
func (u *User) OTP(p Purpose) (code *string, expiresAt *time.Time, err error) {
	switch p {
	case PurposeEmailVerify:
		return u.VerificationOTP, u.VerificationOTPExpiresAt, nil
	case PurposePasswordReset:
		return u.ResetOTP, u.ResetOTPExpiresAt, nil
	default:
		return nil, nil, ErrUnknownPurpose
	}
}

// SetOTP stores a new code for purpose p, replacing any previous one
func (u *User) SetOTP(p Purpose, code string, expiresAt time.Time) error {
	switch p {
	case PurposeEmailVerify:
		u.VerificationOTP, u.VerificationOTPExpiresAt = &code, &expiresAt
	case PurposePasswordReset:
		u.ResetOTP, u.ResetOTPExpiresAt = &code, &expiresAt
	default:
		return ErrUnknownPurpose
	}

	return nil
}

// ClearOTP removes the code for purpose p
func (u *User) ClearOTP(p Purpose) error {
	switch p {
	case PurposeEmailVerify:
		u.VerificationOTP, u.VerificationOTPExpiresAt = nil, nil
	case PurposePasswordReset:
		u.ResetOTP, u.ResetOTPExpiresAt = nil, nil
	default:
		return ErrUnknownPurpose
	}

	return nil
}

// Authorities lists what the account may do once authenticated
func (u *User) Authorities() []string {
	a := []string{"user"}
	if u.EmailVerified {
		a = append(a, "verified")
	}

	return a
}
