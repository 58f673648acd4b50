package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrOTPNotFound     = errors.New("no otp found")
	ErrOTPMismatch     = errors.New("invalid verification code")
	ErrOTPWrongPurpose = errors.New("otp issued for a different purpose")
	ErrOTPExpired      = errors.New("otp has expired")
	ErrOTPRateLimited  = errors.New("too many otp requests")
)

type OTPPurpose string

const (
	OTPPurposeSignup        OTPPurpose = "signup"
	OTPPurposeSignin        OTPPurpose = "signin"
	OTPPurposeResetPassword OTPPurpose = "reset_password"
)

func (p OTPPurpose) Valid() bool {
	switch p {
	case OTPPurposeSignup, OTPPurposeSignin, OTPPurposeResetPassword:
		return true
	}
	return false
}

// OneTimeCode is a short-lived numeric credential bound to an email address
// and a single purpose. At most one outstanding code exists per email; a new
// issuance overwrites the previous one.
type OneTimeCode struct {
	Email     string     `json:"email_id"`
	Code      string     `json:"-"`
	Purpose   OTPPurpose `json:"purpose"`
	ExpiresAt time.Time  `json:"expiry_time"`
	CreatedAt time.Time  `json:"created_at"`
}

func (c *OneTimeCode) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

type OTPRepository interface {
	// Upsert replaces any outstanding code for the same email.
	Upsert(ctx context.Context, code *OneTimeCode) error
	GetByEmail(ctx context.Context, email string) (*OneTimeCode, error)
	Delete(ctx context.Context, email string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type OTPService interface {
	Issue(ctx context.Context, email string, purpose OTPPurpose, name string) error
	Validate(ctx context.Context, email, code string, purpose OTPPurpose) error
}

// RateLimiter throttles OTP issuance per key (email).
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type Mailer interface {
	SendOTP(ctx context.Context, to, name, code string, purpose OTPPurpose) error
}
