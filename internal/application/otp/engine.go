// Package otp
package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"time"

	"casetrack/internal/domain"
	"casetrack/internal/logger"
)

// Engine issues and validates one-time codes bound to an email and a purpose.
type Engine struct {
	users   domain.UserRepository
	otps    domain.OTPRepository
	mailer  domain.Mailer
	limiter domain.RateLimiter
	ttl     time.Duration
	log     logger.Logger
}

func NewEngine(
	users domain.UserRepository,
	otps domain.OTPRepository,
	mailer domain.Mailer,
	limiter domain.RateLimiter,
	ttl time.Duration,
	log logger.Logger,
) domain.OTPService {
	return &Engine{
		users:   users,
		otps:    otps,
		mailer:  mailer,
		limiter: limiter,
		ttl:     ttl,
		log:     log,
	}
}

func (e *Engine) Issue(ctx context.Context, email string, purpose domain.OTPPurpose, name string) error {
	if !purpose.Valid() {
		return domain.NewFieldError("purpose", "Purpose must be 'signup', 'signin' or 'reset_password'.")
	}

	allowed, err := e.limiter.Allow(ctx, email)
	if err != nil {
		return fmt.Errorf("otp limiter check failed: %w", err)
	}
	if !allowed {
		return domain.ErrOTPRateLimited
	}

	// A pending signup blocks any new code until an admin decides on it.
	if _, err := e.users.GetPendingByEmail(ctx, email); err == nil {
		return domain.ErrSignupPending
	} else if !errors.Is(err, domain.ErrPendingNotFound) {
		return err
	}

	user, err := e.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	switch purpose {
	case domain.OTPPurposeSignup:
		if name == "" {
			return domain.NewFieldError("name", "Name is required for signup.")
		}
		if user != nil {
			return domain.ErrEmailAlreadyExists
		}
	case domain.OTPPurposeSignin, domain.OTPPurposeResetPassword:
		if user == nil {
			return domain.ErrUserNotFound
		}
		name = user.Name
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("failed to generate otp: %w", err)
	}

	record := &domain.OneTimeCode{
		Email:     email,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: time.Now().UTC().Add(e.ttl),
	}

	// The upsert intentionally invalidates any previously issued code.
	if err := e.otps.Upsert(ctx, record); err != nil {
		return fmt.Errorf("failed to persist otp: %w", err)
	}

	// The persisted code is not rolled back on a send failure; a resend
	// request simply overwrites it.
	if err := e.mailer.SendOTP(ctx, email, name, code, purpose); err != nil {
		e.log.Error("otp: mail send failed", "email", email, "purpose", purpose, "error", err)
		return fmt.Errorf("failed to send otp mail: %w", err)
	}

	e.log.Info("otp: code issued", "email", email, "purpose", purpose)
	return nil
}

func (e *Engine) Validate(ctx context.Context, email, code string, purpose domain.OTPPurpose) error {
	record, err := e.otps.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	if subtle.ConstantTimeCompare([]byte(record.Code), []byte(code)) != 1 {
		return domain.ErrOTPMismatch
	}

	if record.Purpose != purpose {
		return domain.ErrOTPWrongPurpose
	}

	if record.Expired(time.Now().UTC()) {
		if err := e.otps.Delete(ctx, email); err != nil {
			e.log.Error("otp: failed to purge expired code", "email", email, "error", err)
		}
		return domain.ErrOTPExpired
	}

	// Single use: a validated code is gone.
	if err := e.otps.Delete(ctx, email); err != nil {
		return fmt.Errorf("failed to consume otp: %w", err)
	}

	return nil
}

// generateCode returns a uniformly random fixed-width 4-digit code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}
