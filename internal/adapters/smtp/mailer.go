// Package smtp
package smtp

import (
	"context"
	"fmt"
	"time"

	"casetrack/internal/config"
	"casetrack/internal/domain"

	"gopkg.in/gomail.v2"
)

type Mailer struct {
	cfg config.SMTPConfig
	ttl time.Duration
}

func NewMailer(cfg config.SMTPConfig, ttl time.Duration) domain.Mailer {
	return &Mailer{cfg: cfg, ttl: ttl}
}

func (m *Mailer) SendOTP(ctx context.Context, to, name, code string, purpose domain.OTPPurpose) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subjectFor(purpose))
	msg.SetBody("text/html", otpBody(name, code, purpose, m.ttl))

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)

	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send otp mail: %w", err)
	}

	return nil
}

func subjectFor(purpose domain.OTPPurpose) string {
	switch purpose {
	case domain.OTPPurposeSignup:
		return "Your Verification Code for Signup"
	case domain.OTPPurposeSignin:
		return "Your One-Time Password for Signin"
	case domain.OTPPurposeResetPassword:
		return "Password Reset Verification Code"
	default:
		return "Your One-Time Password"
	}
}

func otpBody(name, code string, purpose domain.OTPPurpose, ttl time.Duration) string {
	if name == "" {
		name = "User"
	}

	return fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 500px; margin: auto; padding: 20px; border-radius: 8px; background-color: #f9f9f9; border: 1px solid #ddd;">
    <div style="text-align: center; background-color: #0a1941; padding: 15px; border-radius: 8px 8px 0 0;">
        <h2 style="color: #ffffff; margin: 10px 0;">OTP Verification</h2>
    </div>
    <div style="background-color: #ffffff; padding: 20px; border-radius: 0 0 8px 8px; text-align: center;">
        <p style="font-size: 16px;">Dear <strong>%s</strong>,</p>
        <p>Your code for <strong>%s</strong> is:</p>
        <div style="background-color: #f3f4f6; padding: 15px; border-radius: 5px; margin-top: 10px; text-align: center;">
            <h2 style="color: #030711; font-size: 24px; margin: 0;">%s</h2>
            <p style="margin-top: 5px; color: red;">This OTP expires in %s.</p>
        </div>
        <p style="text-align: center; color: gray; font-size: 12px; margin-top: 20px;">
            If you did not request this OTP, please ignore this email.
        </p>
    </div>
    <p style="color:gray; font-size:12px; text-align: center; margin-top: 20px;">This is an autogenerated message.</p>
</div>`, name, purpose, code, formatWindow(ttl))
}

// formatWindow renders the OTP validity window for the mail body.
func formatWindow(ttl time.Duration) string {
	if ttl < time.Minute {
		return fmt.Sprintf("%d seconds", int(ttl.Seconds()))
	}

	minutes := int(ttl.Round(time.Minute).Minutes())
	if minutes == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", minutes)
}
