package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
)

type SendOTPRequest struct {
	Email   string     `json:"email_id" validate:"required,email"`
	Purpose OTPPurpose `json:"purpose" validate:"required,oneof=signup signin reset_password"`
	Name    string     `json:"name" validate:"omitempty,min=2,max=20"`
}

type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=20"`
	Rank     Rank   `json:"rank" validate:"required"`
	Email    string `json:"email_id" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Code     string `json:"code" validate:"required,len=4,numeric"`
}

type SigninRequest struct {
	Email    string `json:"email_id" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Code     string `json:"code" validate:"required,len=4,numeric"`
}

type ResetPasswordRequest struct {
	Email string `json:"email_id" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=4,numeric"`
	// Length is checked in the identity service after the code is validated,
	// so a short password surfaces as a field-scoped 422 rather than a 400.
	NewPassword string `json:"new_password" validate:"required"`
}

type UpdateProfileRequest struct {
	Name string `json:"name" validate:"required,min=2,max=20"`
	Rank Rank   `json:"rank" validate:"required"`
}

type ChangeRoleRequest struct {
	Role Role `json:"role" validate:"required,oneof=officer admin"`
}

type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// SignupResult holds either the created account (auto-approve mode) or the
// pending signup awaiting admin promotion.
type SignupResult struct {
	User    *User        `json:"user,omitempty"`
	Pending *PendingUser `json:"pending,omitempty"`
}

// SessionClaims is the verified content of a session token.
type SessionClaims struct {
	UserID    uuid.UUID
	Email     string
	Role      Role
	ExpiresAt time.Time
}

type TokenService interface {
	Issue(user *User) (string, error)
	// Verify distinguishes an expired token (ErrTokenExpired) from a malformed
	// or tampered one (ErrInvalidToken).
	Verify(raw string) (*SessionClaims, error)
	// Refresh returns a replacement token when the remaining lifetime has
	// dropped below the renewal threshold, and ok=false otherwise.
	Refresh(claims *SessionClaims) (token string, ok bool, err error)
}

type IdentityService interface {
	Signup(ctx context.Context, req SignupRequest) (*SignupResult, error)
	Verify(ctx context.Context, pendingID uuid.UUID) (*User, error)
	Reject(ctx context.Context, pendingID uuid.UUID) error
	Signin(ctx context.Context, req SigninRequest) (*AuthResponse, error)
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
	Profile(ctx context.Context, userID uuid.UUID) (*User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*User, error)
	ChangeRole(ctx context.Context, actorID, targetID uuid.UUID, role Role) error
	Deactivate(ctx context.Context, actorID, targetID uuid.UUID) error
	List(ctx context.Context) ([]*User, error)
	ListPending(ctx context.Context) ([]*PendingUser, error)
}
