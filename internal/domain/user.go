// Package domain
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrPendingNotFound     = errors.New("pending signup not found")
	ErrEmailAlreadyExists  = errors.New("email already exists")
	ErrSignupPending       = errors.New("signup awaiting approval")
	ErrAccountDeactivated  = errors.New("account deactivated")
	ErrAccountUnverified   = errors.New("account not verified")
	ErrCannotChangeOwnRole = errors.New("cannot change own role")
	ErrCannotDeleteSelf    = errors.New("cannot deactivate own account")
)

type Role string

const (
	RoleOfficer Role = "officer"
	RoleAdmin   Role = "admin"
)

type Rank string

const (
	RankConstable            Rank = "constable"
	RankInspector            Rank = "inspector"
	RankSeniorInspector      Rank = "senior inspector"
	RankInvestigatingOfficer Rank = "investigating officer"
)

func (r Rank) Valid() bool {
	switch r {
	case RankConstable, RankInspector, RankSeniorInspector, RankInvestigatingOfficer:
		return true
	}
	return false
}

type User struct {
	ID        uuid.UUID  `json:"user_id"`
	Name      string     `json:"name"`
	Rank      Rank       `json:"rank"`
	Email     string     `json:"email_id"`
	Password  string     `json:"-"`
	Role      Role       `json:"role"`
	Verified  bool       `json:"is_verified"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-"`
}

// PendingUser is a signup request parked until an admin promotes it to a User.
type PendingUser struct {
	ID        uuid.UUID `json:"pending_id"`
	Name      string    `json:"name"`
	Rank      Rank      `json:"rank"`
	Email     string    `json:"email_id"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

type UserRepository interface {
	GetByID(ctx context.Context, userID uuid.UUID) (*User, error)
	// GetByIDUnscoped does not filter soft-deleted rows; the auth guard uses it
	// to tell a deactivated account apart from one that never existed.
	GetByIDUnscoped(ctx context.Context, userID uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	UpdateRole(ctx context.Context, userID uuid.UUID, role Role) error
	UpdatePassword(ctx context.Context, email, passwordHash string) error
	SoftDelete(ctx context.Context, userID uuid.UUID) error

	GetPendingByID(ctx context.Context, pendingID uuid.UUID) (*PendingUser, error)
	GetPendingByEmail(ctx context.Context, email string) (*PendingUser, error)
	ListPending(ctx context.Context) ([]*PendingUser, error)
	CreatePending(ctx context.Context, pending *PendingUser) error
	DeletePending(ctx context.Context, email string) error
}
