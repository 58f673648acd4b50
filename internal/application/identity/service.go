// Package identity
package identity

import (
	"context"
	"errors"
	"fmt"

	"casetrack/internal/domain"
	"casetrack/internal/logger"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Service orchestrates the pending->verified account lifecycle on top of the
// OTP engine.
type Service struct {
	users  domain.UserRepository
	otps   domain.OTPService
	tokens domain.TokenService
	log    logger.Logger

	// autoApprove creates verified accounts directly on signup instead of
	// parking them for admin approval.
	autoApprove bool
}

func NewService(
	users domain.UserRepository,
	otps domain.OTPService,
	tokens domain.TokenService,
	autoApprove bool,
	log logger.Logger,
) domain.IdentityService {
	return &Service{
		users:       users,
		otps:        otps,
		tokens:      tokens,
		autoApprove: autoApprove,
		log:         log,
	}
}

func (s *Service) Signup(ctx context.Context, req domain.SignupRequest) (*domain.SignupResult, error) {
	if !req.Rank.Valid() {
		return nil, domain.NewFieldError("rank", "Invalid rank provided.")
	}

	if err := s.otps.Validate(ctx, req.Email, req.Code, domain.OTPPurposeSignup); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, domain.ErrEmailAlreadyExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if s.autoApprove {
		user := &domain.User{
			ID:       uuid.New(),
			Name:     req.Name,
			Rank:     req.Rank,
			Email:    req.Email,
			Password: string(hashed),
			Role:     domain.RoleOfficer,
			Verified: true,
		}

		if err := s.users.Create(ctx, user); err != nil {
			return nil, err
		}

		s.log.Info("identity: account created", "user_id", user.ID, "email", user.Email)
		return &domain.SignupResult{User: user}, nil
	}

	pending := &domain.PendingUser{
		ID:       uuid.New(),
		Name:     req.Name,
		Rank:     req.Rank,
		Email:    req.Email,
		Password: string(hashed),
	}

	if err := s.users.CreatePending(ctx, pending); err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			return nil, domain.ErrSignupPending
		}
		return nil, err
	}

	s.log.Info("identity: signup pending approval", "email", pending.Email)
	return &domain.SignupResult{Pending: pending}, nil
}

func (s *Service) Verify(ctx context.Context, pendingID uuid.UUID) (*domain.User, error) {
	pending, err := s.users.GetPendingByID(ctx, pendingID)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:       uuid.New(),
		Name:     pending.Name,
		Rank:     pending.Rank,
		Email:    pending.Email,
		Password: pending.Password,
		Role:     domain.RoleOfficer,
		Verified: true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// Two concurrent approvals race here; the unique constraint on email
		// breaks the tie. The loser cleans up the now-redundant pending row.
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			if delErr := s.users.DeletePending(ctx, pending.Email); delErr != nil {
				s.log.Error("identity: failed to purge stale pending signup", "email", pending.Email, "error", delErr)
			}
			return nil, domain.ErrEmailAlreadyExists
		}
		return nil, err
	}

	if err := s.users.DeletePending(ctx, pending.Email); err != nil {
		s.log.Error("identity: failed to delete promoted pending signup", "email", pending.Email, "error", err)
	}

	s.log.Info("identity: pending signup approved", "user_id", user.ID, "email", user.Email)
	return user, nil
}

func (s *Service) Reject(ctx context.Context, pendingID uuid.UUID) error {
	pending, err := s.users.GetPendingByID(ctx, pendingID)
	if err != nil {
		return err
	}

	if err := s.users.DeletePending(ctx, pending.Email); err != nil {
		return fmt.Errorf("failed to reject pending signup: %w", err)
	}

	s.log.Info("identity: pending signup rejected", "email", pending.Email)
	return nil
}

func (s *Service) Signin(ctx context.Context, req domain.SigninRequest) (*domain.AuthResponse, error) {
	if err := s.otps.Validate(ctx, req.Email, req.Code, domain.OTPPurposeSignin); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	if !user.Verified {
		return nil, domain.ErrAccountUnverified
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.log.Info("identity: signin", "user_id", user.ID)
	return &domain.AuthResponse{User: user, Token: token}, nil
}

func (s *Service) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error {
	if err := s.otps.Validate(ctx, req.Email, req.Code, domain.OTPPurposeResetPassword); err != nil {
		return err
	}

	if len(req.NewPassword) < 8 {
		return domain.NewFieldError("password", "Password must be at least 8 characters.")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, req.Email, string(hashed)); err != nil {
		return err
	}

	s.log.Info("identity: password reset", "email", req.Email)
	return nil
}

func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req domain.UpdateProfileRequest) (*domain.User, error) {
	if !req.Rank.Valid() {
		return nil, domain.NewFieldError("rank", "Invalid rank provided.")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Name = req.Name
	user.Rank = req.Rank

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) ChangeRole(ctx context.Context, actorID, targetID uuid.UUID, role domain.Role) error {
	// Guard against an admin locking themselves out by self-demotion.
	if actorID == targetID {
		return domain.ErrCannotChangeOwnRole
	}

	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		return err
	}

	if err := s.users.UpdateRole(ctx, targetID, role); err != nil {
		return err
	}

	s.log.Info("identity: role changed", "user_id", targetID, "role", role, "by", actorID)
	return nil
}

func (s *Service) Deactivate(ctx context.Context, actorID, targetID uuid.UUID) error {
	if actorID == targetID {
		return domain.ErrCannotDeleteSelf
	}

	if err := s.users.SoftDelete(ctx, targetID); err != nil {
		return err
	}

	s.log.Info("identity: account deactivated", "user_id", targetID, "by", actorID)
	return nil
}

func (s *Service) List(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

func (s *Service) ListPending(ctx context.Context) ([]*domain.PendingUser, error) {
	return s.users.ListPending(ctx)
}
