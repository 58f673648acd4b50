package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"casetrack/internal/domain"
	"casetrack/internal/logger"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

func (nopLogger) With(...any) logger.Logger { return nopLogger{} }

type mockUserRepo struct {
	getByIDFunc        func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	getByEmailFunc     func(ctx context.Context, email string) (*domain.User, error)
	createFunc         func(ctx context.Context, user *domain.User) error
	updateFunc         func(ctx context.Context, user *domain.User) error
	updateRoleFunc     func(ctx context.Context, id uuid.UUID, role domain.Role) error
	updatePasswordFunc func(ctx context.Context, email, hash string) error
	softDeleteFunc     func(ctx context.Context, id uuid.UUID) error

	getPendingByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.PendingUser, error)
	createPendingFunc  func(ctx context.Context, pending *domain.PendingUser) error
	deletePendingFunc  func(ctx context.Context, email string) error
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, domain.ErrUserNotFound
}

func (m *mockUserRepo) GetByIDUnscoped(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return m.GetByID(ctx, id)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getByEmailFunc != nil {
		return m.getByEmailFunc(ctx, email)
	}
	return nil, domain.ErrUserNotFound
}

func (m *mockUserRepo) List(context.Context) ([]*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return errors.New("not implemented")
}

func (m *mockUserRepo) Update(ctx context.Context, user *domain.User) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, user)
	}
	return errors.New("not implemented")
}

func (m *mockUserRepo) UpdateRole(ctx context.Context, id uuid.UUID, role domain.Role) error {
	if m.updateRoleFunc != nil {
		return m.updateRoleFunc(ctx, id, role)
	}
	return errors.New("not implemented")
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, email, hash string) error {
	if m.updatePasswordFunc != nil {
		return m.updatePasswordFunc(ctx, email, hash)
	}
	return errors.New("not implemented")
}

func (m *mockUserRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if m.softDeleteFunc != nil {
		return m.softDeleteFunc(ctx, id)
	}
	return errors.New("not implemented")
}

func (m *mockUserRepo) GetPendingByID(ctx context.Context, id uuid.UUID) (*domain.PendingUser, error) {
	if m.getPendingByIDFunc != nil {
		return m.getPendingByIDFunc(ctx, id)
	}
	return nil, domain.ErrPendingNotFound
}

func (m *mockUserRepo) GetPendingByEmail(context.Context, string) (*domain.PendingUser, error) {
	return nil, domain.ErrPendingNotFound
}

func (m *mockUserRepo) ListPending(context.Context) ([]*domain.PendingUser, error) {
	return nil, errors.New("not implemented")
}

func (m *mockUserRepo) CreatePending(ctx context.Context, pending *domain.PendingUser) error {
	if m.createPendingFunc != nil {
		return m.createPendingFunc(ctx, pending)
	}
	return errors.New("not implemented")
}

func (m *mockUserRepo) DeletePending(ctx context.Context, email string) error {
	if m.deletePendingFunc != nil {
		return m.deletePendingFunc(ctx, email)
	}
	return errors.New("not implemented")
}

type mockOTPService struct {
	validateFunc func(ctx context.Context, email, code string, purpose domain.OTPPurpose) error
}

func (m *mockOTPService) Issue(context.Context, string, domain.OTPPurpose, string) error {
	return errors.New("not implemented")
}

func (m *mockOTPService) Validate(ctx context.Context, email, code string, purpose domain.OTPPurpose) error {
	if m.validateFunc != nil {
		return m.validateFunc(ctx, email, code, purpose)
	}
	return nil
}

type mockTokenService struct {
	issueFunc func(user *domain.User) (string, error)
}

func (m *mockTokenService) Issue(user *domain.User) (string, error) {
	if m.issueFunc != nil {
		return m.issueFunc(user)
	}
	return "test-token", nil
}

func (m *mockTokenService) Verify(string) (*domain.SessionClaims, error) {
	return nil, errors.New("not implemented")
}

func (m *mockTokenService) Refresh(*domain.SessionClaims) (string, bool, error) {
	return "", false, nil
}

func newTestService(users *mockUserRepo, otps *mockOTPService, autoApprove bool) domain.IdentityService {
	return NewService(users, otps, &mockTokenService{}, autoApprove, nopLogger{})
}

func signupRequest() domain.SignupRequest {
	return domain.SignupRequest{
		Name:     "Asha",
		Rank:     domain.RankInspector,
		Email:    "asha@police.gov",
		Password: "long-enough-password",
		Code:     "1234",
	}
}

func TestSignupParksPendingAccount(t *testing.T) {
	var created *domain.PendingUser
	users := &mockUserRepo{
		createPendingFunc: func(_ context.Context, pending *domain.PendingUser) error {
			created = pending
			return nil
		},
	}
	svc := newTestService(users, &mockOTPService{}, false)

	result, err := svc.Signup(context.Background(), signupRequest())
	require.NoError(t, err)

	require.NotNil(t, result.Pending)
	assert.Nil(t, result.User)
	require.NotNil(t, created)
	assert.Equal(t, "asha@police.gov", created.Email)

	// The stored credential must be a hash, never the raw password.
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("long-enough-password")))
}

func TestSignupAutoApproveCreatesVerifiedOfficer(t *testing.T) {
	var created *domain.User
	users := &mockUserRepo{
		createFunc: func(_ context.Context, user *domain.User) error {
			created = user
			return nil
		},
	}
	svc := newTestService(users, &mockOTPService{}, true)

	result, err := svc.Signup(context.Background(), signupRequest())
	require.NoError(t, err)

	require.NotNil(t, result.User)
	assert.Nil(t, result.Pending)
	require.NotNil(t, created)
	assert.Equal(t, domain.RoleOfficer, created.Role)
	assert.True(t, created.Verified)
}

func TestSignupRejectsInvalidRank(t *testing.T) {
	svc := newTestService(&mockUserRepo{}, &mockOTPService{}, false)

	req := signupRequest()
	req.Rank = "commissioner"

	_, err := svc.Signup(context.Background(), req)

	var fieldErr *domain.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "rank", fieldErr.Field)
}

func TestSignupPropagatesOTPFailure(t *testing.T) {
	otps := &mockOTPService{
		validateFunc: func(context.Context, string, string, domain.OTPPurpose) error {
			return domain.ErrOTPNotFound
		},
	}
	svc := newTestService(&mockUserRepo{}, otps, false)

	_, err := svc.Signup(context.Background(), signupRequest())
	assert.ErrorIs(t, err, domain.ErrOTPNotFound)
}

func TestSignupExistingAccountConflicts(t *testing.T) {
	users := &mockUserRepo{
		getByEmailFunc: func(context.Context, string) (*domain.User, error) {
			return &domain.User{Email: "asha@police.gov"}, nil
		},
	}
	svc := newTestService(users, &mockOTPService{}, false)

	_, err := svc.Signup(context.Background(), signupRequest())
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestSignupDuplicatePendingReportsAwaitingApproval(t *testing.T) {
	users := &mockUserRepo{
		createPendingFunc: func(context.Context, *domain.PendingUser) error {
			return domain.ErrEmailAlreadyExists
		},
	}
	svc := newTestService(users, &mockOTPService{}, false)

	_, err := svc.Signup(context.Background(), signupRequest())
	assert.ErrorIs(t, err, domain.ErrSignupPending)
}

func TestVerifyPromotesPendingSignup(t *testing.T) {
	pendingID := uuid.New()
	var created *domain.User
	var deletedEmail string

	users := &mockUserRepo{
		getPendingByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.PendingUser, error) {
			require.Equal(t, pendingID, id)
			return &domain.PendingUser{
				ID:       pendingID,
				Name:     "Asha",
				Rank:     domain.RankInspector,
				Email:    "asha@police.gov",
				Password: "$2a$10$hash",
			}, nil
		},
		createFunc: func(_ context.Context, user *domain.User) error {
			created = user
			return nil
		},
		deletePendingFunc: func(_ context.Context, email string) error {
			deletedEmail = email
			return nil
		},
	}
	svc := newTestService(users, &mockOTPService{}, false)

	user, err := svc.Verify(context.Background(), pendingID)
	require.NoError(t, err)

	require.NotNil(t, created)
	assert.True(t, user.Verified)
	assert.Equal(t, domain.RoleOfficer, user.Role)
	assert.Equal(t, "$2a$10$hash", user.Password)
	assert.Equal(t, "asha@police.gov", deletedEmail)
}

func TestVerifyUnknownPending(t *testing.T) {
	svc := newTestService(&mockUserRepo{}, &mockOTPService{}, false)

	_, err := svc.Verify(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrPendingNotFound)
}

func TestVerifyLostRaceCleansUpPendingRow(t *testing.T) {
	var deletedEmail string
	users := &mockUserRepo{
		getPendingByIDFunc: func(context.Context, uuid.UUID) (*domain.PendingUser, error) {
			return &domain.PendingUser{Email: "asha@police.gov"}, nil
		},
		createFunc: func(context.Context, *domain.User) error {
			return domain.ErrEmailAlreadyExists
		},
		deletePendingFunc: func(_ context.Context, email string) error {
			deletedEmail = email
			return nil
		},
	}
	svc := newTestService(users, &mockOTPService{}, false)

	_, err := svc.Verify(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	assert.Equal(t, "asha@police.gov", deletedEmail)
}

func TestSigninIssuesToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("long-enough-password"), bcrypt.DefaultCost)
	require.NoError(t, err)

	users := &mockUserRepo{
		getByEmailFunc: func(context.Context, string) (*domain.User, error) {
			return &domain.User{
				ID:       uuid.New(),
				Email:    "asha@police.gov",
				Password: string(hash),
				Role:     domain.RoleOfficer,
				Verified: true,
			}, nil
		},
	}
	svc := newTestService(users, &mockOTPService{}, false)

	res, err := svc.Signin(context.Background(), domain.SigninRequest{
		Email:    "asha@police.gov",
		Password: "long-enough-password",
		Code:     "1234",
	})
	require.NoError(t, err)
	assert.Equal(t, "test-token", res.Token)
	assert.Equal(t, "asha@police.gov", res.User.Email)
}

func TestSigninWrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.DefaultCost)
	require.NoError(t, err)

	users := &mockUserRepo{
		getByEmailFunc: func(context.Context, string) (*domain.User, error) {
			return &domain.User{Password: string(hash), Verified: true}, nil
		},
	}
	svc := newTestService(users, &mockOTPService{}, false)

	_, err = svc.Signin(context.Background(), domain.SigninRequest{
		Email:    "asha@police.gov",
		Password: "wrong-password",
		Code:     "1234",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestSigninUnverifiedAccount(t *testing.T) {
	users := &mockUserRepo{
		getByEmailFunc: func(context.Context, string) (*domain.User, error) {
			return &domain.User{Verified: false}, nil
		},
	}
	svc := newTestService(users, &mockOTPService{}, false)

	_, err := svc.Signin(context.Background(), domain.SigninRequest{
		Email:    "asha@police.gov",
		Password: "whatever",
		Code:     "1234",
	})
	assert.ErrorIs(t, err, domain.ErrAccountUnverified)
}

func TestSigninWithoutIssuedCode(t *testing.T) {
	otps := &mockOTPService{
		validateFunc: func(context.Context, string, string, domain.OTPPurpose) error {
			return domain.ErrOTPNotFound
		},
	}
	svc := newTestService(&mockUserRepo{}, otps, false)

	_, err := svc.Signin(context.Background(), domain.SigninRequest{
		Email:    "asha@police.gov",
		Password: "whatever",
		Code:     "1234",
	})
	assert.ErrorIs(t, err, domain.ErrOTPNotFound)
}

func TestResetPasswordStoresNewHash(t *testing.T) {
	var storedHash string
	users := &mockUserRepo{
		updatePasswordFunc: func(_ context.Context, _, hash string) error {
			storedHash = hash
			return nil
		},
	}
	svc := newTestService(users, &mockOTPService{}, false)

	err := svc.ResetPassword(context.Background(), domain.ResetPasswordRequest{
		Email:       "asha@police.gov",
		Code:        "1234",
		NewPassword: "brand-new-password",
	})
	require.NoError(t, err)

	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(storedHash), []byte("brand-new-password")))
}

func TestResetPasswordRejectsShortPassword(t *testing.T) {
	updateCalled := false
	users := &mockUserRepo{
		updatePasswordFunc: func(context.Context, string, string) error {
			updateCalled = true
			return nil
		},
	}
	svc := newTestService(users, &mockOTPService{}, false)

	err := svc.ResetPassword(context.Background(), domain.ResetPasswordRequest{
		Email:       "asha@police.gov",
		Code:        "1234",
		NewPassword: "short",
	})

	var fieldErr *domain.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "password", fieldErr.Field)
	assert.False(t, updateCalled)
}

func TestChangeRoleBlocksSelfDemotion(t *testing.T) {
	svc := newTestService(&mockUserRepo{}, &mockOTPService{}, false)

	actorID := uuid.New()
	err := svc.ChangeRole(context.Background(), actorID, actorID, domain.RoleOfficer)
	assert.ErrorIs(t, err, domain.ErrCannotChangeOwnRole)
}

func TestChangeRoleUpdatesTarget(t *testing.T) {
	targetID := uuid.New()
	var gotRole domain.Role

	users := &mockUserRepo{
		getByIDFunc: func(context.Context, uuid.UUID) (*domain.User, error) {
			return &domain.User{ID: targetID}, nil
		},
		updateRoleFunc: func(_ context.Context, id uuid.UUID, role domain.Role) error {
			require.Equal(t, targetID, id)
			gotRole = role
			return nil
		},
	}
	svc := newTestService(users, &mockOTPService{}, false)

	err := svc.ChangeRole(context.Background(), uuid.New(), targetID, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, gotRole)
}

func TestDeactivateBlocksSelf(t *testing.T) {
	svc := newTestService(&mockUserRepo{}, &mockOTPService{}, false)

	actorID := uuid.New()
	err := svc.Deactivate(context.Background(), actorID, actorID)
	assert.ErrorIs(t, err, domain.ErrCannotDeleteSelf)
}

func TestDeactivateSoftDeletesTarget(t *testing.T) {
	targetID := uuid.New()
	var deleted uuid.UUID

	users := &mockUserRepo{
		softDeleteFunc: func(_ context.Context, id uuid.UUID) error {
			deleted = id
			return nil
		},
	}
	svc := newTestService(users, &mockOTPService{}, false)

	err := svc.Deactivate(context.Background(), uuid.New(), targetID)
	require.NoError(t, err)
	assert.Equal(t, targetID, deleted)
}
