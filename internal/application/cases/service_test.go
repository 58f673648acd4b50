package cases

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casetrack/internal/domain"
	"casetrack/internal/logger"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

func (nopLogger) With(...any) logger.Logger { return nopLogger{} }

type mockCaseRepo struct {
	createFunc         func(ctx context.Context, c *domain.Case) error
	getByIDFunc        func(ctx context.Context, id uuid.UUID) (*domain.Case, error)
	countByOfficerFunc func(ctx context.Context, officerID uuid.UUID) (int64, error)
	updateAssigneeFunc func(ctx context.Context, caseID, officerID uuid.UUID) error
}

func (m *mockCaseRepo) Create(ctx context.Context, c *domain.Case) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, c)
	}
	return nil
}

func (m *mockCaseRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Case, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, domain.ErrCaseNotFound
}

func (m *mockCaseRepo) List(context.Context) ([]*domain.Case, error) {
	return nil, errors.New("not implemented")
}

func (m *mockCaseRepo) CountByOfficer(ctx context.Context, officerID uuid.UUID) (int64, error) {
	if m.countByOfficerFunc != nil {
		return m.countByOfficerFunc(ctx, officerID)
	}
	return 0, errors.New("not implemented")
}

func (m *mockCaseRepo) UpdateStatus(context.Context, uuid.UUID, domain.CaseStatus) error {
	return errors.New("not implemented")
}

func (m *mockCaseRepo) UpdateAssignee(ctx context.Context, caseID, officerID uuid.UUID) error {
	if m.updateAssigneeFunc != nil {
		return m.updateAssigneeFunc(ctx, caseID, officerID)
	}
	return errors.New("not implemented")
}

type mockUserRepo struct {
	getByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
	getByIDFunc    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getByEmailFunc != nil {
		return m.getByEmailFunc(ctx, email)
	}
	return nil, domain.ErrUserNotFound
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, domain.ErrUserNotFound
}

func (m *mockUserRepo) GetByIDUnscoped(context.Context, uuid.UUID) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (m *mockUserRepo) List(context.Context) ([]*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (m *mockUserRepo) Create(context.Context, *domain.User) error {
	return errors.New("not implemented")
}

func (m *mockUserRepo) Update(context.Context, *domain.User) error {
	return errors.New("not implemented")
}

func (m *mockUserRepo) UpdateRole(context.Context, uuid.UUID, domain.Role) error {
	return errors.New("not implemented")
}

func (m *mockUserRepo) UpdatePassword(context.Context, string, string) error {
	return errors.New("not implemented")
}

func (m *mockUserRepo) SoftDelete(context.Context, uuid.UUID) error {
	return errors.New("not implemented")
}

func (m *mockUserRepo) GetPendingByID(context.Context, uuid.UUID) (*domain.PendingUser, error) {
	return nil, errors.New("not implemented")
}

func (m *mockUserRepo) GetPendingByEmail(context.Context, string) (*domain.PendingUser, error) {
	return nil, errors.New("not implemented")
}

func (m *mockUserRepo) ListPending(context.Context) ([]*domain.PendingUser, error) {
	return nil, errors.New("not implemented")
}

func (m *mockUserRepo) CreatePending(context.Context, *domain.PendingUser) error {
	return errors.New("not implemented")
}

func (m *mockUserRepo) DeletePending(context.Context, string) error {
	return errors.New("not implemented")
}

func TestCreateOpensCaseWithTrimmedFields(t *testing.T) {
	var stored *domain.Case
	repo := &mockCaseRepo{
		createFunc: func(_ context.Context, c *domain.Case) error {
			stored = c
			return nil
		},
	}
	svc := NewService(repo, &mockUserRepo{}, nopLogger{})

	c, err := svc.Create(context.Background(), domain.CaseCreateRequest{
		CaseNumber: "  FIR-2024-0042  ",
		Title:      " Warehouse arson ",
		Priority:   domain.CasePriorityHigh,
	})
	require.NoError(t, err)

	require.NotNil(t, stored)
	assert.Equal(t, "FIR-2024-0042", c.CaseNumber)
	assert.Equal(t, "Warehouse arson", c.Title)
	assert.Equal(t, domain.CaseStatusOpen, c.Status)
	assert.Nil(t, c.AssignedOfficerID)
}

func TestCreateResolvesAssignedOfficer(t *testing.T) {
	officerID := uuid.New()
	users := &mockUserRepo{
		getByEmailFunc: func(_ context.Context, email string) (*domain.User, error) {
			assert.Equal(t, "ravi@police.gov", email)
			return &domain.User{ID: officerID, Email: email}, nil
		},
	}
	svc := NewService(&mockCaseRepo{}, users, nopLogger{})

	c, err := svc.Create(context.Background(), domain.CaseCreateRequest{
		CaseNumber:           "FIR-2024-0042",
		Title:                "Warehouse arson",
		Priority:             domain.CasePriorityHigh,
		AssignedOfficerEmail: " Ravi@Police.gov ",
	})
	require.NoError(t, err)

	require.NotNil(t, c.AssignedOfficerID)
	assert.Equal(t, officerID, *c.AssignedOfficerID)
}

func TestCreateUnknownOfficer(t *testing.T) {
	svc := NewService(&mockCaseRepo{}, &mockUserRepo{}, nopLogger{})

	_, err := svc.Create(context.Background(), domain.CaseCreateRequest{
		CaseNumber:           "FIR-2024-0042",
		Title:                "Warehouse arson",
		Priority:             domain.CasePriorityHigh,
		AssignedOfficerEmail: "ghost@police.gov",
	})
	assert.ErrorIs(t, err, domain.ErrAssignedOfficerGone)
}

func TestCreateDuplicateCaseNumber(t *testing.T) {
	repo := &mockCaseRepo{
		createFunc: func(context.Context, *domain.Case) error {
			return domain.ErrCaseNumberExists
		},
	}
	svc := NewService(repo, &mockUserRepo{}, nopLogger{})

	_, err := svc.Create(context.Background(), domain.CaseCreateRequest{
		CaseNumber: "FIR-2024-0042",
		Title:      "Warehouse arson",
		Priority:   domain.CasePriorityLow,
	})
	assert.ErrorIs(t, err, domain.ErrCaseNumberExists)
}

func TestAssignUpdatesAndReloads(t *testing.T) {
	caseID := uuid.New()
	officerID := uuid.New()

	users := &mockUserRepo{
		getByEmailFunc: func(context.Context, string) (*domain.User, error) {
			return &domain.User{ID: officerID}, nil
		},
	}
	repo := &mockCaseRepo{
		updateAssigneeFunc: func(_ context.Context, gotCase, gotOfficer uuid.UUID) error {
			assert.Equal(t, caseID, gotCase)
			assert.Equal(t, officerID, gotOfficer)
			return nil
		},
		getByIDFunc: func(context.Context, uuid.UUID) (*domain.Case, error) {
			return &domain.Case{ID: caseID, AssignedOfficerID: &officerID}, nil
		},
	}
	svc := NewService(repo, users, nopLogger{})

	c, err := svc.Assign(context.Background(), caseID, "ravi@police.gov")
	require.NoError(t, err)
	require.NotNil(t, c.AssignedOfficerID)
	assert.Equal(t, officerID, *c.AssignedOfficerID)
}

func TestAssignedCount(t *testing.T) {
	officerID := uuid.New()

	users := &mockUserRepo{
		getByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.User, error) {
			require.Equal(t, officerID, id)
			return &domain.User{ID: officerID}, nil
		},
	}
	repo := &mockCaseRepo{
		countByOfficerFunc: func(_ context.Context, id uuid.UUID) (int64, error) {
			require.Equal(t, officerID, id)
			return 7, nil
		},
	}
	svc := NewService(repo, users, nopLogger{})

	count, err := svc.AssignedCount(context.Background(), officerID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
}

func TestAssignedCountUnknownOfficer(t *testing.T) {
	svc := NewService(&mockCaseRepo{}, &mockUserRepo{}, nopLogger{})

	_, err := svc.AssignedCount(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestAssignUnknownCase(t *testing.T) {
	users := &mockUserRepo{
		getByEmailFunc: func(context.Context, string) (*domain.User, error) {
			return &domain.User{ID: uuid.New()}, nil
		},
	}
	repo := &mockCaseRepo{
		updateAssigneeFunc: func(context.Context, uuid.UUID, uuid.UUID) error {
			return domain.ErrCaseNotFound
		},
	}
	svc := NewService(repo, users, nopLogger{})

	_, err := svc.Assign(context.Background(), uuid.New(), "ravi@police.gov")
	assert.ErrorIs(t, err, domain.ErrCaseNotFound)
}
