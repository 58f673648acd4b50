// Package cases
package cases

import (
	"context"
	"errors"
	"strings"

	"casetrack/internal/domain"
	"casetrack/internal/logger"

	"github.com/google/uuid"
)

type Service struct {
	repo  domain.CaseRepository
	users domain.UserRepository
	log   logger.Logger
}

func NewService(repo domain.CaseRepository, users domain.UserRepository, log logger.Logger) domain.CaseService {
	return &Service{
		repo:  repo,
		users: users,
		log:   log,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CaseCreateRequest) (*domain.Case, error) {
	c := &domain.Case{
		ID:              uuid.New(),
		CaseNumber:      strings.TrimSpace(req.CaseNumber),
		Title:           strings.TrimSpace(req.Title),
		Priority:        req.Priority,
		Status:          domain.CaseStatusOpen,
		SectionUnderIPC: req.SectionUnderIPC,
		Deadline:        req.Deadline,
	}

	if req.AssignedOfficerEmail != "" {
		officer, err := s.resolveOfficer(ctx, req.AssignedOfficerEmail)
		if err != nil {
			return nil, err
		}
		c.AssignedOfficerID = &officer.ID
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.log.Info("cases: created", "case_id", c.ID, "case_number", c.CaseNumber)
	return c, nil
}

func (s *Service) Get(ctx context.Context, caseID uuid.UUID) (*domain.Case, error) {
	return s.repo.GetByID(ctx, caseID)
}

func (s *Service) List(ctx context.Context) ([]*domain.Case, error) {
	return s.repo.List(ctx)
}

func (s *Service) AssignedCount(ctx context.Context, officerID uuid.UUID) (int64, error) {
	if _, err := s.users.GetByID(ctx, officerID); err != nil {
		return 0, err
	}
	return s.repo.CountByOfficer(ctx, officerID)
}

func (s *Service) UpdateStatus(ctx context.Context, caseID uuid.UUID, status domain.CaseStatus) error {
	return s.repo.UpdateStatus(ctx, caseID, status)
}

func (s *Service) Assign(ctx context.Context, caseID uuid.UUID, officerEmail string) (*domain.Case, error) {
	officer, err := s.resolveOfficer(ctx, officerEmail)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateAssignee(ctx, caseID, officer.ID); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, caseID)
}

func (s *Service) resolveOfficer(ctx context.Context, email string) (*domain.User, error) {
	officer, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrAssignedOfficerGone
		}
		return nil, err
	}
	return officer, nil
}
