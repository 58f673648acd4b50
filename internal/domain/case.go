package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrCaseNotFound        = errors.New("case not found")
	ErrCaseNumberExists    = errors.New("case number already exists")
	ErrAssignedOfficerGone = errors.New("assigned officer not found")
)

type CaseStatus string

const (
	CaseStatusOpen               CaseStatus = "open"
	CaseStatusUnderInvestigation CaseStatus = "under_investigation"
	CaseStatusClosed             CaseStatus = "closed"
)

type CasePriority string

const (
	CasePriorityLow    CasePriority = "low"
	CasePriorityMedium CasePriority = "medium"
	CasePriorityHigh   CasePriority = "high"
)

type Case struct {
	ID                uuid.UUID    `json:"case_id"`
	CaseNumber        string       `json:"case_number"`
	Title             string       `json:"title"`
	Priority          CasePriority `json:"priority"`
	Status            CaseStatus   `json:"status"`
	SectionUnderIPC   string       `json:"section_under_ipc,omitempty"`
	Deadline          *time.Time   `json:"deadline,omitempty"`
	AssignedOfficerID *uuid.UUID   `json:"assigned_officer_id,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

type CaseCreateRequest struct {
	CaseNumber           string       `json:"case_number" validate:"required"`
	Title                string       `json:"title" validate:"required"`
	Priority             CasePriority `json:"priority" validate:"required,oneof=low medium high"`
	SectionUnderIPC      string       `json:"section_under_ipc" validate:"omitempty"`
	Deadline             *time.Time   `json:"deadline" validate:"omitempty"`
	AssignedOfficerEmail string       `json:"assigned_officer_email" validate:"omitempty,email"`
}

type CaseStatusRequest struct {
	Status CaseStatus `json:"status" validate:"required,oneof=open under_investigation closed"`
}

type CaseAssignRequest struct {
	AssignedOfficerEmail string `json:"assigned_officer_email" validate:"required,email"`
}

type CaseRepository interface {
	Create(ctx context.Context, c *Case) error
	GetByID(ctx context.Context, caseID uuid.UUID) (*Case, error)
	List(ctx context.Context) ([]*Case, error)
	CountByOfficer(ctx context.Context, officerID uuid.UUID) (int64, error)
	UpdateStatus(ctx context.Context, caseID uuid.UUID, status CaseStatus) error
	UpdateAssignee(ctx context.Context, caseID uuid.UUID, officerID uuid.UUID) error
}

type CaseService interface {
	Create(ctx context.Context, req CaseCreateRequest) (*Case, error)
	Get(ctx context.Context, caseID uuid.UUID) (*Case, error)
	List(ctx context.Context) ([]*Case, error)
	AssignedCount(ctx context.Context, officerID uuid.UUID) (int64, error)
	UpdateStatus(ctx context.Context, caseID uuid.UUID, status CaseStatus) error
	Assign(ctx context.Context, caseID uuid.UUID, officerEmail string) (*Case, error)
}
