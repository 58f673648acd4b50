package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"casetrack/internal/domain"
)

type CaseHandler struct {
	svc domain.CaseService
}

func NewCaseHandler(svc domain.CaseService) *CaseHandler {
	return &CaseHandler{svc: svc}
}

func (h *CaseHandler) Store(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req domain.CaseCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if validationErrors := ValidateStruct(req); len(validationErrors) > 0 {
		JSONValidationError(w, validationErrors)
		return
	}

	c, err := h.svc.Create(r.Context(), req)
	if err != nil {
		var fieldErr *domain.FieldError

		switch {
		case errors.Is(err, domain.ErrCaseNumberExists):
			JSONFieldError(w, http.StatusConflict, "case_number", "Case Number already exists.")
		case errors.Is(err, domain.ErrAssignedOfficerGone):
			JSONFieldError(w, http.StatusNotFound, "assigned_officer_email", "Assigned officer not found.")
		case errors.As(err, &fieldErr):
			JSONFieldError(w, http.StatusUnprocessableEntity, fieldErr.Field, fieldErr.Message)
		default:
			JSONError(w, http.StatusInternalServerError, "Failed to create case")
		}
		return
	}

	JSONSuccess(w, http.StatusCreated, APIResponse{
		Message: "Case created successfully.",
		Data:    c,
	})
}

func (h *CaseHandler) Index(w http.ResponseWriter, r *http.Request) {
	cases, err := h.svc.List(r.Context())
	if err != nil {
		JSONError(w, http.StatusInternalServerError, "Failed to fetch cases")
		return
	}

	JSONSuccess(w, http.StatusOK, APIResponse{
		Message: "OK",
		Data:    cases,
	})
}

// AssignedCount reports how many cases are assigned to an officer.
func (h *CaseHandler) AssignedCount(w http.ResponseWriter, r *http.Request) {
	officerID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	count, err := h.svc.AssignedCount(r.Context(), officerID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			JSONError(w, http.StatusNotFound, "User not found.")
			return
		}

		JSONError(w, http.StatusInternalServerError, "Failed to count assigned cases")
		return
	}

	JSONSuccess(w, http.StatusOK, APIResponse{
		Message: "OK",
		Data:    map[string]any{"officer_id": officerID, "total_assigned": count},
	})
}

func (h *CaseHandler) Show(w http.ResponseWriter, r *http.Request) {
	caseID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	c, err := h.svc.Get(r.Context(), caseID)
	if err != nil {
		if errors.Is(err, domain.ErrCaseNotFound) {
			JSONError(w, http.StatusNotFound, "Case not found.")
			return
		}

		JSONError(w, http.StatusInternalServerError, "Failed to fetch case")
		return
	}

	JSONSuccess(w, http.StatusOK, APIResponse{
		Message: "OK",
		Data:    c,
	})
}

func (h *CaseHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	caseID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req domain.CaseStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if validationErrors := ValidateStruct(req); len(validationErrors) > 0 {
		JSONValidationError(w, validationErrors)
		return
	}

	if err := h.svc.UpdateStatus(r.Context(), caseID, req.Status); err != nil {
		if errors.Is(err, domain.ErrCaseNotFound) {
			JSONError(w, http.StatusNotFound, "Case not found.")
			return
		}

		JSONError(w, http.StatusInternalServerError, "Failed to update case status")
		return
	}

	JSONSuccess(w, http.StatusOK, APIResponse{
		Message: "Case status updated successfully.",
	})
}

func (h *CaseHandler) Assign(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	caseID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req domain.CaseAssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if validationErrors := ValidateStruct(req); len(validationErrors) > 0 {
		JSONValidationError(w, validationErrors)
		return
	}

	c, err := h.svc.Assign(r.Context(), caseID, req.AssignedOfficerEmail)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCaseNotFound):
			JSONError(w, http.StatusNotFound, "Case not found.")
		case errors.Is(err, domain.ErrAssignedOfficerGone):
			JSONFieldError(w, http.StatusNotFound, "assigned_officer_email", "Assigned officer not found.")
		default:
			JSONError(w, http.StatusInternalServerError, "Failed to assign case")
		}
		return
	}

	JSONSuccess(w, http.StatusOK, APIResponse{
		Message: "Case assigned successfully.",
		Data:    c,
	})
}
