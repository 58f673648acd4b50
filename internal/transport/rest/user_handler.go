package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"casetrack/internal/domain"
	"casetrack/internal/transport/rest/middleware"
)

type UserHandler struct {
	svc domain.IdentityService
}

func NewUserHandler(svc domain.IdentityService) *UserHandler {
	return &UserHandler{svc: svc}
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		JSONError(w, http.StatusBadRequest, "Invalid "+name+" in path")
		return uuid.Nil, false
	}
	return id, true
}

func (h *UserHandler) Index(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context())
	if err != nil {
		JSONError(w, http.StatusInternalServerError, "Failed to fetch users")
		return
	}

	JSONSuccess(w, http.StatusOK, APIResponse{
		Message: "OK",
		Data:    users,
	})
}

func (h *UserHandler) Unverified(w http.ResponseWriter, r *http.Request) {
	pending, err := h.svc.ListPending(r.Context())
	if err != nil {
		JSONError(w, http.StatusInternalServerError, "Failed to fetch pending signups")
		return
	}

	JSONSuccess(w, http.StatusOK, APIResponse{
		Message: "OK",
		Data:    pending,
	})
}

// Update lets an officer edit their own profile; admins can edit anyone.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	actor, ok := middleware.GetUser(r.Context())
	if !ok {
		JSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	targetID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if actor.ID != targetID && actor.Role != domain.RoleAdmin {
		JSONError(w, http.StatusForbidden, "You can only update your own profile.")
		return
	}

	var req domain.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if validationErrors := ValidateStruct(req); len(validationErrors) > 0 {
		JSONValidationError(w, validationErrors)
		return
	}

	user, err := h.svc.UpdateProfile(r.Context(), targetID, req)
	if err != nil {
		var fieldErr *domain.FieldError

		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			JSONError(w, http.StatusNotFound, "User not found.")
		case errors.As(err, &fieldErr):
			JSONFieldError(w, http.StatusUnprocessableEntity, fieldErr.Field, fieldErr.Message)
		default:
			JSONError(w, http.StatusInternalServerError, "Failed to update user")
		}
		return
	}

	JSONSuccess(w, http.StatusOK, APIResponse{
		Message: "User updated successfully.",
		Data:    user,
	})
}

func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	actor, ok := middleware.GetUser(r.Context())
	if !ok {
		JSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	targetID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req domain.ChangeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if validationErrors := ValidateStruct(req); len(validationErrors) > 0 {
		JSONValidationError(w, validationErrors)
		return
	}

	if err := h.svc.ChangeRole(r.Context(), actor.ID, targetID, req.Role); err != nil {
		switch {
		case errors.Is(err, domain.ErrCannotChangeOwnRole):
			JSONError(w, http.StatusForbidden, "You cannot change your own role.")
		case errors.Is(err, domain.ErrUserNotFound):
			JSONError(w, http.StatusNotFound, "User not found.")
		default:
			JSONError(w, http.StatusInternalServerError, "Failed to update role")
		}
		return
	}

	JSONSuccess(w, http.StatusOK, APIResponse{
		Message: "Role updated successfully.",
	})
}

// Verify promotes a pending signup into a live account.
func (h *UserHandler) Verify(w http.ResponseWriter, r *http.Request) {
	pendingID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	user, err := h.svc.Verify(r.Context(), pendingID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPendingNotFound):
			JSONError(w, http.StatusNotFound, "Pending signup not found.")
		case errors.Is(err, domain.ErrEmailAlreadyExists):
			JSONError(w, http.StatusConflict, "Account was already verified.")
		default:
			JSONError(w, http.StatusInternalServerError, "Failed to verify user")
		}
		return
	}

	JSONSuccess(w, http.StatusOK, APIResponse{
		Message: "User verified successfully.",
		Data:    user,
	})
}

func (h *UserHandler) Reject(w http.ResponseWriter, r *http.Request) {
	pendingID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.Reject(r.Context(), pendingID); err != nil {
		if errors.Is(err, domain.ErrPendingNotFound) {
			JSONError(w, http.StatusNotFound, "Pending signup not found.")
			return
		}

		JSONError(w, http.StatusInternalServerError, "Failed to reject signup")
		return
	}

	JSONSuccess(w, http.StatusOK, APIResponse{
		Message: "Signup rejected.",
	})
}

func (h *UserHandler) Destroy(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetUser(r.Context())
	if !ok {
		JSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	targetID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.Deactivate(r.Context(), actor.ID, targetID); err != nil {
		switch {
		case errors.Is(err, domain.ErrCannotDeleteSelf):
			JSONError(w, http.StatusBadRequest, "You cannot deactivate your own account.")
		case errors.Is(err, domain.ErrUserNotFound):
			JSONError(w, http.StatusNotFound, "User not found.")
		default:
			JSONError(w, http.StatusInternalServerError, "Failed to deactivate user")
		}
		return
	}

	JSONSuccess(w, http.StatusOK, APIResponse{
		Message: "User deactivated successfully.",
	})
}
