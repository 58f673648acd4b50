package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"casetrack/internal/domain"
	"casetrack/internal/transport/rest/middleware"
)

type AuthHandler struct {
	svc  domain.IdentityService
	otps domain.OTPService
}

func NewAuthHandler(svc domain.IdentityService, otps domain.OTPService) *AuthHandler {
	return &AuthHandler{
		svc:  svc,
		otps: otps,
	}
}

// writeOTPError maps OTP validation failures onto precise remediation
// messages. Returns false when err is not an OTP failure.
func writeOTPError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, domain.ErrOTPNotFound):
		JSONFieldError(w, http.StatusNotFound, "otp", "No OTP found. Please request a code.")
	case errors.Is(err, domain.ErrOTPMismatch):
		JSONFieldError(w, http.StatusBadRequest, "otp", "Invalid verification code.")
	case errors.Is(err, domain.ErrOTPWrongPurpose):
		JSONFieldError(w, http.StatusBadRequest, "otp", "Code was issued for a different purpose.")
	case errors.Is(err, domain.ErrOTPExpired):
		JSONFieldError(w, http.StatusBadRequest, "otp", "OTP has expired. Please request a new one.")
	default:
		return false
	}
	return true
}

func (h *AuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req domain.SendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if validationErrors := ValidateStruct(req); len(validationErrors) > 0 {
		JSONValidationError(w, validationErrors)
		return
	}

	if req.Purpose == domain.OTPPurposeSignup && req.Name == "" {
		JSONFieldError(w, http.StatusBadRequest, "name", "Name is required for signup.")
		return
	}

	if err := h.otps.Issue(r.Context(), req.Email, req.Purpose, req.Name); err != nil {
		var fieldErr *domain.FieldError

		switch {
		case errors.Is(err, domain.ErrEmailAlreadyExists):
			JSONError(w, http.StatusConflict, "User already exists. Please log in instead.")
		case errors.Is(err, domain.ErrUserNotFound):
			JSONError(w, http.StatusNotFound, "User not found. Please sign up.")
		case errors.Is(err, domain.ErrSignupPending):
			JSONError(w, http.StatusForbidden, "Signup is awaiting admin approval.")
		case errors.Is(err, domain.ErrOTPRateLimited):
			JSONError(w, http.StatusTooManyRequests, "Too many OTP requests. Please try again later.")
		case errors.As(err, &fieldErr):
			JSONFieldError(w, http.StatusBadRequest, fieldErr.Field, fieldErr.Message)
		default:
			JSONError(w, http.StatusInternalServerError, "Failed to send OTP")
		}
		return
	}

	JSONSuccess(w, http.StatusOK, APIResponse{
		Message: "OTP sent successfully to " + req.Email,
		Data:    map[string]any{"email_id": req.Email, "purpose": req.Purpose},
	})
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req domain.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if validationErrors := ValidateStruct(req); len(validationErrors) > 0 {
		JSONValidationError(w, validationErrors)
		return
	}

	result, err := h.svc.Signup(r.Context(), req)
	if err != nil {
		if writeOTPError(w, err) {
			return
		}

		var fieldErr *domain.FieldError

		switch {
		case errors.Is(err, domain.ErrEmailAlreadyExists):
			JSONFieldError(w, http.StatusConflict, "email_id", "User already registered with this email.")
		case errors.Is(err, domain.ErrSignupPending):
			JSONError(w, http.StatusConflict, "Signup already submitted and awaiting approval.")
		case errors.As(err, &fieldErr):
			JSONFieldError(w, http.StatusUnprocessableEntity, fieldErr.Field, fieldErr.Message)
		default:
			JSONError(w, http.StatusInternalServerError, "Something went wrong.")
		}
		return
	}

	message := "User registered successfully."
	if result.Pending != nil {
		message = "Signup submitted. An administrator will review your request."
	}

	JSONSuccess(w, http.StatusCreated, APIResponse{
		Message: message,
		Data:    result,
	})
}

func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req domain.SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if validationErrors := ValidateStruct(req); len(validationErrors) > 0 {
		JSONValidationError(w, validationErrors)
		return
	}

	res, err := h.svc.Signin(r.Context(), req)
	if err != nil {
		if writeOTPError(w, err) {
			return
		}

		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			JSONFieldError(w, http.StatusNotFound, "email_id", "User not found. Please sign up.")
		case errors.Is(err, domain.ErrInvalidCredentials):
			JSONFieldError(w, http.StatusUnauthorized, "password", "Incorrect password.")
		case errors.Is(err, domain.ErrAccountUnverified):
			JSONError(w, http.StatusForbidden, "Account is not verified yet.")
		default:
			JSONError(w, http.StatusInternalServerError, "Something went wrong.")
		}
		return
	}

	JSONSuccess(w, http.StatusOK, APIResponse{
		Message: "User sign in successfully.",
		Data:    res,
	})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req domain.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if validationErrors := ValidateStruct(req); len(validationErrors) > 0 {
		JSONValidationError(w, validationErrors)
		return
	}

	if err := h.svc.ResetPassword(r.Context(), req); err != nil {
		if writeOTPError(w, err) {
			return
		}

		var fieldErr *domain.FieldError

		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			JSONFieldError(w, http.StatusNotFound, "email_id", "User not found. Please sign up.")
		case errors.As(err, &fieldErr):
			JSONFieldError(w, http.StatusUnprocessableEntity, fieldErr.Field, fieldErr.Message)
		default:
			JSONError(w, http.StatusInternalServerError, "Something went wrong.")
		}
		return
	}

	JSONSuccess(w, http.StatusOK, APIResponse{
		Message: "Password reset successfully.",
	})
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := middleware.GetUser(r.Context())
	if !ok {
		JSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.svc.Profile(r.Context(), userCtx.ID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			JSONError(w, http.StatusNotFound, "User not found.")
			return
		}

		JSONError(w, http.StatusInternalServerError, "Something went wrong.")
		return
	}

	JSONSuccess(w, http.StatusOK, APIResponse{
		Message: "OK",
		Data:    user,
	})
}
