package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"pingchat/internal/common"
)

// Handler wires the auth HTTP routes to the service layer and maps
// classified errors to user-facing messages.
type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type signupRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  interface{} `json:"user"`
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	fields := map[string]string{}
	if req.DisplayName == "" {
		fields["name"] = "Name is required"
	}
	if req.Email == "" {
		fields["email"] = "Email is required"
	}
	if req.Password == "" {
		fields["password"] = "Password is required"
	}
	if len(fields) > 0 {
		common.WriteFieldErrors(w, fields)
		return
	}

	record, token, err := h.service.Signup(r.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	common.WriteJSON(w, http.StatusCreated, authResponse{Token: token, User: record})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	fields := map[string]string{}
	if req.Email == "" {
		fields["email"] = "Email is required"
	}
	if req.Password == "" {
		fields["password"] = "Password is required"
	}
	if len(fields) > 0 {
		common.WriteFieldErrors(w, fields)
		return
	}

	record, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	common.WriteJSON(w, http.StatusOK, authResponse{Token: token, User: record})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context()); err != nil {
		common.WriteError(w, http.StatusInternalServerError, "An error occurred")
		return
	}
	common.WriteJSON(w, http.StatusNoContent, nil)
}

func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrAccountExists):
		common.WriteError(w, http.StatusConflict, "Email already exists, please login")
	case errors.Is(err, common.ErrInvalidCredentials):
		common.WriteError(w, http.StatusUnauthorized, "Invalid password / email")
	case errors.Is(err, common.ErrInvalidEmail):
		common.WriteError(w, http.StatusBadRequest, "Invalid email format")
	case errors.Is(err, common.ErrWeakPassword):
		common.WriteError(w, http.StatusBadRequest, "Password must be at least 6 characters")
	case errors.Is(err, common.ErrInvalidDisplayName):
		common.WriteError(w, http.StatusBadRequest, "Name is required")
	default:
		common.WriteError(w, http.StatusInternalServerError, "An error occurred")
	}
}
