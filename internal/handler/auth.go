package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/minishop-api/internal/usecase"
	"github.com/vasapolrittideah/minishop-api/shared/apperror"
	"github.com/vasapolrittideah/minishop-api/shared/validator"
)

// AuthHandler serves the login and auth-probe endpoints.
type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	validator   *validator.Validator
	logger      *zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(authUsecase usecase.AuthUsecase, validator *validator.Validator, logger *zerolog.Logger) *AuthHandler {
	return &AuthHandler{authUsecase: authUsecase, validator: validator, logger: logger}
}

// Login handles POST /login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(h.logger, w, apperror.NewInput("invalid request body"))
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(h.logger, w, err)
		return
	}

	result, err := h.authUsecase.Login(r.Context(), usecase.LoginParams{
		Code:          req.Code,
		IV:            req.IV,
		EncryptedData: req.EncryptedData,
	})
	if err != nil {
		respondError(h.logger, w, err)
		return
	}

	respondJSON(w, http.StatusOK, LoginResponse{
		Message:  "login success",
		UserData: result.Profile,
		Token:    result.Token,
		Role:     result.Role,
	})
}

// Probe handles GET /auth, confirming that the presented assertion is valid.
func (h *AuthHandler) Probe(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"message": "logged in"})
}
