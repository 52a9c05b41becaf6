package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Reanooka-Kumar/TRACE--CIT/internal/apperror"
	"github.com/Reanooka-Kumar/TRACE--CIT/internal/auth"
	"github.com/Reanooka-Kumar/TRACE--CIT/internal/model"
	"github.com/Reanooka-Kumar/TRACE--CIT/internal/repository"
	"github.com/Reanooka-Kumar/TRACE--CIT/internal/service"
)

// AuthService is the part of service.AuthService the handler needs.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*service.AuthResult, error)
	LoginGoogle(ctx context.Context, idToken string) (*service.AuthResult, error)
	CurrentUser(ctx context.Context, username string) (*model.User, error)
	UpdateProfile(ctx context.Context, username string, links repository.ProfileLinks) (*model.User, error)
}

// AuthHandler serves sign-in and the signed-in user's profile.
//
// HANDLER RESPONSIBILITIES:
//   - HandleLogin         → email + password → bearer token
//   - HandleGoogleLogin   → Google ID token → bearer token
//   - HandleMe            → the current user
//   - HandleUpdateProfile → set GitHub / LinkedIn links
type AuthHandler struct {
	auth   AuthService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(svc AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: svc, logger: logger}
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,max=255"`
	Password string `json:"password" validate:"required,max=72"`
}

type googleLoginRequest struct {
	Token string `json:"token" validate:"required"`
}

type updateProfileRequest struct {
	GitHubLink   *string `json:"github_link"   validate:"omitempty,max=512"`
	LinkedInLink *string `json:"linkedin_link" validate:"omitempty,max=512"`
}

// LoginResponse is returned by both login endpoints.
type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        *model.User `json:"user"`
}

// HandleLogin signs a user in with email and password.
//
// HTTP: POST /api/login
// REQUEST BODY: {"email": "demo@trace.ai", "password": "password123"}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	res, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logFailure("login failed", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newLoginResponse(res))
}

// HandleGoogleLogin signs a user in with a Google ID token.
//
// HTTP: POST /api/login/google
// REQUEST BODY: {"token": "<google id token>"}
func (h *AuthHandler) HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req googleLoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	res, err := h.auth.LoginGoogle(r.Context(), req.Token)
	if err != nil {
		h.logFailure("google login failed", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newLoginResponse(res))
}

// HandleMe returns the signed-in user.
//
// HTTP: GET /api/me
// Auth: Required
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.SubjectFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("Not authenticated"))
		return
	}

	user, err := h.auth.CurrentUser(r.Context(), username)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleUpdateProfile sets the signed-in user's external profile links.
// Fields absent from the body are left unchanged.
//
// HTTP: PUT /api/user/profile
// Auth: Required
// REQUEST BODY: {"github_link": "https://github.com/x", "linkedin_link": null}
func (h *AuthHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.SubjectFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("Not authenticated"))
		return
	}

	var req updateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.auth.UpdateProfile(r.Context(), username, repository.ProfileLinks{
		GitHub:   req.GitHubLink,
		LinkedIn: req.LinkedInLink,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// logFailure logs unexpected failures at error level; credential rejections
// are routine and only get a debug line.
func (h *AuthHandler) logFailure(msg string, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		h.logger.Debug(msg, slog.String("reason", appErr.Message))
		return
	}
	h.logger.Error(msg, slog.String("error", err.Error()))
}

func newLoginResponse(res *service.AuthResult) LoginResponse {
	return LoginResponse{AccessToken: res.Token, TokenType: "bearer", User: res.User}
}
