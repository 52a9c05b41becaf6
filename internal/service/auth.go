// Package service holds the business logic between the HTTP handlers and
// the repositories and external clients.
//
//	AuthHandler   → AuthService   → UserRepository (DB)
//	                              ↘ TokenService, PasswordService, IdentityVerifier
//	TalentHandler → TalentService → search.Orchestrator, github.Client, llm
//	ChatHandler   → ChatService   → llm.Model, search.Orchestrator
//
// Services return apperror values; they never see HTTP.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Reanooka-Kumar/TRACE--CIT/internal/apperror"
	"github.com/Reanooka-Kumar/TRACE--CIT/internal/auth"
	"github.com/Reanooka-Kumar/TRACE--CIT/internal/model"
	"github.com/Reanooka-Kumar/TRACE--CIT/internal/repository"
)

// The demo account is created on its first successful login so a fresh
// database can be explored without a sign-up flow.
const (
	DemoEmail    = "demo@trace.ai"
	DemoPassword = "password123"
	demoFullName = "Demo User"
)

const (
	msgBadCredentials = "Incorrect username or password"
	msgInactiveUser   = "Inactive user"
	msgUpdateFailed   = "Database update failed"
)

// AuthService handles sign-in, the current-user lookup and profile updates.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	google    auth.IdentityVerifier
	logger    *slog.Logger
}

// NewAuthService wires the login and profile flows to their stores and
// verifiers.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	google auth.IdentityVerifier,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		google:    google,
		logger:    logger,
	}
}

// AuthResult bundles the signed-in user with a freshly issued access token.
type AuthResult struct {
	User  *model.User
	Token string
}

// Login signs a user in with email and password.
//
// FLOW:
//  1. Look the account up by email
//  2. Missing + demo credentials → create the demo account
//  3. Verify the bcrypt hash
//  4. Issue a token whose subject is the username
//
// Every credential failure yields the same apperror.ErrUnauthorized so the
// response does not reveal whether the email exists.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		if email != DemoEmail || password != DemoPassword {
			return nil, apperror.Unauthorized(msgBadCredentials)
		}
		user, err = s.provisionDemo(ctx)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("service/auth: looking up %s: %w", email, err)
	}

	if !user.HasPassword() {
		return nil, apperror.Unauthorized(msgBadCredentials)
	}
	if err := s.passwords.Verify(user.HashedPassword, password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.Error("stored password hash is unusable",
				slog.String("username", user.Username),
				slog.String("error", err.Error()),
			)
		}
		return nil, apperror.Unauthorized(msgBadCredentials)
	}
	if user.Disabled {
		return nil, apperror.Forbidden(msgInactiveUser)
	}

	s.logger.Info("user logged in", slog.String("username", user.Username))
	return s.issue(user)
}

// provisionDemo creates the demo account. When a concurrent login wins the
// race the unique index rejects the second insert and the winner's row is
// read back, so the account exists exactly once.
func (s *AuthService) provisionDemo(ctx context.Context) (*model.User, error) {
	hash, err := s.passwords.Hash(DemoPassword)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing demo password: %w", err)
	}

	user := &model.User{
		Username:       DemoEmail,
		Email:          DemoEmail,
		FullName:       demoFullName,
		HashedPassword: hash,
	}
	err = s.users.Create(ctx, user)
	if errors.Is(err, apperror.ErrConflict) {
		return s.reread(ctx, DemoEmail)
	}
	if err != nil {
		return nil, fmt.Errorf("service/auth: creating demo account: %w", err)
	}

	s.logger.Info("demo account provisioned", slog.String("userID", user.ID))
	return user, nil
}

func (s *AuthService) reread(ctx context.Context, email string) (*model.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("service/auth: re-reading %s after conflict: %w", email, err)
	}
	return user, nil
}

// LoginGoogle signs a user in with a Google ID token, creating the account
// on first sight and refreshing name and picture on later logins.
func (s *AuthService) LoginGoogle(ctx context.Context, idToken string) (*AuthResult, error) {
	if idToken == "" {
		return nil, apperror.ValidationFailed("token", "token is required")
	}

	id, err := s.google.Verify(ctx, idToken)
	if err != nil {
		if errors.Is(err, auth.ErrIdentityNoEmail) {
			return nil, apperror.ValidationFailed("token", "Invalid Google Token: No email found")
		}
		s.logger.Warn("google token rejected", slog.String("error", err.Error()))
		return nil, apperror.Unauthorized("Invalid Google Token")
	}

	user, err := s.users.GetByEmail(ctx, id.Email)
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		user, err = s.createFromIdentity(ctx, id)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("service/auth: looking up %s: %w", id.Email, err)
	default:
		if err := s.users.UpdateIdentity(ctx, user.ID, id.Name, id.Picture); err != nil {
			return nil, fmt.Errorf("service/auth: refreshing identity of %s: %w", user.Username, err)
		}
		user.FullName = id.Name
		user.Picture = id.Picture
	}

	if user.Disabled {
		return nil, apperror.Forbidden(msgInactiveUser)
	}

	s.logger.Info("user logged in via Google", slog.String("username", user.Username))
	return s.issue(user)
}

func (s *AuthService) createFromIdentity(ctx context.Context, id *auth.Identity) (*model.User, error) {
	user := &model.User{
		Username: id.Email,
		Email:    id.Email,
		FullName: id.Name,
		Picture:  id.Picture,
	}
	err := s.users.Create(ctx, user)
	if errors.Is(err, apperror.ErrConflict) {
		return s.reread(ctx, id.Email)
	}
	if err != nil {
		return nil, fmt.Errorf("service/auth: creating account for %s: %w", id.Email, err)
	}

	s.logger.Info("account created from Google identity", slog.String("userID", user.ID))
	return user, nil
}

func (s *AuthService) issue(user *model.User) (*AuthResult, error) {
	token, err := s.tokens.Generate(user.Username)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for %s: %w", user.Username, err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

// CurrentUser resolves a token subject to an active account.
func (s *AuthService) CurrentUser(ctx context.Context, username string) (*model.User, error) {
	if username == "" {
		return nil, apperror.Unauthorized("Token has no subject")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotFound("user", username)
		}
		return nil, fmt.Errorf("service/auth: fetching user %s: %w", username, err)
	}
	if user.Disabled {
		return nil, apperror.Forbidden(msgInactiveUser)
	}
	return user, nil
}

// UpdateProfile sets the external profile links of username. Nil links are
// left as they are.
func (s *AuthService) UpdateProfile(ctx context.Context, username string, links repository.ProfileLinks) (*model.User, error) {
	user, err := s.CurrentUser(ctx, username)
	if err != nil {
		return nil, err
	}

	updated, err := s.users.UpdateLinks(ctx, user.ID, links)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		s.logger.Error("profile update rolled back",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return nil, apperror.Internal(msgUpdateFailed)
	}

	s.logger.Info("profile updated", slog.String("username", username))
	return updated, nil
}
