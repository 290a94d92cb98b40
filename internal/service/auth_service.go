package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/stockroom/internal/auth"
	"github.com/mmynk/stockroom/internal/models"
	"github.com/mmynk/stockroom/internal/storage"
)

// AuthService handles registration, login and the user directory listing.
type AuthService struct {
	authenticator auth.Authenticator
	users         storage.UserStore
	jwtManager    *auth.JWTManager
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, users storage.UserStore, jwtManager *auth.JWTManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		users:         users,
		jwtManager:    jwtManager,
		logger:        logger,
	}
}

// Register creates a new user account.
func (s *AuthService) Register(ctx context.Context, username, password string) (user *models.User, err error) {
	ctx, span := tracer.Start(ctx, "AuthService.Register")
	defer func() { endSpan(span, err) }()

	s.logger.InfoContext(ctx, "Register request", "username", username)

	user, err = s.authenticator.Register(ctx, username, password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserExists):
			s.logger.WarnContext(ctx, "Registration rejected", "username", username, "error", err)
			return nil, connect.NewError(connect.CodeAlreadyExists, err)
		case errors.Is(err, auth.ErrEmptyUsername),
			errors.Is(err, auth.ErrEmptyPassword),
			errors.Is(err, auth.ErrPasswordTooLong):
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		return nil, storageError(ctx, s.logger, "Registration failed", err)
	}

	s.logger.InfoContext(ctx, "User registered successfully", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login authenticates a user and returns a signed bearer token.
func (s *AuthService) Login(ctx context.Context, username, password string) (token string, err error) {
	ctx, span := tracer.Start(ctx, "AuthService.Login")
	defer func() { endSpan(span, err) }()

	s.logger.InfoContext(ctx, "Login request", "username", username)

	user, err := s.authenticator.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.logger.WarnContext(ctx, "Login failed", "username", username)
			return "", connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
		}
		return "", storageError(ctx, s.logger, "Login lookup failed", err)
	}

	token, err = s.jwtManager.Generate(user.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to generate token", "user_id", user.ID, "error", err)
		return "", connect.NewError(connect.CodeInternal, errInternal)
	}

	s.logger.InfoContext(ctx, "User logged in successfully", "user_id", user.ID)
	return token, nil
}

// ListUsers returns the public profile of up to limit users.
func (s *AuthService) ListUsers(ctx context.Context, limit int) (out []models.PublicUser, err error) {
	ctx, span := tracer.Start(ctx, "AuthService.ListUsers")
	defer func() { endSpan(span, err) }()

	users, err := s.users.ListUsers(ctx, storage.ClampLimit(limit))
	if err != nil {
		return nil, storageError(ctx, s.logger, "ListUsers failed", err)
	}

	out = make([]models.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out, nil
}
