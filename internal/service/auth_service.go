package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/journal-content-api/internal/auth"
	"github.com/journal-content-api/internal/models"
	"github.com/journal-content-api/internal/repository"
	"github.com/journal-content-api/internal/validation"
	"github.com/rs/zerolog"
)

// errTokensDisabled is returned by Login when no token manager is configured
var errTokensDisabled = errors.New("token issuing is not configured")

// authService is the concrete implementation of AuthService
type authService struct {
	users     repository.UserRepository
	tokens    *auth.TokenManager
	validator *validation.Validator
	log       zerolog.Logger
}

func newAuthService(users repository.UserRepository, tokens *auth.TokenManager, log zerolog.Logger) *authService {
	return &authService{
		users:     users,
		tokens:    tokens,
		validator: validation.NewValidator(),
		log:       log.With().Str("service", "auth").Logger(),
	}
}

// Login checks the credentials and issues a bearer token. Unknown emails and
// wrong passwords produce the same ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	if err := validation.AsError(s.validator.ValidateCredentials(req)); err != nil {
		return nil, err
	}
	if s.tokens == nil {
		return nil, errTokensDisabled
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		s.log.Info().Str("email", req.Email).Msg("Login for unknown account")
		return nil, ErrInvalidCredentials
	}

	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			s.log.Error().Err(err).Str("user_id", user.ID).Msg("Stored password hash is unusable")
		}
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("Admin signed in")
	return &models.LoginResponse{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *authService) ParseToken(token string) (*auth.Claims, error) {
	if s.tokens == nil {
		return nil, errTokensDisabled
	}
	return s.tokens.Parse(token)
}

// CreateUser registers a new admin console account
func (s *authService) CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := validation.AsError(s.validator.ValidateNewUser(email, req.Name, req.Role, req.Password)); err != nil {
		return nil, err
	}

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrConflict
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		Role:         req.Role,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := translateWriteErr(s.users.Create(ctx, user)); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("Admin account created")
	return user, nil
}

func (s *authService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}
