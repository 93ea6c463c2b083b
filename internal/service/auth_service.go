package service

import (
	"context"
	"errors"
	"strings"

	"github.com/badoux/checkmail"
	"github.com/financy/financy-backend/internal/auth"
	"github.com/financy/financy-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// AuthService handles registration, login, and token refresh
type AuthService struct {
	userRepo domain.UserRepository
	tokens   *auth.TokenManager
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo domain.UserRepository, tokens *auth.TokenManager) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// AuthPayload is the result of a successful register/login/refresh:
// a short-lived access token, a longer-lived refresh token, and the user.
type AuthPayload struct {
	Token        string
	RefreshToken string
	User         *domain.User
}

// Register creates a new user and issues a token pair
func (s *AuthService) Register(name, email, password string) (*AuthPayload, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if err := checkmail.ValidateFormat(email); err != nil {
		return nil, domain.ErrInvalidEmail
	}
	if len(password) < domain.MinPasswordLength {
		return nil, domain.ErrPasswordTooShort
	}

	if _, err := s.userRepo.GetByEmail(email); err == nil {
		return nil, domain.ErrEmailAlreadyExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Error().Err(err).Msg("Failed to hash password")
		return nil, domain.ErrInternalError
	}

	user, err := s.userRepo.Create(&domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("user_id", user.ID.String()).Msg("User registered")
	return s.issueTokens(user)
}

// Login verifies credentials and issues a token pair
func (s *AuthService) Login(email, password string) (*AuthPayload, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issueTokens(user)
}

// Refresh redeems a valid refresh token for a fresh token pair
func (s *AuthService) Refresh(refreshToken string) (*AuthPayload, error) {
	claims, err := s.tokens.Verify(context.Background(), refreshToken)
	if err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, auth.ErrInvalidToken
	}

	// Reload the user so refreshed claims reflect the current profile
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	return s.issueTokens(user)
}

func (s *AuthService) issueTokens(user *domain.User) (*AuthPayload, error) {
	token, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to sign access token")
		return nil, domain.ErrInternalError
	}
	refreshToken, err := s.tokens.GenerateRefreshToken(user)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to sign refresh token")
		return nil, domain.ErrInternalError
	}
	return &AuthPayload{
		Token:        token,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}
