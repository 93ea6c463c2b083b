package service

import (
	"errors"
	"strings"

	"github.com/badoux/checkmail"
	"github.com/financy/financy-backend/internal/auth"
	"github.com/financy/financy-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// UserService handles user-related business logic
type UserService struct {
	userRepo domain.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo domain.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetUsers returns all registered users
func (s *UserService) GetUsers() ([]*domain.User, error) {
	return s.userRepo.GetAll()
}

// GetUserByID retrieves a single user
func (s *UserService) GetUserByID(id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(id)
}

// CreateUser creates a user without issuing tokens
func (s *UserService) CreateUser(name, email, password string) (*domain.User, error) {
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

	return s.userRepo.Create(&domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	})
}

// UpdateUser updates the user's name only
func (s *UserService) UpdateUser(id uuid.UUID, name string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	return s.userRepo.UpdateName(id, name)
}
