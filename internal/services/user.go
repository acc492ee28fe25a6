package services

import (
	"fmt"

	"event-checkout-backend/internal/models"
	"event-checkout-backend/internal/utils"
)

// UserRepository interface for user data operations
type UserRepository interface {
	Create(req *models.UserCreateRequest, passwordHash, accountKey string) (*models.User, error)
	GetByID(id int) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
}

// UserService handles registration, authentication and user lookups
type UserService struct {
	userRepo UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Register creates a new account with a hashed password and a fresh
// account key. The account key seeds every ticket secure key the user
// will ever receive.
func (s *UserService) Register(req *models.UserCreateRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	accountKey, err := utils.GenerateAccountKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate account key: %w", err)
	}

	return s.userRepo.Create(req, passwordHash, accountKey)
}

// Authenticate verifies the credentials and returns the matching user
func (s *UserService) Authenticate(email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}

	ok, err := utils.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}

	if !ok {
		return nil, models.ErrUnauthorized
	}

	return user, nil
}

// VerifyUserExists resolves a user by id, returning ErrUserNotFound when
// no such account exists
func (s *UserService) VerifyUserExists(userID int) (*models.User, error) {
	return s.userRepo.GetByID(userID)
}
