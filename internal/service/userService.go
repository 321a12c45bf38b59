package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	repository "github.com/Videeksha22/event-ticket-booking-system/internal/database/postgres"
	"github.com/Videeksha22/event-ticket-booking-system/internal/entity"
)

// RegisterUserRequest represents the data needed to register a user
type RegisterUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required,max=255"`
	Role     string `json:"role" binding:"omitempty,oneof=customer organizer"`
}

type userService struct {
	userRepo repository.UserRepository
	log      *logrus.Logger
}

// NewUserService creates a new UserService instance
func NewUserService(userRepo repository.UserRepository, log *logrus.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		log:      log,
	}
}

func (s *userService) RegisterUser(ctx context.Context, req *RegisterUserRequest) (*entity.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := entity.UserRole(req.Role)
	if role == "" {
		role = entity.RoleCustomer
	}

	user := &entity.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Role:         role,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
	}).Info("user registered")

	return user, nil
}

// Authenticate verifies the credentials and returns the user.
// A missing user and a wrong password produce the same error.
func (s *userService) Authenticate(ctx context.Context, username, password string) (*entity.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return nil, entity.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, entity.ErrInvalidCredentials
	}

	return user, nil
}

func (s *userService) GetUserByID(ctx context.Context, id int64) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *userService) LinkTelegram(ctx context.Context, userID int64, telegramID string) error {
	if telegramID == "" {
		return entity.ErrInvalidInput
	}

	if err := s.userRepo.UpdateTelegramID(ctx, userID, telegramID); err != nil {
		return fmt.Errorf("failed to link telegram: %w", err)
	}

	return nil
}
