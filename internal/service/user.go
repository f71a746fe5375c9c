package service

import (
	"context"
	"errors"
	"fmt"

	"rentalstore-backend/internal/domain"
	"rentalstore-backend/internal/repository"
	"rentalstore-backend/internal/security"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type userService struct {
	userRepo   repository.UserRepository
	tokens     security.TokenManager
	bcryptCost int
}

func NewUserService(userRepo repository.UserRepository, tokens security.TokenManager) UserService {
	return &userService{
		userRepo:   userRepo,
		tokens:     tokens,
		bcryptCost: bcrypt.DefaultCost,
	}
}

func (s *userService) Register(ctx context.Context, name, email, password string) (*domain.User, string, error) {
	if err := domain.ValidateRegistration(name, email, password); err != nil {
		return nil, "", err
	}

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, "", domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.GenerateAuthToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}

func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}
