package service

import (
	"context"
	"errors"
	"fmt"

	"rentalstore-backend/internal/domain"
	"rentalstore-backend/internal/repository"
	"rentalstore-backend/internal/security"

	"golang.org/x/crypto/bcrypt"
)

type authService struct {
	userRepo repository.UserRepository
	tokens   security.TokenManager
}

func NewAuthService(userRepo repository.UserRepository, tokens security.TokenManager) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// Login does not reveal whether the email or the password was wrong.
func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	if err := domain.ValidateCredentials(email, password); err != nil {
		return "", err
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateAuthToken(user)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}
