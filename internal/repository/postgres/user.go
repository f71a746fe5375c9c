package postgres

import (
	"context"
	"strings"

	"rentalstore-backend/internal/domain"
	"rentalstore-backend/internal/repository"

	"github.com/google/uuid"
)

type userRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	u.Email = strings.ToLower(u.Email)
	query := `INSERT INTO users (name, email, password_hash, is_admin) VALUES ($1, $2, $3, $4) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, u.Name, u.Email, u.PasswordHash, u.IsAdmin).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT id, name, email, password_hash, is_admin FROM users WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.IsAdmin)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT id, name, email, password_hash, is_admin FROM users WHERE email = $1`
	err := r.db.QueryRowContext(ctx, query, strings.ToLower(email)).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.IsAdmin)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}
