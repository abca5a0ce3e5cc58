package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"eventplanner/internal/domain"
)

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (first_name, last_name, email, password, is_organiser)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	var id int64
	err := r.DB.QueryRowContext(ctx, query, u.FirstName(), u.LastName(), u.Email(), u.Password(), u.IsOrganiser()).Scan(&id)
	if err != nil {
		if isUniqueViolation(err, userEmailConstraint) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, err
	}
	return domain.NewUser(domain.UserInput{
		ID:          id,
		FirstName:   u.FirstName(),
		LastName:    u.LastName(),
		Email:       u.Email(),
		Password:    u.Password(),
		IsOrganiser: u.IsOrganiser(),
	})
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, first_name, last_name, email, password, is_organiser
		FROM users
		WHERE email = $1
	`
	return r.getOne(ctx, query, email)
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `
		SELECT id, first_name, last_name, email, password, is_organiser
		FROM users
		WHERE id = $1
	`
	return r.getOne(ctx, query, id)
}

func (r *userRepository) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	var in domain.UserInput
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(&in.ID, &in.FirstName, &in.LastName, &in.Email, &in.Password, &in.IsOrganiser)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	u, err := domain.NewUser(in)
	if err != nil {
		return nil, fmt.Errorf("hydrate user %d: %w", in.ID, err)
	}
	return u, nil
}
