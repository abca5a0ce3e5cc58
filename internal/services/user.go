package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"eventplanner/internal/domain"
)

const minPasswordLength = 8

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// errInvalidCredentials is deliberately the same for an unknown email and a wrong password.
var errInvalidCredentials = &domain.AuthorizationError{Message: "Invalid email or password"}

type userService struct {
	userRepo     domain.UserRepository
	hasher       domain.PasswordHasher
	tokenIssuer  domain.TokenIssuer
	tokenExpiry  time.Duration
	emailService domain.EmailService
	logger       *slog.Logger
}

// NewUserService creates a UserService with the given repository and auth ports.
// emailService may be nil.
func NewUserService(userRepo domain.UserRepository, hasher domain.PasswordHasher, tokenIssuer domain.TokenIssuer, tokenExpiry time.Duration, emailService domain.EmailService, logger *slog.Logger) domain.UserService {
	return &userService{
		userRepo:     userRepo,
		hasher:       hasher,
		tokenIssuer:  tokenIssuer,
		tokenExpiry:  tokenExpiry,
		emailService: emailService,
		logger:       logger,
	}
}

func (s *userService) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("User with id: %d does not exist.", id)}
		}
		return nil, domain.NewStorageError("get user", err)
	}
	return user, nil
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("User with email: %s does not exist.", email)}
		}
		return nil, domain.NewStorageError("get user by email", err)
	}
	return user, nil
}

func (s *userService) SignUp(ctx context.Context, in domain.SignUpInput) (*domain.User, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email != "" && !emailRegexp.MatchString(email) {
		return nil, &domain.ValidationError{Field: "email", Message: "Email is invalid"}
	}
	if in.Password != "" && len(in.Password) < minPasswordLength {
		return nil, &domain.ValidationError{Field: "password", Message: fmt.Sprintf("Password must be at least %d characters", minPasswordLength)}
	}
	// validate the plain input before spending a bcrypt round on it
	if _, err := domain.NewUser(domain.UserInput{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       email,
		Password:    in.Password,
		IsOrganiser: in.IsOrganiser,
	}); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user, err := domain.NewUser(domain.UserInput{
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		Email:       email,
		Password:    hash,
		IsOrganiser: in.IsOrganiser,
	})
	if err != nil {
		return nil, err
	}

	created, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, &domain.ConflictError{Message: fmt.Sprintf("User with email: %s already exists.", email)}
		}
		return nil, domain.NewStorageError("create user", err)
	}

	if s.emailService != nil {
		data := &domain.WelcomeMessageEmailData{
			Email:       created.Email(),
			FirstName:   created.FirstName(),
			IsOrganiser: created.IsOrganiser(),
		}
		if err := s.emailService.SendWelcomeMessage(ctx, data); err != nil {
			s.logger.WarnContext(ctx, "welcome email failed", "user_id", created.ID(), "err", err)
		}
	}
	return created, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (*domain.AuthenticationResponse, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, domain.NewStorageError("get user by email", err)
	}
	if err := s.hasher.Compare(user.Password(), password); err != nil {
		return nil, errInvalidCredentials
	}
	token, err := s.tokenIssuer.Issue(user.ID(), user.Email(), user.Role(), s.tokenExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &domain.AuthenticationResponse{
		Token:     token,
		ID:        user.ID(),
		FirstName: user.FirstName(),
		LastName:  user.LastName(),
		Role:      user.Role(),
	}, nil
}
