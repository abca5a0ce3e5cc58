package domain

import (
	"context"
	"encoding/json"
	"strings"
	"time"
)

// Roles reported to clients after authentication.
const (
	RoleOrganiser = "ORGANISER"
	RoleClient    = "CLIENT"
)

// UserInput holds the fields a User is built from. ID is zero until the user is persisted.
type UserInput struct {
	ID          int64
	FirstName   string
	LastName    string
	Email       string
	Password    string
	IsOrganiser bool
}

// User represents a registered user. Values are only produced by NewUser and never change afterwards.
// swagger:model User
type User struct {
	id          int64
	firstName   string
	lastName    string
	email       string
	password    string
	isOrganiser bool
}

// NewUser validates in and returns a User. Every string field must be non-blank.
func NewUser(in UserInput) (*User, error) {
	if strings.TrimSpace(in.FirstName) == "" {
		return nil, requiredError("firstName", "First name")
	}
	if strings.TrimSpace(in.LastName) == "" {
		return nil, requiredError("lastName", "Last name")
	}
	if strings.TrimSpace(in.Email) == "" {
		return nil, requiredError("email", "Email")
	}
	if strings.TrimSpace(in.Password) == "" {
		return nil, requiredError("password", "Password")
	}
	return &User{
		id:          in.ID,
		firstName:   in.FirstName,
		lastName:    in.LastName,
		email:       in.Email,
		password:    in.Password,
		isOrganiser: in.IsOrganiser,
	}, nil
}

func (u *User) ID() int64         { return u.id }
func (u *User) FirstName() string { return u.firstName }
func (u *User) LastName() string  { return u.lastName }
func (u *User) Email() string     { return u.email }
func (u *User) Password() string  { return u.password }
func (u *User) IsOrganiser() bool { return u.isOrganiser }

// IsPersisted reports whether the repository has assigned an id.
func (u *User) IsPersisted() bool { return u.id != 0 }

// FullName returns the first and last name separated by a space.
func (u *User) FullName() string { return u.firstName + " " + u.lastName }

// Role returns RoleOrganiser or RoleClient.
func (u *User) Role() string {
	if u.isOrganiser {
		return RoleOrganiser
	}
	return RoleClient
}

// Equals compares identity and profile fields. The password is ignored.
func (u *User) Equals(other *User) bool {
	if u == nil || other == nil {
		return u == other
	}
	return u.id == other.id &&
		u.firstName == other.firstName &&
		u.lastName == other.lastName &&
		u.email == other.email &&
		u.isOrganiser == other.isOrganiser
}

type userJSON struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	IsOrganiser bool   `json:"is_organiser"`
}

// MarshalJSON never includes the password.
func (u *User) MarshalJSON() ([]byte, error) {
	return json.Marshal(userJSON{
		ID:          u.id,
		FirstName:   u.firstName,
		LastName:    u.lastName,
		Email:       u.email,
		IsOrganiser: u.isOrganiser,
	})
}

// AuthenticationResponse is returned after a successful login.
// swagger:model AuthenticationResponse
type AuthenticationResponse struct {
	Token     string `json:"token"`
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

// SignUpInput carries the fields needed to register a user.
type SignUpInput struct {
	FirstName   string
	LastName    string
	Email       string
	Password    string
	IsOrganiser bool
}

// PasswordHasher handles salt generation, hashing, and verification.
// The salt is stored as part of the returned hash.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID int64, email, role string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID.
type TokenVerifier interface {
	Verify(token string) (userID int64, err error)
}

// UserRepository defines the interface for user storage.
// GetByID and GetByEmail return ErrNotFound when no row matches.
type UserRepository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// UserService resolves users for the transport layer and handles sign-up and login.
type UserService interface {
	GetUserByID(ctx context.Context, id int64) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	SignUp(ctx context.Context, in SignUpInput) (*User, error)
	Login(ctx context.Context, email, password string) (*AuthenticationResponse, error)
}
