// Package service provides business-logic services for authentication and
// account-record management, delegating persistence to repository interfaces.
package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jayakumar9/atlas-account-vault/internal/middleware"
	"github.com/jayakumar9/atlas-account-vault/internal/models"
)

// Sentinel errors mapped to HTTP statuses by the handlers.
var (
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotFound           = errors.New("not found")
)

// tokenTTL is the lifetime of issued bearer tokens.
const tokenTTL = 24 * time.Hour

// AuthRepository defines the persistence operations required by the
// authentication service.
type AuthRepository interface {
	// EmailExists returns true if a user with the given email exists.
	EmailExists(ctx context.Context, email string) (bool, error)
	// CreateUser inserts a new user record.
	CreateUser(ctx context.Context, user *models.User) error
	// FindByEmail fetches a user by email; sql.ErrNoRows when absent.
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// FindByID fetches a user by ID; sql.ErrNoRows when absent.
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// AuthService implements registration, login and session validation.
// Bearer tokens are stateless JWTs, so logout needs no server call.
type AuthService struct {
	repo   AuthRepository
	secret []byte
}

// NewAuthService constructs an AuthService using the provided repository
// and JWT signing secret.
func NewAuthService(repo AuthRepository, secret []byte) *AuthService {
	return &AuthService{repo: repo, secret: secret}
}

// Register creates a new user with a bcrypt-hashed password and returns
// the user together with a signed bearer token.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.AuthResponse, error) {
	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return s.issueToken(user)
}

// Login verifies the email/password pair and returns the user together
// with a signed bearer token. Wrong email and wrong password produce the
// same error so the response does not reveal which one failed.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issueToken(user)
}

// UserByID returns the user a validated token belongs to.
func (s *AuthService) UserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) issueToken(user *models.User) (*models.AuthResponse, error) {
	claims := &middleware.Claims{
		UserID:   user.ID,
		Username: user.Username,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(tokenTTL).Unix(),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: *user}, nil
}
