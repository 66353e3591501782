package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ayusharma/vitaltrack/internal/auth"
	"github.com/ayusharma/vitaltrack/internal/domain"
	"github.com/ayusharma/vitaltrack/internal/repository"
)

// Account errors returned to the transport layer.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// UserRepository is the storage contract required by the account service.
type UserRepository interface {
	CreateUser(ctx context.Context, user domain.User) (domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (domain.User, error)
	FindUserByID(ctx context.Context, id string) (domain.User, error)
}

// AccountService handles registration and login.
type AccountService struct {
	repo       UserRepository
	tokens     *auth.TokenManager
	bcryptCost int
}

// RegisterInput is the payload for creating an account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Session is a logged-in user plus their bearer token.
type Session struct {
	User  domain.User
	Token string
}

// NewAccountService constructs an AccountService.
func NewAccountService(repo UserRepository, tokens *auth.TokenManager, bcryptCost int) *AccountService {
	return &AccountService{repo: repo, tokens: tokens, bcryptCost: bcryptCost}
}

// Register creates a new account and returns a session for it.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (Session, error) {
	name := strings.TrimSpace(input.Name)
	email := normalizeEmail(input.Email)
	if name == "" || email == "" || input.Password == "" {
		return Session{}, fmt.Errorf("%w: name, email and password are required", ErrInvalidInput)
	}
	if len(input.Password) < 8 {
		return Session{}, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}

	if _, err := s.repo.FindUserByEmail(ctx, email); err == nil {
		return Session{}, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return Session{}, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		return Session{}, err
	}

	return s.sessionFor(user)
}

// Login verifies credentials and returns a session.
func (s *AccountService) Login(ctx context.Context, email, password string) (Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return Session{}, ErrInvalidCredentials
	}

	user, err := s.repo.FindUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return Session{}, ErrInvalidCredentials
	}

	return s.sessionFor(user)
}

// CurrentUser resolves the account behind an authenticated request.
func (s *AccountService) CurrentUser(ctx context.Context, userID string) (domain.User, error) {
	return s.repo.FindUserByID(ctx, userID)
}

func (s *AccountService) sessionFor(user domain.User) (Session, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	return Session{User: user, Token: token}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
