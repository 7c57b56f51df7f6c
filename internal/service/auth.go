package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/templui/myprogress/internal/model"
	"github.com/templui/myprogress/internal/repository"
	"github.com/templui/myprogress/internal/token"
	"github.com/templui/myprogress/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// Session is what a successful register or login hands back.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *model.User
}

type AuthService struct {
	userRepository repository.UserRepository
	issuer         *token.Issuer
	bcryptCost     int
}

func NewAuthService(userRepository repository.UserRepository, issuer *token.Issuer) *AuthService {
	return &AuthService{
		userRepository: userRepository,
		issuer:         issuer,
		bcryptCost:     bcrypt.DefaultCost,
	}
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) (*Session, error) {
	username, err := validation.Required(username, model.MaxTitleLength)
	if err != nil {
		return nil, invalid("username", err)
	}

	email = strings.TrimSpace(strings.ToLower(email))
	err = validation.ValidateEmail(email)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	err = validation.ValidatePassword(password)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: &hash,
		CreatedAt:    time.Now().UTC(),
	}

	err = s.userRepository.Create(ctx, user)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return nil, &ValidationError{Field: "email", Message: "is already registered"}
	}
	if err != nil {
		return nil, &PersistenceError{Op: "create user", Err: err}
	}

	slog.Info("user registered", "user_id", user.ID)
	return s.session(user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepository.ByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, &PersistenceError{Op: "get user", Err: err}
	}

	if !user.HasPassword() {
		return nil, ErrInvalidCredentials
	}

	err = s.ComparePassword(password, *user.PasswordHash)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.session(user)
}

// IssueFor mints a token for an existing user without a password check.
// Used by operator tooling.
func (s *AuthService) IssueFor(ctx context.Context, userID string) (*Session, error) {
	user, err := s.userRepository.ByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return s.session(user)
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (s *AuthService) session(user *model.User) (*Session, error) {
	signed, expiresAt, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &Session{Token: signed, ExpiresAt: expiresAt, User: user.Public()}, nil
}
