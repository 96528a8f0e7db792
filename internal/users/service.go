package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-builder/internal/shared/auth"
)

// ErrInvalidCredentials is returned when email or password do not match.
var ErrInvalidCredentials = errors.New("invalid email or password")

type Service struct {
	Repo   Repo
	Hasher auth.Hasher
}

func NewService(repo Repo, hasher auth.Hasher) *Service {
	return &Service{Repo: repo, Hasher: hasher}
}

// Register creates a credentials account.
func (s *Service) Register(ctx context.Context, email, password, name string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return User{}, err
	}
	user := User{
		ID:        uuid.NewString(),
		Email:     email,
		Password:  &hash,
		CreatedAt: time.Now().UTC(),
	}
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		user.Name = &trimmed
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

// Authenticate returns the user owning email when password matches.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	user, err := s.Repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if user.Password == nil {
		return User{}, ErrInvalidCredentials
	}
	if err := s.Hasher.Compare(*user.Password, password); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, userID)
}

// Exists reports whether userID still refers to an account.
func (s *Service) Exists(ctx context.Context, userID string) (bool, error) {
	_, err := s.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
