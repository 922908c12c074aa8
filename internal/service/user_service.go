package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	dom "github.com/ig0r-ferreira/todoapi/internal/domain"
	"github.com/ig0r-ferreira/todoapi/internal/repo"
	"github.com/ig0r-ferreira/todoapi/internal/utils"
)

var (
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrUsernameTaken      = errors.New("username already registered")
	ErrPermissionDenied   = errors.New("not enough permissions")
)

// UserService handles account registration, listing and self-service
// mutation. A user may only change or remove their own account.
type UserService struct {
	repo repo.UserRepo
}

// NewUserService returns a new UserService.
func NewUserService(repo repo.UserRepo) *UserService {
	return &UserService{repo: repo}
}

// Register creates a new user with a hashed password.
func (s *UserService) Register(ctx context.Context, username, email, password string) (dom.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return dom.User{}, err
	}
	u, err := s.repo.Create(ctx, username, email, string(hash))
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.User{}, ErrUsernameTaken
		}
		return dom.User{}, err
	}
	return u, nil
}

// List returns all users. Unauthenticated by contract; the caller must map
// the result to public views.
func (s *UserService) List(ctx context.Context) ([]dom.User, error) {
	return s.repo.List(ctx)
}

// Update applies a partial update to the target account. Callers may only
// update themselves; any other target fails with ErrPermissionDenied before
// the store is touched.
func (s *UserService) Update(ctx context.Context, callerID, targetID int64, patch dom.UserPatch) (dom.User, error) {
	if callerID != targetID {
		return dom.User{}, ErrPermissionDenied
	}
	existing, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return dom.User{}, err
	}
	username := existing.Username
	email := existing.Email
	hash := existing.PasswordHash
	if patch.Username != nil {
		username = strings.TrimSpace(*patch.Username)
	}
	if patch.Email != nil {
		email = strings.TrimSpace(*patch.Email)
	}
	if patch.Password != nil {
		h, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
		if err != nil {
			return dom.User{}, err
		}
		hash = string(h)
	}
	u, err := s.repo.Update(ctx, targetID, username, email, hash)
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.User{}, ErrUsernameTaken
		}
		return dom.User{}, err
	}
	return u, nil
}

// Delete removes the target account. Same ownership rule as Update.
func (s *UserService) Delete(ctx context.Context, callerID, targetID int64) error {
	if callerID != targetID {
		return ErrPermissionDenied
	}
	return s.repo.Delete(ctx, targetID)
}

// ValidateCredentials checks username and password; returns the user if valid.
func (s *UserService) ValidateCredentials(ctx context.Context, username, password string) (dom.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrInvalidCredentials
		}
		return dom.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return dom.User{}, ErrInvalidCredentials
	}
	return u, nil
}
