package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"authd/internal/auth"
	apperrors "authd/internal/errors"
	"authd/internal/model"
	"authd/internal/repository"
)

// RegisterInput carries the sanitized registration fields. The admin flag
// is not settable at registration; accounts start as regular users.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// AuthService handles registration, credential verification and token issuance.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, error)
	IssueToken(user *model.User) (string, error)
}

type authService struct {
	users      repository.UserRepository
	hasher     *auth.PasswordHasher
	jwtService *auth.JWTService
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, hasher *auth.PasswordHasher, jwtService *auth.JWTService) AuthService {
	return &authService{
		users:      users,
		hasher:     hasher,
		jwtService: jwtService,
	}
}

// Register creates a new user with a hashed password. The plaintext is
// never persisted.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	existing, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check email uniqueness: %w", err)
	}
	if existing != nil {
		return nil, apperrors.ErrDuplicateEmail
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:           uuid.New(),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: hash,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race between the uniqueness check and the insert:
			// same domain error as the checked path.
			return nil, apperrors.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Authenticate verifies credentials against the stored hash. When no
// account matches the email, a decoy comparison runs so the response time
// does not distinguish unknown emails from wrong passwords, and the error
// is the same undifferentiated one in both cases.
func (s *authService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.hasher.VerifyDecoy(password)
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return user, nil
}

// IssueToken produces a bearer token for an already authenticated user.
func (s *authService) IssueToken(user *model.User) (string, error) {
	token, err := s.jwtService.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}
