package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"authd/internal/auth"
	"authd/internal/cache"
	apperrors "authd/internal/errors"
	"authd/internal/model"
	"authd/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// UpdateUserInput carries a merge update: only non-nil fields are applied.
type UpdateUserInput struct {
	FirstName *string
	LastName  *string
	Email     *string
	Password  *string
	IsAdmin   *bool
}

// ReplaceUserInput carries a whole-document replace.
type ReplaceUserInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	IsAdmin   bool
}

// UserService exposes profile and account lifecycle operations.
type UserService interface {
	CurrentUser(ctx context.Context, id uuid.UUID, ipAddress string) (*model.User, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*model.User, error)
	Replace(ctx context.Context, id uuid.UUID, in ReplaceUserInput) (*model.User, error)
	Delete(ctx context.Context, id uuid.UUID) (*model.User, error)
}

type userService struct {
	users    repository.UserRepository
	attempts repository.AttemptRepository
	hasher   *auth.PasswordHasher
	cache    *cache.Client
}

// NewUserService builds a UserService with its repositories and cache.
func NewUserService(users repository.UserRepository, attempts repository.AttemptRepository, hasher *auth.PasswordHasher, cache *cache.Client) UserService {
	return &userService{
		users:    users,
		attempts: attempts,
		hasher:   hasher,
		cache:    cache,
	}
}

func (s *userService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("user:%s", id)
}

// CurrentUser resolves the profile for an already verified token holder and
// appends an attempt record for the lookup. The resolved user and the
// caller's IP arrive as parameters; nothing about the request lives in
// shared state.
func (s *userService) CurrentUser(ctx context.Context, id uuid.UUID, ipAddress string) (*model.User, error) {
	user, err := s.findCached(ctx, id)
	if err != nil {
		return nil, err
	}

	attempt := &model.AuthAttempt{
		UserID:     user.ID,
		IPAddress:  ipAddress,
		DidSucceed: true,
		// Stored in server-local time, matching existing rows.
		CreatedAt: time.Now(),
	}
	if err := s.attempts.Create(ctx, attempt); err != nil {
		// The profile read already succeeded; report the logging failure
		// on its own instead of failing the request.
		log.Printf("warn: record auth attempt for user %s: %v", user.ID, err)
	}

	return user, nil
}

func (s *userService) findCached(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, userCacheTTL)
	}
	return user, nil
}

func (s *userService) find(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// Update merges the provided fields into the stored user. A password change
// re-hashes exactly once; untouched fields keep their stored values,
// including the hash.
func (s *userService) Update(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*model.User, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.IsAdmin != nil {
		user.IsAdmin = *in.IsAdmin
	}
	if in.Password != nil {
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	return s.save(ctx, user)
}

// Replace overwrites the whole document, keeping only the identifier and
// creation time. The password is always present in a replace, so the hash
// is always recomputed.
func (s *userService) Replace(ctx context.Context, id uuid.UUID, in ReplaceUserInput) (*model.User, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user.FirstName = in.FirstName
	user.LastName = in.LastName
	user.Email = in.Email
	user.IsAdmin = in.IsAdmin
	user.PasswordHash = hash

	return s.save(ctx, user)
}

func (s *userService) save(ctx context.Context, user *model.User) (*model.User, error) {
	if err := s.users.Save(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("save user: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(user.ID))
	return user, nil
}

// Delete removes the user and returns the removed record.
func (s *userService) Delete(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("delete user: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return user, nil
}
