package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"authd/internal/auth"
	apperrors "authd/internal/errors"
	"authd/internal/model"
)

func newUserService(users *MockUserRepository, attempts *MockAttemptRepository) (UserService, *auth.PasswordHasher) {
	hasher := auth.NewPasswordHasher(10)
	// nil cache client: every read is a miss, every write a no-op
	return NewUserService(users, attempts, hasher, nil), hasher
}

func strPtr(s string) *string { return &s }

func TestUserService_CurrentUser(t *testing.T) {
	userID := uuid.New()
	stored := &model.User{ID: userID, FirstName: "Test", Email: "test@example.com"}

	t.Run("records an attempt with the caller's details", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockAttempts := new(MockAttemptRepository)
		mockUsers.On("FindByID", mock.Anything, userID).Return(stored, nil)
		mockAttempts.On("Create", mock.Anything, mock.MatchedBy(func(a *model.AuthAttempt) bool {
			return a.UserID == userID && a.IPAddress == "203.0.113.7" && a.DidSucceed && !a.CreatedAt.IsZero()
		})).Return(nil)

		svc, _ := newUserService(mockUsers, mockAttempts)
		user, err := svc.CurrentUser(context.Background(), userID, "203.0.113.7")

		assert.NoError(t, err)
		assert.Equal(t, stored, user)
		mockUsers.AssertExpectations(t)
		mockAttempts.AssertExpectations(t)
	})

	t.Run("attempt log failure does not fail the read", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockAttempts := new(MockAttemptRepository)
		mockUsers.On("FindByID", mock.Anything, userID).Return(stored, nil)
		mockAttempts.On("Create", mock.Anything, mock.AnythingOfType("*model.AuthAttempt")).Return(errors.New("insert failed"))

		svc, _ := newUserService(mockUsers, mockAttempts)
		user, err := svc.CurrentUser(context.Background(), userID, "203.0.113.7")

		assert.NoError(t, err)
		assert.Equal(t, stored, user)
		mockAttempts.AssertExpectations(t)
	})

	t.Run("unknown user", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockAttempts := new(MockAttemptRepository)
		mockUsers.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)

		svc, _ := newUserService(mockUsers, mockAttempts)
		user, err := svc.CurrentUser(context.Background(), userID, "203.0.113.7")

		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
		assert.Nil(t, user)
		mockAttempts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestUserService_Update(t *testing.T) {
	userID := uuid.New()

	t.Run("password change re-hashes exactly once", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		svc, hasher := newUserService(mockUsers, new(MockAttemptRepository))

		oldHash, err := hasher.Hash("oldpassword")
		assert.NoError(t, err)
		stored := &model.User{ID: userID, FirstName: "Test", Email: "test@example.com", PasswordHash: oldHash}

		mockUsers.On("FindByID", mock.Anything, userID).Return(stored, nil)
		mockUsers.On("Save", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

		user, err := svc.Update(context.Background(), userID, UpdateUserInput{Password: strPtr("newpassword")})
		assert.NoError(t, err)
		assert.NotEqual(t, oldHash, user.PasswordHash)
		// The stored value is a hash of the new plaintext, not a hash of a hash.
		assert.True(t, hasher.Verify("newpassword", user.PasswordHash))
		assert.False(t, hasher.Verify("oldpassword", user.PasswordHash))
		mockUsers.AssertExpectations(t)
	})

	t.Run("unrelated field change leaves the hash untouched", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		svc, hasher := newUserService(mockUsers, new(MockAttemptRepository))

		oldHash, err := hasher.Hash("oldpassword")
		assert.NoError(t, err)
		stored := &model.User{ID: userID, FirstName: "Test", LastName: "User", Email: "test@example.com", PasswordHash: oldHash}

		mockUsers.On("FindByID", mock.Anything, userID).Return(stored, nil)
		mockUsers.On("Save", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

		user, err := svc.Update(context.Background(), userID, UpdateUserInput{LastName: strPtr("Renamed")})
		assert.NoError(t, err)
		assert.Equal(t, "Renamed", user.LastName)
		assert.Equal(t, oldHash, user.PasswordHash)
		mockUsers.AssertExpectations(t)
	})

	t.Run("email collision on save", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		svc, hasher := newUserService(mockUsers, new(MockAttemptRepository))

		oldHash, _ := hasher.Hash("oldpassword")
		stored := &model.User{ID: userID, Email: "test@example.com", PasswordHash: oldHash}

		mockUsers.On("FindByID", mock.Anything, userID).Return(stored, nil)
		mockUsers.On("Save", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)

		user, err := svc.Update(context.Background(), userID, UpdateUserInput{Email: strPtr("taken@example.com")})
		assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)
		assert.Nil(t, user)
	})

	t.Run("not found", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		svc, _ := newUserService(mockUsers, new(MockAttemptRepository))

		mockUsers.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)

		user, err := svc.Update(context.Background(), userID, UpdateUserInput{LastName: strPtr("X")})
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
		assert.Nil(t, user)
	})
}

func TestUserService_Replace(t *testing.T) {
	userID := uuid.New()

	mockUsers := new(MockUserRepository)
	svc, hasher := newUserService(mockUsers, new(MockAttemptRepository))

	oldHash, err := hasher.Hash("oldpassword")
	assert.NoError(t, err)
	stored := &model.User{
		ID:           userID,
		FirstName:    "Old",
		LastName:     "Name",
		Email:        "old@example.com",
		IsAdmin:      true,
		PasswordHash: oldHash,
	}

	mockUsers.On("FindByID", mock.Anything, userID).Return(stored, nil)
	mockUsers.On("Save", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

	user, err := svc.Replace(context.Background(), userID, ReplaceUserInput{
		FirstName: "New",
		Email:     "new@example.com",
		Password:  "newpassword",
	})
	assert.NoError(t, err)
	assert.Equal(t, userID, user.ID)
	assert.Equal(t, "New", user.FirstName)
	// Fields absent from the replacement reset to their zero values.
	assert.Equal(t, "", user.LastName)
	assert.False(t, user.IsAdmin)
	assert.Equal(t, "new@example.com", user.Email)
	assert.True(t, hasher.Verify("newpassword", user.PasswordHash))
	mockUsers.AssertExpectations(t)
}

func TestUserService_Delete(t *testing.T) {
	userID := uuid.New()

	t.Run("returns the removed user", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		svc, _ := newUserService(mockUsers, new(MockAttemptRepository))

		stored := &model.User{ID: userID, Email: "test@example.com"}
		mockUsers.On("FindByID", mock.Anything, userID).Return(stored, nil)
		mockUsers.On("Delete", mock.Anything, userID).Return(nil)

		user, err := svc.Delete(context.Background(), userID)
		assert.NoError(t, err)
		assert.Equal(t, stored, user)
		mockUsers.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		svc, _ := newUserService(mockUsers, new(MockAttemptRepository))

		mockUsers.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)

		user, err := svc.Delete(context.Background(), userID)
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
		assert.Nil(t, user)
		mockUsers.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
