package repository

import (
	"context"

	"gorm.io/gorm"

	"authd/internal/model"
)

// AttemptRepository appends authentication attempt records.
type AttemptRepository interface {
	Create(ctx context.Context, attempt *model.AuthAttempt) error
}

type attemptRepository struct {
	db *gorm.DB
}

// NewAttemptRepository builds a GORM-backed attempt log.
func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) Create(ctx context.Context, attempt *model.AuthAttempt) error {
	return r.db.WithContext(ctx).Create(attempt).Error
}
