package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/checkout"
	"github.com/storefront/backend/internal/domain/shared"
)

// GormCartLineRepository implements checkout.CartLineRepository using GORM
type GormCartLineRepository struct {
	db *gorm.DB
}

// NewGormCartLineRepository creates a new GormCartLineRepository
func NewGormCartLineRepository(db *gorm.DB) *GormCartLineRepository {
	return &GormCartLineRepository{db: db}
}

// FindByID finds a cart line by its ID
func (r *GormCartLineRepository) FindByID(ctx context.Context, id uuid.UUID) (*checkout.CartLine, error) {
	var line checkout.CartLine
	if err := r.db.WithContext(ctx).First(&line, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &line, nil
}

// FindBySession returns all cart lines for a shopper session, oldest first
func (r *GormCartLineRepository) FindBySession(ctx context.Context, sessionID string) ([]checkout.CartLine, error) {
	var lines []checkout.CartLine
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// Save creates or updates a cart line
func (r *GormCartLineRepository) Save(ctx context.Context, line *checkout.CartLine) error {
	return r.db.WithContext(ctx).Save(line).Error
}

// Delete removes a cart line
func (r *GormCartLineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&checkout.CartLine{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ClearSession removes all cart lines for a shopper session
func (r *GormCartLineRepository) ClearSession(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).
		Delete(&checkout.CartLine{}, "session_id = ?", sessionID).Error
}

// Ensure GormCartLineRepository implements CartLineRepository
var _ checkout.CartLineRepository = (*GormCartLineRepository)(nil)
