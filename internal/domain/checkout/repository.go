package checkout

import (
	"context"

	"github.com/google/uuid"
)

// CartLineRepository defines the persistence operations for cart lines
type CartLineRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CartLine, error)
	FindBySession(ctx context.Context, sessionID string) ([]CartLine, error)
	Save(ctx context.Context, line *CartLine) error
	Delete(ctx context.Context, id uuid.UUID) error
	ClearSession(ctx context.Context, sessionID string) error
}
