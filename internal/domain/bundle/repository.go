package bundle

import (
	"context"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/shared"
)

// ConfigurationRepository defines the persistence operations for bundle
// configurations. Save always writes the whole record; concurrent
// writers race at the row level and the last write wins.
type ConfigurationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BundleConfiguration, error)
	FindByProductID(ctx context.Context, productID uuid.UUID) (*BundleConfiguration, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]BundleConfiguration, error)
	Save(ctx context.Context, cfg *BundleConfiguration) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
