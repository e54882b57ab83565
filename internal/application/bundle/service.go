package bundle

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appcatalog "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/bundle"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/checkout"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
)

// SnapshotProvider yields a consistent catalog snapshot per call
type SnapshotProvider interface {
	Snapshot(ctx context.Context) (*catalog.Snapshot, error)
}

// ValidationError carries the slot violations of a rejected selection
type ValidationError struct {
	Violations []bundle.Violation
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return shared.ErrValidationViolation.Message
}

// Service handles bundle resolution, pricing, cart composition and
// administration. Every storefront operation takes exactly one catalog
// snapshot and evaluates all slots against it.
type Service struct {
	bundleRepo bundle.ConfigurationRepository
	cartRepo   checkout.CartLineRepository
	lookup     SnapshotProvider
	logger     *zap.Logger
}

// NewService creates a new bundle Service
func NewService(
	bundleRepo bundle.ConfigurationRepository,
	cartRepo checkout.CartLineRepository,
	lookup SnapshotProvider,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		bundleRepo: bundleRepo,
		cartRepo:   cartRepo,
		lookup:     lookup,
		logger:     logger,
	}
}

// GetByProduct returns the enabled bundle attached to a storefront
// product, with every slot resolved against one catalog snapshot.
func (s *Service) GetByProduct(ctx context.Context, productID uuid.UUID) (*BundleView, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "bundle", "get_by_product")
	defer span.End()
	telemetry.SetAttribute(span, telemetry.SpanAttrProductID, productID.String())

	cfg, err := s.bundleRepo.FindByProductID(ctx, productID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if !cfg.Enabled {
		return nil, shared.ErrNotFound
	}
	return s.buildView(ctx, cfg)
}

// ResolveSlots returns the resolved slot views of an enabled bundle
func (s *Service) ResolveSlots(ctx context.Context, bundleID uuid.UUID) (*BundleView, error) {
	cfg, err := s.loadEnabled(ctx, bundleID)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, cfg)
}

// Price validates and prices a shopper's selection. Validation and
// pricing share the snapshot so no item drifts between the two steps.
func (s *Service) Price(ctx context.Context, bundleID uuid.UUID, req SelectionRequest) (*bundle.PriceBreakdown, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "bundle", "price")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrBundleID, bundleID.String(),
		telemetry.SpanAttrSlotCount, len(req.Slots),
	)

	cfg, err := s.loadEnabled(ctx, bundleID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	snap, err := s.lookup.Snapshot(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	breakdown, err := s.priceAgainst(cfg, req.toDomain(), snap)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttribute(span, telemetry.SpanAttrTotal, breakdown.Total.String())
	return breakdown, nil
}

// AddToCart validates, prices and freezes a selection into a cart
// line. The line's total override equals the breakdown total.
func (s *Service) AddToCart(ctx context.Context, bundleID uuid.UUID, req AddToCartRequest) (*CartLineResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "bundle", "add_to_cart")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrBundleID, bundleID.String(),
		telemetry.SpanAttrSessionID, req.SessionID,
	)

	cfg, err := s.loadEnabled(ctx, bundleID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	snap, err := s.lookup.Snapshot(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	sel := req.Selection.toDomain()
	breakdown, err := s.priceAgainst(cfg, sel, snap)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	line, err := checkout.NewCartLine(req.SessionID, cfg, sel, breakdown)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.cartRepo.Save(ctx, line); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttribute(span, telemetry.SpanAttrTotal, breakdown.Total.String())

	s.logger.Info("bundle added to cart",
		zap.String("bundle_id", bundleID.String()),
		zap.String("session_id", req.SessionID),
		zap.String("total", breakdown.Total.String()),
	)
	return NewCartLineResponse(line), nil
}

// GetCart returns all cart lines of a session
func (s *Service) GetCart(ctx context.Context, sessionID string) ([]CartLineResponse, error) {
	lines, err := s.cartRepo.FindBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	responses := make([]CartLineResponse, 0, len(lines))
	for i := range lines {
		responses = append(responses, *NewCartLineResponse(&lines[i]))
	}
	return responses, nil
}

// RemoveCartLine deletes a single cart line
func (s *Service) RemoveCartLine(ctx context.Context, lineID uuid.UUID) error {
	return s.cartRepo.Delete(ctx, lineID)
}

// ShippingPolicy reports how shipping fees apply to an enabled bundle
func (s *Service) ShippingPolicy(ctx context.Context, bundleID uuid.UUID) (*ShippingPolicyResponse, error) {
	cfg, err := s.loadEnabled(ctx, bundleID)
	if err != nil {
		return nil, err
	}
	return &ShippingPolicyResponse{BundleID: cfg.ID, Policy: cfg.Shipping}, nil
}

// Create creates a new, disabled bundle configuration
func (s *Service) Create(ctx context.Context, req CreateBundleRequest) (*bundle.BundleConfiguration, error) {
	cfg, err := bundle.NewBundleConfiguration(req.Name, req.Type, req.ProductID, req.Slots, req.Pricing, req.Shipping)
	if err != nil {
		return nil, err
	}
	cfg.Description = req.Description

	if err := s.bundleRepo.Save(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Update replaces a bundle configuration wholesale. The stored record
// is overwritten field for field; there is no merge and concurrent
// writers settle on the last write.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateBundleRequest) (*bundle.BundleConfiguration, error) {
	cfg, err := s.bundleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := cfg.UpdateDetails(req.Name, req.Description, req.Type); err != nil {
		return nil, err
	}
	if err := cfg.ReplaceSlots(req.Slots); err != nil {
		return nil, err
	}
	if err := cfg.UpdatePricing(req.Pricing); err != nil {
		return nil, err
	}
	if err := cfg.UpdateShipping(req.Shipping); err != nil {
		return nil, err
	}

	if err := s.bundleRepo.Save(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Get returns a bundle configuration regardless of enabled state
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*bundle.BundleConfiguration, error) {
	return s.bundleRepo.FindByID(ctx, id)
}

// List returns bundle configurations matching the filter
func (s *Service) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[bundle.BundleConfiguration], error) {
	cfgs, err := s.bundleRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.bundleRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(cfgs, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Delete removes a bundle configuration
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.bundleRepo.Delete(ctx, id)
}

// SetEnabled enables or disables a bundle. Enabling re-validates the
// configuration so a bundle that drifted invalid cannot go live.
func (s *Service) SetEnabled(ctx context.Context, id uuid.UUID, enabled bool) (*bundle.BundleConfiguration, error) {
	cfg, err := s.bundleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if enabled {
		if err := cfg.Enable(); err != nil {
			return nil, err
		}
	} else {
		cfg.Disable()
	}

	if err := s.bundleRepo.Save(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *Service) loadEnabled(ctx context.Context, id uuid.UUID) (*bundle.BundleConfiguration, error) {
	cfg, err := s.bundleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !cfg.Enabled {
		return nil, shared.ErrNotFound
	}
	return cfg, nil
}

func (s *Service) priceAgainst(cfg *bundle.BundleConfiguration, sel bundle.Selection, snap *catalog.Snapshot) (*bundle.PriceBreakdown, error) {
	if violations := bundle.ValidateSelection(cfg, sel, snap); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}
	return bundle.PriceSelection(cfg, sel, snap)
}

func (s *Service) buildView(ctx context.Context, cfg *bundle.BundleConfiguration) (*BundleView, error) {
	snap, err := s.lookup.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	slots := make([]SlotView, 0, len(cfg.Slots))
	for _, slot := range cfg.Slots {
		resolved := bundle.ResolveSlot(slot, snap)
		items := make([]appcatalog.ItemResponse, 0, len(resolved))
		for i := range resolved {
			view := appcatalog.NewItemResponse(&resolved[i])
			if resolved[i].ParentID == nil {
				for _, variation := range snap.VariationsOf(resolved[i].ID) {
					view.VariationIDs = append(view.VariationIDs, variation.ID)
				}
			}
			items = append(items, *view)
		}
		slots = append(slots, SlotView{
			ID:                  slot.ID,
			Title:               slot.Title,
			MinQuantity:         slot.MinQuantity,
			MaxQuantity:         slot.MaxQuantity,
			IsOptional:          slot.IsOptional,
			ShowPrice:           slot.ShowPrice,
			DefaultItemID:       slot.DefaultItemID,
			DiscountType:        slot.DiscountType,
			DiscountValue:       slot.DiscountValue,
			Items:               items,
			RuleResolutionEmpty: len(items) == 0,
		})
	}

	return &BundleView{
		ID:          cfg.ID,
		Name:        cfg.Name,
		Description: cfg.Description,
		Type:        cfg.Type,
		ProductID:   cfg.ProductID,
		Pricing:     cfg.Pricing,
		Shipping:    cfg.Shipping,
		Enabled:     cfg.Enabled,
		Slots:       slots,
		ResolvedAt:  snap.TakenAt(),
		CreatedAt:   cfg.CreatedAt,
		UpdatedAt:   cfg.UpdatedAt,
	}, nil
}
