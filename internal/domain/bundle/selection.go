package bundle

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/catalog"
)

// SelectedItem is one item choice inside a slot, with the number of
// physical units the shopper picked
type SelectedItem struct {
	ItemID   uuid.UUID `json:"item_id"`
	Quantity int       `json:"quantity"`
}

// SlotSelection is the shopper's choice for a single slot
type SlotSelection struct {
	SlotID uuid.UUID      `json:"slot_id"`
	Items  []SelectedItem `json:"items"`
}

// Selection is the shopper's full choice across a bundle's slots
type Selection struct {
	Slots []SlotSelection `json:"slots"`
}

// bySlot merges the selection entries per slot id
func (s Selection) bySlot() map[uuid.UUID][]SelectedItem {
	merged := make(map[uuid.UUID][]SelectedItem, len(s.Slots))
	for _, slot := range s.Slots {
		merged[slot.SlotID] = append(merged[slot.SlotID], slot.Items...)
	}
	return merged
}

// ViolationReason identifies why a selection fails validation
type ViolationReason string

const (
	ViolationBelowMinimum    ViolationReason = "below_minimum"
	ViolationAboveMaximum    ViolationReason = "above_maximum"
	ViolationItemNotEligible ViolationReason = "item_not_eligible"
	ViolationInvalidQuantity ViolationReason = "invalid_quantity"
	ViolationUnknownSlot     ViolationReason = "unknown_slot"
)

// Violation is one validation failure. ItemID is set for item-level
// failures and nil for slot-level ones.
type Violation struct {
	SlotID  uuid.UUID       `json:"slot_id"`
	ItemID  *uuid.UUID      `json:"item_id,omitempty"`
	Reason  ViolationReason `json:"reason"`
	Message string          `json:"message"`
}

// ValidateSelection checks a shopper's selection against the bundle's
// slot constraints, re-resolving each slot's eligibility against the
// snapshot so that items that drifted out of a rule since the UI was
// rendered are rejected. A nil result means the selection is valid.
func ValidateSelection(cfg *BundleConfiguration, sel Selection, snap *catalog.Snapshot) []Violation {
	var violations []Violation

	selected := sel.bySlot()

	known := make(map[uuid.UUID]bool, len(cfg.Slots))
	for _, slot := range cfg.Slots {
		known[slot.ID] = true
	}
	for slotID := range selected {
		if !known[slotID] {
			violations = append(violations, Violation{
				SlotID:  slotID,
				Reason:  ViolationUnknownSlot,
				Message: "selection references a slot that is not part of this bundle",
			})
		}
	}

	for _, slot := range cfg.Slots {
		eligible := toSet(itemIDs(ResolveSlot(slot, snap)))

		total := 0
		for _, pick := range selected[slot.ID] {
			itemID := pick.ItemID
			if pick.Quantity < 1 {
				violations = append(violations, Violation{
					SlotID:  slot.ID,
					ItemID:  &itemID,
					Reason:  ViolationInvalidQuantity,
					Message: fmt.Sprintf("quantity must be at least 1, got %d", pick.Quantity),
				})
				continue
			}
			if !eligible[itemID] {
				violations = append(violations, Violation{
					SlotID:  slot.ID,
					ItemID:  &itemID,
					Reason:  ViolationItemNotEligible,
					Message: "item is not eligible for this slot",
				})
			}
			total += pick.Quantity
		}

		if total == 0 {
			// optional slots and zero-minimum slots may stay empty
			if !slot.IsOptional && slot.MinQuantity > 0 {
				violations = append(violations, Violation{
					SlotID:  slot.ID,
					Reason:  ViolationBelowMinimum,
					Message: fmt.Sprintf("slot requires at least %d items", slot.MinQuantity),
				})
			}
			continue
		}

		if total < slot.MinQuantity {
			violations = append(violations, Violation{
				SlotID:  slot.ID,
				Reason:  ViolationBelowMinimum,
				Message: fmt.Sprintf("slot requires at least %d items, got %d", slot.MinQuantity, total),
			})
		}
		if total > slot.MaxQuantity {
			violations = append(violations, Violation{
				SlotID:  slot.ID,
				Reason:  ViolationAboveMaximum,
				Message: fmt.Sprintf("slot allows at most %d items, got %d", slot.MaxQuantity, total),
			})
		}
	}

	return violations
}

func itemIDs(items []catalog.Item) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids
}
