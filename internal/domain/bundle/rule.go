package bundle

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/catalog"
)

// ResolveSlot computes the ordered set of catalog items a slot offers,
// evaluated against a single catalog snapshot. Inclusion axes are
// unioned, an open rule admits the whole snapshot, and exclusions are
// subtracted last. Only active, in-stock items are ever eligible.
func ResolveSlot(slot Slot, snap *catalog.Snapshot) []catalog.Item {
	matcher := newRuleMatcher(slot.Rule)

	eligible := make([]catalog.Item, 0, snap.Len())
	for _, item := range snap.Items() {
		if !item.IsActive() || !item.InStock {
			continue
		}
		if !matcher.includes(&item) {
			continue
		}
		if matcher.excludes(&item) {
			continue
		}
		eligible = append(eligible, item)
	}

	sortItems(eligible, slot.SortBy, slot.SortOrder)
	return eligible
}

// ResolveSlots resolves every slot of a configuration against the same
// snapshot, keyed by slot id.
func ResolveSlots(cfg *BundleConfiguration, snap *catalog.Snapshot) map[uuid.UUID][]catalog.Item {
	resolved := make(map[uuid.UUID][]catalog.Item, len(cfg.Slots))
	for _, slot := range cfg.Slots {
		resolved[slot.ID] = ResolveSlot(slot, snap)
	}
	return resolved
}

// ruleMatcher holds the rule's id lists as sets for O(1) membership checks
type ruleMatcher struct {
	open bool

	includeProducts   map[uuid.UUID]bool
	includeVariations map[uuid.UUID]bool
	includeCategories []uuid.UUID
	includeTags       []uuid.UUID

	excludeProducts   map[uuid.UUID]bool
	excludeVariations map[uuid.UUID]bool
	excludeCategories []uuid.UUID
	excludeTags       []uuid.UUID
}

func newRuleMatcher(rule EligibilityRule) *ruleMatcher {
	return &ruleMatcher{
		open:              rule.IsOpen(),
		includeProducts:   toSet(rule.IncludeProductIDs),
		includeVariations: toSet(rule.IncludeVariationsOf),
		includeCategories: rule.IncludeCategoryIDs,
		includeTags:       rule.IncludeTagIDs,
		excludeProducts:   toSet(rule.ExcludeProductIDs),
		excludeVariations: toSet(rule.ExcludeVariationsOf),
		excludeCategories: rule.ExcludeCategoryIDs,
		excludeTags:       rule.ExcludeTagIDs,
	}
}

func (m *ruleMatcher) includes(item *catalog.Item) bool {
	if m.open {
		return true
	}
	if m.includeProducts[item.ID] {
		return true
	}
	if item.ParentID != nil && m.includeVariations[*item.ParentID] {
		return true
	}
	for _, categoryID := range m.includeCategories {
		if item.InCategory(categoryID) {
			return true
		}
	}
	for _, tagID := range m.includeTags {
		if item.HasTag(tagID) {
			return true
		}
	}
	return false
}

func (m *ruleMatcher) excludes(item *catalog.Item) bool {
	if m.excludeProducts[item.ID] {
		return true
	}
	if item.ParentID != nil && m.excludeVariations[*item.ParentID] {
		return true
	}
	for _, categoryID := range m.excludeCategories {
		if item.InCategory(categoryID) {
			return true
		}
	}
	for _, tagID := range m.excludeTags {
		if item.HasTag(tagID) {
			return true
		}
	}
	return false
}

// sortItems orders items by the slot's sort key and direction. Ties
// always break on item id ascending so the ordering is deterministic
// regardless of direction.
func sortItems(items []catalog.Item, key SortKey, order SortOrder) {
	sort.SliceStable(items, func(i, j int) bool {
		cmp := compareByKey(&items[i], &items[j], key)
		if cmp == 0 {
			return items[i].ID.String() < items[j].ID.String()
		}
		if order == SortDesc {
			return cmp > 0
		}
		return cmp < 0
	})
}

func compareByKey(a, b *catalog.Item, key SortKey) int {
	switch key {
	case SortByPrice:
		return a.EffectivePrice().Cmp(b.EffectivePrice())
	case SortByName:
		return strings.Compare(a.Name, b.Name)
	case SortByDate:
		switch {
		case a.PublishedAt.Before(b.PublishedAt):
			return -1
		case a.PublishedAt.After(b.PublishedAt):
			return 1
		}
		return 0
	case SortByPopularity:
		switch {
		case a.TotalSales < b.TotalSales:
			return -1
		case a.TotalSales > b.TotalSales:
			return 1
		}
		return 0
	}
	return 0
}

func toSet(ids []uuid.UUID) map[uuid.UUID]bool {
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
