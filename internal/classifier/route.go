package classifier

import (
	"github.com/vbonduro/kitchenflow/internal/domain"
)

// FallbackSupermarket is used online when no concrete supermarket is known.
const FallbackSupermarket domain.Store = "Tesco"

// GenericStop stands in for "any supermarket" on a shopping route.
const GenericStop = "Supermarket"

type storeCount struct {
	store domain.Store
	n     int
}

// countStores tallies stores in first-seen order; an unset store counts as Any.
func countStores(items []domain.ShoppingItem) []storeCount {
	var counts []storeCount
	idx := make(map[domain.Store]int)
	for _, item := range items {
		s := item.Store
		if s == "" {
			s = domain.StoreAny
		}
		if i, ok := idx[s]; ok {
			counts[i].n++
			continue
		}
		idx[s] = len(counts)
		counts = append(counts, storeCount{store: s, n: 1})
	}
	return counts
}

// PrimaryStore picks the store to shop online for items: the most frequent
// one, with Any resolved to the most frequent supermarket, else Tesco.
// Ties go to the store seen first.
func (kb *KnowledgeBase) PrimaryStore(items []domain.ShoppingItem) domain.Store {
	counts := countStores(items)
	if len(counts) == 0 {
		return FallbackSupermarket
	}

	best := counts[0]
	for _, c := range counts[1:] {
		if c.n > best.n {
			best = c
		}
	}
	if best.store != domain.StoreAny {
		return best.store
	}

	var super *storeCount
	for i, c := range counts {
		if kb.IsSupermarket(c.store) && (super == nil || c.n > super.n) {
			super = &counts[i]
		}
	}
	if super != nil {
		return super.store
	}
	return FallbackSupermarket
}

// RouteStops lists the distinct stores to visit for items, with a generic
// supermarket stop last when any item can be bought anywhere.
func RouteStops(items []domain.ShoppingItem) []string {
	counts := countStores(items)
	stops := make([]string, 0, len(counts))
	anyStop := false
	for _, c := range counts {
		if c.store == domain.StoreAny {
			anyStop = true
			continue
		}
		stops = append(stops, string(c.store))
	}
	if anyStop || len(stops) == 0 {
		stops = append(stops, GenericStop)
	}
	return stops
}
