package service

import (
	"strconv"
	"strings"

	"season-admin/internal/domain"
)

// PriceBands is the fixed set of price intervals offered as filter
// options. Bands are not derived from the data; "500+" is unbounded above.
var PriceBands = []string{"0-50", "51-100", "101-200", "201-500", "500+"}

// FilterCriteria is the per-screen filter state. Zero values mean
// "match all" for the corresponding predicate.
type FilterCriteria struct {
	Search        string
	Category      string
	PriceBand     string
	Status        string
	PublishedOnly bool
}

// IsZero reports whether no criterion is set.
func (c FilterCriteria) IsZero() bool {
	return c == FilterCriteria{}
}

// priceBand is a parsed price interval. A nil upper bound means the band
// is unbounded above.
type priceBand struct {
	min float64
	max *float64
}

func (b priceBand) contains(price float64) bool {
	if price < b.min {
		return false
	}
	return b.max == nil || price <= *b.max
}

// parsePriceBand parses "lo-hi" or "lo+" labels. Unknown labels yield
// ok=false and the price predicate is skipped, matching the behavior of
// an unset criterion.
func parsePriceBand(label string) (priceBand, bool) {
	if trimmed, found := strings.CutSuffix(label, "+"); found {
		min, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return priceBand{}, false
		}
		return priceBand{min: min}, true
	}

	lo, hi, found := strings.Cut(label, "-")
	if !found {
		return priceBand{}, false
	}
	min, err := strconv.ParseFloat(lo, 64)
	if err != nil {
		return priceBand{}, false
	}
	max, err := strconv.ParseFloat(hi, 64)
	if err != nil {
		return priceBand{}, false
	}
	return priceBand{min: min, max: &max}, true
}

// FilterProducts applies the criteria as a conjunction over products,
// in order: title substring (case-insensitive), exact category, price
// band, exact status, published-only. The input slice is not modified;
// empty criteria return the products unchanged.
func FilterProducts(products []domain.Product, criteria FilterCriteria) []domain.Product {
	if criteria.IsZero() {
		return products
	}

	filtered := products

	if criteria.Search != "" {
		needle := strings.ToLower(criteria.Search)
		filtered = keep(filtered, func(p domain.Product) bool {
			return strings.Contains(strings.ToLower(p.Title), needle)
		})
	}

	if criteria.Category != "" {
		filtered = keep(filtered, func(p domain.Product) bool {
			return p.Category == criteria.Category
		})
	}

	if criteria.PriceBand != "" {
		if band, ok := parsePriceBand(criteria.PriceBand); ok {
			filtered = keep(filtered, func(p domain.Product) bool {
				return band.contains(p.Price)
			})
		}
	}

	if criteria.Status != "" {
		filtered = keep(filtered, func(p domain.Product) bool {
			return p.Status == criteria.Status
		})
	}

	if criteria.PublishedOnly {
		filtered = keep(filtered, func(p domain.Product) bool {
			return p.Published
		})
	}

	return filtered
}

func keep(products []domain.Product, pred func(domain.Product) bool) []domain.Product {
	kept := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if pred(p) {
			kept = append(kept, p)
		}
	}
	return kept
}

// DeriveFacets returns the distinct categories and statuses observed in
// the product set, in order of first appearance.
func DeriveFacets(products []domain.Product) (categories, statuses []string) {
	seenCategory := make(map[string]bool)
	seenStatus := make(map[string]bool)

	for _, p := range products {
		if !seenCategory[p.Category] {
			seenCategory[p.Category] = true
			categories = append(categories, p.Category)
		}
		if !seenStatus[p.Status] {
			seenStatus[p.Status] = true
			statuses = append(statuses, p.Status)
		}
	}
	return categories, statuses
}
