package service

import (
	"reflect"
	"testing"

	"season-admin/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func genProduct() gopter.Gen {
	return gopter.CombineGens(
		gen.Identifier(),
		gen.AlphaString(),
		gen.Float64Range(0, 1000),
		gen.OneConstOf("Rings", "Necklaces", "Earrings", "Bracelets"),
		gen.OneConstOf(ProductStatusActive, ProductStatusNotActive),
		gen.Bool(),
	).Map(func(vals []interface{}) domain.Product {
		return domain.Product{
			ID:        vals[0].(string),
			Title:     vals[1].(string),
			Price:     vals[2].(float64),
			Category:  vals[3].(string),
			Status:    vals[4].(string),
			Published: vals[5].(bool),
		}
	})
}

func genCriteria() gopter.Gen {
	bandLabels := []interface{}{""}
	for _, band := range PriceBands {
		bandLabels = append(bandLabels, band)
	}

	return gopter.CombineGens(
		gen.OneConstOf("", "a", "ring", "Ring"),
		gen.OneConstOf("", "Rings", "Necklaces", "Earrings"),
		gen.OneConstOf(bandLabels...),
		gen.OneConstOf("", ProductStatusActive, ProductStatusNotActive),
		gen.Bool(),
	).Map(func(vals []interface{}) FilterCriteria {
		return FilterCriteria{
			Search:        vals[0].(string),
			Category:      vals[1].(string),
			PriceBand:     vals[2].(string),
			Status:        vals[3].(string),
			PublishedOnly: vals[4].(bool),
		}
	})
}

// Empty criteria must behave as the identity: the caller gets the loaded
// set back untouched.
func TestProperty_EmptyCriteriaReturnsAllProducts(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("filtering with no criteria set returns the input unchanged", prop.ForAll(
		func(products []domain.Product) bool {
			filtered := FilterProducts(products, FilterCriteria{})
			if len(filtered) != len(products) {
				t.Logf("FAIL: expected %d products, got %d", len(products), len(filtered))
				return false
			}
			return reflect.DeepEqual(filtered, products)
		},
		gen.SliceOf(genProduct()),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Every product surviving a price-band filter must fall inside the band;
// the final band has no upper bound.
func TestProperty_PriceBandFilterContainment(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("filtered products fall inside the selected price band", prop.ForAll(
		func(products []domain.Product, label string) bool {
			band, ok := parsePriceBand(label)
			if !ok {
				t.Logf("FAIL: band label %q did not parse", label)
				return false
			}

			filtered := FilterProducts(products, FilterCriteria{PriceBand: label})
			for _, p := range filtered {
				if p.Price < band.min {
					t.Logf("FAIL: price %f below band %q", p.Price, label)
					return false
				}
				if band.max != nil && p.Price > *band.max {
					t.Logf("FAIL: price %f above band %q", p.Price, label)
					return false
				}
			}
			return true
		},
		gen.SliceOf(genProduct()),
		gen.OneConstOf("0-50", "51-100", "101-200", "201-500", "500+"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Filtering is idempotent: re-applying the same criteria to its own
// output changes nothing.
func TestProperty_FilterIsIdempotent(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("applying the same criteria twice equals applying it once", prop.ForAll(
		func(products []domain.Product, criteria FilterCriteria) bool {
			once := FilterProducts(products, criteria)
			twice := FilterProducts(once, criteria)
			if len(once) != len(twice) {
				t.Logf("FAIL: once=%d twice=%d for criteria %+v", len(once), len(twice), criteria)
				return false
			}
			return reflect.DeepEqual(once, twice)
		},
		gen.SliceOf(genProduct()),
		genCriteria(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestFilterProducts_ComposedCriteria(t *testing.T) {
	products := []domain.Product{
		{ID: "p1", Title: "Ring A", Category: "Rings", Price: 75, Published: true, Status: ProductStatusActive},
		{ID: "p2", Title: "Ring B", Category: "Rings", Price: 75, Published: false, Status: ProductStatusActive},
	}

	filtered := FilterProducts(products, FilterCriteria{
		Category:      "Rings",
		PriceBand:     "51-100",
		PublishedOnly: true,
	})

	require.Len(t, filtered, 1)
	assert.Equal(t, "Ring A", filtered[0].Title)
}

func TestFilterProducts_UnboundedBand(t *testing.T) {
	products := []domain.Product{
		{ID: "p1", Title: "Pendant", Price: 499.99},
		{ID: "p2", Title: "Tiara", Price: 500},
		{ID: "p3", Title: "Crown", Price: 125000},
	}

	filtered := FilterProducts(products, FilterCriteria{PriceBand: "500+"})

	require.Len(t, filtered, 2)
	assert.Equal(t, "Tiara", filtered[0].Title)
	assert.Equal(t, "Crown", filtered[1].Title)
}

func TestFilterProducts_SearchIsCaseInsensitive(t *testing.T) {
	products := []domain.Product{
		{ID: "p1", Title: "Golden Ring"},
		{ID: "p2", Title: "Silver Necklace"},
	}

	filtered := FilterProducts(products, FilterCriteria{Search: "gOLDEN"})

	require.Len(t, filtered, 1)
	assert.Equal(t, "p1", filtered[0].ID)
}

func TestFilterProducts_UnknownBandLabelMatchesAll(t *testing.T) {
	products := []domain.Product{
		{ID: "p1", Price: 10},
		{ID: "p2", Price: 9999},
	}

	filtered := FilterProducts(products, FilterCriteria{PriceBand: "cheap"})

	assert.Len(t, filtered, 2)
}

func TestDeriveFacets_FirstAppearanceOrder(t *testing.T) {
	products := []domain.Product{
		{Category: "Rings", Status: ProductStatusActive},
		{Category: "Necklaces", Status: ProductStatusNotActive},
		{Category: "Rings", Status: ProductStatusActive},
		{Category: "Earrings", Status: ProductStatusActive},
	}

	categories, statuses := DeriveFacets(products)

	assert.Equal(t, []string{"Rings", "Necklaces", "Earrings"}, categories)
	assert.Equal(t, []string{ProductStatusActive, ProductStatusNotActive}, statuses)
}
