package service

import (
	"context"
	"errors"
	"fmt"

	"season-admin/internal/domain"
)

// Product status labels used by the catalog toggles. The upstream field
// is free text; these are the two values the dashboard writes.
const (
	ProductStatusActive    = "Active"
	ProductStatusNotActive = "Not Active"
)

var ErrProductNotLoaded = errors.New("product not present in the loaded set")

// CatalogClient is the slice of the backend client the catalog uses.
type CatalogClient interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, patch domain.ProductPatch) error
	DeleteProduct(ctx context.Context, id string) error
}

// Facets are the filter options offered for the loaded product set.
// Categories and statuses are derived from the data; price bands are the
// fixed PriceBands list.
type Facets struct {
	Categories  []string `json:"categories"`
	Statuses    []string `json:"statuses"`
	PriceRanges []string `json:"priceRanges"`
}

// CatalogService holds one screen's copy of the product catalog. A new
// instance is created per screen mount; nothing is shared or cached
// across screens. Mutations are applied to the local copy first and
// reverted if the upstream call fails.
type CatalogService struct {
	client   CatalogClient
	products []domain.Product
	facets   Facets
	loaded   bool
}

// NewCatalogService creates a catalog manager around the given client.
func NewCatalogService(client CatalogClient) *CatalogService {
	return &CatalogService{client: client}
}

// Load fetches the full product set and derives the filter facets.
func (s *CatalogService) Load(ctx context.Context) error {
	products, err := s.client.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	categories, statuses := DeriveFacets(products)
	s.products = products
	s.facets = Facets{
		Categories:  categories,
		Statuses:    statuses,
		PriceRanges: PriceBands,
	}
	s.loaded = true
	return nil
}

// Products returns the current in-memory product set.
func (s *CatalogService) Products() []domain.Product {
	return s.products
}

// Facets returns the filter options derived at load time.
func (s *CatalogService) Facets() Facets {
	return s.facets
}

// Filter applies the criteria to the loaded set without re-fetching.
func (s *CatalogService) Filter(criteria FilterCriteria) []domain.Product {
	return FilterProducts(s.products, criteria)
}

// Create posts a new product and merges the created record into the
// local set, rather than discarding state the way the old dashboard
// reloaded the whole page.
func (s *CatalogService) Create(ctx context.Context, product domain.Product) (*domain.Product, error) {
	created, err := s.client.CreateProduct(ctx, product)
	if err != nil {
		return nil, err
	}
	s.products = append(s.products, *created)
	return created, nil
}

// Update applies the patch to the local copy immediately, then issues
// the partial update upstream. On failure the local copy is restored to
// its prior state.
func (s *CatalogService) Update(ctx context.Context, id string, patch domain.ProductPatch) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return ErrProductNotLoaded
	}

	prior := s.products[idx]
	s.products[idx] = patch.ApplyTo(prior)

	if err := s.client.UpdateProduct(ctx, id, patch); err != nil {
		s.products[idx] = prior
		return err
	}
	return nil
}

// Delete removes the product upstream, then drops it from the local set.
// Callers must route this through a ConfirmationGate; it is never invoked
// directly from a handler.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	if err := s.client.DeleteProduct(ctx, id); err != nil {
		return err
	}

	if idx := s.indexOf(id); idx >= 0 {
		s.products = append(s.products[:idx], s.products[idx+1:]...)
	}
	return nil
}

// SetPublished sends the given published flag as a partial update,
// optimistically reflecting it locally.
func (s *CatalogService) SetPublished(ctx context.Context, id string, published bool) error {
	return s.Update(ctx, id, domain.ProductPatch{Published: &published})
}

// TogglePublished negates the local published flag and pushes it upstream.
func (s *CatalogService) TogglePublished(ctx context.Context, id string) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return ErrProductNotLoaded
	}
	return s.SetPublished(ctx, id, !s.products[idx].Published)
}

// ToggleStatus flips the product between Active and Not Active. Any
// other free-text status is treated as inactive and becomes Active.
func (s *CatalogService) ToggleStatus(ctx context.Context, id string) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return ErrProductNotLoaded
	}

	next := ProductStatusActive
	if s.products[idx].Status == ProductStatusActive {
		next = ProductStatusNotActive
	}
	return s.Update(ctx, id, domain.ProductPatch{Status: &next})
}

// Find returns the loaded product with the given id.
func (s *CatalogService) Find(id string) (domain.Product, bool) {
	if idx := s.indexOf(id); idx >= 0 {
		return s.products[idx], true
	}
	return domain.Product{}, false
}

func (s *CatalogService) indexOf(id string) int {
	for i := range s.products {
		if s.products[i].ID == id {
			return i
		}
	}
	return -1
}
