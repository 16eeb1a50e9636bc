package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"season-admin/internal/domain"
	"season-admin/internal/forms"
	"season-admin/internal/middleware"
	"season-admin/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CreateProductRequest is the Add Product form submission.
type CreateProductRequest struct {
	Title       string  `json:"title" validate:"required"`
	Image       string  `json:"image"`
	Price       float64 `json:"price" validate:"gte=0"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Status      string  `json:"status"`
	Published   bool    `json:"published"`
}

// UpdateProductRequest is a partial edit; absent fields stay untouched.
type UpdateProductRequest struct {
	Title       *string  `json:"title"`
	Image       *string  `json:"image"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Stock       *int     `json:"stock" validate:"omitempty,gte=0"`
	Status      *string  `json:"status"`
	Published   *bool    `json:"published"`
}

// ConfirmRequest resolves a pending delete confirmation.
type ConfirmRequest struct {
	Token string `json:"token" validate:"required"`
}

// ProductListResponse carries the filtered screen copy plus the facets
// derived from the full fetched set.
type ProductListResponse struct {
	Products []domain.Product `json:"products"`
	Facets   service.Facets   `json:"facets"`
	Total    int              `json:"total"`
}

// ProductHandler handles the product catalog screens. A fresh catalog
// manager is built per request, so every screen works on its own copy
// of the data, exactly like a component re-fetching on mount.
type ProductHandler struct {
	client      service.CatalogClient
	gate        *service.ConfirmationGate
	maxImageDim uint
	logger      *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(client service.CatalogClient, gate *service.ConfirmationGate, maxImageDim uint, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{client: client, gate: gate, maxImageDim: maxImageDim, logger: logger}
}

// RegisterRoutes registers all product routes behind the given auth middleware.
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/form", h.FormSchema)
		r.Post("/delete/confirm", h.ConfirmDelete)
		r.Post("/delete/cancel", h.CancelDelete)
		r.Route("/{id}", func(r chi.Router) {
			r.Put("/", h.Update)
			r.Post("/delete", h.RequestDelete)
			r.Post("/publish", h.Publish)
			r.Post("/unpublish", h.Unpublish)
			r.Post("/activate", h.Activate)
			r.Post("/deactivate", h.Deactivate)
		})
	})
}

func (h *ProductHandler) loadCatalog(ctx context.Context, w http.ResponseWriter) (*service.CatalogService, bool) {
	catalog := service.NewCatalogService(h.client)
	if err := catalog.Load(ctx); err != nil {
		h.logger.Error("Failed to load catalog", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadGateway, "failed to fetch products")
		return nil, false
	}
	return catalog, true
}

// List fetches the catalog and applies the filter criteria from the
// query string. Filtering is purely in-memory; the upstream fetch is
// always the full set.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	catalog, ok := h.loadCatalog(r.Context(), w)
	if !ok {
		return
	}

	query := r.URL.Query()
	criteria := service.FilterCriteria{
		Search:        query.Get("search"),
		Category:      query.Get("category"),
		PriceBand:     query.Get("price"),
		Status:        query.Get("status"),
		PublishedOnly: query.Get("published") == "true",
	}

	products := catalog.Filter(criteria)
	middleware.RespondWithJSON(w, http.StatusOK, ProductListResponse{
		Products: products,
		Facets:   catalog.Facets(),
		Total:    len(products),
	})
}

// Create posts a new product upstream. Uploaded images arrive as data
// URLs and are downscaled before they are embedded in the record.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.respondBadPayload(w, err)
		return
	}

	image, err := h.prepareImage(req.Image)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid image payload")
		return
	}

	catalog := service.NewCatalogService(h.client)
	created, err := catalog.Create(r.Context(), domain.Product{
		Title:       req.Title,
		Image:       image,
		Price:       req.Price,
		Description: req.Description,
		Category:    req.Category,
		Status:      req.Status,
		Published:   req.Published,
	})
	if err != nil {
		h.logger.Error("Failed to create product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadGateway, "failed to create product")
		return
	}

	h.logger.Info("Product created", zap.String("product_id", created.ID))
	middleware.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"product": created,
		"notice":  successNotice(msgProductAdded),
	})
}

// Update applies a partial edit to one product.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.respondBadPayload(w, err)
		return
	}

	patch := domain.ProductPatch{
		Title:       req.Title,
		Price:       req.Price,
		Description: req.Description,
		Category:    req.Category,
		Stock:       req.Stock,
		Status:      req.Status,
		Published:   req.Published,
	}
	if req.Image != nil {
		image, err := h.prepareImage(*req.Image)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid image payload")
			return
		}
		patch.Image = &image
	}
	if patch.IsEmpty() {
		middleware.RespondWithError(w, http.StatusBadRequest, "no fields to update")
		return
	}

	catalog, ok := h.loadCatalog(r.Context(), w)
	if !ok {
		return
	}

	if err := catalog.Update(r.Context(), id, patch); err != nil {
		h.respondMutationFailure(w, id, err)
		return
	}

	product, _ := catalog.Find(id)
	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"product": product})
}

// RequestDelete registers the delete behind the confirmation gate and
// returns the prompt plus its one-time token. Nothing is deleted yet.
func (h *ProductHandler) RequestDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	catalog, ok := h.loadCatalog(r.Context(), w)
	if !ok {
		return
	}

	product, found := catalog.Find(id)
	if !found {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	client := h.client
	token := h.gate.Request(service.ConfirmationPrompt{
		Title:       "Delete Item",
		Message:     fmt.Sprintf("Are you sure you want to delete %q product?", product.Title),
		ActionLabel: "Yes, Remove",
		RedirectTo:  "/cart",
	}, func(ctx context.Context) error {
		return client.DeleteProduct(ctx, id)
	})

	prompt, _ := h.gate.Prompt(token)
	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"confirmToken": token,
		"prompt":       prompt,
	})
}

// ConfirmDelete resolves a pending confirmation and performs the delete.
func (h *ProductHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	var req ConfirmRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.respondBadPayload(w, err)
		return
	}

	prompt, err := h.gate.Confirm(r.Context(), req.Token)
	if err != nil {
		if errors.Is(err, service.ErrConfirmationNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "confirmation not found or already resolved")
			return
		}
		h.logger.Error("Failed to delete product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadGateway, "failed to delete product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"notice":     successNotice(msgProductDeleted),
		"redirectTo": prompt.RedirectTo,
	})
}

// CancelDelete discards a pending confirmation without deleting anything.
func (h *ProductHandler) CancelDelete(w http.ResponseWriter, r *http.Request) {
	var req ConfirmRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.respondBadPayload(w, err)
		return
	}

	if err := h.gate.Cancel(req.Token); err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "confirmation not found or already resolved")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "delete canceled"})
}

// Publish, Unpublish, Activate and Deactivate are the client-side toggle
// helpers: the opposite state is computed here and sent as a one-field
// partial update.

func (h *ProductHandler) Publish(w http.ResponseWriter, r *http.Request) {
	h.setPublished(w, r, true)
}

func (h *ProductHandler) Unpublish(w http.ResponseWriter, r *http.Request) {
	h.setPublished(w, r, false)
}

func (h *ProductHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, service.ProductStatusActive)
}

func (h *ProductHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, service.ProductStatusNotActive)
}

func (h *ProductHandler) setPublished(w http.ResponseWriter, r *http.Request, published bool) {
	id := chi.URLParam(r, "id")

	catalog, ok := h.loadCatalog(r.Context(), w)
	if !ok {
		return
	}

	if err := catalog.SetPublished(r.Context(), id, published); err != nil {
		h.respondMutationFailure(w, id, err)
		return
	}

	product, _ := catalog.Find(id)
	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"product": product})
}

func (h *ProductHandler) setStatus(w http.ResponseWriter, r *http.Request, status string) {
	id := chi.URLParam(r, "id")

	catalog, ok := h.loadCatalog(r.Context(), w)
	if !ok {
		return
	}

	if err := catalog.Update(r.Context(), id, domain.ProductPatch{Status: &status}); err != nil {
		h.respondMutationFailure(w, id, err)
		return
	}

	product, _ := catalog.Find(id)
	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"product": product})
}

// FormSchema returns the Add/Edit Product field descriptors, with the
// category options taken from the live catalog facets.
func (h *ProductHandler) FormSchema(w http.ResponseWriter, r *http.Request) {
	catalog, ok := h.loadCatalog(r.Context(), w)
	if !ok {
		return
	}

	edit := r.URL.Query().Get("mode") == "edit"
	schema := forms.ProductFormSchema(edit, catalog.Facets().Categories)
	middleware.RespondWithJSON(w, http.StatusOK, schema)
}

// prepareImage downscales and re-encodes data-URL uploads. Plain URLs
// (existing hosted images) pass through untouched.
func (h *ProductHandler) prepareImage(image string) (string, error) {
	if !strings.HasPrefix(image, "data:") {
		return image, nil
	}
	return forms.ProcessImageDataURL(image, h.maxImageDim)
}

func (h *ProductHandler) respondBadPayload(w http.ResponseWriter, err error) {
	h.logger.Debug("Request validation failed", zap.Error(err))

	if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
		middleware.RespondWithValidationErrors(w, validationErrors)
		return
	}
	middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
}

func (h *ProductHandler) respondMutationFailure(w http.ResponseWriter, id string, err error) {
	if errors.Is(err, service.ErrProductNotLoaded) {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}
	h.logger.Error("Product mutation failed", zap.String("product_id", id), zap.Error(err))
	middleware.RespondWithError(w, http.StatusBadGateway, "failed to update product")
}
