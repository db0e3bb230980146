package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/shopline/orders-api/internal/catalog"
)

const maxProductNameLen = 200

type ProductCatalog interface {
	Create(ctx context.Context, p catalog.Product) (catalog.Product, error)
	List(ctx context.Context, f catalog.ListFilter) ([]catalog.Product, error)
}

type ProductsHandler struct {
	Catalog ProductCatalog
	Log     zerolog.Logger
}

type createProductReq struct {
	Name              string   `json:"name"`
	Price             float64  `json:"price"`
	Size              []string `json:"size"`
	AvailableQuantity int      `json:"available_quantity"`
}

func (h *ProductsHandler) Register(r *chi.Mux) {
	r.Post("/products", h.createProduct)
	r.Get("/products", h.listProducts)
}

func (h *ProductsHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidJSON(w)
		return
	}
	if ferrs := validateProduct(&req); len(ferrs) > 0 {
		writeFieldErrors(w, ferrs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Catalog.Create(ctx, catalog.Product{
		Name:              req.Name,
		Price:             req.Price,
		Size:              req.Size,
		AvailableQuantity: req.AvailableQuantity,
	})
	if err != nil {
		h.Log.Error().Err(err).Str("name", req.Name).Msg("product creation failed")
		writeDetail(w, http.StatusInternalServerError, "Failed to create product")
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// validateProduct normalizes in place: name trimmed, sizes trimmed and
// lowercased.
func validateProduct(req *createProductReq) []FieldError {
	var errs []FieldError

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		errs = append(errs, fieldError([]string{"body", "name"}, "Product name cannot be empty"))
	} else if len(req.Name) > maxProductNameLen {
		errs = append(errs, fieldError([]string{"body", "name"}, "ensure this value has at most 200 characters"))
	}
	if req.Price <= 0 {
		errs = append(errs, fieldError([]string{"body", "price"}, "ensure this value is greater than 0"))
	}
	for _, s := range req.Size {
		if strings.TrimSpace(s) == "" {
			errs = append(errs, fieldError([]string{"body", "size"}, "Size cannot be empty"))
			break
		}
	}
	req.Size = catalog.NormalizeSizes(req.Size)
	if req.Size == nil {
		errs = append(errs, fieldError([]string{"body", "size"}, "At least one size must be provided"))
	}
	if req.AvailableQuantity < 0 {
		errs = append(errs, fieldError([]string{"body", "available_quantity"}, "ensure this value is greater than or equal to 0"))
	}
	return errs
}

func (h *ProductsHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	limit, offset, ferrs := parsePagination(r.URL.Query())
	if len(ferrs) > 0 {
		writeFieldErrors(w, ferrs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	list, err := h.Catalog.List(ctx, catalog.ListFilter{
		Name:   r.URL.Query().Get("name"),
		Size:   r.URL.Query().Get("size"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		h.Log.Error().Err(err).Msg("product listing failed")
		writeDetail(w, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}
	if list == nil {
		list = []catalog.Product{}
	}
	writeJSON(w, http.StatusOK, list)
}
