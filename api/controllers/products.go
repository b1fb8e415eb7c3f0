package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/suryakv/ecommerce-backend/api/responses"
	"github.com/suryakv/ecommerce-backend/api/validators"
	productsvc "github.com/suryakv/ecommerce-backend/internal/products"
	pkgerrors "github.com/suryakv/ecommerce-backend/pkg/errors"
	"github.com/suryakv/ecommerce-backend/pkg/logger"
)

// ListProducts serves the catalog, optionally filtered and sorted.
func ListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		sort := r.URL.Query().Get("sort")
		switch sort {
		case "", "price_asc", "price_desc":
		default:
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "sort must be price_asc or price_desc"))
			return
		}

		listed, err := svc.ListProducts(r.Context(), productsvc.ListFilters{
			Category: r.URL.Query().Get("category"),
			Sort:     sort,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, listed)
	}
}

// GetProduct serves a single catalog row.
func GetProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := strconv.ParseInt(chi.URLParam(r, "productId"), 10, 64)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

type createProductRequest struct {
	Name          string          `json:"name" validate:"required"`
	Price         decimal.Decimal `json:"price" validate:"required"`
	StockQuantity int             `json:"stock_quantity" validate:"min=0"`
	Category      string          `json:"category,omitempty"`
}

// CreateProduct inserts a catalog row.
func CreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.CreateProduct(r.Context(), productsvc.CreateProductInput{
			Name:          payload.Name,
			Price:         payload.Price,
			StockQuantity: payload.StockQuantity,
			Category:      payload.Category,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}
