package controllers

import (
	"net/http"

	"github.com/suryakv/ecommerce-backend/api/middleware"
	"github.com/suryakv/ecommerce-backend/api/responses"
	checkoutsvc "github.com/suryakv/ecommerce-backend/internal/checkout"
	ordersrepo "github.com/suryakv/ecommerce-backend/internal/orders"
	pkgerrors "github.com/suryakv/ecommerce-backend/pkg/errors"
	"github.com/suryakv/ecommerce-backend/pkg/logger"
)

// PlaceOrder converts the caller's cart into an order.
func PlaceOrder(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		email := middleware.UserEmailFromContext(r.Context())
		if email == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		result, err := svc.PlaceOrder(r.Context(), email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// ListOrders returns the caller's order history, items included.
func ListOrders(repo *ordersrepo.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order repository unavailable"))
			return
		}

		email := middleware.UserEmailFromContext(r.Context())
		if email == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		rows, err := repo.ListForUser(r.Context(), email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders"))
			return
		}

		responses.WriteSuccess(w, ordersrepo.ToDTOs(rows))
	}
}
