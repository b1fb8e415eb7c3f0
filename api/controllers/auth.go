package controllers

import (
	"net/http"

	"github.com/suryakv/ecommerce-backend/api/responses"
	"github.com/suryakv/ecommerce-backend/api/validators"
	authsvc "github.com/suryakv/ecommerce-backend/internal/auth"
	pkgerrors "github.com/suryakv/ecommerce-backend/pkg/errors"
	"github.com/suryakv/ecommerce-backend/pkg/logger"
)

type loginRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role,omitempty" validate:"omitempty,oneof=customer admin"`
}

// Login exchanges an email (auto-registering it on first sight) for a token.
func Login(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), authsvc.LoginInput{
			Email: payload.Email,
			Role:  payload.Role,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
